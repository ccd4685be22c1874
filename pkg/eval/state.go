// Package eval implements a continuation-stack-driven evaluator: a
// non-recursive Eval loop that walks lowered IR by pushing and popping
// explicit continuations instead of using host-Go recursion, so call depth
// and debugger stepping are driven entirely by State's own stacks.
//
// The dispatch-by-Kind-tag style (one switch per node Kind, one function per
// variant) is grounded on pkg/interpreter.Evaluator; the continuation-stack
// architecture itself replaces that evaluator's host recursion, since this
// evaluator must be able to pause, resume, and report debugger frames
// without unwinding the Go call stack.
package eval

import (
	"math/rand"
	"sync"

	"github.com/qcore-lang/qcore/pkg/backend"
	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/env"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/logging"
	"github.com/qcore-lang/qcore/pkg/value"
)

// Frame is one active call on the evaluator's own call stack, distinct from
// env's scope stack: it records what to report in a diagnostic.StackTrace
// if an error unwinds through it.
type Frame struct {
	Item    ids.StoreItemId
	Functor ids.FunctorApp
	Span    ids.PackageSpan
	depth   int // env.Depth() at the moment this frame was pushed
}

// State is the evaluator's entire mutable machine state: the
// continuation stack (pending actions ride on it as ContAction entries), the
// value stack, the call stack, and the collaborators an intrinsic call may
// need. A State is
// reusable across many top-level Eval calls (e.g. one per REPL line), which
// is why the RNG is seeded once here rather than per call.
type State struct {
	Store backend.PackageStoreLookup
	Back  backend.Backend
	Out   backend.Receiver

	Env *env.Env

	rngMu sync.Mutex
	rng   *rand.Rand

	contStack []Cont
	vals      []value.Value
	callStack []Frame

	currentSpan    ids.PackageSpan
	currentPackage ids.PackageId

	log *logging.ContextLogger
}

// NewState builds a fresh evaluator over one package store, wired to a
// Backend and Receiver, seeded with the given RNG seed for reproducibility.
// The returned State logs nothing until WithLogger attaches a run-scoped
// logger.
func NewState(store backend.PackageStoreLookup, be backend.Backend, out backend.Receiver, seed int64) *State {
	return &State{
		Store: store,
		Back:  be,
		Out:   out,
		Env:   env.New(),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// WithLogger attaches a run-scoped logger and returns s for chaining. Step
// yields are logged at Debug, eval failures at Error; nil is a valid,
// no-op logger so callers that don't care about logging never check it.
func (s *State) WithLogger(log *logging.ContextLogger) *State {
	s.log = log
	return s
}

// withRng runs f with the shared RNG while holding its mutex, since a
// Backend's DrawRandomInt/DrawRandomDouble may be invoked from intrinsic
// dispatch while another goroutine (a debugger UI) is also live against this
// State.
func (s *State) withRng(f func(*rand.Rand)) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	f(s.rng)
}

func (s *State) pushVal(v value.Value) { s.vals = append(s.vals, v) }

func (s *State) popVal() value.Value {
	n := len(s.vals)
	v := s.vals[n-1]
	s.vals = s.vals[:n-1]
	return v
}

func (s *State) pushCont(c Cont) { s.contStack = append(s.contStack, c) }

func (s *State) popCont() (Cont, bool) {
	n := len(s.contStack)
	if n == 0 {
		return Cont{}, false
	}
	c := s.contStack[n-1]
	s.contStack = s.contStack[:n-1]
	return c, true
}

func (s *State) pushFrame(f Frame) {
	f.depth = s.Env.Depth()
	s.callStack = append(s.callStack, f)
}

func (s *State) leaveFrame() {
	s.callStack = s.callStack[:len(s.callStack)-1]
}

// CallDepth reports how many calls are currently on the stack, the quantity
// StepOut and StepNext compare against the starting depth to detect whether
// control descended into or returned out of a callable.
func (s *State) CallDepth() int { return len(s.callStack) }

// stackTrace snapshots the call stack oldest-first for attaching to an
// error as it propagates out of Eval.
func (s *State) stackTrace() diagnostic.StackTrace {
	out := make(diagnostic.StackTrace, len(s.callStack))
	for i, f := range s.callStack {
		out[i] = diagnostic.Frame{Span: f.Span, Item: f.Item, CallerPackage: s.currentPackage, Functor: f.Functor}
	}
	return out
}

func (s *State) logDebug(msg string, fields map[string]interface{}) {
	if s.log != nil {
		s.log.WithFields(fields).Debug(msg)
	}
}

func (s *State) logError(msg string, fields map[string]interface{}) {
	if s.log != nil {
		s.log.WithFields(fields).Error(msg)
	}
}
