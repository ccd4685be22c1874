package eval

import (
	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/value"
)

// Eval drives the continuation stack to completion for one top-level
// expression: push one ContExpr and keep popping until the stack runs
// dry, dispatching each popped continuation to the handler its Kind names.
// A State is safe to call Eval on repeatedly (a REPL line at a time), since
// nothing here depends on state left over from a prior call beyond the
// persistent environment the caller deliberately keeps around.
func (s *State) Eval(pkg ids.PackageId, entry ids.ExprId) (value.Value, error) {
	s.Prime(pkg, entry)

	return s.run()
}

// Prime seeds a fresh State for a new top-level evaluation: it sets the
// active package and pushes one continuation for entry. Eval calls this
// itself; a debugger driving Step directly must call it once before the
// first Step, the same way Eval's first line used to before Step existed.
func (s *State) Prime(pkg ids.PackageId, entry ids.ExprId) {
	s.currentPackage = pkg
	s.pushCont(contExpr(entry))
}

func (s *State) run() (value.Value, error) {
	for {
		c, ok := s.popCont()
		if !ok {
			break
		}
		if err := s.runCont(c); err != nil {
			traced := s.attachTrace(err)
			s.contStack, s.vals, s.callStack = nil, nil, nil
			for s.Env.Depth() > 1 {
				s.Env.LeaveScope()
			}
			return nil, traced
		}
	}

	if len(s.vals) == 0 {
		return value.UnitValue, nil
	}
	return s.popVal(), nil
}

// runCont dispatches one popped continuation to its handler. Shared between
// Eval's run-to-completion loop and Step's run-until-visible-statement loop.
func (s *State) runCont(c Cont) error {
	switch c.Kind {
	case ContExpr:
		return s.contExprNode(c.Expr)
	case ContStmt:
		return s.contStmtNode(c.Stmt)
	case ContAction:
		return s.runAction(c.Action)
	case ContScope:
		s.Env.LeaveScope()
		return nil
	case ContFrame:
		s.leaveFrame()
		return nil
	default:
		return nil
	}
}

// attachTrace snapshots the call stack onto an EvalError as it leaves Eval;
// any other error type (there is none yet, but nothing here assumes that
// stays true) passes through unchanged.
func (s *State) attachTrace(err error) error {
	if ee, ok := err.(*diagnostic.EvalError); ok {
		frames := s.stackTrace()
		if n := len(frames); n > 0 {
			frames[n-1].Span = ee.Span
			if ee.Span == (ids.PackageSpan{}) {
				frames[n-1].Span = s.currentSpan
			}
		}
		ee = ee.WithFrames(frames)
		s.logError("eval failed", map[string]interface{}{"code": ee.Code, "span": ee.Span.Span})
		return ee
	}
	s.logError("eval failed", map[string]interface{}{"error": err.Error()})
	return err
}
