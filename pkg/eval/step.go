package eval

import "github.com/qcore-lang/qcore/pkg/ids"

// StepAction is the granularity a debugger UI requests for the next
// resumption of a paused Eval.
type StepAction int

const (
	// StepIn stops at the next visible statement, regardless of call depth
	// — including one reached by descending into a callable.
	StepIn StepAction = iota
	// StepOut runs until control returns above the depth stepping began at.
	StepOut
	// StepNext stops at the next visible statement at or above the starting
	// depth, skipping over whatever a nested call does.
	StepNext
	// StepContinue runs to completion.
	StepContinue
)

// StepResult reports where a Step call paused, or that it ran to
// completion.
type StepResult struct {
	Done  bool
	Span  ids.PackageSpan
	Depth int
}

// Step resumes a paused (or fresh) continuation stack and runs it until
// either it empties out (Done) or it's about to execute the next visible
// statement satisfying action relative to startDepth, the CallDepth()
// captured once before stepping began. A statement whose span is empty is
// compiler-generated and is never a stopping point, the same way a
// source-level debugger skips desugared code. The statement Step stops at is
// scheduled before Step returns, so the next Step call continues into it
// rather than stopping at it again.
func (s *State) Step(action StepAction, startDepth int) (*StepResult, error) {
	for {
		c, ok := s.popCont()
		if !ok {
			return &StepResult{Done: true}, nil
		}
		if c.Kind == ContStmt {
			stmt := s.pkgStmt(c.Stmt)
			if !stmt.Span.Empty() && s.stepShouldStop(action, startDepth) {
				if err := s.runCont(c); err != nil {
					return nil, s.attachTrace(err)
				}
				result := &StepResult{Span: s.span(stmt.Span), Depth: s.CallDepth()}
				s.logDebug("step yield", map[string]interface{}{"span": result.Span.Span, "depth": result.Depth})
				return result, nil
			}
		}
		if err := s.runCont(c); err != nil {
			return nil, s.attachTrace(err)
		}
	}
}

func (s *State) stepShouldStop(action StepAction, startDepth int) bool {
	switch action {
	case StepContinue:
		return false
	case StepIn:
		return true
	case StepOut:
		return s.CallDepth() < startDepth
	case StepNext:
		return s.CallDepth() <= startDepth
	default:
		return true
	}
}
