package eval

import (
	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/value"
)

func (s *State) pkgExpr(id ids.ExprId) *ir.Expr {
	return s.Store.GetExpr(ids.PackageExpr{Package: s.currentPackage, Expr: id})
}

func (s *State) pkgStmt(id ids.StmtId) *ir.Stmt {
	return s.Store.GetStmt(ids.PackageStmt{Package: s.currentPackage, Stmt: id})
}

func (s *State) pkgBlock(id ids.BlockId) *ir.Block {
	return s.Store.GetBlock(ids.PackageBlock{Package: s.currentPackage, Block: id})
}

func (s *State) pkgPat(id ids.PatId) *ir.Pat {
	return s.Store.GetPat(ids.PackagePat{Package: s.currentPackage, Pat: id})
}

func (s *State) span(sp ids.Span) ids.PackageSpan {
	return ids.PackageSpan{Package: s.currentPackage, Span: sp}
}

// contExprNode schedules evaluation of one expression: either it
// produces a value directly (literals, variable references, holes) or it
// schedules its children followed by the Action that combines their
// results. Children are pushed in reverse evaluation order so the
// continuation stack (LIFO) pops the first-evaluated child first.
func (s *State) contExprNode(id ids.ExprId) error {
	e := s.pkgExpr(id)
	s.currentSpan = s.span(e.Span)

	switch e.Kind {
	case ir.ExprLit:
		s.pushVal(litToVal(e.Lit))
		return nil

	case ir.ExprHole:
		s.pushVal(value.UnitValue)
		return nil

	case ir.ExprVar:
		v, err := s.resolveBinding(e.Var, s.span(e.Span))
		if err != nil {
			return err
		}
		s.pushVal(v)
		return nil

	case ir.ExprTuple:
		return s.scheduleList(e.Items, Action{Kind: ActTuple, Span: s.span(e.Span), Count: len(e.Items)})

	case ir.ExprArray:
		return s.scheduleList(e.Items, Action{Kind: ActArray, Span: s.span(e.Span), Count: len(e.Items)})

	case ir.ExprArrayRepeat:
		act := Action{Kind: ActArrayRepeat, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.RepeatSize))
		s.pushCont(contExpr(e.RepeatItem))
		return nil

	case ir.ExprString:
		var exprs []ids.ExprId
		for _, part := range e.StringParts {
			if part.IsExpr {
				exprs = append(exprs, part.Expr)
			}
		}
		return s.scheduleList(exprs, Action{Kind: ActStringConcat, Span: s.span(e.Span), StringParts: e.StringParts})

	case ir.ExprBinOp:
		return s.contBinOp(e)

	case ir.ExprUnOp:
		act := Action{Kind: ActUnOp, UnOp: e.UnOp, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.Value))
		return nil

	case ir.ExprIf:
		act := Action{Kind: ActIf, Then: e.Then, Else: e.Else, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.Cond))
		return nil

	case ir.ExprWhile:
		return s.contWhile(e)

	case ir.ExprBlock:
		return s.contBlockExpr(e.Block)

	case ir.ExprRange:
		return s.contRange(e)

	case ir.ExprIndex:
		act := Action{Kind: ActIndex, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.IndexIndex))
		s.pushCont(contExpr(e.IndexArray))
		return nil

	case ir.ExprUpdateIndex:
		act := Action{Kind: ActUpdateIndex, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.IndexValue))
		s.pushCont(contExpr(e.IndexIndex))
		s.pushCont(contExpr(e.IndexArray))
		return nil

	case ir.ExprField:
		act := Action{Kind: ActField, Field: e.FieldOf, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.FieldRecord))
		return nil

	case ir.ExprUpdateField:
		act := Action{Kind: ActUpdateField, Field: e.FieldOf, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.UpdateValue))
		s.pushCont(contExpr(e.FieldRecord))
		return nil

	case ir.ExprTernUpdate:
		field := ir.Field{}
		if e.TernIsField {
			field = e.TernField
		}
		act := Action{Kind: ActUpdateField, Field: field, Span: s.span(e.Span)}
		if !e.TernIsField {
			act.Kind = ActUpdateIndex
		}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.TernValue))
		if !e.TernIsField {
			s.pushCont(contExpr(e.TernIndex))
		}
		s.pushCont(contExpr(e.TernRecord))
		return nil

	case ir.ExprAssign:
		// `set x = rhs`: the target is always a bare local reference, so it's
		// resolved straight from the IR rather than evaluated.
		act := Action{Kind: ActUpdateBinding, Local: s.localVarOf(e.AssignLhs), Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.AssignRhs))
		return nil

	case ir.ExprAssignOp:
		return s.contAssignOp(e)

	case ir.ExprAssignIndex:
		act := Action{Kind: ActUpdateIndexInPlace, Local: s.localVarOf(e.AssignLhs), Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.AssignRhs))
		s.pushCont(contExpr(e.AssignIndex))
		return nil

	case ir.ExprAssignField:
		// Two chained actions: first compute the functionally-updated value
		// from the field's current contents, then rebind the target name to
		// it — ActUpdateField never touches the environment itself.
		updateAct := Action{Kind: ActUpdateField, Field: e.AssignField, Span: s.span(e.Span)}
		rebindAct := Action{Kind: ActUpdateBinding, Local: s.localVarOf(e.AssignLhs), Span: s.span(e.Span)}
		s.pushCont(contAction(rebindAct))
		s.pushCont(contAction(updateAct))
		s.pushCont(contExpr(e.AssignRhs))
		s.pushCont(contExpr(e.AssignLhs))
		return nil

	case ir.ExprCall:
		act := Action{Kind: ActCall, CallSpan: e.CallSpan, ArgSpan: e.ArgSpan, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.Args))
		s.pushCont(contExpr(e.Callee))
		return nil

	case ir.ExprClosure:
		return s.evalClosureLiteral(e)

	case ir.ExprFail:
		act := Action{Kind: ActConsume, IsFail: true, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.FailMessage))
		return nil

	case ir.ExprReturn:
		act := Action{Kind: ActReturn, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.ReturnValue))
		return nil

	default:
		return diagnostic.UnsupportedIntrinsicType("expr", s.span(e.Span))
	}
}

// scheduleList pushes each item expression followed by a combining action,
// reversed so items evaluate left to right.
func (s *State) scheduleList(items []ids.ExprId, act Action) error {
	s.pushCont(contAction(act))
	for i := len(items) - 1; i >= 0; i-- {
		s.pushCont(contExpr(items[i]))
	}
	return nil
}

// contBlockExpr schedules a block's statements in source order, discarding
// every statement's value except the last, which becomes the block's own
// value. contScope is pushed first (so it pops last) to leave the env scope
// once every statement has run.
func (s *State) contBlockExpr(id ids.BlockId) error {
	block := s.pkgBlock(id)
	s.Env.PushScope(s.CallDepth())
	s.pushCont(contScope())
	if len(block.Stmts) == 0 {
		s.pushVal(value.UnitValue)
		return nil
	}
	last := len(block.Stmts) - 1
	for i := last; i >= 0; i-- {
		if i != last {
			s.pushCont(contAction(Action{Kind: ActConsume, Span: s.span(block.Span)}))
		}
		s.pushCont(contStmt(block.Stmts[i]))
	}
	return nil
}

func (s *State) contStmtNode(id ids.StmtId) error {
	stmt := s.pkgStmt(id)
	switch stmt.Kind {
	case ir.StmtExpr:
		return s.contExprNode(stmt.Expr)
	case ir.StmtSemi:
		// A semicolon-terminated statement always contributes Unit to the
		// enclosing block, regardless of what its expression evaluates to.
		s.pushCont(contAction(Action{Kind: ActConsume, Void: true, Span: s.span(stmt.Span)}))
		return s.contExprNode(stmt.Expr)
	case ir.StmtLocal:
		act := Action{Kind: ActBind, Pat: stmt.Pat, Mutable: stmt.Mutability == ir.LocalMutable, Span: s.span(stmt.Span)}
		s.pushCont(contAction(act))
		return s.contExprNode(stmt.Value)
	case ir.StmtItem:
		s.pushVal(value.UnitValue)
		return nil
	default:
		return diagnostic.UnsupportedIntrinsicType("stmt", s.span(stmt.Span))
	}
}

// contRange schedules only the bounds the range literal actually wrote:
// an omitted bound contributes nothing to the value stack at all,
// rather than a placeholder, so runRange's pop count always matches exactly
// what was pushed regardless of which bounds are present.
func (s *State) contRange(e *ir.Expr) error {
	act := Action{
		Kind:     ActRange,
		Span:     s.span(e.Span),
		HasStart: e.RangeStart != nil,
		HasStep:  e.RangeStep != nil,
		HasEnd:   e.RangeEnd != nil,
	}
	s.pushCont(contAction(act))
	if e.RangeEnd != nil {
		s.pushCont(contExpr(*e.RangeEnd))
	}
	if e.RangeStep != nil {
		s.pushCont(contExpr(*e.RangeStep))
	}
	if e.RangeStart != nil {
		s.pushCont(contExpr(*e.RangeStart))
	}
	return nil
}

func (s *State) contBinOp(e *ir.Expr) error {
	// && and || short-circuit: whether rhs is evaluated at all is decided
	// inside runAction once lhs's value is known, not here — the Action
	// carries the unevaluated Rhs expr id for that decision.
	if e.Op == ir.BinAndL || e.Op == ir.BinOrL {
		act := Action{Kind: ActBinOp, BinOp: e.Op, Rhs: e.Rhs, Span: s.span(e.Span)}
		s.pushCont(contAction(act))
		s.pushCont(contExpr(e.Lhs))
		return nil
	}
	act := Action{Kind: ActBinOp, BinOp: e.Op, Span: s.span(e.Span)}
	s.pushCont(contAction(act))
	s.pushCont(contExpr(e.Rhs))
	s.pushCont(contExpr(e.Lhs))
	return nil
}

func (s *State) contWhile(e *ir.Expr) error {
	act := Action{Kind: ActWhile, Cond: e.Cond, BodyBlock: s.blockIDOf(e.Then), Span: s.span(e.Span)}
	s.pushCont(contAction(act))
	s.pushCont(contExpr(e.Cond))
	return nil
}

// blockIDOf extracts the BlockId backing a Block-kind expression, the shape
// a while-loop body is always lowered to.
func (s *State) blockIDOf(id ids.ExprId) ids.BlockId {
	return s.pkgExpr(id).Block
}

// contAssignOp handles `set x op= rhs`: a single ActArrayAppendInPlace
// action reads x's current value straight from the environment (by Local),
// combines it with the evaluated rhs via op, and rebinds x — runCompoundAssign
// decides at runtime whether that's an in-place array append or a plain
// binOpValue-and-rebind, since the evaluator has no static type to branch on
// ahead of time.
func (s *State) contAssignOp(e *ir.Expr) error {
	act := Action{Kind: ActArrayAppendInPlace, Local: s.localVarOf(e.AssignLhs), BinOp: e.AssignOp, Span: s.span(e.Span)}
	s.pushCont(contAction(act))
	s.pushCont(contExpr(e.AssignRhs))
	return nil
}
