package eval

import (
	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/env"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/value"
)

func litToVal(lit ir.Lit) value.Value {
	switch lit.Kind {
	case ir.LitBigInt:
		return value.NewBigInt(lit.BigInt)
	case ir.LitBool:
		return value.Bool(lit.Bool)
	case ir.LitDouble:
		return value.Double(lit.Double)
	case ir.LitInt:
		return value.Int(lit.Int)
	case ir.LitPauli:
		return value.PauliValue{P: value.Pauli(lit.Pauli)}
	case ir.LitResult:
		if lit.IsOne {
			return value.ResultOneValue
		}
		return value.ResultZeroValue
	default:
		return value.UnitValue
	}
}

// localVarOf reads the LocalVarId a `set` target names directly from the IR,
// without evaluating it as an expression: assignment targets are always a
// bare local-variable reference at the surface-syntax level (tuple targets
// like `set (x, y) = ...` lower to nested ExprAssign per element, not a
// single compound target), so the lhs never needs to go through contExprNode.
func (s *State) localVarOf(id ids.ExprId) ids.LocalVarId {
	return s.pkgExpr(id).Var.Local
}

// storeItemOf resolves a lowered Res's item reference to the package it
// actually lives in: an explicit Package pointer means a cross-package
// reference, nil means "this package" (the common case).
func (s *State) storeItemOf(item ids.ItemId) ids.StoreItemId {
	pkg := s.currentPackage
	if item.Package != nil {
		pkg = *item.Package
	}
	return ids.StoreItemId{Package: pkg, Item: item.Item}
}

// resolveBinding looks up a lowered name reference:
// a local yields whatever value is currently bound, an item yields a fresh
// Global reference with identity functor application.
func (s *State) resolveBinding(res ir.Res, span ids.PackageSpan) (value.Value, error) {
	if res.IsLocal {
		v, ok := s.Env.Get(res.Local)
		if !ok {
			return nil, diagnostic.UnboundName(span)
		}
		return v.Value, nil
	}
	if _, ok := s.Store.GetGlobal(s.storeItemOf(res.Item)); !ok {
		return nil, diagnostic.UnboundName(span)
	}
	return value.Global{Item: s.storeItemOf(res.Item)}, nil
}

// shareIfArray marks val shared before it becomes a second owner of an
// existing Array's backing buffer — a new binding, a call argument, a
// closure capture — mirroring the strong/weak refcount bump the
// reference-counted original applies on every new owner of a value.
func shareIfArray(val value.Value) value.Value {
	if arr, ok := val.(value.Array); ok {
		return arr.Share()
	}
	return val
}

// bindValue introduces fresh bindings for every name in pat, matching val
// structurally against PatTuple.
func (s *State) bindValue(pat *ir.Pat, val value.Value, mutable bool) {
	switch pat.Kind {
	case ir.PatDiscard:
		return
	case ir.PatBind:
		m := env.Immutable
		if mutable {
			m = env.Mutable
		}
		s.Env.Bind(pat.Bind.ID, &env.Variable{Name: pat.Bind.Name, Value: shareIfArray(val), Mutability: m, Span: pat.Bind.Span})
	case ir.PatTuple:
		tup, ok := val.(value.Tuple)
		if !ok {
			return
		}
		for i, itemID := range pat.Items {
			s.bindValue(s.pkgPat(itemID), tup.Items[i], mutable)
		}
	}
}

// rangeBounds resolves the concrete (start, step, end) triple a Range
// produces once bound to an array of the given length, applying the
// default-direction rule: a positive step defaults to [0, len-1], a
// negative step defaults to [len-1, 0].
func rangeBounds(r value.Range, length int, span ids.PackageSpan) (start, step, end int64, err error) {
	if r.Step == 0 {
		return 0, 0, 0, diagnostic.RangeStepZero(span)
	}
	step = r.Step
	if r.Start != nil {
		start = *r.Start
	} else if step > 0 {
		start = 0
	} else {
		start = int64(length) - 1
	}
	if r.End != nil {
		end = *r.End
	} else if step > 0 {
		end = int64(length) - 1
	} else {
		end = 0
	}
	return start, step, end, nil
}

func indexArray(arr value.Array, idx int64, span ids.PackageSpan) (value.Value, error) {
	if idx < 0 {
		return nil, diagnostic.InvalidIndex(idx, span)
	}
	items := arr.PeekItems()
	if idx >= int64(len(items)) {
		return nil, diagnostic.IndexOutOfRange(idx, span)
	}
	return items[idx], nil
}

func sliceArray(arr value.Array, r value.Range, span ids.PackageSpan) (value.Array, error) {
	start, step, end, err := rangeBounds(r, arr.Len(), span)
	if err != nil {
		return value.Array{}, err
	}
	var out []value.Value
	if step > 0 {
		for i := start; i <= end; i += step {
			v, err := indexArray(arr, i, span)
			if err != nil {
				return value.Array{}, err
			}
			out = append(out, v)
		}
	} else {
		for i := start; i >= end; i += step {
			v, err := indexArray(arr, i, span)
			if err != nil {
				return value.Array{}, err
			}
			out = append(out, v)
		}
	}
	return value.NewArray(out), nil
}

// evalClosureLiteral captures the current value of every free variable the
// lowering pass recorded for this closure, in order, ahead of the
// constructed Closure's item reference.
func (s *State) evalClosureLiteral(e *ir.Expr) error {
	captured := make([]value.Value, 0, len(e.ClosureArgs))
	for _, localID := range e.ClosureArgs {
		v, ok := s.Env.Get(localID)
		if !ok {
			return diagnostic.UnboundName(s.span(e.Span))
		}
		captured = append(captured, shareIfArray(v.Value))
	}
	s.pushVal(value.Closure{
		Captured: captured,
		Item:     ids.StoreItemId{Package: s.currentPackage, Item: e.ClosureCallable},
	})
	return nil
}
