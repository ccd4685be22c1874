package eval

import (
	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/value"
)

// binOpValue implements every BinOp on two already-evaluated operands. In an
// ordinary && / || expression the continuation engine short-circuits before
// reaching here; the BinAndL/BinOrL cases serve compound assignment, where
// both sides are already evaluated. Add already covers Array
// concatenation and String concatenation; everything else here just
// forwards to pkg/value's scalar arithmetic.
func binOpValue(op ir.BinOp, lhs, rhs value.Value, span ids.PackageSpan) (value.Value, error) {
	switch op {
	case ir.BinAdd:
		return value.Add(lhs, rhs, span)
	case ir.BinSub:
		return value.Sub(lhs, rhs, span)
	case ir.BinMul:
		return value.Mul(lhs, rhs, span)
	case ir.BinDiv:
		return value.Div(lhs, rhs, span)
	case ir.BinMod:
		return value.Mod(lhs, rhs, span)
	case ir.BinExp:
		return value.Exp(lhs, rhs, span)
	case ir.BinAndB:
		return value.AndB(lhs, rhs, span)
	case ir.BinOrB:
		return value.OrB(lhs, rhs, span)
	case ir.BinXorB:
		return value.XorB(lhs, rhs, span)
	case ir.BinShl:
		return value.Shl(lhs, rhs, span)
	case ir.BinShr:
		return value.Shr(lhs, rhs, span)
	case ir.BinEq:
		return value.Bool(value.Equal(lhs, rhs)), nil
	case ir.BinNeq:
		return value.Bool(!value.Equal(lhs, rhs)), nil
	case ir.BinLt:
		return value.Lt(lhs, rhs, span)
	case ir.BinLte:
		return value.Lte(lhs, rhs, span)
	case ir.BinGt:
		return value.Gt(lhs, rhs, span)
	case ir.BinGte:
		return value.Gte(lhs, rhs, span)
	case ir.BinAndL:
		l, lok := lhs.(value.Bool)
		r, rok := rhs.(value.Bool)
		if !lok || !rok {
			return nil, diagnostic.TypeMismatch("and", span)
		}
		return value.Bool(bool(l) && bool(r)), nil
	case ir.BinOrL:
		l, lok := lhs.(value.Bool)
		r, rok := rhs.(value.Bool)
		if !lok || !rok {
			return nil, diagnostic.TypeMismatch("or", span)
		}
		return value.Bool(bool(l) || bool(r)), nil
	default:
		return nil, diagnostic.TypeMismatch("binary operator", span)
	}
}
