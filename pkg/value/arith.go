package value

import (
	"math"
	"math/big"

	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/ids"
)

// Add implements addition across the numeric and collection kinds: Int
// wraps, BigInt/Double are exact/IEEE, String and Array concatenate.
func Add(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		return Int(uint64(l) + uint64(rhs.(Int))), nil
	case BigInt:
		return NewBigInt(new(big.Int).Add(l.V, rhs.(BigInt).V)), nil
	case Double:
		return Double(float64(l) + float64(rhs.(Double))), nil
	case String:
		return l + rhs.(String), nil
	case Array:
		out := append(append([]Value{}, l.PeekItems()...), rhs.(Array).PeekItems()...)
		return NewArray(out), nil
	default:
		return nil, typeMismatch("Add", span)
	}
}

func Sub(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		return Int(uint64(l) - uint64(rhs.(Int))), nil
	case BigInt:
		return NewBigInt(new(big.Int).Sub(l.V, rhs.(BigInt).V)), nil
	case Double:
		return Double(float64(l) - float64(rhs.(Double))), nil
	default:
		return nil, typeMismatch("Sub", span)
	}
}

func Mul(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		return Int(uint64(l) * uint64(rhs.(Int))), nil
	case BigInt:
		return NewBigInt(new(big.Int).Mul(l.V, rhs.(BigInt).V)), nil
	case Double:
		return Double(float64(l) * float64(rhs.(Double))), nil
	default:
		return nil, typeMismatch("Mul", span)
	}
}

func Div(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		r := rhs.(Int)
		if r == 0 {
			return nil, diagnostic.DivZero(span)
		}
		return l / r, nil
	case BigInt:
		r := rhs.(BigInt)
		if r.V.Sign() == 0 {
			return nil, diagnostic.DivZero(span)
		}
		return NewBigInt(new(big.Int).Quo(l.V, r.V)), nil
	case Double:
		return Double(float64(l) / float64(rhs.(Double))), nil
	default:
		return nil, typeMismatch("Div", span)
	}
}

func Mod(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		r := rhs.(Int)
		if r == 0 {
			return nil, diagnostic.DivZero(span)
		}
		return l % r, nil
	case BigInt:
		r := rhs.(BigInt)
		if r.V.Sign() == 0 {
			return nil, diagnostic.DivZero(span)
		}
		return NewBigInt(new(big.Int).Rem(l.V, r.V)), nil
	case Double:
		return Double(math.Mod(float64(l), float64(rhs.(Double)))), nil
	default:
		return nil, typeMismatch("Mod", span)
	}
}

func Exp(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		r := rhs.(Int)
		if r < 0 {
			return nil, diagnostic.InvalidNegativeInt(int64(r), span)
		}
		if r > math.MaxUint32 {
			return nil, diagnostic.IntTooLarge(span)
		}
		result := new(big.Int).Exp(big.NewInt(int64(l)), big.NewInt(int64(r)), nil)
		if !result.IsInt64() {
			return nil, diagnostic.IntTooLarge(span)
		}
		return Int(result.Int64()), nil
	case BigInt:
		r := rhs.(Int)
		if r < 0 {
			return nil, diagnostic.InvalidNegativeInt(int64(r), span)
		}
		if r > math.MaxUint32 {
			return nil, diagnostic.IntTooLarge(span)
		}
		return NewBigInt(new(big.Int).Exp(l.V, big.NewInt(int64(r)), nil)), nil
	case Double:
		return Double(math.Pow(float64(l), float64(rhs.(Double)))), nil
	default:
		return nil, typeMismatch("Exp", span)
	}
}

// shiftAmount resolves the checked-shift rule common to Shl/Shr: a negative
// count shifts the opposite direction by its absolute value; a count that
// would shift all bits out (>= 64 for Int) is IntTooLarge.
func shiftAmount(rhs Int, span ids.PackageSpan) (amount uint, flip bool, err error) {
	n := int64(rhs)
	if n < 0 {
		n = -n
		flip = true
	}
	if n >= 64 {
		return 0, false, diagnostic.IntTooLarge(span)
	}
	return uint(n), flip, nil
}

func Shl(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		amt, flip, err := shiftAmount(rhs.(Int), span)
		if err != nil {
			return nil, err
		}
		if flip {
			return Int(uint64(l) >> amt), nil
		}
		return Int(uint64(l) << amt), nil
	case BigInt:
		r := int64(rhs.(Int))
		if r < 0 {
			return NewBigInt(new(big.Int).Rsh(l.V, uint(-r))), nil
		}
		return NewBigInt(new(big.Int).Lsh(l.V, uint(r))), nil
	default:
		return nil, typeMismatch("Shl", span)
	}
}

func Shr(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		amt, flip, err := shiftAmount(rhs.(Int), span)
		if err != nil {
			return nil, err
		}
		if flip {
			return Int(uint64(l) << amt), nil
		}
		return Int(uint64(l) >> amt), nil
	case BigInt:
		r := int64(rhs.(Int))
		if r < 0 {
			return NewBigInt(new(big.Int).Lsh(l.V, uint(-r))), nil
		}
		return NewBigInt(new(big.Int).Rsh(l.V, uint(r))), nil
	default:
		return nil, typeMismatch("Shr", span)
	}
}

func AndB(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		return l & rhs.(Int), nil
	case BigInt:
		return NewBigInt(new(big.Int).And(l.V, rhs.(BigInt).V)), nil
	default:
		return nil, typeMismatch("AndB", span)
	}
}

func OrB(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		return l | rhs.(Int), nil
	case BigInt:
		return NewBigInt(new(big.Int).Or(l.V, rhs.(BigInt).V)), nil
	default:
		return nil, typeMismatch("OrB", span)
	}
}

func XorB(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	switch l := lhs.(type) {
	case Int:
		return l ^ rhs.(Int), nil
	case BigInt:
		return NewBigInt(new(big.Int).Xor(l.V, rhs.(BigInt).V)), nil
	default:
		return nil, typeMismatch("XorB", span)
	}
}

func cmp(lhs, rhs Value, span ids.PackageSpan) (int, error) {
	switch l := lhs.(type) {
	case Int:
		r := rhs.(Int)
		switch {
		case l < r:
			return -1, nil
		case l > r:
			return 1, nil
		default:
			return 0, nil
		}
	case BigInt:
		return l.V.Cmp(rhs.(BigInt).V), nil
	case Double:
		r := float64(rhs.(Double))
		lf := float64(l)
		switch {
		case lf < r:
			return -1, nil
		case lf > r:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, typeMismatch("compare", span)
	}
}

func Lt(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	c, err := cmp(lhs, rhs, span)
	return Bool(c < 0), err
}

func Lte(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	c, err := cmp(lhs, rhs, span)
	return Bool(c <= 0), err
}

func Gt(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	c, err := cmp(lhs, rhs, span)
	return Bool(c > 0), err
}

func Gte(lhs, rhs Value, span ids.PackageSpan) (Value, error) {
	c, err := cmp(lhs, rhs, span)
	return Bool(c >= 0), err
}
