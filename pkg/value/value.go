// Package value implements the evaluator's tagged value model:
// Unit/Bool/Int/BigInt/Double/String/Pauli/Result/Qubit/Range/Array/Tuple/
// Global/Closure, plus the arithmetic, comparison, and functor-composition
// operations the action evaluator drives.
//
// Grounded on the shape of pkg/vm.Value (an interface with one
// concrete type per variant), generalized from GlyphLang's four scalar/two
// composite variants to the full quantum-language value set.
package value

import (
	"math/big"

	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/ids"
)

// Kind discriminates the Value variants.
type Kind int

const (
	KindUnit Kind = iota
	KindBool
	KindInt
	KindBigInt
	KindDouble
	KindString
	KindPauli
	KindResult
	KindQubit
	KindRange
	KindArray
	KindTuple
	KindGlobal
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindBigInt:
		return "BigInt"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindPauli:
		return "Pauli"
	case KindResult:
		return "Result"
	case KindQubit:
		return "Qubit"
	case KindRange:
		return "Range"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindGlobal:
		return "Global"
	case KindClosure:
		return "Closure"
	default:
		return "Unknown"
	}
}

// Pauli is one of the four single-qubit Pauli operators.
type Pauli int

const (
	PauliI Pauli = iota
	PauliX
	PauliY
	PauliZ
)

// Result is a single-qubit measurement outcome.
type Result int

const (
	ResultZero Result = iota
	ResultOne
)

// Qubit is an opaque handle minted by a Backend; the evaluator never
// inspects its contents, only threads it through calls and intrinsics.
type Qubit uint64

// Value is the tagged sum every expression evaluates to. Each
// variant is a distinct Go type implementing this interface; callers
// distinguish variants with Go type switches, and Kind() reports the
// variant as a comparable tag.
type Value interface {
	Kind() Kind
}

type Unit struct{}

func (Unit) Kind() Kind { return KindUnit }

type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Int is a 64-bit two's-complement integer; all arithmetic on it wraps.
type Int int64

func (Int) Kind() Kind { return KindInt }

// BigInt is an arbitrary-precision signed integer.
type BigInt struct{ V *big.Int }

func (BigInt) Kind() Kind { return KindBigInt }

func NewBigInt(v *big.Int) BigInt { return BigInt{V: new(big.Int).Set(v)} }

type Double float64

func (Double) Kind() Kind { return KindDouble }

// String is immutable and conceptually shared; Go strings already have that
// property, so no extra indirection is needed.
type String string

func (String) Kind() Kind { return KindString }

type PauliValue struct{ P Pauli }

func (PauliValue) Kind() Kind { return KindPauli }

type ResultValue struct{ R Result }

func (ResultValue) Kind() Kind { return KindResult }

var (
	ResultZeroValue = ResultValue{R: ResultZero}
	ResultOneValue  = ResultValue{R: ResultOne}
)

type QubitValue struct{ Q Qubit }

func (QubitValue) Kind() Kind { return KindQubit }

// Range holds optional start/end bounds and a mandatory step, exactly
// mirroring Q#'s `start..step..end` syntax at the value level.
type Range struct {
	Start *int64
	Step  int64
	End   *int64
}

func (Range) Kind() Kind { return KindRange }

// DefaultRangeStep is used whenever a range literal omits `..step..`.
const DefaultRangeStep int64 = 1

// Array wraps a handle so that in-place mutation can be gated on unique
// ownership. Go has no visible reference counts, so instead of
// tracking strong/weak refs directly this tracks a `shared` flag on the
// handle: any operation that hands the backing slice to more than one
// binding (an Items() read, a closure capture, a copy into another Variable)
// must flip it. Once shared, a handle is never eligible for in-place update
// again — it would take a fresh Array to become unique again.
type Array struct {
	buf *arrayBuf
}

type arrayBuf struct {
	items  []Value
	shared bool
}

// NewArray builds a fresh, uniquely-owned Array from items. The caller must
// not retain or mutate items afterwards; ownership of the slice transfers.
func NewArray(items []Value) Array {
	return Array{buf: &arrayBuf{items: items}}
}

func (Array) Kind() Kind { return KindArray }

// Items returns the backing slice. Because the caller can now alias it,
// this also marks the handle as shared, giving up unique-ownership
// eligibility — mirroring a borrow that outlives the single owner in the
// reference-counted original. Use this only when the returned slice (or a
// Value taken from it) may be retained past the call; a pure read should use
// PeekItems instead.
func (a Array) Items() []Value {
	a.buf.shared = true
	return a.buf.items
}

// PeekItems returns the backing slice without marking the handle shared,
// for call sites that only read it within the current call (an index or
// slice read) and retain nothing past it — the same way a borrow in the
// reference-counted original doesn't bump the count.
func (a Array) PeekItems() []Value {
	return a.buf.items
}

// Len reads the length without forcing the handle to become shared; pure
// length queries don't leak a reference to the elements.
func (a Array) Len() int { return len(a.buf.items) }

// Share marks this handle (and therefore every Value copy referencing the
// same buf) as shared. Used whenever an Array value is duplicated into a
// second binding, passed as an argument, or captured by a closure.
func (a Array) Share() Array {
	a.buf.shared = true
	return a
}

// IsUniquelyOwned is true only when no other binding has ever observed
// this handle's contents.
func (a Array) IsUniquelyOwned() bool { return !a.buf.shared }

// UpdateInPlace mutates index i to v without copying, valid only when
// IsUniquelyOwned() and i is in bounds. Callers (the action evaluator) are
// responsible for checking both preconditions; this returns false instead
// of panicking so the caller can decide how to surface an out-of-range
// index as an EvalError.
func (a Array) UpdateInPlace(i int, v Value) bool {
	if i < 0 || i >= len(a.buf.items) {
		return false
	}
	a.buf.items[i] = v
	return true
}

// AppendInPlace appends rhs's elements without copying lhs's backing slice,
// valid only when IsUniquelyOwned().
func (a Array) AppendInPlace(rhs Array) Array {
	a.buf.items = append(a.buf.items, rhs.PeekItems()...)
	return a
}

// Copy returns a new, uniquely-owned Array with the same elements. This
// reads a's elements without marking a shared: a itself is never retained
// by the copy, only its current contents are, so a stays eligible for a
// future in-place update.
func (a Array) Copy() Array {
	items := make([]Value, len(a.buf.items))
	copy(items, a.PeekItems())
	return NewArray(items)
}

type Tuple struct {
	Items []Value
}

func (Tuple) Kind() Kind { return KindTuple }

// Global is a reference to a top-level callable or UDT, with whatever
// functor application has been composed onto it so far.
type Global struct {
	Item    ids.StoreItemId
	Functor ids.FunctorApp
}

func (Global) Kind() Kind { return KindGlobal }

// Closure is a callable reference with fixed captured arguments prepended
// ahead of whatever argument the call site supplies.
type Closure struct {
	Captured []Value
	Item     ids.StoreItemId
	Functor  ids.FunctorApp
}

func (Closure) Kind() Kind { return KindClosure }

// UnitValue is the canonical empty tuple, used pervasively as "no value".
var UnitValue = Unit{}

// AsCallable extracts the callee item id, functor, and optional fixed
// captured arguments from a callable Value (Global or Closure). ok is false
// for any other Kind — the action evaluator treats that as a compiler bug.
func AsCallable(v Value) (item ids.StoreItemId, functor ids.FunctorApp, captured []Value, ok bool) {
	switch c := v.(type) {
	case Closure:
		return c.Item, c.Functor, c.Captured, true
	case Global:
		return c.Item, c.Functor, nil, true
	default:
		return ids.StoreItemId{}, ids.FunctorApp{}, nil, false
	}
}

// WithFunctor returns a copy of a callable Value with f composed onto its
// FunctorApp (used to implement the Adjoint/Controlled unary operators).
func WithFunctor(v Value, f func(ids.FunctorApp) ids.FunctorApp) (Value, bool) {
	switch c := v.(type) {
	case Closure:
		c.Functor = f(c.Functor)
		return c, true
	case Global:
		c.Functor = f(c.Functor)
		return c, true
	default:
		return nil, false
	}
}

// typeMismatch is a tiny helper so every arithmetic/compare entry point can
// report the operator name consistently.
func typeMismatch(op string, span ids.PackageSpan) error {
	return diagnostic.TypeMismatch(op, span)
}
