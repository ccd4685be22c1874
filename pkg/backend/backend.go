// Package backend defines the evaluator's external collaborator interfaces:
// Backend (the quantum simulator), Receiver (the output sink), and
// PackageStoreLookup (IR node storage). All three are implemented elsewhere
// in a full system; only their contracts live here, plus the minimal
// in-memory test doubles needed to exercise the evaluator end to end.
package backend

import (
	"math/rand"

	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/value"
)

// Backend is the quantum simulator the evaluator dispatches intrinsic calls
// to. Every method that cannot fail for a well-formed program (gate
// application) returns nothing; methods with a documented evaluator-visible
// failure mode return an error using the same diagnostic.EvalError
// constructors the evaluator itself uses, so a Backend implementation can
// raise QubitUniqueness, QubitsNotSeparable, ReleasedQubitNotZero, or
// IntrinsicFail directly.
type Backend interface {
	Allocate() value.Qubit
	Release(q value.Qubit) error
	Reset(q value.Qubit)

	X(q value.Qubit)
	Y(q value.Qubit)
	Z(q value.Qubit)
	H(q value.Qubit)
	S(q value.Qubit)
	SAdj(q value.Qubit)
	T(q value.Qubit)
	TAdj(q value.Qubit)
	CNOT(ctrl, target value.Qubit)
	CCNOT(ctrl1, ctrl2, target value.Qubit)
	Rx(theta float64, q value.Qubit) error
	Ry(theta float64, q value.Qubit) error
	Rz(theta float64, q value.Qubit) error

	M(q value.Qubit) value.Result

	CheckQubitUniqueness(qs []value.Qubit) error
	CheckQubitsSeparable(qs []value.Qubit) error

	DumpMachine(r Receiver, qs []value.Qubit) error

	// DrawRandomInt and DrawRandomDouble are the classical RNG-dependent
	// intrinsics: the evaluator's own *rand.Rand is threaded through
	// rather than letting the backend keep independent random state, so a
	// run seeded once is reproducible end to end.
	DrawRandomInt(rng *rand.Rand, lo, hi int64) int64
	DrawRandomDouble(rng *rand.Rand, lo, hi float64) float64
}

// Receiver is the evaluator's output sink: a human-readable message
// channel and a structured state-dump channel. Either may fail with
// OutputFail.
type Receiver interface {
	Message(msg string) error
	StateDump(dump StateDump) error
}

// StateDump is a structured amplitude dump, the richer of the two Receiver
// payloads.
type StateDump struct {
	Qubits     []value.Qubit
	Amplitudes []complex128
}

// PackageStoreLookup reads IR nodes by (PackageId, NodeId). Every accessor
// except GetGlobal is expected to always find its node once the evaluator
// asks for it — failing that is a compiler bug (the original's contract,
// "else compiler bug"), so implementations should panic rather than return a
// zero value for Get{Expr,Stmt,Block,Pat}. GetGlobal alone distinguishes
// "not found" because an unbound global name is a legitimate evaluator-level
// UnboundName error, not a compiler bug.
type PackageStoreLookup interface {
	GetExpr(id ids.PackageExpr) *ir.Expr
	GetStmt(id ids.PackageStmt) *ir.Stmt
	GetBlock(id ids.PackageBlock) *ir.Block
	GetPat(id ids.PackagePat) *ir.Pat
	GetGlobal(id ids.StoreItemId) (*ir.Global, bool)
}
