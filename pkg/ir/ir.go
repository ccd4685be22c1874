// Package ir defines the lowered intermediate representation the evaluator
// consumes: expressions, statements, blocks, and patterns, addressed by the
// opaque ids in pkg/ids and looked up through a PackageStoreLookup.
//
// Grounded directly on pkg/ir.ExprIR/StmtIR shape — one struct
// per node kind with a Kind discriminant and one populated pointer field per
// variant — generalized from GlyphLang's web-service expression set
// (field/index access, calls, pipes, lambdas, match) to the quantum
// language's expression set (arrays, ranges, functor-aware calls, the
// field-vs-index update operator, adjoint/controlled application).
package ir

import (
	"math/big"

	"github.com/qcore-lang/qcore/pkg/ids"
)

// Res is a lowered name reference: either a local variable or a resolved
// top-level item. Distinct from resolve.Res (which records name-resolution
// results over the pre-lowering AST) the same way qsc_fir::Res is distinct
// from qsc_frontend::resolve::Res in the original compiler — lowering
// re-resolves locals to per-callable slots.
type Res struct {
	IsLocal bool
	Local   ids.LocalVarId
	Item    ids.ItemId
}

// PrimField names a primitive field projection off a Range value.
type PrimField int

const (
	FieldStart PrimField = iota
	FieldStep
	FieldEnd
)

// FieldPath walks a sequence of tuple-index projections recorded by the
// lowering pass (e.g. accessing the 2nd field of a UDT that itself is a
// tuple of tuples).
type FieldPath struct {
	Indices []int
}

// Field is either a primitive Range field or a structural tuple path.
type Field struct {
	IsPrim bool
	Prim   PrimField
	Path   FieldPath
}

type BinOp int

const (
	BinAdd BinOp = iota
	BinAndB
	BinAndL
	BinDiv
	BinEq
	BinExp
	BinGt
	BinGte
	BinLt
	BinLte
	BinMod
	BinMul
	BinNeq
	BinOrB
	BinOrL
	BinShl
	BinShr
	BinSub
	BinXorB
)

type UnOp int

const (
	UnFunctorAdj UnOp = iota
	UnFunctorCtl
	UnNeg
	UnNotB
	UnNotL
	UnPos
	UnUnwrap
)

// LitKind discriminates literal constants.
type LitKind int

const (
	LitBigInt LitKind = iota
	LitBool
	LitDouble
	LitInt
	LitPauli
	LitResult
)

// Lit is a literal constant embedded directly in an expression.
type Lit struct {
	Kind   LitKind
	BigInt *big.Int
	Bool   bool
	Double float64
	Int    int64
	Pauli  int  // value.Pauli, kept as a plain int to avoid an ir -> value import
	IsOne  bool // for LitResult: One if true, Zero if false
}

// ExprKind discriminates Expr variants.
type ExprKind int

const (
	ExprArray ExprKind = iota
	ExprArrayRepeat
	ExprAssign
	ExprAssignOp
	ExprAssignField
	ExprAssignIndex
	ExprBinOp
	ExprBlock
	ExprCall
	ExprClosure
	ExprFail
	ExprField
	ExprHole
	ExprIf
	ExprIndex
	ExprLit
	ExprRange
	ExprReturn
	ExprString
	ExprTernUpdate
	ExprTuple
	ExprUnOp
	ExprUpdateField
	ExprUpdateIndex
	ExprVar
	ExprWhile
)

// StringComponent is one piece of an interpolated string: either a literal
// fragment or an embedded expression.
type StringComponent struct {
	IsExpr bool
	Lit    string
	Expr   ids.ExprId
}

// Expr is one expression node. Exactly the fields relevant to Kind are
// populated; the rest are zero. This mirrors ExprIR: a single
// struct with a Kind tag rather than a sealed interface hierarchy, which
// keeps dispatch a flat switch with no virtual calls.
type Expr struct {
	ID   ids.ExprId
	Span ids.Span
	Kind ExprKind

	// ExprArray, ExprTuple
	Items []ids.ExprId

	// ExprArrayRepeat
	RepeatItem ids.ExprId
	RepeatSize ids.ExprId

	// ExprAssign, ExprAssignOp, ExprAssignField, ExprAssignIndex
	AssignLhs   ids.ExprId
	AssignRhs   ids.ExprId
	AssignOp    BinOp
	AssignField Field
	AssignIndex ids.ExprId // index expr for AssignIndex

	// ExprBinOp
	Op  BinOp
	Lhs ids.ExprId
	Rhs ids.ExprId

	// ExprBlock
	Block ids.BlockId

	// ExprCall
	Callee   ids.ExprId
	Args     ids.ExprId
	CallSpan ids.Span
	ArgSpan  ids.Span

	// ExprClosure
	ClosureArgs     []ids.LocalVarId
	ClosureCallable ids.LocalItemId

	// ExprFail
	FailMessage ids.ExprId

	// ExprField, ExprUpdateField
	FieldRecord ids.ExprId
	FieldOf     Field
	UpdateValue ids.ExprId

	// ExprHole: no fields

	// ExprIf
	Cond ids.ExprId
	Then ids.ExprId
	Else *ids.ExprId

	// ExprIndex, ExprUpdateIndex
	IndexArray ids.ExprId
	IndexIndex ids.ExprId
	IndexValue ids.ExprId // update value, ExprUpdateIndex only

	// ExprLit
	Lit Lit

	// ExprRange
	RangeStart *ids.ExprId
	RangeStep  *ids.ExprId
	RangeEnd   *ids.ExprId

	// ExprReturn
	ReturnValue ids.ExprId

	// ExprString
	StringParts []StringComponent

	// ExprTernUpdate: `record w/ index <- value`, where index may resolve to
	// a field name instead of a variable reference.
	TernRecord  ids.ExprId
	TernIndex   ids.ExprId
	TernValue   ids.ExprId
	TernIsField bool
	TernField   Field

	// ExprUnOp
	UnOp  UnOp
	Value ids.ExprId

	// ExprVar
	Var Res
}

// StmtKind discriminates Stmt variants.
type StmtKind int

const (
	StmtExpr StmtKind = iota
	StmtItem
	StmtLocal
	StmtSemi
)

type LocalMutability int

const (
	LocalImmutable LocalMutability = iota
	LocalMutable
)

// Stmt is one statement node.
type Stmt struct {
	ID   ids.StmtId
	Span ids.Span
	Kind StmtKind

	// StmtExpr, StmtSemi
	Expr ids.ExprId

	// StmtLocal
	Mutability LocalMutability
	Pat        ids.PatId
	Value      ids.ExprId
}

// Block is an ordered sequence of statements with a span covering its
// delimiters (used to size the scope it introduces).
type Block struct {
	ID    ids.BlockId
	Span  ids.Span
	Stmts []ids.StmtId
}

// PatKind discriminates Pat variants.
type PatKind int

const (
	PatBind PatKind = iota
	PatDiscard
	PatTuple
)

// PatVariable names the local variable a PatBind introduces.
type PatVariable struct {
	ID   ids.LocalVarId
	Name string
	Span ids.Span
}

// Pat is one pattern node, used both for `let`/`mutable` bindings and for
// callable input parameters.
type Pat struct {
	ID   ids.PatId
	Span ids.Span
	Kind PatKind

	// PatBind
	Bind PatVariable

	// PatTuple
	Items []ids.PatId
}
