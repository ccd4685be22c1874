package eval

import (
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
)

// ActionKind discriminates the post-operand-evaluation steps the
// continuation engine can schedule. Each Action is pushed onto the
// continuation stack *before* the sub-expressions it depends on, so by the
// time it's popped back off, every operand it needs is already sitting on
// the value stack in evaluation order.
type ActionKind int

const (
	ActArray ActionKind = iota
	ActArrayAppendInPlace
	ActArrayRepeat
	ActBinOp
	ActBind
	ActCall
	ActConsume
	ActField
	ActIf
	ActIndex
	ActRange
	ActReturn
	ActStringConcat
	ActTuple
	ActUnOp
	ActUpdateBinding
	ActUpdateField
	ActUpdateIndex
	ActUpdateIndexInPlace
	ActWhile
)

// Action is one scheduled step. Only the fields relevant to Kind are
// populated, the same single-struct-with-tag shape pkg/ir uses for Expr.
type Action struct {
	Kind ActionKind
	Span ids.PackageSpan

	Count int // ActArray, ActTuple: number of operands on vals

	StringParts []ir.StringComponent // ActStringConcat: literal/expr interleaving

	BinOp  ir.BinOp   // ActBinOp
	Rhs    ids.ExprId // ActBinOp, AndL/OrL only: the not-yet-scheduled rhs
	Phase2 bool        // ActBinOp, AndL/OrL only: true once rhs has been scheduled
	UnOp   ir.UnOp     // ActUnOp

	Field ir.Field // ActField, ActUpdateField

	Local   ids.LocalVarId // ActUpdateIndexInPlace, ActArrayAppendInPlace, ActUpdateBinding: var holding the target
	Pat     ids.PatId      // ActBind
	Mutable bool           // ActBind

	Then ids.ExprId  // ActIf
	Else *ids.ExprId // ActIf

	Cond      ids.ExprId  // ActWhile
	BodyBlock ids.BlockId // ActWhile

	CallSpan ids.Span // ActCall
	ArgSpan  ids.Span // ActCall

	HasSize bool // ActArrayRepeat: reserved for future exact-size validation
	IsFail  bool // ActConsume: true raises UserFail from the popped message instead of discarding it
	Void    bool // ActConsume: true replaces the popped value with Unit instead of leaving nothing behind

	HasStart, HasStep, HasEnd bool // ActRange: which of the three optional bounds were evaluated
}
