// Package resolve implements name resolution over the pre-lowering AST:
// binding every identifier and path to a local variable, a
// type/functor parameter, a primitive type, or a top-level item, across
// nested lexical scopes, explicit opens, and the implicit prelude.
//
// Grounded on pkg/compiler.SymbolTable (a parent-linked chain
// of name->Symbol maps) for the scope-chain shape, generalized to the
// richer lookup order a namespaced language needs: local bindings, then
// scope-local items, then explicit opens, then the prelude, then the
// remaining global namespace.
package resolve

import "github.com/qcore-lang/qcore/pkg/ids"

// NameKind distinguishes a type-level name from a term-level (value) name;
// the two live in separate namespaces; `newtype Foo` and `let Foo = ...`
// never collide.
type NameKind int

const (
	NameTy NameKind = iota
	NameTerm
)

// ItemStatus records whether an item is fully implemented. An Unimplemented
// item loses any resolution tie against another candidate of the same name
//; if it's the only candidate, it still resolves, but using it is
// itself an error the caller reports separately.
type ItemStatus int

const (
	Available ItemStatus = iota
	Unimplemented
)

// Prim names a primitive (non-user-defined) type, resolved directly rather
// than through any scope.
type Prim int

const (
	PrimBigInt Prim = iota
	PrimBool
	PrimDouble
	PrimInt
	PrimPauli
	PrimQubit
	PrimRange
	PrimResult
	PrimString
)

// ResKind discriminates Res variants.
type ResKind int

const (
	ResItem ResKind = iota
	ResLocal
	ResParam
	ResPrimTy
	ResUnitTy
)

// Res is what a single identifier or path resolves to.
type Res struct {
	Kind   ResKind
	Item   ids.ItemId
	Status ItemStatus // ResItem only
	Local  ids.NodeId // ResLocal only
	Param  ids.ParamId // ResParam only
	Prim   Prim        // ResPrimTy only
}

func ItemRes(item ids.ItemId, status ItemStatus) Res {
	return Res{Kind: ResItem, Item: item, Status: status}
}

func LocalRes(id ids.NodeId) Res { return Res{Kind: ResLocal, Local: id} }

func ParamRes(id ids.ParamId) Res { return Res{Kind: ResParam, Param: id} }

func PrimTyRes(p Prim) Res { return Res{Kind: ResPrimTy, Prim: p} }

func UnitTyRes() Res { return Res{Kind: ResUnitTy} }
