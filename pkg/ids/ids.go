// Package ids defines the opaque identifier types threaded through the IR,
// environment, and resolver packages. Every identifier is a non-negative
// integer minted by an assigner external to this module (the lowering pass);
// this package only gives each integer space a distinct Go type so they can't
// be mixed up at call sites.
package ids

// PackageId identifies one compiled package within a PackageStoreLookup.
type PackageId uint32

// NodeId is a raw, untyped node identifier as produced by the AST/IR
// assigner. Expr/Stmt/Block/Pat ids are distinct views over the same space.
type NodeId uint32

// ExprId identifies an expression node within a single package.
type ExprId NodeId

// StmtId identifies a statement node within a single package.
type StmtId NodeId

// BlockId identifies a block node within a single package.
type BlockId NodeId

// PatId identifies a pattern node within a single package.
type PatId NodeId

// LocalVarId identifies a local variable binding site within a single package.
type LocalVarId NodeId

// LocalItemId identifies a locally declared item (callable or UDT) within a
// single package, independent of which package it's compiled into.
type LocalItemId uint32

// ParamId identifies a type or functor generic parameter of a callable.
type ParamId uint32

// ItemId identifies an item as seen from within its own package: a local
// item id plus an optional owning package for cross-package references.
type ItemId struct {
	Package *PackageId
	Item    LocalItemId
}

// StoreItemId identifies an item unambiguously across the whole package
// store: the resolved package plus the local item id.
type StoreItemId struct {
	Package PackageId
	Item    LocalItemId
}

// PackageExpr, PackageStmt, etc. pair a package with a node id of the
// matching kind, the key shape PackageStoreLookup is queried with.
type PackageExpr struct {
	Package PackageId
	Expr    ExprId
}

type PackageStmt struct {
	Package PackageId
	Stmt    StmtId
}

type PackageBlock struct {
	Package PackageId
	Block   BlockId
}

type PackagePat struct {
	Package PackageId
	Pat     PatId
}

// Span is a half-open byte-offset source range, [Lo, Hi). An empty span
// (Lo == Hi == 0, or more generally Lo == Hi) marks generated code with no
// corresponding user-visible source.
type Span struct {
	Lo uint32
	Hi uint32
}

// Empty reports whether the span covers no source text, the signal used by
// the continuation engine's step semantics to treat a statement as
// compiler-generated and therefore invisible to stepping.
func (s Span) Empty() bool { return s.Lo == s.Hi }

// PackageSpan is a Span qualified by the package it was taken from, used on
// diagnostics and call-stack frames so spans remain meaningful across
// package boundaries.
type PackageSpan struct {
	Package PackageId
	Span    Span
}

// FunctorApp is the composition state of a callable value: which functors
// have been applied to it so far. Identity is the zero value.
//
// Lives here rather than in pkg/value so that pkg/diagnostic (call-stack
// frames record the functor a callable was invoked with) doesn't need to
// import pkg/value, which in turn needs pkg/diagnostic for its arithmetic
// error paths.
type FunctorApp struct {
	Adjoint    bool
	Controlled uint8
}

// Adj applies the Adjoint functor: toggles Adjoint, leaves Controlled alone.
func (f FunctorApp) Adj() FunctorApp {
	f.Adjoint = !f.Adjoint
	return f
}

// Ctl applies the Controlled functor once: increments the control count.
func (f FunctorApp) Ctl() FunctorApp {
	f.Controlled++
	return f
}

// Spec names the four callable bodies a declaration may provide.
type Spec int

const (
	SpecBody Spec = iota
	SpecAdj
	SpecCtl
	SpecCtlAdj
)

func (s Spec) String() string {
	switch s {
	case SpecBody:
		return "body"
	case SpecAdj:
		return "adjoint"
	case SpecCtl:
		return "controlled"
	case SpecCtlAdj:
		return "controlled adjoint"
	default:
		return "unknown"
	}
}

// SpecFromFunctorApp derives which specialization a call through the given
// FunctorApp should dispatch to.
func SpecFromFunctorApp(f FunctorApp) Spec {
	switch {
	case !f.Adjoint && f.Controlled == 0:
		return SpecBody
	case f.Adjoint && f.Controlled == 0:
		return SpecAdj
	case !f.Adjoint && f.Controlled > 0:
		return SpecCtl
	default:
		return SpecCtlAdj
	}
}
