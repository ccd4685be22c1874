package ir

import "github.com/qcore-lang/qcore/pkg/ids"

// SpecDecl is one specialization's input pattern and body block. CtlPattern
// is populated only on a Ctl/CtlAdj specialization that declared an explicit
// control-qubit pattern (e.g. `controlled (cs, ...)`); when nil, a Controlled
// call still peels the control arrays off the argument, binds only the
// remaining argument to Input, and leaves the peeled controls unbound.
type SpecDecl struct {
	Input      ids.PatId
	Block      ids.BlockId
	CtlPattern *ids.PatId
}

// SpecImpl holds the up-to-four specializations a non-intrinsic callable may
// declare. Body is mandatory; the rest are present only if the source
// declared them (nil otherwise — selecting a missing one is a compiler bug).
type SpecImpl struct {
	Body   SpecDecl
	Adj    *SpecDecl
	Ctl    *SpecDecl
	CtlAdj *SpecDecl
}

// Callable is a top-level callable declaration.
type Callable struct {
	Name        string
	Span        ids.Span
	Input       ids.PatId
	OutputIsUnit bool
	IsIntrinsic bool
	Spec        SpecImpl
}

// GlobalKind discriminates the two kinds of top-level item the evaluator
// can look up by StoreItemId: an ordinary callable, or a UDT whose "call" is
// the identity constructor.
type GlobalKind int

const (
	GlobalCallable GlobalKind = iota
	GlobalUdt
)

// Global is one entry a PackageStoreLookup.GetGlobal resolves to.
type Global struct {
	Kind     GlobalKind
	Callable *Callable // populated iff Kind == GlobalCallable
}
