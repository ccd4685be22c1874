package resolve

import "github.com/qcore-lang/qcore/pkg/ids"

// ScopeKind distinguishes the three kinds of lexical scope a resolver pushes.
type ScopeKind int

const (
	ScopeBlock ScopeKind = iota
	ScopeCallable
	ScopeNamespace
)

// Open records one `open Namespace [as Alias];` statement, keyed by its
// alias (the empty string for an unaliased open) in the owning Scope's Opens
// map so several opens can share an alias.
type Open struct {
	Namespace string
	Span      ids.Span
}

// localVar is one entry of a Scope's lossy name->binding map. Only the most
// recent offset a name was (re)bound at is kept: if the same scope binds the
// same name twice (shadowing within one block), the earlier binding's
// validAt is silently overwritten by the later one. This mirrors the
// upstream resolver's own documented wrinkle (its Scope comment: "because we
// keep track of only one valid_at offset per name ... when a variable is
// later shadowed in the same scope, it is missed"); this module preserves
// that behavior rather than fixing it, since fixing it would need to track a
// list of candidate offsets per name instead of a single one, which no
// caller here needs.
type localVar struct {
	res     Res
	validAt uint32
}

// Scope holds every name a single lexical level introduces: the vars/ty_vars
// bound directly in it, any items declared in it, and the opens written in
// it.
type Scope struct {
	Span      ids.Span
	Kind      ScopeKind
	Namespace string // populated iff Kind == ScopeNamespace

	Opens map[string][]Open // alias ("" for unaliased) -> opens sharing it

	Tys   map[string]Res
	Terms map[string]Res

	vars   map[string]localVar
	tyVars map[string]Res
}

func newScope(kind ScopeKind, span ids.Span) *Scope {
	return &Scope{
		Span:   span,
		Kind:   kind,
		Opens:  make(map[string][]Open),
		Tys:    make(map[string]Res),
		Terms:  make(map[string]Res),
		vars:   make(map[string]localVar),
		tyVars: make(map[string]Res),
	}
}

func (s *Scope) bindVar(name string, res Res, offset uint32) {
	s.vars[name] = localVar{res: res, validAt: offset}
}

func (s *Scope) bindTyVar(name string, res Res) {
	s.tyVars[name] = res
}

func (s *Scope) lookupVar(name string, offset uint32) (Res, bool) {
	lv, ok := s.vars[name]
	if !ok || lv.validAt > offset {
		return Res{}, false
	}
	return lv.res, true
}

// Locals is the stack of scopes active at the current point of a resolve
// pass, outermost first (push order); GetScopes reverses this so consumers
// walk innermost to outermost, the order name lookup must follow.
type Locals struct {
	scopes []*Scope
}

func (l *Locals) PushScope(kind ScopeKind, span ids.Span) *Scope {
	s := newScope(kind, span)
	l.scopes = append(l.scopes, s)
	return s
}

func (l *Locals) PopScope() {
	if len(l.scopes) == 0 {
		panic("resolve: no scope to pop")
	}
	l.scopes = l.scopes[:len(l.scopes)-1]
}

// GetScopes returns every active scope, innermost first.
func (l *Locals) GetScopes() []*Scope {
	out := make([]*Scope, len(l.scopes))
	for i, s := range l.scopes {
		out[len(l.scopes)-1-i] = s
	}
	return out
}

// Current returns the innermost scope, or nil if none is active.
func (l *Locals) Current() *Scope {
	if len(l.scopes) == 0 {
		return nil
	}
	return l.scopes[len(l.scopes)-1]
}

// GlobalScope holds every top-level item, keyed by namespace then name, plus
// the set of declared namespaces and an Intrinsics map for names declared
// `body intrinsic`. NewGlobalScope creates Intrinsics empty; nothing in this
// package adds to it or reports DuplicateIntrinsic.
type GlobalScope struct {
	Tys        map[string]map[string]Res
	Terms      map[string]map[string]Res
	Namespaces map[string]bool
	Intrinsics map[string]ids.Span
}

func NewGlobalScope() *GlobalScope {
	return &GlobalScope{
		Tys:        make(map[string]map[string]Res),
		Terms:      make(map[string]map[string]Res),
		Namespaces: make(map[string]bool),
		Intrinsics: make(map[string]ids.Span),
	}
}

func (g *GlobalScope) tableFor(kind NameKind) map[string]map[string]Res {
	if kind == NameTy {
		return g.Tys
	}
	return g.Terms
}

// Define inserts one top-level item into namespace, creating the namespace
// if it doesn't already have an entry in this table.
func (g *GlobalScope) Define(kind NameKind, namespace, name string, res Res) {
	g.Namespaces[namespace] = true
	table := g.tableFor(kind)
	ns, ok := table[namespace]
	if !ok {
		ns = make(map[string]Res)
		table[namespace] = ns
	}
	ns[name] = res
}

// Get looks up name in exactly one namespace, the form used once a
// candidate namespace has already been chosen (an explicit open, the
// prelude, or a fully qualified path).
func (g *GlobalScope) Get(kind NameKind, namespace, name string) (Res, bool) {
	ns, ok := g.tableFor(kind)[namespace]
	if !ok {
		return Res{}, false
	}
	r, ok := ns[name]
	return r, ok
}
