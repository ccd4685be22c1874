package resolve

import (
	"math"
	"sort"

	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/logging"
)

// droppedName records an item that resolution considered but rejected
// because the current compilation configuration doesn't include it, so a
// later NotFound can be upgraded to the more informative NotAvailable.
type droppedName struct {
	foundAs string
}

// Resolver runs a single resolve pass over one compilation: it owns the
// global item tables, the prelude namespace list, and the live scope stack,
// and accumulates errors rather than stopping at the first one,
// mirroring pkg/compiler.SymbolTable + a parallel "diagnostics"
// accumulator pattern used across its compiler passes.
type Resolver struct {
	Globals *GlobalScope
	Prelude []string // fixed, lexicographically meaningful namespace names

	locals  Locals
	dropped map[string]droppedName

	Errors []*diagnostic.ResolveError

	log *logging.ContextLogger
}

func New(globals *GlobalScope, prelude []string) *Resolver {
	return &Resolver{
		Globals: globals,
		Prelude: prelude,
		dropped: make(map[string]droppedName),
	}
}

// WithLogger attaches a run-scoped logger and returns r for chaining; each
// accumulated resolve error is logged at Debug as it's recorded. nil is a
// valid, no-op logger.
func (r *Resolver) WithLogger(log *logging.ContextLogger) *Resolver {
	r.log = log
	return r
}

// WithPersistentLocalScope pushes one Block scope spanning the entire
// program, used by callers (tests, a REPL) that want every top-level
// binding to behave as if it were local rather than re-entering global
// scope on each statement.
func (r *Resolver) WithPersistentLocalScope() *Resolver {
	r.locals.PushScope(ScopeBlock, ids.Span{Lo: 0, Hi: math.MaxUint32})
	return r
}

func (r *Resolver) PushScope(kind ScopeKind, span ids.Span) *Scope {
	return r.locals.PushScope(kind, span)
}

func (r *Resolver) PopScope() { r.locals.PopScope() }

func (r *Resolver) CurrentScope() *Scope { return r.locals.Current() }

func (r *Resolver) errorf(err *diagnostic.ResolveError) {
	r.Errors = append(r.Errors, err)
	if r.log != nil {
		r.log.WithField("code", err.Code).Debug(err.Message)
	}
}

// BindOpen records `open namespace [as alias];` in the current scope.
// namespace must already be a known global namespace.
func (r *Resolver) BindOpen(namespace, alias string, span ids.Span) {
	if !r.Globals.Namespaces[namespace] {
		r.errorf(diagnostic.NotFound(namespace, span))
		return
	}
	sc := r.CurrentScope()
	sc.Opens[alias] = append(sc.Opens[alias], Open{Namespace: namespace, Span: span})
}

// BindTypeParameters binds a callable's type and functor generic parameters
// into the current (Callable) scope.
func (r *Resolver) BindTypeParameters(names []string) {
	sc := r.CurrentScope()
	for i, name := range names {
		sc.bindTyVar(name, ParamRes(ids.ParamId(i)))
	}
}

// BindLocalItem binds a locally declared callable, UDT, or open into the
// current scope. kind selects the Tys or Terms table for a Callable/Ty
// declaration; open is handled by BindOpen instead and must not reach here.
func (r *Resolver) BindLocalItem(kind NameKind, name string, item ids.ItemId, status ItemStatus, span ids.Span) {
	sc := r.CurrentScope()
	table := sc.Terms
	if kind == NameTy {
		table = sc.Tys
	}
	if _, exists := table[name]; exists {
		r.errorf(diagnostic.Duplicate(name, sc.Namespace, span))
		return
	}
	table[name] = ItemRes(item, status)
}

// BindPat binds every name introduced by a pattern (let/mutable, or a
// callable's input) into the current scope as of offset, rejecting a name
// reused within the same pattern (DuplicateBinding). Each bind node carries
// its own id in PatShape.LocalID, since assigning ids is the lowering pass's
// job, not the resolver's.
func (r *Resolver) BindPat(kind PatShape, offset uint32) {
	seen := make(map[string]bool)
	r.bindPatRec(kind, offset, seen)
}

// PatShape is the minimal view of a pattern BindPat needs: enough to walk
// Bind/Discard/Tuple without depending on pkg/ir, so the resolver (which
// runs over the pre-lowering AST) stays independent of the lowered IR.
type PatShape struct {
	IsBind    bool
	IsTuple   bool
	Name      string
	LocalID   ids.NodeId
	Span      ids.Span
	Items     []PatShape
}

func (r *Resolver) bindPatRec(p PatShape, offset uint32, seen map[string]bool) {
	switch {
	case p.IsTuple:
		for _, item := range p.Items {
			r.bindPatRec(item, offset, seen)
		}
	case p.IsBind:
		if seen[p.Name] {
			r.errorf(diagnostic.DuplicateBinding(p.Name, p.Span))
			return
		}
		seen[p.Name] = true
		r.CurrentScope().bindVar(p.Name, LocalRes(p.LocalID), offset)
	default:
		// discard: no binding
	}
}

// ResolveIdent resolves a single unqualified name, consulting locals, scope
// items, explicit opens, the prelude, and finally the remaining globals, in
// that order.
func (r *Resolver) ResolveIdent(kind NameKind, name string, offset uint32, span ids.Span) (Res, bool) {
	return r.resolveQualified(kind, "", name, offset, span)
}

// ResolvePath resolves name qualified by an explicit namespace alias (the
// text before the last `.` in a dotted path, possibly itself an alias bound
// by `open X as alias`). An empty namespace behaves exactly like
// ResolveIdent.
func (r *Resolver) ResolvePath(kind NameKind, namespaceAlias, name string, offset uint32, span ids.Span) (Res, bool) {
	return r.resolveQualified(kind, namespaceAlias, name, offset, span)
}

type candidate struct {
	res       Res
	namespace string
	span      ids.Span
}

func (r *Resolver) resolveQualified(kind NameKind, alias, name string, offset uint32, span ids.Span) (Res, bool) {
	scopes := r.locals.GetScopes()
	varsVisible := true

	if alias == "" {
		for _, sc := range scopes {
			if kind == NameTerm && varsVisible {
				if res, ok := sc.lookupVar(name, offset); ok {
					return res, true
				}
			}
			if kind == NameTy && varsVisible {
				if res, ok := sc.tyVars[name]; ok {
					return res, true
				}
			}

			table := sc.Terms
			if kind == NameTy {
				table = sc.Tys
			}
			if res, ok := table[name]; ok {
				return res, true
			}
			if sc.Kind == ScopeNamespace {
				if res, ok := r.Globals.Get(kind, sc.Namespace, name); ok {
					return res, true
				}
			}

			if len(sc.Opens) > 0 {
				cands := r.openCandidates(kind, name, sc.Opens)
				if res, ok, matched := r.pickCandidate(name, cands, span); matched {
					if !ok {
						return Res{}, false
					}
					return res, true
				}
			}

			if sc.Kind == ScopeCallable {
				varsVisible = false
			}
		}
	} else {
		cands := r.aliasCandidates(kind, alias, name, scopes)
		if res, ok, matched := r.pickCandidate(name, cands, span); matched {
			if !ok {
				return Res{}, false
			}
			return res, true
		}
		if res, ok := r.Globals.Get(kind, alias, name); ok {
			return res, true
		}
		r.errorf(diagnostic.NotFound(name, span))
		return Res{}, false
	}

	if res, ok := r.resolvePrelude(kind, name, span); ok {
		return res, true
	}

	for _, ns := range sortedNamespaceNames(r.Globals) {
		if res, ok := r.Globals.Get(kind, ns, name); ok {
			return res, true
		}
	}

	if dn, ok := r.dropped[name]; ok {
		r.errorf(diagnostic.NotAvailable(name, dn.foundAs, span))
		return Res{}, false
	}
	r.errorf(diagnostic.NotFound(name, span))
	return Res{}, false
}

// aliasCandidates collects every open (across all active scopes) whose
// alias matches the requested one, resolving name in each namespace it
// names.
func (r *Resolver) aliasCandidates(kind NameKind, alias, name string, scopes []*Scope) []candidate {
	var out []candidate
	for _, sc := range scopes {
		for _, open := range sc.Opens[alias] {
			if res, ok := r.Globals.Get(kind, open.Namespace, name); ok {
				out = append(out, candidate{res: res, namespace: open.Namespace, span: open.Span})
			}
		}
	}
	return out
}

func (r *Resolver) openCandidates(kind NameKind, name string, opens map[string][]Open) []candidate {
	var out []candidate
	for _, list := range opens {
		for _, open := range list {
			if res, ok := r.Globals.Get(kind, open.Namespace, name); ok {
				out = append(out, candidate{res: res, namespace: open.Namespace, span: open.Span})
			}
		}
	}
	return out
}

// pickCandidate applies the Unimplemented tie-break and Ambiguous rule to a
// set of same-name candidates found via opens. matched is false when cands
// was empty (caller should keep searching further out); when matched is
// true, ok reports whether resolution actually succeeded (false means an
// error was already recorded).
func (r *Resolver) pickCandidate(name string, cands []candidate, span ids.Span) (res Res, ok bool, matched bool) {
	if len(cands) == 0 {
		return Res{}, false, false
	}
	if len(cands) > 1 {
		filtered := cands[:0:0]
		for _, c := range cands {
			if c.res.Kind != ResItem || c.res.Status != Unimplemented {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) > 0 {
			cands = filtered
		}
	}
	if len(cands) == 1 {
		return cands[0].res, true, true
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].span.Lo < cands[j].span.Lo })
	r.errorf(diagnostic.Ambiguous(name, cands[0].namespace, cands[1].namespace, span, cands[0].span, cands[1].span))
	return Res{}, false, true
}

// ResolveTernUpdateIndex disambiguates the index operand of the ternary
// update operator (`record w/ index <- value`) and `set ... w/= index <-
// value`, which is syntactically ambiguous between a field name and a
// variable holding an array index: it resolves positively as a field name
// iff name is an unqualified path that does not resolve to any local
// binding visible at offset. A local of the same name always wins, so a
// field shadowed by a local variable reads back as that variable.
func (r *Resolver) ResolveTernUpdateIndex(name string, offset uint32) (isField bool) {
	return !r.hasLocal(name, offset)
}

// hasLocal reports whether name resolves to a local variable visible at
// offset, applying the same scope walk and ScopeCallable cutoff
// resolveQualified's varsVisible flag applies: vars stop being visible to a
// bare name once the walk passes the nearest enclosing callable's own scope.
func (r *Resolver) hasLocal(name string, offset uint32) bool {
	for _, sc := range r.locals.GetScopes() {
		if _, ok := sc.lookupVar(name, offset); ok {
			return true
		}
		if sc.Kind == ScopeCallable {
			return false
		}
	}
	return false
}

// resolvePrelude consults the fixed prelude namespaces, which are treated as
// implicitly opened in every scope when nothing closer matched. Multiple
// hits are reported using the two lexicographically-first namespace names,
// matching AmbiguousPrelude's contract.
func (r *Resolver) resolvePrelude(kind NameKind, name string, span ids.Span) (Res, bool) {
	var hits []string
	var first Res
	for _, ns := range r.Prelude {
		if res, ok := r.Globals.Get(kind, ns, name); ok {
			hits = append(hits, ns)
			if len(hits) == 1 {
				first = res
			}
		}
	}
	if len(hits) == 0 {
		return Res{}, false
	}
	if len(hits) == 1 {
		return first, true
	}
	sort.Strings(hits)
	r.errorf(diagnostic.AmbiguousPrelude(name, hits[0], hits[1], span))
	return Res{}, false
}

func sortedNamespaceNames(g *GlobalScope) []string {
	names := make([]string, 0, len(g.Namespaces))
	for ns := range g.Namespaces {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}

// MarkDropped records that name was seen but excluded from this compilation
// (e.g. by a target-profile restriction), so a later failed lookup reports
// NotAvailable instead of a bare NotFound.
func (r *Resolver) MarkDropped(name, foundAs string) {
	r.dropped[name] = droppedName{foundAs: foundAs}
}
