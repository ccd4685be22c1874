package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/resolve"
)

func newGlobals() *resolve.GlobalScope {
	g := resolve.NewGlobalScope()
	pkg := ids.PackageId(0)
	g.Define(resolve.NameTerm, "Qcore.Core", "Message", resolve.ItemRes(ids.ItemId{Package: &pkg, Item: 1}, resolve.Available))
	g.Define(resolve.NameTerm, "Qcore.Math", "Sqrt", resolve.ItemRes(ids.ItemId{Package: &pkg, Item: 2}, resolve.Available))
	return g
}

func TestLocalVarShadowsEverything(t *testing.T) {
	g := newGlobals()
	r := resolve.New(g, []string{"Qcore.Core"})
	r.PushScope(resolve.ScopeBlock, ids.Span{Lo: 0, Hi: 100})
	r.BindOpen("Qcore.Math", "", ids.Span{Lo: 0, Hi: 1})
	r.BindPat(resolve.PatShape{IsBind: true, Name: "Sqrt", LocalID: 9, Span: ids.Span{Lo: 1, Hi: 2}}, 0)

	res, ok := r.ResolveIdent(resolve.NameTerm, "Sqrt", 5, ids.Span{Lo: 5, Hi: 9})
	require.True(t, ok)
	assert.Equal(t, resolve.ResLocal, res.Kind)
	assert.Equal(t, ids.NodeId(9), res.Local)
}

func TestPreludeResolvesWhenNothingCloserMatches(t *testing.T) {
	g := newGlobals()
	r := resolve.New(g, []string{"Qcore.Core"})
	r.PushScope(resolve.ScopeBlock, ids.Span{Lo: 0, Hi: 100})

	res, ok := r.ResolveIdent(resolve.NameTerm, "Message", 5, ids.Span{Lo: 5, Hi: 9})
	require.True(t, ok)
	assert.Equal(t, resolve.ResItem, res.Kind)
}

func TestAmbiguousPreludeReported(t *testing.T) {
	g := newGlobals()
	g.Define(resolve.NameTerm, "Qcore.Other", "Message", resolve.ItemRes(ids.ItemId{}, resolve.Available))
	r := resolve.New(g, []string{"Qcore.Core", "Qcore.Other"})
	r.PushScope(resolve.ScopeBlock, ids.Span{Lo: 0, Hi: 100})

	_, ok := r.ResolveIdent(resolve.NameTerm, "Message", 5, ids.Span{Lo: 5, Hi: 9})
	require.False(t, ok)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "Qsc.Resolve.AmbiguousPrelude", string(r.Errors[0].Code))
}

func TestExplicitOpenShadowsPrelude(t *testing.T) {
	g := newGlobals()
	g.Define(resolve.NameTerm, "Local.Ns", "Message", resolve.ItemRes(ids.ItemId{Package: nil, Item: 42}, resolve.Available))
	r := resolve.New(g, []string{"Qcore.Core"})
	r.PushScope(resolve.ScopeBlock, ids.Span{Lo: 0, Hi: 100})
	r.BindOpen("Local.Ns", "", ids.Span{Lo: 0, Hi: 1})

	res, ok := r.ResolveIdent(resolve.NameTerm, "Message", 5, ids.Span{Lo: 5, Hi: 9})
	require.True(t, ok)
	assert.Equal(t, ids.LocalItemId(42), res.Item.Item)
}

func TestDuplicateBindingInSamePattern(t *testing.T) {
	g := newGlobals()
	r := resolve.New(g, nil)
	r.PushScope(resolve.ScopeBlock, ids.Span{Lo: 0, Hi: 100})
	r.BindPat(resolve.PatShape{
		IsTuple: true,
		Items: []resolve.PatShape{
			{IsBind: true, Name: "x", LocalID: 1, Span: ids.Span{Lo: 1, Hi: 2}},
			{IsBind: true, Name: "x", LocalID: 2, Span: ids.Span{Lo: 3, Hi: 4}},
		},
	}, 0)

	require.Len(t, r.Errors, 1)
	assert.Equal(t, "Qsc.Resolve.DuplicateBinding", string(r.Errors[0].Code))
}

func TestTernUpdateIndexIsFieldWhenNoLocalShadows(t *testing.T) {
	g := newGlobals()
	r := resolve.New(g, nil)
	r.PushScope(resolve.ScopeBlock, ids.Span{Lo: 0, Hi: 100})

	assert.True(t, r.ResolveTernUpdateIndex("Re", 5))
}

func TestTernUpdateIndexIsVariableWhenLocalShadowsField(t *testing.T) {
	g := newGlobals()
	r := resolve.New(g, nil)
	r.PushScope(resolve.ScopeBlock, ids.Span{Lo: 0, Hi: 100})
	r.BindPat(resolve.PatShape{IsBind: true, Name: "Re", LocalID: 3, Span: ids.Span{Lo: 1, Hi: 2}}, 0)

	assert.False(t, r.ResolveTernUpdateIndex("Re", 5))
}

func TestUnboundNameReportsNotFound(t *testing.T) {
	g := newGlobals()
	r := resolve.New(g, nil)
	r.PushScope(resolve.ScopeBlock, ids.Span{Lo: 0, Hi: 100})

	_, ok := r.ResolveIdent(resolve.NameTerm, "Nope", 5, ids.Span{Lo: 5, Hi: 9})
	require.False(t, ok)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "Qsc.Resolve.NotFound", string(r.Errors[0].Code))
}
