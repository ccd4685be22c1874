package loader_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcore-lang/qcore/pkg/backend"
	"github.com/qcore-lang/qcore/pkg/eval"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/loader"
	"github.com/qcore-lang/qcore/pkg/store"
	"github.com/qcore-lang/qcore/pkg/value"
)

func load(t *testing.T, raw string) (*store.Memory, ids.PackageId, ids.ExprId) {
	t.Helper()
	var prog loader.Program
	require.NoError(t, json.Unmarshal([]byte(raw), &prog))

	st := store.NewMemory()
	const pkg ids.PackageId = 1
	ld := loader.New(st, pkg)
	entry, err := ld.Load(&prog)
	require.NoError(t, err)
	return st, pkg, entry
}

func TestLoadEvaluatesArithmeticEntry(t *testing.T) {
	st, pkg, entry := load(t, `{
		"entry": {"kind": "binop", "op": "add",
			"lhs": {"kind": "int", "int": 2},
			"rhs": {"kind": "int", "int": 3}}
	}`)

	s := eval.NewState(st, backend.NewSparse(), backend.NewRecorder(nil), 1)
	got, err := s.Eval(pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), got)
}

func TestLoadEvaluatesIfAndBlockWithLet(t *testing.T) {
	st, pkg, entry := load(t, `{
		"entry": {"kind": "block", "block": [
			{"kind": "let", "name": "x", "value": {"kind": "int", "int": 10}},
			{"kind": "expr", "value": {"kind": "if",
				"cond": {"kind": "binop", "op": "gt",
					"lhs": {"kind": "var", "name": "x"},
					"rhs": {"kind": "int", "int": 1}},
				"then": {"kind": "string", "string": "big"},
				"else": {"kind": "string", "string": "small"}}}
		]}
	}`)

	s := eval.NewState(st, backend.NewSparse(), backend.NewRecorder(nil), 1)
	got, err := s.Eval(pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.String("big"), got)
}

func TestLoadEvaluatesUserDefinedCall(t *testing.T) {
	st, pkg, entry := load(t, `{
		"globals": {
			"Double": {
				"input": "n",
				"body": [
					{"kind": "expr", "value": {"kind": "return", "value":
						{"kind": "binop", "op": "mul",
							"lhs": {"kind": "var", "name": "n"},
							"rhs": {"kind": "int", "int": 2}}}}
				]
			}
		},
		"entry": {"kind": "call",
			"callee": {"kind": "global", "name": "Double"},
			"args": {"kind": "int", "int": 21}}
	}`)

	s := eval.NewState(st, backend.NewSparse(), backend.NewRecorder(nil), 1)
	got, err := s.Eval(pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), got)
}

func TestLoadRejectsUnknownExprKind(t *testing.T) {
	var prog loader.Program
	require.NoError(t, json.Unmarshal([]byte(`{"entry": {"kind": "bogus"}}`), &prog))

	ld := loader.New(store.NewMemory(), 1)
	_, err := ld.Load(&prog)
	assert.Error(t, err)
}
