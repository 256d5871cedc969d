// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package object

import (
	"testing"

	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoutineHolder struct {
	owner   *Object
	routine Routine
}

func (h *stubRoutineHolder) Kind() string                      { return "routine" }
func (h *stubRoutineHolder) SetOwner(o *Object)                 { h.owner = o }
func (h *stubRoutineHolder) Owner() *Object                     { return h.owner }
func (h *stubRoutineHolder) Remove()                            {}
func (h *stubRoutineHolder) Scan() []oid.Oid                    { return nil }
func (h *stubRoutineHolder) Serialize() (map[string]any, error) { return map[string]any{}, nil }
func (h *stubRoutineHolder) Routine() Routine                   { return h.routine }

func TestApplyWithValueSignature(t *testing.T) {
	rt := testRuntime(t)
	conn, err := rt.NewObject()
	require.NoError(t, err)
	conn.PutPayload(&stubRoutineHolder{routine: Routine{
		Signature: SigValue,
		ValueFn: func(captures []value.Value) (value.Value, error) {
			return captures[0].(value.Int) + 1, nil
		},
	}})

	clo := value.NewClosure(conn, nil, []value.Value{value.Int(41)})
	got, err := NewClosureApplier(rt, clo).Apply(nil)
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), got)
}

func TestApplyNullConnectiveIsNoOp(t *testing.T) {
	rt := testRuntime(t)
	clo := value.NewClosure(nil, nil, nil)
	got, err := NewClosureApplier(rt, clo).Apply(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestApplyNonRoutineConnectiveIsNoOp(t *testing.T) {
	rt := testRuntime(t)
	conn, err := rt.NewObject()
	require.NoError(t, err)
	clo := value.NewClosure(conn, nil, nil)
	got, err := NewClosureApplier(rt, clo).Apply(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestApplyDumperCallbackSignature(t *testing.T) {
	rt := testRuntime(t)
	conn, err := rt.NewObject()
	require.NoError(t, err)

	var emitted []string
	conn.PutPayload(&stubRoutineHolder{routine: Routine{
		Signature: SigDumperCallback,
		DumperCallback: func(captures []value.Value, emit func(string)) error {
			for _, c := range captures {
				emit(c.(value.String).String())
			}
			return nil
		},
	}})

	clo := value.NewClosure(conn, nil, []value.Value{mustString(t, "a"), mustString(t, "b")})
	err = NewClosureApplier(rt, clo).ApplyDumperCallback(func(s string) {
		emitted = append(emitted, s)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, emitted)
}

func TestApplyDumperCallbackWrongSignatureIsNoOp(t *testing.T) {
	rt := testRuntime(t)
	conn, err := rt.NewObject()
	require.NoError(t, err)
	conn.PutPayload(&stubRoutineHolder{routine: Routine{Signature: SigValue}})

	clo := value.NewClosure(conn, nil, nil)
	called := false
	err = NewClosureApplier(rt, clo).ApplyDumperCallback(func(string) { called = true })
	require.NoError(t, err)
	assert.False(t, called)
}

func TestApplyRegularSignatureViaApplyIsNoOpForDumperCallback(t *testing.T) {
	rt := testRuntime(t)
	conn, err := rt.NewObject()
	require.NoError(t, err)
	conn.PutPayload(&stubRoutineHolder{routine: Routine{
		Signature: SigDumperCallback,
		DumperCallback: func([]value.Value, func(string)) error {
			return nil
		},
	}})

	clo := value.NewClosure(conn, nil, nil)
	got, err := NewClosureApplier(rt, clo).Apply(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func mustString(t *testing.T, s string) value.String {
	t.Helper()
	v, err := value.NewString(s)
	require.NoError(t, err)
	return v
}
