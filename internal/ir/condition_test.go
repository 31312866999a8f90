package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonMarshal(t *testing.T) {
	c := &Comparison{
		Type:  CmpLessThanOrEqual,
		Left:  &StoreValue{StoreRef: StoreRef{Scope: ScopeScenario, Storage: StorageMemory}, KeyPath: "qty"},
		Right: &Literal{Type: TypeInteger, Value: LitInt(10)},
	}
	got, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"lessThanOrEqual","left":{"kind":"storeValue","storeRef":{"scope":"scenario","storage":"memory"},"keyPath":"qty"},"right":{"kind":"literal","type":"integer","value":10}}`,
		string(got))
}

func TestLogicalMarshalFlat(t *testing.T) {
	l := &Logical{
		Type: LogicAnd,
		Conditions: []Condition{
			&Comparison{Type: CmpEquals,
				Left:  &Literal{Type: TypeBool, Value: LitBool(true)},
				Right: &Literal{Type: TypeBool, Value: LitBool(true)}},
			&Comparison{Type: CmpNotEquals,
				Left:  &Literal{Type: TypeInteger, Value: LitInt(1)},
				Right: &Literal{Type: TypeInteger, Value: LitInt(2)}},
		},
	}
	got, err := json.Marshal(l)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(got, &decoded))
	assert.Equal(t, "and", decoded["type"])
	assert.Len(t, decoded["conditions"], 2)
}

func TestConditionTypes(t *testing.T) {
	assert.Equal(t, "equals", (&Comparison{Type: CmpEquals}).ConditionType())
	assert.Equal(t, "or", (&Logical{Type: LogicOr}).ConditionType())
}
