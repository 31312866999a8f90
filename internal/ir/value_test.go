package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLitValueSealed(t *testing.T) {
	var _ LitValue = LitString("test")
	var _ LitValue = LitInt(42)
	var _ LitValue = LitFloat(3.14)
	var _ LitValue = LitBool(true)
	var _ LitValue = LitNull{}
	var _ LitValue = LitArray{LitString("a"), LitInt(1)}
	var _ LitValue = LitObject{{Key: "k", Value: LitString("v")}}
}

func TestMarshalLitValue(t *testing.T) {
	tests := []struct {
		name string
		val  LitValue
		want string
	}{
		{"string", LitString("hello"), `"hello"`},
		{"int", LitInt(42), `42`},
		{"negative int", LitInt(-7), `-7`},
		{"float", LitFloat(3.5), `3.5`},
		{"bool", LitBool(true), `true`},
		{"null", LitNull{}, `null`},
		{"array", LitArray{LitInt(1), LitString("two"), LitNull{}}, `[1,"two",null]`},
		{"nested array", LitArray{LitArray{LitInt(1)}}, `[[1]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalLitValue(tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestLitObjectPreservesDeclarationOrder(t *testing.T) {
	obj := LitObject{
		{Key: "zebra", Value: LitInt(1)},
		{Key: "apple", Value: LitInt(2)},
		{Key: "mango", Value: LitInt(3)},
	}

	got, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"zebra":1,"apple":2,"mango":3}`, string(got))
}

func TestLiteralMarshal(t *testing.T) {
	tests := []struct {
		name string
		lit  *Literal
		want string
	}{
		{"integer", &Literal{Type: TypeInteger, Value: LitInt(5)}, `{"kind":"literal","type":"integer","value":5}`},
		{"number", &Literal{Type: TypeNumber, Value: LitFloat(2.5)}, `{"kind":"literal","type":"number","value":2.5}`},
		{"string", &Literal{Type: TypeString, Value: LitString("hi")}, `{"kind":"literal","type":"string","value":"hi"}`},
		{"color", &Literal{Type: TypeColor, Value: LitString("#ff0000")}, `{"kind":"literal","type":"color","value":"#ff0000"}`},
		{"url", &Literal{Type: TypeURL, Value: LitString("https://example.com")}, `{"kind":"literal","type":"url","value":"https://example.com"}`},
		{"null", &Literal{Type: TypeNull, Value: LitNull{}}, `{"kind":"literal","type":"null","value":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.lit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestStoreValueMarshal(t *testing.T) {
	v := &StoreValue{
		StoreRef: StoreRef{Scope: ScopeApp, Storage: StorageMemory},
		KeyPath:  "user.name",
	}
	got, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t,
		`{"kind":"storeValue","storeRef":{"scope":"app","storage":"memory"},"keyPath":"user.name"}`,
		string(got))
}

func TestComputedMarshal(t *testing.T) {
	v := &Computed{
		Operation: OpMultiply,
		Operands: []ValueExpr{
			&StoreValue{StoreRef: StoreRef{Scope: ScopeApp, Storage: StorageMemory}, KeyPath: "price"},
			&Literal{Type: TypeInteger, Value: LitInt(2)},
		},
	}
	got, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "computed",
		"operation": "multiply",
		"operands": [
			{"kind": "storeValue", "storeRef": {"scope": "app", "storage": "memory"}, "keyPath": "price"},
			{"kind": "literal", "type": "integer", "value": 2}
		]
	}`, string(got))
}

func TestEventDataMarshal(t *testing.T) {
	got, err := json.Marshal(&EventData{Path: "event.value"})
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"eventData","path":"event.value"}`, string(got))
}

func TestExprFieldsPreserveOrder(t *testing.T) {
	fields := ExprFields{
		{Key: "Content-Type", Value: &Literal{Type: TypeString, Value: LitString("application/json")}},
		{Key: "Authorization", Value: &EventData{Path: "event.token"}},
	}
	got, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Content-Type":{"kind":"literal","type":"string","value":"application/json"},"Authorization":{"kind":"eventData","path":"event.token"}}`,
		string(got))
}

func TestStoreRefValid(t *testing.T) {
	valid := StoreRef{Scope: ScopeScenario, Storage: StorageUserPrefs}
	assert.True(t, valid.Valid())
	assert.Equal(t, "scenario.userPrefs", valid.String())

	assert.False(t, StoreRef{Scope: "global", Storage: StorageMemory}.Valid())
	assert.False(t, StoreRef{Scope: ScopeApp, Storage: "disk"}.Valid())
	assert.False(t, StoreRef{}.Valid())
}
