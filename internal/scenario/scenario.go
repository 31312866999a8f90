// Package scenario defines the compiled module descriptor: the component
// tree, the store declarations, and the action list the native runtime
// executes. Compiled action bodies live exclusively in the top-level
// actions array; components reference them only by id.
package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/reverie-ui/reverie/internal/ir"
)

// StoreDecl records one store declared by the module.
type StoreDecl struct {
	Name     string      `json:"name"`
	StoreRef ir.StoreRef `json:"storeRef"`
}

// DataField is one entry of a component's data object.
type DataField struct {
	Key   string
	Value ir.LitValue
}

// DataFields is a component's data object. Entries keep the source
// attribute order; event properties appear here holding the string id of
// their compiled action.
type DataFields []DataField

func (f DataFields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		valBytes, err := ir.MarshalLitValue(field.Value)
		if err != nil {
			return nil, fmt.Errorf("data field %q: %w", field.Key, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Component is one node of the emitted component tree.
type Component struct {
	Type     string       `json:"type"`
	Data     DataFields   `json:"data,omitempty"`
	Children []*Component `json:"children,omitempty"`
}

// Scenario is the full compiled output of one authoring module.
type Scenario struct {
	Name    string      `json:"name"`
	Stores  []StoreDecl `json:"stores,omitempty"`
	Root    *Component  `json:"root,omitempty"`
	Actions []ir.Action `json:"actions"`
}

// Encode serializes the scenario to its emitted JSON form. Field and
// entry order is fixed by declaration order throughout, so identical
// compilations produce byte-identical output. Hashing goes through
// canonical form, so the residual HTML escaping here is harmless.
func (s *Scenario) Encode() ([]byte, error) {
	return json.Marshal(s)
}

func (s *Scenario) MarshalJSON() ([]byte, error) {
	type alias Scenario
	return json.Marshal((*alias)(s))
}

// EncodeActions serializes the actions array alone.
func (s *Scenario) EncodeActions() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, a := range s.Actions {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("actions[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Hash returns the content-addressed identity of the scenario.
func (s *Scenario) Hash() (string, error) {
	data, err := s.Encode()
	if err != nil {
		return "", err
	}
	return ir.ScenarioHash(data)
}
