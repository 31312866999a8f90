package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reverie-ui/reverie/internal/ir"
)

func demoScenario() *Scenario {
	pop := &ir.NavigationPop{}
	pop.SetID("action_0")
	return &Scenario{
		Name: "demo",
		Stores: []StoreDecl{{
			Name:     "cart",
			StoreRef: ir.StoreRef{Scope: ir.ScopeApp, Storage: ir.StorageMemory},
		}},
		Root: &Component{
			Type: "Screen",
			Data: DataFields{
				{Key: "title", Value: ir.LitString("Demo")},
				{Key: "onTap", Value: ir.LitString("action_0")},
			},
		},
		Actions: []ir.Action{pop},
	}
}

func TestEncodeFieldOrder(t *testing.T) {
	data, err := demoScenario().Encode()
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"demo",`+
			`"stores":[{"name":"cart","storeRef":{"scope":"app","storage":"memory"}}],`+
			`"root":{"type":"Screen","data":{"title":"Demo","onTap":"action_0"}},`+
			`"actions":[{"kind":"navigation.pop","id":"action_0"}]}`,
		string(data))
}

func TestEncodeOmitsEmptySections(t *testing.T) {
	scn := &Scenario{Name: "bare", Actions: []ir.Action{}}
	data, err := scn.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"bare","actions":[]}`, string(data))
}

func TestEncodeDeterministic(t *testing.T) {
	first, err := demoScenario().Encode()
	require.NoError(t, err)
	second, err := demoScenario().Encode()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDataFieldsKeepDeclarationOrder(t *testing.T) {
	// Keys stay in attribute order, never sorted.
	fields := DataFields{
		{Key: "zebra", Value: ir.LitInt(1)},
		{Key: "apple", Value: ir.LitBool(true)},
		{Key: "mango", Value: ir.LitNull{}},
	}
	data, err := fields.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zebra":1,"apple":true,"mango":null}`, string(data))
}

func TestEncodeActions(t *testing.T) {
	scn := demoScenario()
	data, err := scn.EncodeActions()
	require.NoError(t, err)
	assert.Equal(t, `[{"kind":"navigation.pop","id":"action_0"}]`, string(data))

	scn.Actions = nil
	data, err = scn.EncodeActions()
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestEncodeNestedComponents(t *testing.T) {
	scn := &Scenario{
		Name: "tree",
		Root: &Component{
			Type: "Screen",
			Children: []*Component{
				{Type: "Text", Data: DataFields{{Key: "value", Value: ir.LitString("hi")}}},
				{Type: "Spacer"},
			},
		},
		Actions: []ir.Action{},
	}
	data, err := scn.Encode()
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"tree",`+
			`"root":{"type":"Screen","children":[`+
			`{"type":"Text","data":{"value":"hi"}},`+
			`{"type":"Spacer"}]},`+
			`"actions":[]}`,
		string(data))
}

func TestHashMatchesCanonicalScenarioHash(t *testing.T) {
	scn := demoScenario()
	got, err := scn.Hash()
	require.NoError(t, err)

	data, err := scn.Encode()
	require.NoError(t, err)
	want, err := ir.ScenarioHash(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Identical content hashes identically across constructions.
	again, err := demoScenario().Hash()
	require.NoError(t, err)
	assert.Equal(t, got, again)
}
