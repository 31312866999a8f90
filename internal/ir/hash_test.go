package ir

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioHashDeterministic(t *testing.T) {
	data := []byte(`{"name":"counter","actions":[]}`)

	h1, err := ScenarioHash(data)
	require.NoError(t, err)
	h2, err := ScenarioHash(data)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	_, err = hex.DecodeString(h1)
	assert.NoError(t, err, "hash must be hex")
	assert.Len(t, h1, 64)
}

func TestScenarioHashKeyOrderInvariant(t *testing.T) {
	a := []byte(`{"name":"counter","actions":[]}`)
	b := []byte(`{"actions":[],"name":"counter"}`)

	ha, err := ScenarioHash(a)
	require.NoError(t, err)
	hb, err := ScenarioHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestScenarioHashContentSensitive(t *testing.T) {
	ha, err := ScenarioHash([]byte(`{"name":"a"}`))
	require.NoError(t, err)
	hb, err := ScenarioHash([]byte(`{"name":"b"}`))
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`[]`)

	scenarioHash, err := ScenarioHash(data)
	require.NoError(t, err)
	actionsHash, err := ActionsHash(data)
	require.NoError(t, err)

	assert.NotEqual(t, scenarioHash, actionsHash,
		"same bytes under different domains must hash differently")
}

func TestScenarioHashRejectsMalformedJSON(t *testing.T) {
	_, err := ScenarioHash([]byte(`{broken`))
	assert.Error(t, err)
}

func TestMustScenarioHashPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustScenarioHash([]byte(`{broken`))
	})
}
