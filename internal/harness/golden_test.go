package harness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenCounterIncrement(t *testing.T) {
	s := loadTestScenario(t, "counter_increment")
	result := RunWithGolden(t, s)

	// The golden bytes are also valid JSON with the expected top level.
	var emitted map[string]interface{}
	require.NoError(t, json.Unmarshal(result.Emitted, &emitted))
	assert.Equal(t, "counter", emitted["name"])
}

func TestGoldenToastThenPop(t *testing.T) {
	s := loadTestScenario(t, "toast_then_pop")
	RunWithGolden(t, s)
}
