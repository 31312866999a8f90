package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRunCounterIncrement(t *testing.T) {
	s := loadTestScenario(t, "counter_increment")

	result, failures := Run(s)
	require.Empty(t, failures)
	require.NotNil(t, result.Compiled)
	assert.NotEmpty(t, result.Hash)
	assert.NotEmpty(t, result.Emitted)
}

func TestRunToastThenPop(t *testing.T) {
	s := loadTestScenario(t, "toast_then_pop")

	result, failures := Run(s)
	require.Empty(t, failures)
	require.NotNil(t, result.Compiled)
	require.Len(t, result.Compiled.Actions, 1)
	assert.Equal(t, "sequence", result.Compiled.Actions[0].ActionKind())
}

func TestRunAsyncRejected(t *testing.T) {
	s := loadTestScenario(t, "async_rejected")

	result, failures := Run(s)
	assert.Empty(t, failures)
	require.NotNil(t, result)
	require.NotNil(t, result.Diagnostic)
	assert.Equal(t, "E202", result.Diagnostic.Code)
	assert.Nil(t, result.Compiled)
}

func TestRunExternalRefRejected(t *testing.T) {
	s := loadTestScenario(t, "external_ref_rejected")

	result, failures := Run(s)
	assert.Empty(t, failures)
	require.NotNil(t, result)
	require.NotNil(t, result.Diagnostic)
	assert.Equal(t, "E201", result.Diagnostic.Code)
}

func TestRunDeterministic(t *testing.T) {
	s := loadTestScenario(t, "counter_increment")

	first, failures := Run(s)
	require.Empty(t, failures)
	second, failures := Run(s)
	require.Empty(t, failures)

	assert.Equal(t, first.Emitted, second.Emitted)
	assert.Equal(t, first.Hash, second.Hash)
}

func TestFailedAssertionReported(t *testing.T) {
	s := loadTestScenario(t, "counter_increment")
	s.Assertions = append(s.Assertions, Assertion{Type: AssertActionCount, Count: 5})

	_, failures := Run(s)
	require.NotEmpty(t, failures)
	assert.Contains(t, failures[len(failures)-1].Error(), "want 5")
}

func TestUnexpectedSuccessReported(t *testing.T) {
	s := loadTestScenario(t, "counter_increment")
	s.Assertions = nil
	s.Expect = &ExpectClause{Error: "E203"}

	_, failures := Run(s)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Error(), "compilation succeeded")
}

func TestWrongDiagnosticCodeReported(t *testing.T) {
	s := loadTestScenario(t, "async_rejected")
	s.Expect.Error = "E999"

	_, failures := Run(s)
	require.NotEmpty(t, failures)
	assert.Contains(t, failures[0].Error(), "want E999")
}
