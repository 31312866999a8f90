package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs a scenario and additionally pins the emitted JSON
// against a golden file at testdata/golden/{scenario.Name}.golden.
//
// Compilation is deterministic, so golden comparison is byte-for-byte.
// To regenerate golden files after an intentional output change:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) *Result {
	t.Helper()

	result, failures := Run(s)
	for _, failure := range failures {
		t.Error(failure)
	}
	if result == nil || result.Emitted == nil {
		t.Fatalf("scenario %s produced no output to compare", s.Name)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, result.Emitted)
	return result
}
