package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileValidModule(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "counter.json")})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, `✓ Compiled "counter"`)
	assert.Contains(t, output, "1 store(s)")
	assert.Contains(t, output, "1 action(s)")
	assert.Contains(t, output, "hash:")
}

func TestCompileValidModuleJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "counter.json")})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Data)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "counter", data["name"])
	assert.NotEmpty(t, data["hash"])
	assert.NotEmpty(t, data["buildId"])
}

func TestCompileWritesOutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "counter.scenario.json")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "counter.json"), "--output", outPath})

	err := cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var scn map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &scn))
	assert.Equal(t, "counter", scn["name"])
	assert.NotEmpty(t, scn["actions"])
}

func TestCompileDeterministicOutput(t *testing.T) {
	runOnce := func() []byte {
		outPath := filepath.Join(t.TempDir(), "out.json")
		cmd := NewCompileCommand(&RootOptions{Format: "text"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{filepath.Join("testdata", "counter.json"), "--output", outPath})
		require.NoError(t, cmd.Execute())
		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		return data
	}

	first := runOnce()
	second := runOnce()
	assert.Equal(t, first, second, "recompiling identical input must be byte-identical")
}

func TestCompileAsyncHandlerFails(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "async.json")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "✗ Compilation failed")
	assert.Contains(t, output, "Async handlers are not supported")
	assert.Contains(t, output, "broken.rv:4:14")
}

func TestCompileAsyncHandlerFailsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "async.json")})

	err := cmd.Execute()
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E202", resp.Error.Code)
}

func TestCompileMissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.json")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "not found")
}

func TestCompileStoresSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")

	run := func() string {
		buf := &bytes.Buffer{}
		cmd := NewCompileCommand(&RootOptions{Format: "text"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{filepath.Join("testdata", "counter.json"), "--db", dbPath})
		require.NoError(t, cmd.Execute())
		return buf.String()
	}

	assert.Contains(t, run(), "stored new snapshot")
	assert.Contains(t, run(), "snapshot already present")
}

func TestCompileVerboseGoesToStderr(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json", Verbose: true}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{filepath.Join("testdata", "counter.json")})

	err := cmd.Execute()
	require.NoError(t, err)

	// Stdout must stay valid JSON with verbose enabled.
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Contains(t, errOut.String(), "Compiling module")
}
