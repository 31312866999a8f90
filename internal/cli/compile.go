package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reverie-ui/reverie/internal/ast"
	"github.com/reverie-ui/reverie/internal/compiler"
	"github.com/reverie-ui/reverie/internal/schema"
	"github.com/reverie-ui/reverie/internal/snapshot"
)

// Error codes for command-level failures, distinct from the E2xx
// compilation diagnostics which pass through unchanged.
const (
	ErrCodeReadFailed   = "E100"
	ErrCodeBadInput     = "E101"
	ErrCodeWriteFailed  = "E102"
	ErrCodeSchemaFailed = "E103"
	ErrCodeStoreFailed  = "E104"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	DB     string // snapshot database path
}

// CompileSummary is the success payload for the compile command.
type CompileSummary struct {
	Name         string `json:"name"`
	Hash         string `json:"hash"`
	BuildID      string `json:"buildId"`
	StoreCount   int    `json:"storeCount"`
	ActionCount  int    `json:"actionCount"`
	SnapshotNew  bool   `json:"snapshotNew,omitempty"`
	SnapshotPath string `json:"snapshotPath,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <module.json>",
		Short: "Compile a module AST to scenario JSON",
		Long: `Compile a declarative UI module, given as its parsed AST in JSON form,
into the portable scenario JSON the native runtime executes.

Compilation is all-or-nothing: any diagnostic aborts the module and no
partial output is written. The emitted JSON is validated against the
scenario schema before it leaves the compiler.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.DB, "db", "", "snapshot database path (stores the compiled scenario)")

	return cmd
}

func runCompile(opts *CompileOptions, modulePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	buildID, err := uuid.NewV7()
	if err != nil {
		return commandError(formatter, ErrCodeBadInput, fmt.Sprintf("generating build id: %v", err))
	}
	formatter.VerboseLog("Build %s", buildID)

	module, err := loadModule(modulePath)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return commandError(formatter, loadErr.Code, loadErr.Message)
		}
		return commandError(formatter, ErrCodeReadFailed, err.Error())
	}
	formatter.VerboseLog("Compiling module %q from %s", module.Name, modulePath)

	scn, err := compiler.CompileModule(module)
	if err != nil {
		return outputCompileError(formatter, err)
	}

	emitted, err := scn.Encode()
	if err != nil {
		return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("encoding scenario: %v", err))
	}

	if verrs := validateEmitted(emitted); len(verrs) > 0 {
		return outputSchemaErrors(formatter, verrs)
	}
	formatter.VerboseLog("Schema validation passed")

	hash, err := scn.Hash()
	if err != nil {
		return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("hashing scenario: %v", err))
	}

	summary := CompileSummary{
		Name:        scn.Name,
		Hash:        hash,
		BuildID:     buildID.String(),
		StoreCount:  len(scn.Stores),
		ActionCount: len(scn.Actions),
	}

	if opts.DB != "" {
		created, err := storeSnapshot(opts.DB, cmd, scn.Name, emitted, buildID.String())
		if err != nil {
			return commandError(formatter, ErrCodeStoreFailed, err.Error())
		}
		summary.SnapshotNew = created
		summary.SnapshotPath = opts.DB
		if created {
			formatter.VerboseLog("Stored new snapshot %s", hash)
		} else {
			formatter.VerboseLog("Snapshot %s already stored", hash)
		}
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, emitted, 0644); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, summary, emitted, opts.Output)
}

// validateEmitted checks the compiler's own output against the scenario
// schema. A failure here is a compiler bug, not a user error, but it must
// never emit invalid JSON silently.
func validateEmitted(emitted []byte) []schema.ValidationError {
	validator, err := schema.NewValidator()
	if err != nil {
		return []schema.ValidationError{{Message: fmt.Sprintf("loading schema: %v", err)}}
	}
	return validator.Validate(emitted)
}

func storeSnapshot(dbPath string, cmd *cobra.Command, name string, emitted []byte, buildID string) (bool, error) {
	store, err := snapshot.Open(dbPath)
	if err != nil {
		return false, fmt.Errorf("opening snapshot database: %w", err)
	}
	defer store.Close()

	// Actions hash is computed from the actions array alone so version
	// diffing can tell behavior changes from layout changes.
	var scn struct {
		Actions json.RawMessage `json:"actions"`
	}
	if err := json.Unmarshal(emitted, &scn); err != nil {
		return false, fmt.Errorf("extracting actions: %w", err)
	}

	_, created, err := store.Put(cmd.Context(), name, emitted, scn.Actions, buildID)
	if err != nil {
		return false, fmt.Errorf("storing snapshot: %w", err)
	}
	return created, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, summary CompileSummary, emitted []byte, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %q: %d store(s), %d action(s)\n",
		summary.Name, summary.StoreCount, summary.ActionCount)
	fmt.Fprintf(formatter.Writer, "  hash:  %s\n", summary.Hash)
	fmt.Fprintf(formatter.Writer, "  build: %s\n", summary.BuildID)

	if summary.SnapshotPath != "" {
		if summary.SnapshotNew {
			fmt.Fprintf(formatter.Writer, "  stored new snapshot in %s\n", summary.SnapshotPath)
		} else {
			fmt.Fprintf(formatter.Writer, "  snapshot already present in %s\n", summary.SnapshotPath)
		}
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "  wrote scenario JSON to %s\n", outputFile)
	} else {
		fmt.Fprintln(formatter.Writer)
		formatter.Writer.Write(emitted)
		fmt.Fprintln(formatter.Writer)
	}

	return nil
}

// outputCompileError outputs a compilation diagnostic. Diagnostics are
// failures of the input module (exit code 1); anything else escalates to a
// command error.
func outputCompileError(formatter *OutputFormatter, err error) error {
	var compileErr *compiler.CompileError
	if !errors.As(err, &compileErr) {
		return commandError(formatter, ErrCodeBadInput, err.Error())
	}

	if formatter.Format == "json" {
		_ = formatter.Error(compileErr.Code, compileErr.Message, map[string]any{
			"kind":      string(compileErr.Kind),
			"construct": compileErr.Construct,
			"pos":       compileErr.Pos,
		})
		return NewExitError(ExitFailure, compileErr.Error())
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	if compileErr.Pos.IsValid() {
		fmt.Fprintf(formatter.Writer, "%s\n", compileErr.Pos)
	}
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", compileErr.Code, compileErr.Message)
	return NewExitError(ExitFailure, compileErr.Error())
}

// outputSchemaErrors reports schema violations in the emitted JSON.
func outputSchemaErrors(formatter *OutputFormatter, verrs []schema.ValidationError) error {
	if formatter.Format == "json" {
		_ = formatter.Error(ErrCodeSchemaFailed, "emitted scenario failed schema validation", verrs)
		return NewExitError(ExitFailure, "schema validation failed")
	}

	fmt.Fprintln(formatter.Writer, "✗ Emitted scenario failed schema validation")
	for _, verr := range verrs {
		if verr.Path != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", verr.Path, verr.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s\n", verr.Message)
		}
	}
	return NewExitError(ExitFailure, "schema validation failed")
}

// commandError reports a command-level failure (exit code 2).
func commandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// loadModule reads and decodes a module AST file.
func loadModule(path string) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("module file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	module, err := ast.UnmarshalModule(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadInput, Message: fmt.Sprintf("decoding %s: %v", path, err)}
	}
	return module, nil
}

// LoadError is a file-level input failure, before compilation starts.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
