package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reverie-ui/reverie/internal/ir"
	"github.com/reverie-ui/reverie/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateSummary is the success payload for the validate command.
type ValidateSummary struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <scenario.json>",
		Short: "Validate scenario JSON against the schema",
		Long: `Validate a compiled scenario JSON file against the scenario schema.

Reports every violation with its path into the document. Exit code 1
means the document is invalid; exit code 2 means it could not be read.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return commandError(formatter, ErrCodeReadFailed, fmt.Sprintf("scenario file not found: %s", path))
		}
		return commandError(formatter, ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", path, err))
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return commandError(formatter, ErrCodeSchemaFailed, fmt.Sprintf("loading schema: %v", err))
	}

	if verrs := validator.Validate(data); len(verrs) > 0 {
		if formatter.Format == "json" {
			_ = formatter.Error(ErrCodeSchemaFailed, fmt.Sprintf("%d schema violation(s)", len(verrs)), verrs)
			return NewExitError(ExitFailure, "validation failed")
		}
		fmt.Fprintf(formatter.Writer, "✗ %s is invalid\n", path)
		for _, verr := range verrs {
			if verr.Path != "" {
				fmt.Fprintf(formatter.Writer, "  %s: %s\n", verr.Path, verr.Message)
			} else {
				fmt.Fprintf(formatter.Writer, "  %s\n", verr.Message)
			}
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	hash, err := ir.ScenarioHash(data)
	if err != nil {
		return commandError(formatter, ErrCodeBadInput, fmt.Sprintf("hashing %s: %v", path, err))
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidateSummary{Path: path, Hash: hash})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", path)
	fmt.Fprintf(formatter.Writer, "  hash: %s\n", hash)
	return nil
}
