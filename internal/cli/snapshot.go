package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reverie-ui/reverie/internal/snapshot"
)

// SnapshotOptions holds flags shared by the snapshot subcommands.
type SnapshotOptions struct {
	*RootOptions
	DB string
}

// SnapshotInfo is the JSON row shape for snapshot listings.
type SnapshotInfo struct {
	Hash        string `json:"hash"`
	Name        string `json:"name"`
	ActionsHash string `json:"actionsHash"`
	BuildID     string `json:"buildId"`
	Seq         int64  `json:"seq"`
}

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect stored scenario snapshots",
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "reverie.db", "snapshot database path")

	cmd.AddCommand(newSnapshotPutCommand(opts))
	cmd.AddCommand(newSnapshotListCommand(opts))
	cmd.AddCommand(newSnapshotShowCommand(opts))

	return cmd
}

func newSnapshotPutCommand(opts *SnapshotOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "put <name> <scenario.json>",
		Short:         "Store an already-compiled scenario",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotPut(opts, args[0], args[1], cmd)
		},
	}
}

func newSnapshotListCommand(opts *SnapshotOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list <name>",
		Short:         "List snapshots for a scenario name",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotList(opts, args[0], cmd)
		},
	}
}

func newSnapshotShowCommand(opts *SnapshotOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <hash>",
		Short:         "Print the stored scenario JSON for a hash",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotShow(opts, args[0], cmd)
		},
	}
}

// SnapshotPutResult is the success payload for snapshot put.
type SnapshotPutResult struct {
	Hash    string `json:"hash"`
	Name    string `json:"name"`
	BuildID string `json:"buildId"`
	Created bool   `json:"created"`
}

func runSnapshotPut(opts *SnapshotOptions, name, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	emitted, err := os.ReadFile(path)
	if err != nil {
		return commandError(formatter, ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", path, err))
	}

	// Only schema-conforming scenarios enter the store, same as compile.
	if verrs := validateEmitted(emitted); len(verrs) > 0 {
		return outputSchemaErrors(formatter, verrs)
	}

	buildID, err := uuid.NewV7()
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, fmt.Sprintf("generating build id: %v", err))
	}

	store, err := snapshot.Open(opts.DB)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, fmt.Sprintf("opening %s: %v", opts.DB, err))
	}
	defer store.Close()

	var scn struct {
		Actions json.RawMessage `json:"actions"`
	}
	if err := json.Unmarshal(emitted, &scn); err != nil {
		return commandError(formatter, ErrCodeBadInput, fmt.Sprintf("extracting actions: %v", err))
	}

	hash, created, err := store.Put(cmd.Context(), name, emitted, scn.Actions, buildID.String())
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(SnapshotPutResult{
			Hash:    hash,
			Name:    name,
			BuildID: buildID.String(),
			Created: created,
		})
	}
	if created {
		fmt.Fprintf(formatter.Writer, "✓ Stored snapshot %s for %q\n", hash, name)
	} else {
		fmt.Fprintf(formatter.Writer, "✓ Snapshot %s for %q already present\n", hash, name)
	}
	return nil
}

func runSnapshotList(opts *SnapshotOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	store, err := snapshot.Open(opts.DB)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, fmt.Sprintf("opening %s: %v", opts.DB, err))
	}
	defer store.Close()

	snaps, err := store.List(cmd.Context(), name)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, err.Error())
	}

	infos := make([]SnapshotInfo, len(snaps))
	for i, snap := range snaps {
		infos[i] = SnapshotInfo{
			Hash:        snap.Hash,
			Name:        snap.Name,
			ActionsHash: snap.ActionsHash,
			BuildID:     snap.BuildID,
			Seq:         snap.Seq,
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintf(formatter.Writer, "No snapshots for %q\n", name)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%d snapshot(s) for %q:\n", len(infos), name)
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "  %4d  %s  build %s\n", info.Seq, info.Hash, info.BuildID)
	}
	return nil
}

func runSnapshotShow(opts *SnapshotOptions, hash string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	store, err := snapshot.Open(opts.DB)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, fmt.Sprintf("opening %s: %v", opts.DB, err))
	}
	defer store.Close()

	snap, err := store.Get(cmd.Context(), hash)
	if errors.Is(err, snapshot.ErrNotFound) {
		return commandError(formatter, ErrCodeStoreFailed, fmt.Sprintf("no snapshot with hash %s", hash))
	}
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, err.Error())
	}

	// The body is already JSON; print it raw in both formats.
	formatter.Writer.Write(snap.Body)
	fmt.Fprintln(formatter.Writer)
	return nil
}
