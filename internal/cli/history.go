package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tapir/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or show one run's trace",
		Long: `With no argument, list every run recorded in the database in
insertion order. With a run ID, show that run's details and its stored
trace.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRun(opts, args[0], cmd)
			}
			return listRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the run-history database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listRuns(opts *HistoryOptions, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeStore, err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return formatter.Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "no recorded runs")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %-14s  steps=%-6d  %s -> %s  tape=%s\n",
			run.ID, run.Reason, run.Steps, run.StartState, run.FinalState, run.FinalTape)
	}
	return nil
}

func showRun(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.GetRun(cmd.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, ErrCodeNotFound, err)
		}
		return WrapExitError(ExitCommandError, ErrCodeStore, err)
	}

	trace, err := st.GetTrace(cmd.Context(), runID)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeStore, err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return formatter.Success(map[string]any{
			"run":   run,
			"trace": trace,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run:          %s\n", run.ID)
	fmt.Fprintf(w, "Recorded:     %s\n", run.CreatedAt)
	fmt.Fprintf(w, "Table hash:   %s\n", run.TableHash)
	fmt.Fprintf(w, "Initial tape: %s\n", run.InitialTape)
	fmt.Fprintf(w, "Final tape:   %s\n", run.FinalTape)
	fmt.Fprintf(w, "States:       %s -> %s\n", run.StartState, run.FinalState)
	fmt.Fprintf(w, "Reason:       %s (halted=%t)\n", run.Reason, run.Halted)
	fmt.Fprintf(w, "Steps:        %d\n", run.Steps)

	if len(trace) == 0 {
		fmt.Fprintln(w, "No trace recorded.")
		return nil
	}
	fmt.Fprintln(w, "Trace:")
	for _, tr := range trace {
		fmt.Fprintf(w, "  %4d  %-10s head=%-5d read=%s  -> %s write=%s move=%s\n",
			tr.Step, tr.State, tr.Head, tr.Read, tr.Next, tr.Write, tr.Move)
	}
	return nil
}
