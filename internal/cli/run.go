package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tapir/internal/engine"
	"github.com/roach88/tapir/internal/machine"
	"github.com/roach88/tapir/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	machineFlags
	Database string

	// IDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// runOutput is the payload printed after a run.
type runOutput struct {
	FinalTape   string `json:"final_tape"`
	TrimmedTape string `json:"trimmed_tape"`
	FinalState  string `json:"final_state"`
	Reason      string `json:"reason"`
	Halted      bool   `json:"halted"`
	Steps       int    `json:"steps"`
	RunID       string `json:"run_id,omitempty"`
}

func (o runOutput) String() string {
	s := fmt.Sprintf("Final tape:  %s\nTrimmed:     %s\nFinal state: %s\nReason:      %s\nHalted:      %t\nSteps:       %d",
		o.FinalTape, o.TrimmedTape, o.FinalState, o.Reason, o.Halted, o.Steps)
	if o.RunID != "" {
		s += fmt.Sprintf("\nRun ID:      %s", o.RunID)
	}
	return s
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [table-file]",
		Short: "Execute a transition table against a tape",
		Long: `Execute a transition table against a tape and print the final tape.

The run halts when a halting state is reached or no transition matches.
A run cut off by --max-steps or --detect-loops exits with status 1; the
partial tape is still printed.

With --db the finished run (and its trace) is recorded in the run-history
database.

Example:
  tapir run add.tur --tape 'I#IIII' --start Q0 --halt QE
  tapir run --manifest run.yaml --db ./history.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tablePath := ""
			if len(args) > 0 {
				tablePath = args[0]
			}
			return runMachine(opts, tablePath, cmd)
		},
	}

	opts.machineFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this run-history database")

	return cmd
}

func runMachine(opts *RunOptions, tablePath string, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	in, err := opts.machineFlags.resolve(tablePath)
	if err != nil {
		return err
	}

	// Collect a trace whenever the run will be recorded or the manifest
	// asked for one.
	var collector *engine.Collector
	var sink engine.TraceSink
	if in.Trace || opts.Database != "" {
		collector = &engine.Collector{}
		sink = collector
	}

	eng := buildEngine(in, sink)
	res, err := eng.Run(in.Tape, in.Start)
	if err != nil {
		if engine.IsInvalidStartState(err) {
			return WrapExitError(ExitCommandError, ErrCodeStartState, err)
		}
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	out := runOutput{
		FinalTape:   machine.SymbolsString(res.Tape),
		TrimmedTape: machine.SymbolsString(machine.TrimBlanks(res.Tape)),
		FinalState:  string(res.FinalState),
		Reason:      string(res.Reason),
		Halted:      res.Halted,
		Steps:       res.Steps,
	}

	if opts.Database != "" {
		runID, err := recordRun(opts, in, res, collector, cmd)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		out.RunID = runID
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if err := formatter.Success(out); err != nil {
		return err
	}

	if !res.Halted {
		return NewExitError(ExitFailure, fmt.Sprintf("run stopped without halting: %s", res.Reason))
	}
	return nil
}

// recordRun persists the finished run and its trace.
func recordRun(opts *RunOptions, in *runInputs, res *engine.Result, collector *engine.Collector, cmd *cobra.Command) (string, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer st.Close()

	idGen := opts.IDGenerator
	if idGen == nil {
		idGen = store.UUIDv7Generator{}
	}
	runID := idGen.Generate()

	record := store.RunRecord{
		ID:          runID,
		TableHash:   machine.TableHash(in.Table),
		StartState:  string(in.Start),
		FinalState:  string(res.FinalState),
		Halted:      res.Halted,
		Reason:      string(res.Reason),
		Steps:       res.Steps,
		InitialTape: machine.SymbolsString(in.Tape),
		FinalTape:   machine.SymbolsString(res.Tape),
	}

	var trace []engine.TraceEntry
	if collector != nil {
		trace = collector.Entries()
	}

	if err := st.RecordRun(cmd.Context(), record, trace); err != nil {
		return "", err
	}
	return runID, nil
}
