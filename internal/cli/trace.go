package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tapir/internal/engine"
	"github.com/roach88/tapir/internal/machine"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	machineFlags
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [table-file]",
		Short: "Execute a table, printing every step",
		Long: `Execute a transition table, printing the tape and head before each
step along with the rule that fired:

  IbIIII
   ^Q0   Q0 b Q1 I R

Steps stream as they happen, so a long run can be watched (and killed)
mid-flight. Give --max-steps when the table might not halt.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tablePath := ""
			if len(args) > 0 {
				tablePath = args[0]
			}
			return traceMachine(opts, tablePath, cmd)
		},
	}

	opts.machineFlags.register(cmd)

	return cmd
}

func traceMachine(opts *TraceOptions, tablePath string, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	in, err := opts.machineFlags.resolve(tablePath)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	// Streaming sink: each step is printed as it happens, nothing is
	// accumulated.
	sink := engine.SinkFunc(func(e engine.TraceEntry) {
		if opts.Format == "json" {
			fmt.Fprintf(w, `{"step":%d,"state":%q,"head":%d,"read":%q,"rule":%q}`+"\n",
				e.Step, e.State, e.Head, e.Read.String(), e.Transition.String())
			return
		}
		col := e.Column
		if col < 0 {
			col = 0
		}
		fmt.Fprintf(w, "%s\n%s^%s   %s\n\n", e.Tape, strings.Repeat(" ", col), e.State, e.Transition)
	})

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
	formatter := &OutputFormatter{Format: opts.Format, Writer: w, Verbose: opts.Verbose}
	if err := formatter.Success(out); err != nil {
		return err
	}

	if !res.Halted {
		return NewExitError(ExitFailure, fmt.Sprintf("run stopped without halting: %s", res.Reason))
	}
	return nil
}
