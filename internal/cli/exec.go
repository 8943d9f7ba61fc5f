package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tapir/internal/engine"
	"github.com/roach88/tapir/internal/machine"
)

// configureLogging installs the slog handler for a command invocation.
// Debug level under --verbose, Info otherwise, always on stderr so stdout
// stays clean for tape output.
func configureLogging(opts *RootOptions) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// runInputs are the fully resolved parameters of one machine run,
// whether they came from flags or a manifest.
type runInputs struct {
	TablePath   string
	Table       *machine.Table
	Tape        []machine.Symbol
	Start       machine.State
	Halting     []machine.State
	MaxSteps    int
	Trace       bool
	DetectLoops bool
}

// machineFlags are the run parameters shared by the run and trace
// commands.
type machineFlags struct {
	Tape        string
	Start       string
	Halt        []string
	MaxSteps    int
	DetectLoops bool
	Manifest    string
}

// register adds the shared flags to a command.
func (f *machineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Tape, "tape", "", "initial tape contents, one symbol per character")
	cmd.Flags().StringVar(&f.Start, "start", "", "start state (default: first rule's current state)")
	cmd.Flags().StringArrayVar(&f.Halt, "halt", nil, "halting state label (repeatable)")
	cmd.Flags().IntVar(&f.MaxSteps, "max-steps", 0, "stop after this many steps (0 = unlimited)")
	cmd.Flags().BoolVar(&f.DetectLoops, "detect-loops", false, "stop when an exact machine configuration repeats")
	cmd.Flags().StringVar(&f.Manifest, "manifest", "", "YAML run manifest; replaces the table argument and run flags")
}

// resolve loads the table and merges manifest values over flag values.
// With a manifest, the manifest's fields win and the table argument is
// not required; otherwise tablePath must name the table file.
func (f *machineFlags) resolve(tablePath string) (*runInputs, error) {
	in := &runInputs{
		TablePath:   tablePath,
		Tape:        machine.ParseTape(f.Tape),
		Start:       machine.State(f.Start),
		MaxSteps:    f.MaxSteps,
		DetectLoops: f.DetectLoops,
	}
	for _, h := range f.Halt {
		in.Halting = append(in.Halting, machine.State(h))
	}

	if f.Manifest != "" {
		m, err := LoadManifest(f.Manifest)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load manifest", err)
		}
		in.TablePath = m.Table
		if m.Tape != "" {
			in.Tape = machine.ParseTape(m.Tape)
		}
		if m.StartState != "" {
			in.Start = machine.State(m.StartState)
		}
		if len(m.HaltingStates) > 0 {
			in.Halting = in.Halting[:0]
			for _, h := range m.HaltingStates {
				in.Halting = append(in.Halting, machine.State(h))
			}
		}
		if m.MaxSteps > 0 {
			in.MaxSteps = m.MaxSteps
		}
		if m.DetectLoops {
			in.DetectLoops = true
		}
		in.Trace = m.Trace
	}

	if in.TablePath == "" {
		return nil, NewExitError(ExitCommandError, "no table file given (argument or manifest)")
	}

	table, err := LoadTable(in.TablePath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load table", err)
	}
	in.Table = table

	if in.Start == "" {
		in.Start = table.Start()
	}
	return in, nil
}

// buildEngine assembles an engine from resolved inputs plus an optional
// trace sink.
func buildEngine(in *runInputs, sink engine.TraceSink) *engine.Engine {
	opts := []engine.Option{
		engine.WithHaltingStates(in.Halting...),
	}
	if in.MaxSteps > 0 {
		opts = append(opts, engine.WithMaxSteps(in.MaxSteps))
	}
	if in.DetectLoops {
		opts = append(opts, engine.WithLoopDetection())
	}
	if sink != nil {
		opts = append(opts, engine.WithTraceSink(sink))
	}
	return engine.New(in.Table, opts...)
}
