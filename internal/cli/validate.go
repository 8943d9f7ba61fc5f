package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// validateOutput is the payload printed after validation.
type validateOutput struct {
	Path   string   `json:"path"`
	Kind   string   `json:"kind"` // "table" | "manifest"
	Rules  int      `json:"rules,omitempty"`
	States []string `json:"states,omitempty"`
	Start  string   `json:"start,omitempty"`
}

func (o validateOutput) String() string {
	if o.Kind == "manifest" {
		return fmt.Sprintf("✓ manifest valid: %s (table: %d rules)", o.Path, o.Rules)
	}
	return fmt.Sprintf("✓ table valid: %s (%d rules, %d states, start %s)",
		o.Path, o.Rules, len(o.States), o.Start)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <table-file|manifest.yaml>",
		Short: "Check a table or manifest without running it",
		Long: `Parse a transition-table file, or schema-check a YAML run manifest
(and parse the table it names), reporting errors with line context.
Files ending in .yaml or .yml are treated as manifests.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validatePath(opts, args[0], cmd)
		},
	}

	return cmd
}

func validatePath(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	ext := strings.ToLower(filepath.Ext(path))
	isManifest := ext == ".yaml" || ext == ".yml"

	out := validateOutput{Path: path, Kind: "table"}
	tablePath := path

	if isManifest {
		out.Kind = "manifest"
		m, err := LoadManifest(path)
		if err != nil {
			return reportLoadError(formatter, "manifest validation failed", err)
		}
		tablePath = m.Table
	}

	table, err := LoadTable(tablePath)
	if err != nil {
		return reportLoadError(formatter, "table validation failed", err)
	}

	out.Rules = table.Len()
	out.Start = string(table.Start())
	for _, s := range table.States() {
		out.States = append(out.States, string(s))
	}

	return formatter.Success(out)
}

// reportLoadError prints the failure in the configured format and returns
// the matching ExitError.
func reportLoadError(formatter *OutputFormatter, message string, err error) error {
	code := ErrCodeGeneric
	var lerr *LoadError
	if errors.As(err, &lerr) {
		code = lerr.Code
	}
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, message+" ["+code+"]", err)
}
