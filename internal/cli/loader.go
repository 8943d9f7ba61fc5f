package cli

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tapir/internal/machine"
	"github.com/roach88/tapir/internal/parser"
)

//go:embed manifest.cue
var manifestSchema string

// LoadError represents an error that occurred while loading a table or
// manifest file.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
}

// LoadTable reads and parses a transition-table file.
// Parse failures keep the parser's line context in the message.
func LoadTable(path string) (*machine.Table, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "table file not found"}
		}
		return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: err.Error()}
	}

	table, err := parser.Parse(string(text))
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: perr.Error()}
		}
		return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: err.Error()}
	}
	return table, nil
}

// Manifest bundles the run parameters a caller would otherwise pass as
// flags. The table path is resolved relative to the manifest file.
type Manifest struct {
	Table         string   `yaml:"table"`
	Tape          string   `yaml:"tape,omitempty"`
	StartState    string   `yaml:"start_state,omitempty"`
	HaltingStates []string `yaml:"halting_states,omitempty"`
	MaxSteps      int      `yaml:"max_steps,omitempty"`
	Trace         bool     `yaml:"trace,omitempty"`
	DetectLoops   bool     `yaml:"detect_loops,omitempty"`
}

// LoadManifest reads a YAML run manifest and validates it against the
// embedded CUE schema before decoding. Schema validation catches unknown
// fields and type mismatches with positions the YAML decoder would
// accept silently.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "manifest file not found"}
		}
		return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: err.Error()}
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeManifest, Path: path, Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	if err := validateManifest(raw); err != nil {
		return nil, &LoadError{Code: ErrCodeManifest, Path: path, Message: err.Error()}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &LoadError{Code: ErrCodeManifest, Path: path, Message: err.Error()}
	}

	// Table paths are relative to the manifest, not the working directory.
	if m.Table != "" && !filepath.IsAbs(m.Table) {
		m.Table = filepath.Join(filepath.Dir(path), m.Table)
	}

	return &m, nil
}

// validateManifest unifies the decoded YAML value with the closed
// #Manifest definition.
func validateManifest(raw any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(manifestSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal: manifest schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Manifest"))
	if !def.Exists() {
		return fmt.Errorf("internal: manifest schema missing #Manifest")
	}

	val := ctx.Encode(raw)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("manifest schema violation: %w", err)
	}
	return nil
}
