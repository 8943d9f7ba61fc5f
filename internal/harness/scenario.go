package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden
	// file when golden comparison is used.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Table is the transition-table file path, relative to the scenario
	// file location.
	Table string `yaml:"table"`

	// Tape is the initial tape contents, one symbol per character.
	// Empty means an all-blank tape.
	Tape string `yaml:"tape,omitempty"`

	// StartState overrides the default start state (the first rule's
	// current state).
	StartState string `yaml:"start_state,omitempty"`

	// HaltingStates is the set of labels at which execution halts.
	HaltingStates []string `yaml:"halting_states,omitempty"`

	// MaxSteps is the step ceiling; 0 means unlimited. Scenarios for
	// non-halting tables must set it.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// DetectLoops enables configuration-repeat detection.
	DetectLoops bool `yaml:"detect_loops,omitempty"`

	// Expect holds the assertions on the terminal result.
	Expect ExpectClause `yaml:"expect"`
}

// ExpectClause specifies the expected terminal result. Only set fields
// are checked: a zero Steps pointer means "don't care", not "zero steps".
type ExpectClause struct {
	// Tape is the expected materialized final tape.
	Tape string `yaml:"tape,omitempty"`

	// Trimmed is the expected final tape with surrounding blanks
	// stripped.
	Trimmed string `yaml:"trimmed,omitempty"`

	// State is the expected final state label.
	State string `yaml:"state,omitempty"`

	// Reason is the expected stop reason.
	Reason string `yaml:"reason,omitempty"`

	// Halted is the expected halted flag.
	Halted *bool `yaml:"halted,omitempty"`

	// Steps is the expected step count.
	Steps *int `yaml:"steps,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. The table path is
// resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if s.Table == "" {
		return nil, fmt.Errorf("scenario %s: table is required", path)
	}

	if !filepath.IsAbs(s.Table) {
		s.Table = filepath.Join(filepath.Dir(path), s.Table)
	}
	return &s, nil
}
