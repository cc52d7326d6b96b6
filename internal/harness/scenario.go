package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shufflepad/internal/device"
	"github.com/roach88/shufflepad/internal/matrix"
)

// Scenario defines one scripted use of the keypad.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario demonstrates.
	Description string `yaml:"description"`

	// Pin is the secret. Defaults to device.DefaultPin.
	Pin string `yaml:"pin,omitempty"`

	// Seed drives the matrices generated once Matrices runs out.
	Seed uint64 `yaml:"seed,omitempty"`

	// Config overrides device defaults.
	Config ConfigOverrides `yaml:"config,omitempty"`

	// Matrices are shown, in order, by the first sessions.
	Matrices [][][]int `yaml:"matrices,omitempty"`

	// Steps is the input script.
	Steps []Step `yaml:"steps"`

	// Expect is checked after the last step.
	Expect Expect `yaml:"expect"`
}

// ConfigOverrides replaces individual device defaults. Unset fields keep
// the default.
type ConfigOverrides struct {
	AxisLow      *uint16 `yaml:"axis_low,omitempty"`
	AxisHigh     *uint16 `yaml:"axis_high,omitempty"`
	DebounceMS   *int    `yaml:"debounce_ms,omitempty"`
	PollPeriodMS *int    `yaml:"poll_period_ms,omitempty"`
	FeedbackMS   *int    `yaml:"feedback_ms,omitempty"`
	PressPolicy  string  `yaml:"press_policy,omitempty"`
}

// Step is one or more identical ticks.
type Step struct {
	// Axis is the joystick sample from this step on. Starts at center.
	Axis *int `yaml:"axis,omitempty"`

	// Press delivers one button edge before each tick of the step.
	Press bool `yaml:"press,omitempty"`

	// PressOffsetMS places the edge within the tick interval.
	// Must be below the poll period.
	PressOffsetMS int `yaml:"press_offset_ms,omitempty"`

	// Repeat runs the step this many times. Zero means once.
	Repeat int `yaml:"repeat,omitempty"`

	// DuringFeedback delivers an edge while the tick's verification result
	// is being announced. The tick must complete an attempt.
	DuringFeedback bool `yaml:"during_feedback,omitempty"`
}

// Expect lists the outcome checks. Unset fields are not checked.
type Expect struct {
	// Results are the verification outcomes in order, "pass" or "fail".
	Results []string `yaml:"results,omitempty"`

	// FinalRow is the indicator row after the last step.
	FinalRow *int `yaml:"final_row,omitempty"`

	// PendingSelections is the number of selections in the open attempt.
	PendingSelections *int `yaml:"pending_selections,omitempty"`

	// Sessions is the number of sessions started, including the open one.
	Sessions *int `yaml:"sessions,omitempty"`

	// Dropped is the number of presses discarded after feedback.
	Dropped *int `yaml:"dropped,omitempty"`
}

// Result strings used in Expect.Results.
const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// DeviceConfig applies the scenario's pin and overrides to the defaults.
func (s *Scenario) DeviceConfig() (device.Config, error) {
	cfg := device.DefaultConfig()

	if s.Pin != "" {
		pin, err := device.ParsePin(s.Pin)
		if err != nil {
			return device.Config{}, err
		}
		cfg.Pin = pin
	}

	o := s.Config
	if o.AxisLow != nil {
		cfg.AxisLow = *o.AxisLow
	}
	if o.AxisHigh != nil {
		cfg.AxisHigh = *o.AxisHigh
	}
	if o.DebounceMS != nil {
		d, err := device.Millis("debounce", int64(*o.DebounceMS))
		if err != nil {
			return device.Config{}, err
		}
		cfg.Debounce = d
	}
	if o.PollPeriodMS != nil {
		d, err := device.Millis("poll_period", int64(*o.PollPeriodMS))
		if err != nil {
			return device.Config{}, err
		}
		cfg.PollPeriod = d
	}
	if o.FeedbackMS != nil {
		d, err := device.Millis("feedback_pacing", int64(*o.FeedbackMS))
		if err != nil {
			return device.Config{}, err
		}
		cfg.FeedbackPacing = d
	}
	if o.PressPolicy != "" {
		cfg.PressPolicy = device.PressPolicy(o.PressPolicy)
	}

	if err := cfg.Validate(); err != nil {
		return device.Config{}, err
	}
	return cfg, nil
}

// FixedMatrices converts Matrices.
func (s *Scenario) FixedMatrices() ([]matrix.DigitMatrix, error) {
	out := make([]matrix.DigitMatrix, 0, len(s.Matrices))
	for i, rows := range s.Matrices {
		m, err := matrix.FromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("matrices[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	cfg, err := s.DeviceConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if _, err := s.FixedMatrices(); err != nil {
		return err
	}

	poll := cfg.PollPeriod.Milliseconds()
	for i, step := range s.Steps {
		if step.Axis != nil && (*step.Axis < 0 || *step.Axis > int(device.AxisMax)) {
			return fmt.Errorf("steps[%d]: axis %d outside 0..%d", i, *step.Axis, device.AxisMax)
		}
		if step.Repeat < 0 {
			return fmt.Errorf("steps[%d]: repeat must not be negative", i)
		}
		if step.PressOffsetMS < 0 || int64(step.PressOffsetMS) >= poll {
			return fmt.Errorf("steps[%d]: press_offset_ms %d outside 0..%d", i, step.PressOffsetMS, poll-1)
		}
		if step.PressOffsetMS != 0 && !step.Press {
			return fmt.Errorf("steps[%d]: press_offset_ms without press", i)
		}
	}

	for i, r := range s.Expect.Results {
		if r != ResultPass && r != ResultFail {
			return fmt.Errorf("expect.results[%d]: %q is not %q or %q", i, r, ResultPass, ResultFail)
		}
	}
	if row := s.Expect.FinalRow; row != nil && (*row < 0 || *row >= matrix.Rows) {
		return fmt.Errorf("expect.final_row %d outside 0..%d", *row, matrix.Rows-1)
	}
	if n := s.Expect.PendingSelections; n != nil && (*n < 0 || *n >= device.PinLength) {
		return fmt.Errorf("expect.pending_selections %d outside 0..%d", *n, device.PinLength-1)
	}

	return nil
}
