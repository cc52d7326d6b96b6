package cli

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/shufflepad/internal/device"
)

//go:embed config.cue
var configSchema string

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeSchema       = "E008" // Config does not satisfy #Config
	ErrCodeStore        = "E009" // Database error
	ErrCodeScenario     = "E010" // Scenario could not be loaded or run
	ErrCodeInvalidBatch = "E020" // Stored batch holds invalid matrices

	// Device config errors
	ErrCodeInvalidPin        = "E101"
	ErrCodeInvalidThresholds = "E102"
	ErrCodeInvalidTiming     = "E103"
	ErrCodeInvalidPolicy     = "E104"
)

// LoadError represents an error that occurred while loading a config.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FileConfig is the decoded config file, in file units.
type FileConfig struct {
	Pin          string `json:"pin"`
	AxisLow      int64  `json:"axis_low"`
	AxisHigh     int64  `json:"axis_high"`
	DebounceMS   int64  `json:"debounce_ms"`
	PollPeriodMS int64  `json:"poll_period_ms"`
	FeedbackMS   int64  `json:"feedback_ms"`
	PressPolicy  string `json:"press_policy"`
}

// LoadConfig reads a device config. An empty path gives the defaults.
// path may be a .cue file or a directory holding one CUE package.
func LoadConfig(path string) (device.Config, error) {
	if path == "" {
		return device.DefaultConfig(), nil
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return device.Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config not found: %s", path)}
	}
	if err != nil {
		return device.Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing config: %v", err)}
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return device.Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return device.Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return device.Config{}, cueLoadError(ErrCodeBuildFailed, err)
	}
	return compileConfig(ctx, value)
}

// ParseConfig compiles config source held in memory. filename is used in
// error positions.
func ParseConfig(filename string, src []byte) (device.Config, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return device.Config{}, cueLoadError(ErrCodeBuildFailed, err)
	}
	return compileConfig(ctx, value)
}

// compileConfig unifies value with #Config and converts the result.
func compileConfig(ctx *cue.Context, value cue.Value) (device.Config, error) {
	schema := ctx.CompileString(configSchema, cue.Filename("config.cue"))
	if err := schema.Err(); err != nil {
		return device.Config{}, cueLoadError(ErrCodeGeneric, err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return device.Config{}, cueLoadError(ErrCodeSchema, err)
	}

	fc, err := decodeFileConfig(v)
	if err != nil {
		return device.Config{}, err
	}

	c, err := fc.DeviceConfig()
	if err != nil {
		return device.Config{}, deviceLoadError(v, err)
	}
	return c, nil
}

// decodeFileConfig reads each field, taking defaults where the file left
// one open.
func decodeFileConfig(v cue.Value) (FileConfig, error) {
	var (
		fc   FileConfig
		errs []error
	)
	str := func(name string, dst *string) {
		s, err := field(v, name).String()
		if err != nil {
			errs = append(errs, err)
		}
		*dst = s
	}
	num := func(name string, dst *int64) {
		n, err := field(v, name).Int64()
		if err != nil {
			errs = append(errs, err)
		}
		*dst = n
	}

	str("pin", &fc.Pin)
	num("axis_low", &fc.AxisLow)
	num("axis_high", &fc.AxisHigh)
	num("debounce_ms", &fc.DebounceMS)
	num("poll_period_ms", &fc.PollPeriodMS)
	num("feedback_ms", &fc.FeedbackMS)
	str("press_policy", &fc.PressPolicy)

	if len(errs) > 0 {
		return FileConfig{}, cueLoadError(ErrCodeSchema, errs[0])
	}
	return fc, nil
}

// DeviceConfig converts file units and validates the result.
func (fc FileConfig) DeviceConfig() (device.Config, error) {
	pin, err := device.ParsePin(fc.Pin)
	if err != nil {
		return device.Config{}, err
	}
	c := device.Config{
		Pin:         pin,
		AxisLow:     uint16(fc.AxisLow),
		AxisHigh:    uint16(fc.AxisHigh),
		PressPolicy: device.PressPolicy(fc.PressPolicy),
	}
	for _, t := range []struct {
		field string
		ms    int64
		dst   *time.Duration
	}{
		{"debounce", fc.DebounceMS, &c.Debounce},
		{"poll_period", fc.PollPeriodMS, &c.PollPeriod},
		{"feedback_pacing", fc.FeedbackMS, &c.FeedbackPacing},
	} {
		if *t.dst, err = device.Millis(t.field, t.ms); err != nil {
			return device.Config{}, err
		}
	}
	if err := c.Validate(); err != nil {
		return device.Config{}, err
	}
	return c, nil
}

// fileConfigOf is the inverse of DeviceConfig, for printing.
func fileConfigOf(c device.Config) FileConfig {
	return FileConfig{
		Pin:          c.Pin.String(),
		AxisLow:      int64(c.AxisLow),
		AxisHigh:     int64(c.AxisHigh),
		DebounceMS:   c.Debounce.Milliseconds(),
		PollPeriodMS: c.PollPeriod.Milliseconds(),
		FeedbackMS:   c.FeedbackPacing.Milliseconds(),
		PressPolicy:  string(c.PressPolicy),
	}
}

func field(v cue.Value, name string) cue.Value {
	f := v.LookupPath(cue.ParsePath(name))
	if d, ok := f.Default(); ok {
		return d
	}
	return f
}

// cueLoadError extracts position info from CUE errors.
func cueLoadError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	// Return first error with position info
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// fileFieldNames maps device.ConfigError fields to config file fields
// where the two differ.
var fileFieldNames = map[string]string{
	"debounce":        "debounce_ms",
	"poll_period":     "poll_period_ms",
	"feedback_pacing": "feedback_ms",
}

// deviceLoadError maps a device.ConfigError onto a LoadError pointing at
// the offending field.
func deviceLoadError(v cue.Value, err error) *LoadError {
	code := ErrCodeGeneric
	switch device.ConfigErrorCodeOf(err) {
	case device.ErrCodeInvalidPin:
		code = ErrCodeInvalidPin
	case device.ErrCodeInvalidThresholds:
		code = ErrCodeInvalidThresholds
	case device.ErrCodeInvalidTiming:
		code = ErrCodeInvalidTiming
	case device.ErrCodeInvalidPolicy:
		code = ErrCodeInvalidPolicy
	}

	le := &LoadError{Code: code, Message: err.Error()}
	var ce *device.ConfigError
	if stderrors.As(err, &ce) && ce.Field != "" {
		name := ce.Field
		if fileName, ok := fileFieldNames[name]; ok {
			name = fileName
		}
		if f := v.LookupPath(cue.ParsePath(name)); f.Exists() {
			le.Pos = f.Pos()
		}
	}
	return le
}
