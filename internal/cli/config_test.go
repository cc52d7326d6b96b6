package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shufflepad/internal/device"
)

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig("keypad.cue", []byte(""))
	require.NoError(t, err)
	assert.Equal(t, device.DefaultConfig(), cfg)
}

func TestParseConfig_Overrides(t *testing.T) {
	src := `
pin:          "424242"
debounce_ms:  120
feedback_ms:  0
press_policy: "buffer"
`
	cfg, err := ParseConfig("keypad.cue", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, device.MustParsePin("424242"), cfg.Pin)
	assert.Equal(t, 120*time.Millisecond, cfg.Debounce)
	assert.Equal(t, time.Duration(0), cfg.FeedbackPacing)
	assert.Equal(t, device.PressPolicyBuffer, cfg.PressPolicy)

	// Untouched fields keep their defaults.
	assert.Equal(t, device.DefaultAxisLow, cfg.AxisLow)
	assert.Equal(t, device.DefaultAxisHigh, cfg.AxisHigh)
	assert.Equal(t, device.DefaultPollPeriod, cfg.PollPeriod)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode string
	}{
		{"short pin", `pin: "12345"`, ErrCodeSchema},
		{"letters in pin", `pin: "12a456"`, ErrCodeSchema},
		{"unknown field", `colour: "red"`, ErrCodeSchema},
		{"zero debounce", `debounce_ms: 0`, ErrCodeSchema},
		{"negative feedback", `feedback_ms: -1`, ErrCodeSchema},
		{"axis above adc range", `axis_high: 5000`, ErrCodeSchema},
		{"unknown policy", `press_policy: "queue"`, ErrCodeSchema},
		{"debounce above a minute", `debounce_ms: 100000`, ErrCodeSchema},
		{"poll period above a minute", `poll_period_ms: 70000`, ErrCodeSchema},
		{"feedback overflowing duration", `feedback_ms: 9223372036854775807`, ErrCodeSchema},
		{"inverted dead zone", "axis_low: 3000\naxis_high: 2000", ErrCodeInvalidThresholds},
		{"equal thresholds", "axis_low: 2000\naxis_high: 2000", ErrCodeInvalidThresholds},
		{"syntax error", "pin: \"123456\"\naxis_low: )", ErrCodeBuildFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("keypad.cue", []byte(tt.src))
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "expected *LoadError, got %T", err)
			assert.Equal(t, tt.wantCode, le.Code, "message: %s", le.Message)
		})
	}
}

func TestParseConfig_TimingAtLimit(t *testing.T) {
	cfg, err := ParseConfig("keypad.cue", []byte("debounce_ms: 60000\npoll_period_ms: 60000\nfeedback_ms: 60000"))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.Debounce)
	assert.Equal(t, time.Minute, cfg.PollPeriod)
	assert.Equal(t, time.Minute, cfg.FeedbackPacing)
}

func TestFileConfig_DeviceConfigRejectsOverflow(t *testing.T) {
	fc := fileConfigOf(device.DefaultConfig())
	fc.FeedbackMS = 9223372036854775807

	_, err := fc.DeviceConfig()
	require.Error(t, err)
	assert.Equal(t, device.ErrCodeInvalidTiming, device.ConfigErrorCodeOf(err))
}

func TestParseConfig_SyntaxErrorPosition(t *testing.T) {
	_, err := ParseConfig("keypad.cue", []byte("pin: \"123456\"\naxis_low: )"))
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	require.True(t, le.Pos.IsValid())
	assert.Equal(t, 2, le.Pos.Line())
	assert.Contains(t, le.Error(), "keypad.cue:2:")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, device.DefaultConfig(), cfg)
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keypad.cue")
	require.NoError(t, os.WriteFile(path, []byte("pin: \"987654\"\npoll_period_ms: 20\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, device.MustParsePin("987654"), cfg.Pin)
	assert.Equal(t, 20*time.Millisecond, cfg.PollPeriod)
}

func TestLoadConfig_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keypad.cue"), []byte("package keypad\n\naxis_low: 1000\n"), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, uint16(1000), cfg.AxisLow)
}

func TestLoadError_Format(t *testing.T) {
	le := &LoadError{Code: ErrCodeSchema, Message: "bad value"}
	assert.Equal(t, "E008: bad value", le.Error())
}

func TestConfigCommand_MasksPin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keypad.cue")
	require.NoError(t, os.WriteFile(path, []byte("pin: \"987654\"\n"), 0644))

	out, _, err := execute(NewConfigCommand(&RootOptions{Format: "text", Config: path}))
	require.NoError(t, err)
	assert.Contains(t, out, "pin:            ******")
	assert.Contains(t, out, "press_policy:   drop")
	assert.NotContains(t, out, "987654")
}

func TestConfigCommand_JSON(t *testing.T) {
	out, _, err := execute(NewConfigCommand(&RootOptions{Format: "json"}))
	require.NoError(t, err)

	var fc FileConfig
	resp := decodeResponse(t, out, &fc)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "******", fc.Pin)
	assert.Equal(t, int64(200), fc.DebounceMS)
	assert.Equal(t, int64(5000), fc.FeedbackMS)
}

func TestConfigCommand_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keypad.cue")
	require.NoError(t, os.WriteFile(path, []byte("axis_low: 3000\naxis_high: 2000\n"), 0644))

	out, _, err := execute(NewConfigCommand(&RootOptions{Format: "json", Config: path}))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidThresholds, resp.Error.Code)
}
