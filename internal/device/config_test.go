package device

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shufflepad/internal/matrix"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint16(1500), cfg.AxisLow)
	assert.Equal(t, uint16(2600), cfg.AxisHigh)
	assert.Equal(t, 200*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 50*time.Millisecond, cfg.PollPeriod)
	assert.Equal(t, PressPolicyDrop, cfg.PressPolicy)
	assert.Equal(t, SecretPin{1, 2, 3, 4, 5, 6}, cfg.Pin)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   ConfigErrorCode
	}{
		{"high beyond adc", func(c *Config) { c.AxisHigh = 5000 }, ErrCodeInvalidThresholds},
		{"no dead zone", func(c *Config) { c.AxisLow = 2600 }, ErrCodeInvalidThresholds},
		{"zero debounce", func(c *Config) { c.Debounce = 0 }, ErrCodeInvalidTiming},
		{"zero poll", func(c *Config) { c.PollPeriod = 0 }, ErrCodeInvalidTiming},
		{"negative pacing", func(c *Config) { c.FeedbackPacing = -time.Second }, ErrCodeInvalidTiming},
		{"debounce above limit", func(c *Config) { c.Debounce = MaxTiming + time.Millisecond }, ErrCodeInvalidTiming},
		{"poll above limit", func(c *Config) { c.PollPeriod = time.Hour }, ErrCodeInvalidTiming},
		{"pacing above limit", func(c *Config) { c.FeedbackPacing = 2 * MaxTiming }, ErrCodeInvalidTiming},
		{"unknown policy", func(c *Config) { c.PressPolicy = "queue" }, ErrCodeInvalidPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
			assert.Equal(t, tt.code, ConfigErrorCodeOf(err))
		})
	}
}

func TestConfig_MaxTimingAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debounce = MaxTiming
	cfg.PollPeriod = MaxTiming
	cfg.FeedbackPacing = MaxTiming
	assert.NoError(t, cfg.Validate())
}

func TestMillis(t *testing.T) {
	d, err := Millis("debounce", 250)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	d, err = Millis("debounce", MaxTiming.Milliseconds())
	require.NoError(t, err)
	assert.Equal(t, MaxTiming, d)

	for _, ms := range []int64{MaxTiming.Milliseconds() + 1, 9223372036854775, 1<<63 - 1} {
		_, err := Millis("feedback_pacing", ms)
		require.Error(t, err, "ms=%d", ms)
		assert.Equal(t, ErrCodeInvalidTiming, ConfigErrorCodeOf(err))
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "feedback_pacing", ce.Field)
	}
}

func TestConfig_ZeroPacingAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeedbackPacing = 0
	assert.NoError(t, cfg.Validate())
}

func TestParsePin(t *testing.T) {
	p, err := ParsePin("908172")
	require.NoError(t, err)
	assert.Equal(t, SecretPin{9, 0, 8, 1, 7, 2}, p)
	assert.Equal(t, matrix.Digit(9), p[0])

	for _, bad := range []string{"", "12345", "1234567", "12a456", "12 456"} {
		_, err := ParsePin(bad)
		require.Error(t, err, bad)
		assert.Equal(t, ErrCodeInvalidPin, ConfigErrorCodeOf(err), bad)
	}
}

func TestSecretPin_StringIsMasked(t *testing.T) {
	p := MustParsePin("123456")
	assert.Equal(t, "******", p.String())
	assert.Equal(t, "******", fmt.Sprint(p))
	assert.Panics(t, func() { MustParsePin("x") })
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Code: ErrCodeInvalidTiming, Message: "bad", Field: "debounce"}
	assert.Equal(t, "INVALID_TIMING: bad (field=debounce)", err.Error())

	err = &ConfigError{Code: ErrCodeInvalidPin, Message: "bad"}
	assert.Equal(t, "INVALID_PIN: bad", err.Error())

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, IsConfigError(wrapped))
	assert.False(t, IsConfigError(fmt.Errorf("other")))
	assert.Equal(t, ConfigErrorCode(""), ConfigErrorCodeOf(fmt.Errorf("other")))
}

func TestSequence(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, int64(0), s.Current())
	assert.Equal(t, int64(1), s.Next())
	assert.Equal(t, int64(2), s.Next())
	assert.Equal(t, int64(2), s.Current())
}

func TestMonotonicTime(t *testing.T) {
	m := NewMonotonicTime()
	a := m.Now()
	b := m.Now()
	assert.GreaterOrEqual(t, b, a)
}
