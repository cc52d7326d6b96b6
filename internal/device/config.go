package device

import (
	"fmt"
	"time"
)

// Axis range of the 12-bit ADC.
const (
	AxisMax    uint16 = 4095
	AxisCenter uint16 = 2048
)

// Firmware defaults.
const (
	DefaultAxisLow        uint16 = 1500
	DefaultAxisHigh       uint16 = 2600
	DefaultDebounce              = 200 * time.Millisecond
	DefaultPollPeriod            = 50 * time.Millisecond
	DefaultFeedbackPacing        = 5 * time.Second
	DefaultPin                   = "123456"
)

// MaxTiming bounds every configured duration.
const MaxTiming = time.Minute

// PressPolicy decides what happens to a press accepted while the result of
// the previous attempt is being announced.
type PressPolicy string

const (
	// PressPolicyDrop discards such a press when the new session starts.
	PressPolicyDrop PressPolicy = "drop"

	// PressPolicyBuffer keeps at most one such press; it becomes the first
	// selection of the new session.
	PressPolicyBuffer PressPolicy = "buffer"
)

// Config holds the device parameters.
type Config struct {
	// Pin is the secret checked by every attempt.
	Pin SecretPin

	// AxisLow and AxisHigh bound the dead zone. Below AxisLow the indicator
	// moves down one row per tick, above AxisHigh it moves up.
	AxisLow  uint16
	AxisHigh uint16

	// Debounce is the minimum time between two accepted presses. A press is
	// accepted only if strictly more than Debounce has elapsed.
	Debounce time.Duration

	// PollPeriod is the main loop tick.
	PollPeriod time.Duration

	// FeedbackPacing is how long the result is held on screen while the
	// feedback cue plays. Zero disables the pause.
	FeedbackPacing time.Duration

	// PressPolicy applies to presses accepted during feedback.
	PressPolicy PressPolicy
}

// DefaultConfig returns the values the firmware ships with.
func DefaultConfig() Config {
	return Config{
		Pin:            MustParsePin(DefaultPin),
		AxisLow:        DefaultAxisLow,
		AxisHigh:       DefaultAxisHigh,
		Debounce:       DefaultDebounce,
		PollPeriod:     DefaultPollPeriod,
		FeedbackPacing: DefaultFeedbackPacing,
		PressPolicy:    PressPolicyDrop,
	}
}

// Millis converts a millisecond count from a config file. Counts above
// MaxTiming are rejected before the conversion can overflow.
func Millis(field string, ms int64) (time.Duration, error) {
	if ms > MaxTiming.Milliseconds() {
		return 0, &ConfigError{
			Code:    ErrCodeInvalidTiming,
			Message: fmt.Sprintf("%s %dms exceeds %dms", field, ms, MaxTiming.Milliseconds()),
			Field:   field,
		}
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Validate checks that the device can run with c.
func (c Config) Validate() error {
	if c.AxisHigh > AxisMax {
		return &ConfigError{
			Code:    ErrCodeInvalidThresholds,
			Message: fmt.Sprintf("axis_high %d exceeds %d", c.AxisHigh, AxisMax),
			Field:   "axis_high",
		}
	}
	if c.AxisLow >= c.AxisHigh {
		return &ConfigError{
			Code:    ErrCodeInvalidThresholds,
			Message: fmt.Sprintf("axis_low %d must be below axis_high %d", c.AxisLow, c.AxisHigh),
			Field:   "axis_low",
		}
	}
	if c.Debounce <= 0 {
		return &ConfigError{Code: ErrCodeInvalidTiming, Message: "debounce must be positive", Field: "debounce"}
	}
	if c.PollPeriod <= 0 {
		return &ConfigError{Code: ErrCodeInvalidTiming, Message: "poll period must be positive", Field: "poll_period"}
	}
	if c.FeedbackPacing < 0 {
		return &ConfigError{Code: ErrCodeInvalidTiming, Message: "feedback pacing must not be negative", Field: "feedback_pacing"}
	}
	for _, t := range []struct {
		field string
		d     time.Duration
	}{{"debounce", c.Debounce}, {"poll_period", c.PollPeriod}, {"feedback_pacing", c.FeedbackPacing}} {
		if t.d > MaxTiming {
			return &ConfigError{
				Code:    ErrCodeInvalidTiming,
				Message: fmt.Sprintf("%s %v exceeds %v", t.field, t.d, MaxTiming),
				Field:   t.field,
			}
		}
	}
	switch c.PressPolicy {
	case PressPolicyDrop, PressPolicyBuffer:
	default:
		return &ConfigError{
			Code:    ErrCodeInvalidPolicy,
			Message: fmt.Sprintf("unknown press policy %q", c.PressPolicy),
			Field:   "press_policy",
		}
	}
	return nil
}
