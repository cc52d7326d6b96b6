// Package feedback announces attempt outcomes.
//
// Paced plays a short cue (terminal bells here, a buzzer melody on the
// board), logs the outcome and then holds the caller for the configured
// pacing so the result stays on screen before the next session.
package feedback

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Tone is one note of a cue.
type Tone struct {
	Hz       int
	Duration time.Duration
}

// Cues played for each outcome.
var (
	PassCue = []Tone{
		{Hz: 523, Duration: 150 * time.Millisecond},
		{Hz: 659, Duration: 150 * time.Millisecond},
		{Hz: 784, Duration: 300 * time.Millisecond},
	}
	FailCue = []Tone{
		{Hz: 220, Duration: 400 * time.Millisecond},
		{Hz: 196, Duration: 600 * time.Millisecond},
	}
)

// Paced implements the device Feedback contract.
type Paced struct {
	logger *slog.Logger
	out    io.Writer
	pacing time.Duration
	sleep  func(time.Duration)
}

// Option configures a Paced.
type Option func(*Paced)

// WithSleep replaces time.Sleep (tests).
func WithSleep(sleep func(time.Duration)) Option {
	return func(p *Paced) { p.sleep = sleep }
}

// NewPaced creates feedback that writes bells to out (nil for silence) and
// pauses for pacing after each cue.
func NewPaced(logger *slog.Logger, out io.Writer, pacing time.Duration, opts ...Option) *Paced {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Paced{logger: logger, out: out, pacing: pacing, sleep: time.Sleep}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AnnounceResult plays the cue for passed and waits out the pacing.
func (p *Paced) AnnounceResult(passed bool) {
	cue := FailCue
	if passed {
		cue = PassCue
	}

	if p.out != nil {
		_, _ = io.WriteString(p.out, strings.Repeat("\a", len(cue)))
	}
	p.logger.Info("feedback", "passed", passed, "tones", len(cue), "pacing", p.pacing)

	if p.pacing > 0 {
		p.sleep(p.pacing)
	}
}
