package device

import "time"

// Ticker drives the main loop. The poll period is whatever the ticker was
// built with; the loop itself never sleeps.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

// NewTicker returns a Ticker backed by time.Ticker.
func NewTicker(period time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(period)}
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }

func (t *timeTicker) Stop() { t.t.Stop() }
