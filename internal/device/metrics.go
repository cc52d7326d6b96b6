package device

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pressEvents counts gate decisions and presses dropped during feedback.
	pressEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shufflepad_press_events_total",
		Help: "Button press events by outcome",
	}, []string{"result"})

	// verifications counts completed attempts by outcome.
	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shufflepad_verifications_total",
		Help: "PIN verification attempts by result",
	}, []string{"result"})

	// sessionsStarted counts generated session matrices.
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shufflepad_sessions_total",
		Help: "Sessions started",
	})

	// rowChanges counts indicator moves.
	rowChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shufflepad_row_changes_total",
		Help: "Row indicator moves",
	})

	// matrixRedraws counts matrices rejected by the validator before a
	// session started.
	matrixRedraws = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shufflepad_matrix_redraws_total",
		Help: "Session matrices rejected by the validator and drawn again",
	})

	// redrawsExhausted counts sessions started with a rejected matrix
	// because every redraw failed validation too.
	redrawsExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shufflepad_matrix_redraws_exhausted_total",
		Help: "Sessions started after the redraw limit with a rejected matrix",
	})
)

func resultLabel(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}
