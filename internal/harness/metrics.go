package harness

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var harnessMatrices = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shufflepad_harness_matrices_total",
	Help: "Matrices checked by the statistical harness, by validity.",
}, []string{"result"})

func validityLabel(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
