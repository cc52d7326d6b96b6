package testutil

import "sync"

// RecordingFeedback records every announced result.
//
// During, if set, runs inside AnnounceResult. Tests use it to inject button
// edges while the result is being announced.
type RecordingFeedback struct {
	During func(passed bool)

	mu      sync.Mutex
	results []bool
}

// AnnounceResult records passed and runs During.
func (f *RecordingFeedback) AnnounceResult(passed bool) {
	f.mu.Lock()
	f.results = append(f.results, passed)
	f.mu.Unlock()

	if f.During != nil {
		f.During(passed)
	}
}

// Results returns the results announced so far.
func (f *RecordingFeedback) Results() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.results))
	copy(out, f.results)
	return out
}
