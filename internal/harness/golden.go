package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/shufflepad/internal/matrix"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
	Frame        string       `json:"frame"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// matrix.MarshalCanonical only handles primitives, maps and slices.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":     event.Seq,
			"tick":    event.Tick,
			"kind":    event.Kind,
			"session": event.Session,
		}
		if event.SessionID != "" {
			eventMap["session_id"] = event.SessionID
		}
		if event.MatrixID != "" {
			eventMap["matrix_id"] = event.MatrixID
		}
		if event.Matrix != nil {
			eventMap["matrix"] = event.Matrix
		}
		if event.Row != nil {
			eventMap["row"] = *event.Row
		}
		if event.Position > 0 {
			eventMap["position"] = event.Position
		}
		if event.Passed != nil {
			eventMap["passed"] = *event.Passed
		}
		if event.Gate != "" {
			eventMap["gate"] = event.Gate
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
		"frame":         s.Frame,
	}
}

// MarshalSnapshot renders a result as canonical JSON, the golden file format.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Frame:        result.Frame,
	}
	return matrix.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
