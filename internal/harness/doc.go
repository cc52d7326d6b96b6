// Package harness exercises the keypad outside the device.
//
// It has two halves. The scenario runner drives a Device tick by tick with
// a manual clock and records a trace of everything that happened. The
// statistical half generates matrices in bulk and checks the grid
// invariants over the whole population.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: correct_pin
//	description: "Six presses that satisfy every PIN position"
//	pin: "123456"
//	seed: 7
//	config:
//	  press_policy: drop
//	matrices:
//	  - [[1, 7, 9], [2, 8, 0], [3, 4, 5], [6, 1, 2]]
//	steps:
//	  - press: true
//	  - repeat: 4
//	  - axis: 1000
//	    press: true
//	    press_offset_ms: 10
//	expect:
//	  results: [pass]
//	  final_row: 1
//	  pending_selections: 0
//	  sessions: 2
//
// Each step runs Repeat ticks (default 1). Axis, once set, holds for the
// following steps. A press edge reaches the debounce gate PressOffsetMS
// into the tick's interval, before the tick runs. During feedback delivers
// one more edge halfway through the result announcement of that tick.
//
// # Deterministic Testing
//
// The runner uses a manual time source, sequential session IDs
// ("session-1", ...), a seeded matrix source behind any fixed matrices,
// and one logical sequence shared by device events and gate edges. The
// same scenario always yields the same trace, so traces are compared
// against golden files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/correct_pin.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
