package cmd

import "github.com/opsim/missionsim/sim"

// demoUnits names the two squadrons used by the built-in demo state
// snapshot, matching the benchmark harness this CLI descends from.
var demoUnits = []string{"VMU-1", "VMU-3"}

var demoPayloadTypes = []string{"SkyTower II", "EW Pod", "SmartSensor", "Extended Range Tank"}

// buildDemoState constructs a fixed tabular state snapshot: 5 FMC aircraft,
// 3 of each of 4 payload types, and 10 pilots + 10 sensor operators per
// unit. It exists so `--demo` can exercise the engine without requiring a
// caller to assemble a real state snapshot first.
func buildDemoState() *sim.StateSnapshot {
	var unitRows, aircraftRows, payloadRows, staffingRows []map[string]any

	for _, unit := range demoUnits {
		unitRows = append(unitRows, map[string]any{"Unit": unit})

		for i := 0; i < 5; i++ {
			aircraftRows = append(aircraftRows, map[string]any{"Unit": unit, "Status": "FMC"})
		}

		for _, ptype := range demoPayloadTypes {
			for i := 0; i < 3; i++ {
				payloadRows = append(payloadRows, map[string]any{"Unit": unit, "Type": ptype})
			}
		}

		for i := 0; i < 10; i++ {
			staffingRows = append(staffingRows, map[string]any{"Unit Name": unit, "MOS Number": "7318"})
		}
		for i := 0; i < 10; i++ {
			staffingRows = append(staffingRows, map[string]any{"Unit Name": unit, "MOS Number": "7314"})
		}
	}

	return &sim.StateSnapshot{Tables: map[string]sim.StateTable{
		"v_unit":     {Rows: unitRows},
		"v_aircraft": {Rows: aircraftRows},
		"v_payload":  {Rows: payloadRows},
		"v_staffing": {Rows: staffingRows},
	}}
}
