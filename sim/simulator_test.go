package sim

import "testing"

func singleUnitScenario(aircraft, pilots int) (*Scenario, *StateSnapshot) {
	scenario := &Scenario{
		HorizonHours: 10,
		Demand: []DemandSpec{
			{MissionType: "recon", EveryHours: everyHours(5), StartAtHours: 0},
		},
		MissionTypes: []MissionType{
			{
				Name:            "recon",
				RequiredAircrew: &RequiredAircrew{Pilot: 1},
				FlightTime:      Distribution{Kind: DistDeterministic, Value: 2},
			},
		},
	}
	state := &StateSnapshot{Tables: map[string]StateTable{
		"v_unit": {Rows: []map[string]any{{"Unit": "A"}}},
		"v_aircraft": {Rows: func() []map[string]any {
			var rows []map[string]any
			for i := 0; i < aircraft; i++ {
				rows = append(rows, map[string]any{"Unit": "A", "Status": "FMC"})
			}
			return rows
		}()},
		"v_staffing": {Rows: func() []map[string]any {
			var rows []map[string]any
			for i := 0; i < pilots; i++ {
				rows = append(rows, map[string]any{"Unit Name": "A", "MOS Number": "7318"})
			}
			return rows
		}()},
	}}
	return scenario, state
}

func TestRunDES_Scenario1_SingleUnitDeterministic(t *testing.T) {
	scenario, state := singleUnitScenario(1, 1)
	results, err := RunDES(scenario, Options{State: state}, NewSimulationKey(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results.Missions.Requested != 3 {
		t.Fatalf("requested = %d, want 3", results.Missions.Requested)
	}
	if results.Missions.Started != 3 {
		t.Fatalf("started = %d, want 3", results.Missions.Started)
	}
	// Finish times are 2, 7, 12 (demand at 0, 5, 10 plus flight=2); only the
	// first two land at or before the horizon (10), so completed = 2 even
	// though all three missions started.
	if results.Missions.Completed != 2 {
		t.Fatalf("completed = %d, want 2", results.Missions.Completed)
	}
	if results.Missions.Rejected != 0 {
		t.Fatalf("rejected = %d, want 0", results.Missions.Rejected)
	}
	if got := results.Utilization["A"].Aircraft; got != 0.600 {
		t.Fatalf("aircraft utilization = %v, want 0.600", got)
	}
}

func TestRunDES_Scenario2_AircraftStarvation(t *testing.T) {
	scenario, state := singleUnitScenario(0, 1)
	results, err := RunDES(scenario, Options{State: state}, NewSimulationKey(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results.Missions.Requested != 3 {
		t.Fatalf("requested = %d, want 3", results.Missions.Requested)
	}
	if results.Missions.Started != 0 {
		t.Fatalf("started = %d, want 0", results.Missions.Started)
	}
	if results.Missions.Rejected != 3 {
		t.Fatalf("rejected = %d, want 3", results.Missions.Rejected)
	}
	if results.Rejections.Aircraft != 3 {
		t.Fatalf("rejections.aircraft = %d, want 3", results.Rejections.Aircraft)
	}
	for unit, u := range results.Utilization {
		if u.Aircraft != 0 || u.Pilot != 0 || u.SO != 0 {
			t.Fatalf("unit %s utilization = %+v, want all zero", unit, u)
		}
	}
}

func TestRunDES_Scenario3_PayloadRejection(t *testing.T) {
	scenario := &Scenario{
		HorizonHours: 10,
		Demand: []DemandSpec{
			{MissionType: "recon", EveryHours: everyHours(5), StartAtHours: 0},
		},
		MissionTypes: []MissionType{
			{
				Name:             "recon",
				RequiredPayloads: []string{"P"},
				FlightTime:       Distribution{Kind: DistDeterministic, Value: 2},
			},
		},
	}
	state := &StateSnapshot{Tables: map[string]StateTable{
		"v_unit":     {Rows: []map[string]any{{"Unit": "A"}}},
		"v_aircraft": {Rows: []map[string]any{{"Unit": "A", "Status": "FMC"}}},
		"v_staffing": {Rows: []map[string]any{{"Unit Name": "A", "MOS Number": "7318"}}},
	}}

	results, err := RunDES(scenario, Options{State: state}, NewSimulationKey(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results.Missions.Rejected != results.Missions.Requested {
		t.Fatalf("rejected = %d, want all %d requests rejected", results.Missions.Rejected, results.Missions.Requested)
	}
	if results.Rejections.Payload != results.Missions.Requested {
		t.Fatalf("rejections.payload = %d, want %d", results.Rejections.Payload, results.Missions.Requested)
	}
	for _, entry := range results.Timeline {
		if entry.Type != TimelineRejection || entry.Reason != RejectPayload {
			t.Fatalf("unexpected timeline entry: %+v", entry)
		}
	}
}

func TestRunDES_Scenario4_RoundRobin(t *testing.T) {
	scenario := &Scenario{
		HorizonHours: 4,
		Demand: []DemandSpec{
			{MissionType: "recon", EveryHours: everyHours(1), StartAtHours: 0},
		},
		MissionTypes: []MissionType{
			{Name: "recon", FlightTime: Distribution{Kind: DistDeterministic, Value: 0.5}},
		},
	}
	state := &StateSnapshot{Tables: map[string]StateTable{
		"v_unit": {Rows: []map[string]any{{"Unit": "A"}, {"Unit": "B"}}},
		"v_aircraft": {Rows: []map[string]any{
			{"Unit": "A", "Status": "FMC"}, {"Unit": "B", "Status": "FMC"},
		}},
	}}

	results, err := RunDES(scenario, Options{State: state}, NewSimulationKey(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results.Missions.Requested != 5 {
		t.Fatalf("requested = %d, want 5", results.Missions.Requested)
	}

	counts := map[string]int{}
	for _, entry := range results.Timeline {
		if entry.Type == TimelineMission {
			counts[entry.Unit]++
		}
	}
	if counts["A"] < 2 || counts["B"] < 2 {
		t.Fatalf("round-robin split not balanced: %+v", counts)
	}
}

func TestRunDES_Scenario5_WeightedSplit(t *testing.T) {
	scenario := &Scenario{
		HorizonHours: 2000,
		Demand: []DemandSpec{
			{MissionType: "recon", RatePerHour: ratePerHour(5)},
		},
		MissionTypes: []MissionType{
			{Name: "recon", FlightTime: Distribution{Kind: DistDeterministic, Value: 0.01}},
		},
		UnitPolicy: UnitPolicy{MissionSplit: map[string]float64{"A": 0.25, "B": 0.75}},
	}
	state := &StateSnapshot{Tables: map[string]StateTable{
		"v_unit": {Rows: []map[string]any{{"Unit": "A"}, {"Unit": "B"}}},
		"v_aircraft": {Rows: []map[string]any{
			{"Unit": "A", "Status": "FMC"}, {"Unit": "B", "Status": "FMC"},
		}},
	}}

	results, err := RunDES(scenario, Options{State: state}, NewSimulationKey(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := map[string]int{}
	for _, entry := range results.Timeline {
		if entry.Type == TimelineMission {
			counts[entry.Unit]++
		}
	}
	total := counts["A"] + counts["B"]
	if total < 1000 {
		t.Fatalf("expected a large sample of missions, got %d", total)
	}
	ratioB := float64(counts["B"]) / float64(total)
	if ratioB < 0.70 || ratioB > 0.80 {
		t.Fatalf("unit B's assignment share = %.3f, want ~0.75 (±0.05): counts=%+v", ratioB, counts)
	}
}

func TestRunDES_ZeroHorizon(t *testing.T) {
	scenario, state := singleUnitScenario(1, 1)
	scenario.HorizonHours = 0

	results, err := RunDES(scenario, Options{State: state}, NewSimulationKey(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results.Missions.Requested != 0 || results.Missions.Started != 0 ||
		results.Missions.Completed != 0 || results.Missions.Rejected != 0 {
		t.Fatalf("zero-horizon counters not all zero: %+v", results.Missions)
	}
	for unit, u := range results.Utilization {
		if u.Aircraft != 0 || u.Pilot != 0 || u.SO != 0 {
			t.Fatalf("unit %s utilization nonzero at zero horizon: %+v", unit, u)
		}
	}
}

func TestRunDES_EmptyDemand(t *testing.T) {
	scenario, state := singleUnitScenario(1, 1)
	scenario.Demand = nil

	results, err := RunDES(scenario, Options{State: state}, NewSimulationKey(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results.Missions.Requested != 0 {
		t.Fatalf("requested = %d, want 0 for empty demand", results.Missions.Requested)
	}
	if len(results.Timeline) != 0 {
		t.Fatalf("got %d timeline entries, want 0", len(results.Timeline))
	}
}

func TestRunDES_NoStateSnapshotIsInvalidInput(t *testing.T) {
	scenario, _ := singleUnitScenario(1, 1)
	if _, err := RunDES(scenario, Options{}, NewSimulationKey(1)); err != ErrInvalidInput {
		t.Fatalf("got err %v, want ErrInvalidInput", err)
	}
}

func TestRunDES_Determinism(t *testing.T) {
	scenario, state := singleUnitScenario(1, 1)
	r1, err1 := RunDES(scenario, Options{State: state}, NewSimulationKey(7))
	r2, err2 := RunDES(scenario, Options{State: state}, NewSimulationKey(7))
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if r1.Missions != r2.Missions {
		t.Fatalf("identical key produced different counters: %+v vs %+v", r1.Missions, r2.Missions)
	}
}

func TestRunDES_TimelineSegmentsAreContiguous(t *testing.T) {
	scenario, state := singleUnitScenario(1, 1)
	results, err := RunDES(scenario, Options{State: state}, NewSimulationKey(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, entry := range results.Timeline {
		if entry.Type != TimelineMission {
			continue
		}
		if entry.Segments[0].Start != entry.DemandTime {
			t.Fatalf("first segment does not start at demand_time: %+v", entry)
		}
		for i := 0; i < len(entry.Segments)-1; i++ {
			if entry.Segments[i].End != entry.Segments[i+1].Start {
				t.Fatalf("segments not contiguous at index %d: %+v", i, entry.Segments)
			}
		}
		if entry.Segments[len(entry.Segments)-1].End != entry.FinishTime {
			t.Fatalf("last segment does not end at finish_time: %+v", entry)
		}
	}
}
