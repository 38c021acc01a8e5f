package sim

import (
	"math/rand"
	"testing"
)

func everyHours(v float64) *float64 { return &v }
func ratePerHour(v float64) *float64 { return &v }

func TestGenerateDemand_DeterministicIncludesHorizonBoundary(t *testing.T) {
	// GIVEN a deterministic demand every 5 hours over a 10-hour horizon,
	// matching spec.md's single-unit worked example (§8 scenario 1)
	scenario := &Scenario{
		HorizonHours: 10,
		Demand: []DemandSpec{
			{MissionType: "recon", EveryHours: everyHours(5), StartAtHours: 0},
		},
	}

	// WHEN demand is generated
	events := GenerateDemand(scenario, rand.New(rand.NewSource(1)))

	// THEN three events land at t=0,5,10 -- the boundary event is included
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	want := []float64{0, 5, 10}
	for i, ev := range events {
		if ev.Time != want[i] {
			t.Fatalf("event %d time = %v, want %v", i, ev.Time, want[i])
		}
	}
}

func TestGenerateDemand_NonPositiveIntervalYieldsNoEvents(t *testing.T) {
	scenario := &Scenario{
		HorizonHours: 10,
		Demand:       []DemandSpec{{MissionType: "recon", EveryHours: everyHours(0)}},
	}
	events := GenerateDemand(scenario, rand.New(rand.NewSource(1)))
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0 for non-positive interval", len(events))
	}
}

func TestGenerateDemand_PoissonStaysWithinHorizon(t *testing.T) {
	scenario := &Scenario{
		HorizonHours: 20,
		Demand:       []DemandSpec{{MissionType: "recon", RatePerHour: ratePerHour(5)}},
	}
	events := GenerateDemand(scenario, rand.New(rand.NewSource(42)))
	if len(events) == 0 {
		t.Fatal("expected at least one Poisson event over a 20-hour horizon at rate 5/hr")
	}
	for _, ev := range events {
		if ev.Time > scenario.HorizonHours {
			t.Fatalf("event at t=%v exceeds horizon %v", ev.Time, scenario.HorizonHours)
		}
	}
}

func TestGenerateDemand_NonPositiveRateYieldsNoEvents(t *testing.T) {
	scenario := &Scenario{
		HorizonHours: 10,
		Demand:       []DemandSpec{{MissionType: "recon", RatePerHour: ratePerHour(-1)}},
	}
	events := GenerateDemand(scenario, rand.New(rand.NewSource(1)))
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0 for non-positive rate", len(events))
	}
}

func TestGenerateDemand_SortedByTime(t *testing.T) {
	scenario := &Scenario{
		HorizonHours: 10,
		Demand: []DemandSpec{
			{MissionType: "b", EveryHours: everyHours(3), StartAtHours: 1},
			{MissionType: "a", EveryHours: everyHours(4), StartAtHours: 0},
		},
	}
	events := GenerateDemand(scenario, rand.New(rand.NewSource(1)))
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Fatalf("events not sorted ascending at index %d: %v then %v", i, events[i-1].Time, events[i].Time)
		}
	}
}
