package sim

import (
	"math"
	"math/rand"
	"sort"
)

// DemandEvent is one mission-arrival instant produced by a demand spec.
type DemandEvent struct {
	Time        float64
	MissionType string
}

// GenerateDemand expands every DemandSpec in scenario into a time-ordered
// event stream. Deterministic specs emit at start + k*every while t <=
// horizon (spec's own worked examples process an event landing exactly on
// the horizon); Poisson specs walk an exponential inter-arrival process
// from 0 and emit while t <= horizon. Non-positive intervals or rates
// produce no events. Events are stably sorted by time, preserving demand
// spec order (and within a spec, generation order) for ties, since the
// spec leaves tie-breaking unspecified and only requires a documented,
// tested choice.
func GenerateDemand(scenario *Scenario, rng *rand.Rand) []DemandEvent {
	var events []DemandEvent
	for _, d := range scenario.Demand {
		switch {
		case d.EveryHours != nil:
			if *d.EveryHours <= 0 {
				continue
			}
			for t := d.StartAtHours; t <= scenario.HorizonHours; t += *d.EveryHours {
				events = append(events, DemandEvent{Time: t, MissionType: d.MissionType})
			}

		case d.RatePerHour != nil:
			if *d.RatePerHour <= 0 {
				continue
			}
			t := 0.0
			for {
				delta := -math.Log(1-rng.Float64()) / *d.RatePerHour
				t += delta
				if t > scenario.HorizonHours {
					break
				}
				events = append(events, DemandEvent{Time: t, MissionType: d.MissionType})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	return events
}
