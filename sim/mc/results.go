package mc

import "github.com/opsim/missionsim/sim"

// Results is the aggregated output of a Monte Carlo run: per-metric Stat
// records folded across every iteration, organized into the same four
// groupings as a single DES run's Results.
type Results struct {
	Iterations       int                        `json:"iterations"`
	HorizonHours     float64                    `json:"horizon_hours"`
	Missions         map[string]Stat            `json:"missions"`
	Rejections       map[string]Stat            `json:"rejections"`
	Utilization      map[string]map[string]Stat `json:"utilization"`
	ByType           map[string]map[string]Stat `json:"by_type"`
	IterationsData   []*sim.Results        `json:"iterations_data,omitempty"`
	InitialResources *sim.InitialResources `json:"initial_resources"`
}
