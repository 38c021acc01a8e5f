package mc

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/opsim/missionsim/sim"
)

// ErrZeroIterations is returned when Options.Iterations resolves to 0.
var ErrZeroIterations = errors.New("mc: iterations must be > 0")

// Options configures one Monte Carlo run.
type Options struct {
	// Iterations is the number of independent DES runs to fold. A nil
	// pointer means "unset" and resolves to 1000; an explicit 0 (or
	// negative value) is a driver error, per spec.
	Iterations *int

	// KeepIterations, if true, preserves every iteration's full
	// sim.Results in Results.IterationsData.
	KeepIterations bool

	State     *sim.StateSnapshot
	Overrides sim.Overrides
}

// Driver runs a scenario through many independent DES iterations and folds
// the results into aggregated statistics.
type Driver struct {
	MasterSeed int64
}

// NewDriver creates a Driver seeded from masterSeed. Each iteration derives
// its own SimulationKey from masterSeed and its iteration index, so the
// same masterSeed and Options always reproduce the same per-iteration seed
// sequence (though fold order, and so reservoir contents, are not fixed).
func NewDriver(masterSeed int64) *Driver {
	return &Driver{MasterSeed: masterSeed}
}

// Run executes opts.Iterations (default 1000) independent DES runs of
// scenario, sharing scenario and the derived sim.Options by read-only
// reference across a worker pool bounded to the host's parallelism. A
// worker-pool task error aborts the whole run and surfaces the first
// error, tagged with its iteration index.
func (drv *Driver) Run(scenario *sim.Scenario, opts Options) (*Results, error) {
	iterations := 1000
	if opts.Iterations != nil {
		iterations = *opts.Iterations
	}
	if iterations <= 0 {
		return nil, ErrZeroIterations
	}

	desOpts := sim.Options{State: opts.State, Overrides: opts.Overrides}

	reservoirRNG := sim.NewPartitionedRNG(sim.NewSimulationKey(drv.MasterSeed)).ForSubsystem(sim.SubsystemReservoir)
	agg := newAggregator(reservoirRNG)

	var mu sync.Mutex
	var firstInitial *sim.InitialResources
	var iterationsData []*sim.Results

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var eg errgroup.Group

	for i := 0; i < iterations; i++ {
		i := i
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			key := sim.NewSimulationKey(drv.MasterSeed + int64(i) + 1)
			res, err := sim.RunDES(scenario, desOpts, key)
			if err != nil {
				return fmt.Errorf("mc: iteration %d: %w", i, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if firstInitial == nil {
				firstInitial = res.InitialResources
			}
			fold(agg, res)
			if opts.KeepIterations {
				iterationsData = append(iterationsData, res)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &Results{
		Iterations:       iterations,
		HorizonHours:     scenario.HorizonHours,
		Missions:         statGroup(agg, "missions", []string{"requested", "started", "completed", "rejected"}),
		Rejections:       statGroup(agg, "rejections", []string{"aircraft", "pilot", "so", "payload"}),
		Utilization:      statNestedGroup(agg, "utilization", unitNames(firstInitial), []string{"aircraft", "pilot", "so"}),
		ByType:           statNestedGroup(agg, "by_type", missionTypeNames(scenario), []string{"requested", "started", "completed", "rejected"}),
		InitialResources: firstInitial,
	}
	if opts.KeepIterations {
		out.IterationsData = iterationsData
	}
	return out, nil
}

// fold feeds one iteration's Results into the shared aggregator. Called
// with the aggregator's mutex held.
func fold(agg *aggregator, res *sim.Results) {
	agg.add("missions.requested", float64(res.Missions.Requested))
	agg.add("missions.started", float64(res.Missions.Started))
	agg.add("missions.completed", float64(res.Missions.Completed))
	agg.add("missions.rejected", float64(res.Missions.Rejected))

	agg.add("rejections.aircraft", float64(res.Rejections.Aircraft))
	agg.add("rejections.pilot", float64(res.Rejections.Pilot))
	agg.add("rejections.so", float64(res.Rejections.SO))
	agg.add("rejections.payload", float64(res.Rejections.Payload))

	for unit, u := range res.Utilization {
		agg.add("utilization."+unit+".aircraft", u.Aircraft)
		agg.add("utilization."+unit+".pilot", u.Pilot)
		agg.add("utilization."+unit+".so", u.SO)
	}

	for mtype, c := range res.ByType {
		agg.add("by_type."+mtype+".requested", float64(c.Requested))
		agg.add("by_type."+mtype+".started", float64(c.Started))
		agg.add("by_type."+mtype+".completed", float64(c.Completed))
		agg.add("by_type."+mtype+".rejected", float64(c.Rejected))
	}
}

func statGroup(agg *aggregator, prefix string, fields []string) map[string]Stat {
	out := make(map[string]Stat)
	for _, f := range fields {
		if s, ok := agg.statFor(prefix + "." + f); ok {
			out[f] = s
		}
	}
	return out
}

func statNestedGroup(agg *aggregator, prefix string, keys, fields []string) map[string]map[string]Stat {
	out := make(map[string]map[string]Stat)
	for _, key := range keys {
		group := statGroup(agg, prefix+"."+key, fields)
		if len(group) > 0 {
			out[key] = group
		}
	}
	return out
}

func unitNames(initial *sim.InitialResources) []string {
	if initial == nil {
		return nil
	}
	names := make([]string, len(initial.Units))
	for i, u := range initial.Units {
		names[i] = u.Unit
	}
	return names
}

func missionTypeNames(scenario *sim.Scenario) []string {
	names := make([]string, len(scenario.MissionTypes))
	for i, mt := range scenario.MissionTypes {
		names[i] = mt.Name
	}
	return names
}
