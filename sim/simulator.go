package sim

import (
	"errors"
	"math"
	"math/rand"
)

// ErrInvalidInput is returned when the DES engine's input fails validation:
// no state snapshot, or a snapshot/derivation that yields zero units.
var ErrInvalidInput = errors.New("sim: invalid input")

// RunDES executes one discrete-event simulation run to completion and
// returns its Results. key seeds every subsystem's RNG via a
// PartitionedRNG, so two calls with identical scenario, opts, and key
// produce bit-for-bit identical Results.
func RunDES(scenario *Scenario, opts Options, key SimulationKey) (*Results, error) {
	if opts.State == nil {
		return nil, ErrInvalidInput
	}
	initial, err := DeriveInitialResources(opts.State)
	if err != nil {
		return nil, ErrInvalidInput
	}
	overridesApplied := ApplyOverrides(initial, opts.Overrides, scenario.MissionTypes)

	units := make([]*UnitPool, 0, len(initial.Units))
	unitNames := make([]string, 0, len(initial.Units))
	for _, ur := range initial.Units {
		unitNames = append(unitNames, ur.Unit)
		units = append(units, NewUnitPool(ur))
	}

	missionTypeIndex := make(map[string]*MissionType, len(scenario.MissionTypes))
	for i := range scenario.MissionTypes {
		missionTypeIndex[scenario.MissionTypes[i].Name] = &scenario.MissionTypes[i]
	}

	results := &Results{
		HorizonHours:     scenario.HorizonHours,
		Utilization:      make(map[string]UnitUtilization, len(units)),
		ByType:           make(map[string]MissionCounters),
		InitialResources: initial,
		OverridesApplied: overridesApplied,
	}

	if scenario.HorizonHours <= 0 || len(units) == 0 {
		for _, name := range unitNames {
			results.Utilization[name] = UnitUtilization{}
		}
		return results, nil
	}

	rng := NewPartitionedRNG(key)
	weights, totalWeight := unitWeights(scenario.UnitPolicy, unitNames)

	events := GenerateDemand(scenario, rng.ForSubsystem(SubsystemWorkload))

	for idx, ev := range events {
		if ev.Time > scenario.HorizonHours {
			break
		}
		results.Missions.Requested++

		mt, ok := missionTypeIndex[ev.MissionType]
		if !ok {
			continue
		}
		if len(units) == 0 {
			continue
		}

		byType := results.ByType[mt.Name]

		unitIdx := selectUnit(idx, unitNames, weights, totalWeight, rng.ForSubsystem(SubsystemUnitSelection))
		unit := units[unitIdx]

		durRNG := rng.ForSubsystem(SubsystemDurations)

		mount := 0.0
		for _, ptype := range mt.RequiredPayloads {
			if dist, ok := scenario.ProcessTimes.MountTime[ptype]; ok {
				mount += Sample(dist, durRNG)
			}
		}
		pre := sampleOrZero(scenario.ProcessTimes.Preflight, durRNG)
		flight := Sample(mt.FlightTime, durRNG)
		post := sampleOrZero(scenario.ProcessTimes.Postflight, durRNG)
		turn := sampleOrZero(scenario.ProcessTimes.Turnaround, durRNG)
		d := pre + mount + flight + post + turn

		needPilot, needSO := 0, 0
		if mt.RequiredAircrew != nil {
			needPilot = mt.RequiredAircrew.Pilot
			needSO = mt.RequiredAircrew.SO
		}

		reason, ok := checkAdmission(unit, ev.Time, mt.RequiredPayloads, needPilot, needSO)
		if !ok {
			results.Missions.Rejected++
			bumpRejection(&results.Rejections, reason)
			byType.Requested++
			byType.Rejected++
			results.ByType[mt.Name] = byType
			results.Timeline = append(results.Timeline, TimelineEntry{
				Type:        TimelineRejection,
				Unit:        unit.Name,
				MissionType: mt.Name,
				Time:        ev.Time,
				Reason:      reason,
			})
			continue
		}

		acquireOrPanic(unit, ev.Time, d, mt.RequiredPayloads, needPilot, needSO)

		finish := ev.Time + d
		unit.Finishes = append(unit.Finishes, finish)
		results.Missions.Started++
		byType.Requested++
		byType.Started++
		results.ByType[mt.Name] = byType

		t0 := ev.Time
		t1 := t0 + pre
		t2 := t1 + mount
		t3 := t2 + flight
		t4 := t3 + post
		t5 := t4 + turn
		segments := []Segment{
			{Name: "preflight", Start: t0, End: t1},
			{Name: "mount", Start: t1, End: t2},
			{Name: "flight", Start: t2, End: t3},
			{Name: "postflight", Start: t3, End: t4},
			{Name: "turnaround", Start: t4, End: t5},
		}
		results.Timeline = append(results.Timeline, TimelineEntry{
			Type:        TimelineMission,
			Unit:        unit.Name,
			MissionType: mt.Name,
			DemandTime:  ev.Time,
			FinishTime:  finish,
			Segments:    segments,
		})
	}

	for _, unit := range units {
		for _, f := range unit.Finishes {
			if f <= scenario.HorizonHours {
				results.Missions.Completed++
			}
		}
	}
	for _, entry := range results.Timeline {
		if entry.Type != TimelineMission || entry.FinishTime > scenario.HorizonHours {
			continue
		}
		bt := results.ByType[entry.MissionType]
		bt.Completed++
		results.ByType[entry.MissionType] = bt
	}

	for _, unit := range units {
		results.Utilization[unit.Name] = UnitUtilization{
			Aircraft: round3(unit.Aircraft.Utilization(scenario.HorizonHours)),
			Pilot:    round3(unit.Pilots.Utilization(scenario.HorizonHours)),
			SO:       round3(unit.SOs.Utilization(scenario.HorizonHours)),
		}
	}

	return results, nil
}

func sampleOrZero(d *Distribution, rng *rand.Rand) float64 {
	if d == nil {
		return 0
	}
	return Sample(*d, rng)
}

// unitWeights returns per-unit weights (in unitNames order) and their sum.
// An empty or all-zero mission_split means round-robin: weights is nil.
func unitWeights(policy UnitPolicy, unitNames []string) ([]float64, float64) {
	if len(policy.MissionSplit) == 0 {
		return nil, 0
	}
	weights := make([]float64, len(unitNames))
	total := 0.0
	for i, name := range unitNames {
		w := policy.MissionSplit[name]
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return nil, 0
	}
	return weights, total
}

// selectUnit implements round-robin (weights == nil) or weighted-random
// selection per §4.4 step 3: cumulative weights over units in stable
// (unitNames) order, picking the first unit whose cumulative weight is >=
// U*total; the last unit is the floating-point-edge fallback.
func selectUnit(eventIndex int, unitNames []string, weights []float64, total float64, rng *rand.Rand) int {
	if weights == nil {
		return eventIndex % len(unitNames)
	}
	target := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if cum >= target {
			return i
		}
	}
	return len(unitNames) - 1
}

// checkAdmission evaluates the fixed-order, short-circuit admission check:
// payloads, then aircraft, then pilots, then SOs. Returns the failing
// reason and false on the first insufficient dimension, or "" and true if
// every dimension has capacity.
func checkAdmission(unit *UnitPool, t float64, payloads []string, needPilot, needSO int) (RejectReason, bool) {
	for _, ptype := range payloads {
		if unit.payloadPool(ptype).AvailableAt(t) < 1 {
			return RejectPayload, false
		}
	}
	if unit.Aircraft.AvailableAt(t) < 1 {
		return RejectAircraft, false
	}
	if needPilot > 0 && unit.Pilots.AvailableAt(t) < needPilot {
		return RejectPilot, false
	}
	if needSO > 0 && unit.SOs.AvailableAt(t) < needSO {
		return RejectSO, false
	}
	return "", true
}

// acquireOrPanic performs the acquisition step after admission has already
// passed. Per spec, a denial here is an unreachable defensive branch given
// the invariants established by checkAdmission; we convert it into a hard
// assertion rather than silently miscounting resources.
func acquireOrPanic(unit *UnitPool, t, d float64, payloads []string, needPilot, needSO int) {
	for _, ptype := range payloads {
		if !unit.payloadPool(ptype).TryAcquire(t, d, 1) {
			panic("sim: payload acquisition failed after admission check passed")
		}
	}
	if !unit.Aircraft.TryAcquire(t, d, 1) {
		panic("sim: aircraft acquisition failed after admission check passed")
	}
	if needPilot > 0 && !unit.Pilots.TryAcquire(t, d, needPilot) {
		panic("sim: pilot acquisition failed after admission check passed")
	}
	if needSO > 0 && !unit.SOs.TryAcquire(t, d, needSO) {
		panic("sim: SO acquisition failed after admission check passed")
	}
}

func bumpRejection(c *RejectionCounters, reason RejectReason) {
	switch reason {
	case RejectAircraft:
		c.Aircraft++
	case RejectPilot:
		c.Pilot++
	case RejectSO:
		c.SO++
	case RejectPayload:
		c.Payload++
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
