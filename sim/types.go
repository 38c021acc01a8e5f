package sim

import "encoding/json"

// DistKind names a distribution variant.
type DistKind string

const (
	DistDeterministic DistKind = "deterministic"
	DistExponential   DistKind = "exponential"
	DistTriangular    DistKind = "triangular"
	DistLognormal     DistKind = "lognormal"
)

// Distribution is a tagged descriptor for a non-negative duration
// generator. Unknown Kind or missing required fields sample as 0 — see
// Sample in distribution.go.
type Distribution struct {
	Kind DistKind

	Value float64 // deterministic(v); synonym value_hours

	Rate float64 // exponential(rate); synonym rate_per_hour

	A, M, B float64 // triangular(a, m, b)

	Mu, Sigma float64 // lognormal(mu, sigma)
}

// UnmarshalJSON accepts the synonym field names spec'd for scenario JSON:
// value/value_hours and rate/rate_per_hour.
func (d *Distribution) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        string   `json:"type"`
		Value       *float64 `json:"value"`
		ValueHours  *float64 `json:"value_hours"`
		Rate        *float64 `json:"rate"`
		RatePerHour *float64 `json:"rate_per_hour"`
		A           float64  `json:"a"`
		M           float64  `json:"m"`
		B           float64  `json:"b"`
		Mu          float64  `json:"mu"`
		Sigma       float64  `json:"sigma"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Kind = DistKind(raw.Type)
	if raw.Value != nil {
		d.Value = *raw.Value
	} else if raw.ValueHours != nil {
		d.Value = *raw.ValueHours
	}
	if raw.Rate != nil {
		d.Rate = *raw.Rate
	} else if raw.RatePerHour != nil {
		d.Rate = *raw.RatePerHour
	}
	d.A, d.M, d.B = raw.A, raw.M, raw.B
	d.Mu, d.Sigma = raw.Mu, raw.Sigma
	return nil
}

// MarshalJSON emits the canonical (non-synonym) field names.
func (d Distribution) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": string(d.Kind)}
	switch d.Kind {
	case DistDeterministic:
		out["value"] = d.Value
	case DistExponential:
		out["rate"] = d.Rate
	case DistTriangular:
		out["a"], out["m"], out["b"] = d.A, d.M, d.B
	case DistLognormal:
		out["mu"], out["sigma"] = d.Mu, d.Sigma
	}
	return json.Marshal(out)
}

// RequiredAircrew names the pilot/sensor-operator counts a mission type needs.
type RequiredAircrew struct {
	Pilot int `json:"pilot,omitempty"`
	SO    int `json:"so,omitempty"`
}

// MissionType describes one kind of mission a demand spec can reference.
type MissionType struct {
	Name             string           `json:"name"`
	Priority         *int             `json:"priority,omitempty"`
	RequiredPayloads []string         `json:"required_payloads,omitempty"`
	RequiredAircrew  *RequiredAircrew `json:"required_aircrew,omitempty"`
	FlightTime       Distribution     `json:"flight_time"`
}

// DemandSpec configures one generator of mission-arrival events, either a
// deterministic inter-arrival process or a Poisson process.
type DemandSpec struct {
	MissionType  string
	EveryHours   *float64 // synonym interval_hours; nil means "not deterministic mode"
	StartAtHours float64
	RatePerHour  *float64 // non-nil means Poisson mode
}

func (d *DemandSpec) UnmarshalJSON(data []byte) error {
	var raw struct {
		MissionType   string   `json:"mission_type"`
		EveryHours    *float64 `json:"every_hours"`
		IntervalHours *float64 `json:"interval_hours"`
		StartAtHours  float64  `json:"start_at_hours"`
		RatePerHour   *float64 `json:"rate_per_hour"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.MissionType = raw.MissionType
	d.EveryHours = raw.EveryHours
	if d.EveryHours == nil {
		d.EveryHours = raw.IntervalHours
	}
	d.StartAtHours = raw.StartAtHours
	d.RatePerHour = raw.RatePerHour
	return nil
}

func (d DemandSpec) MarshalJSON() ([]byte, error) {
	out := struct {
		MissionType  string   `json:"mission_type"`
		EveryHours   *float64 `json:"every_hours,omitempty"`
		StartAtHours float64  `json:"start_at_hours,omitempty"`
		RatePerHour  *float64 `json:"rate_per_hour,omitempty"`
	}{d.MissionType, d.EveryHours, d.StartAtHours, d.RatePerHour}
	return json.Marshal(out)
}

// ProcessTimeConfig configures ground and mount durations. A nil pointer
// (or an absent mount_time entry) means zero duration.
type ProcessTimeConfig struct {
	Preflight  *Distribution           `json:"preflight,omitempty"`
	Postflight *Distribution           `json:"postflight,omitempty"`
	Turnaround *Distribution           `json:"turnaround,omitempty"`
	MountTime  map[string]Distribution `json:"mount_time,omitempty"`
}

// UnitPolicy configures how the DES engine picks a unit per mission request.
type UnitPolicy struct {
	// MissionSplit maps unit name to a nonnegative weight. An absent or
	// empty map means round-robin over the unit list.
	MissionSplit map[string]float64 `json:"mission_split,omitempty"`
}

// Scenario is the immutable simulation input: horizon, demand, mission
// catalog, process-time configuration, and unit policy.
type Scenario struct {
	HorizonHours float64           `json:"horizon_hours"`
	Demand       []DemandSpec      `json:"demand"`
	MissionTypes []MissionType     `json:"mission_types"`
	ProcessTimes ProcessTimeConfig `json:"process_times"`
	UnitPolicy   UnitPolicy        `json:"unit_policy"`
}

// UnitResources is one unit's resource counts, as derived from a state
// snapshot and possibly adjusted by overrides.
type UnitResources struct {
	Unit     string         `json:"unit"`
	Aircraft int            `json:"aircraft"`
	Pilots   int            `json:"pilots"`
	SOs      int            `json:"sos"`
	Payloads map[string]int `json:"payloads,omitempty"`
}

// InitialResources is the per-unit resource snapshot the DES engine starts
// from, in stable (first-seen) unit order.
type InitialResources struct {
	Units []UnitResources `json:"units"`
}

// UnitOverride adjusts one unit's resource counts. Fields are float64 so
// that fractional JSON values can be floored and negative values ignored,
// per spec. Overriding a unit not already in InitialResources creates it.
type UnitOverride struct {
	Aircraft       *float64           `json:"aircraft,omitempty"`
	Pilots         *float64           `json:"pilots,omitempty"`
	SOs            *float64           `json:"sos,omitempty"`
	PayloadPerType *float64           `json:"payload_per_type,omitempty"`
	PayloadByType  map[string]float64 `json:"payload_by_type,omitempty"`
}

// Overrides maps unit name to its resource overrides.
type Overrides map[string]UnitOverride

// StateTable is one named table from a state snapshot: an ordered list of
// rows, each a loosely-typed field map (as decoded from JSON or assembled
// by a caller). Unknown fields are ignored by readers.
type StateTable struct {
	Rows []map[string]any
}

// StateSnapshot is the external tabular state input described in spec §6:
// a bag of named tables, of which v_unit, v_aircraft, v_payload, and
// v_staffing are read.
type StateSnapshot struct {
	Tables map[string]StateTable
}

// RejectReason names why a mission request was denied.
type RejectReason string

const (
	RejectAircraft RejectReason = "aircraft"
	RejectPilot    RejectReason = "pilot"
	RejectSO       RejectReason = "so"
	RejectPayload  RejectReason = "payload"
)

// Segment is one contiguous leg of a mission timeline.
type Segment struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TimelineEntryType discriminates the two timeline entry shapes.
type TimelineEntryType string

const (
	TimelineMission   TimelineEntryType = "mission"
	TimelineRejection TimelineEntryType = "rejection"
)

// TimelineEntry is a tagged union of the two shapes spec'd in §6: a
// completed-or-in-flight mission (with its five segments), or a rejection
// (with a reason). Fields irrelevant to the entry's Type are left zero and
// omitted from JSON.
type TimelineEntry struct {
	Type        TimelineEntryType `json:"type"`
	Unit        string            `json:"unit"`
	MissionType string            `json:"mission_type"`

	// mission fields
	DemandTime float64   `json:"demand_time,omitempty"`
	FinishTime float64   `json:"finish_time,omitempty"`
	Segments   []Segment `json:"segments,omitempty"`

	// rejection fields
	Time   float64      `json:"time,omitempty"`
	Reason RejectReason `json:"reason,omitempty"`
}

// MissionCounters tallies mission requests through their lifecycle.
type MissionCounters struct {
	Requested int `json:"requested"`
	Started   int `json:"started"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
}

// RejectionCounters tallies rejections by the resource dimension that
// caused them.
type RejectionCounters struct {
	Aircraft int `json:"aircraft"`
	Pilot    int `json:"pilot"`
	SO       int `json:"so"`
	Payload  int `json:"payload"`
}

// UnitUtilization is a unit's busy-fraction across three resource
// dimensions, rounded to 0.001.
type UnitUtilization struct {
	Aircraft float64 `json:"aircraft"`
	Pilot    float64 `json:"pilot"`
	SO       float64 `json:"so"`
}

// Results is the full output of one DES run.
type Results struct {
	HorizonHours     float64                    `json:"horizon_hours"`
	Missions         MissionCounters            `json:"missions"`
	Rejections       RejectionCounters          `json:"rejections"`
	Utilization      map[string]UnitUtilization `json:"utilization"`
	ByType           map[string]MissionCounters `json:"by_type"`
	Timeline         []TimelineEntry            `json:"timeline"`
	InitialResources *InitialResources          `json:"initial_resources"`
	OverridesApplied bool                       `json:"overrides_applied"`
}

// Options bundles the DES engine's per-run inputs that are not part of the
// immutable Scenario: the state snapshot and any overrides.
type Options struct {
	State     *StateSnapshot
	Overrides Overrides
}
