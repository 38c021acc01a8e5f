package sim

import (
	"errors"
	"math"
	"sort"
)

// ErrNoUnits is returned by DeriveInitialResources when the snapshot yields
// zero units — the DES engine has nothing to allocate against.
var ErrNoUnits = errors.New("sim: state snapshot yields zero units")

// DeriveInitialResources reads the v_unit, v_aircraft, v_payload, and
// v_staffing tables out of snap and produces one UnitResources per unit, in
// first-seen order across the four tables (v_unit first, then whichever
// other table mentions a unit v_unit didn't). Rows with fields of the
// wrong JSON type are skipped rather than erroring.
func DeriveInitialResources(snap *StateSnapshot) (*InitialResources, error) {
	if snap == nil {
		return nil, errors.New("sim: no state snapshot provided")
	}

	order := make([]string, 0)
	seen := make(map[string]bool)
	units := make(map[string]*UnitResources)

	ensure := func(name string) *UnitResources {
		if u, ok := units[name]; ok {
			return u
		}
		u := &UnitResources{Unit: name, Payloads: make(map[string]int)}
		units[name] = u
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
		return u
	}

	for _, row := range snap.Tables["v_unit"].Rows {
		if name, ok := asString(row["Unit"]); ok {
			ensure(name)
		}
	}

	for _, row := range snap.Tables["v_aircraft"].Rows {
		name, ok := asString(row["Unit"])
		if !ok {
			continue
		}
		status, _ := asString(row["Status"])
		if status != "FMC" {
			continue
		}
		ensure(name).Aircraft++
	}

	for _, row := range snap.Tables["v_payload"].Rows {
		name, ok := asString(row["Unit"])
		if !ok {
			continue
		}
		ptype, ok := asString(row["Type"])
		if !ok {
			continue
		}
		u := ensure(name)
		u.Payloads[ptype]++
	}

	for _, row := range snap.Tables["v_staffing"].Rows {
		name, ok := asString(row["Unit Name"])
		if !ok {
			continue
		}
		mos, ok := asString(row["MOS Number"])
		if !ok {
			continue
		}
		u := ensure(name)
		switch mos {
		case "7318":
			u.Pilots++
		case "7314":
			u.SOs++
		}
	}

	if len(order) == 0 {
		return nil, ErrNoUnits
	}

	res := &InitialResources{Units: make([]UnitResources, 0, len(order))}
	for _, name := range order {
		res.Units = append(res.Units, *units[name])
	}
	return res, nil
}

// asString coerces a loosely-typed JSON field into a string, accepting both
// a decoded string and a decoded number (state snapshot rows are free-form
// maps, and a numeric-looking field like an MOS code may decode as
// float64). Any other type, or a missing field, reports ok=false.
func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == math.Trunc(t) {
			return intString(int64(t)), true
		}
	}
	return "", false
}

func intString(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// collectReferencedPayloadTypes returns the set of payload type names
// mentioned anywhere in the mission catalog's required_payloads lists.
func collectReferencedPayloadTypes(missionTypes []MissionType) map[string]bool {
	types := make(map[string]bool)
	for _, mt := range missionTypes {
		for _, p := range mt.RequiredPayloads {
			types[p] = true
		}
	}
	return types
}

// ApplyOverrides mutates res in place per §3's override semantics: absolute
// aircraft/pilot/SO counts, negative values ignored, fractional values
// floored; payload_per_type applies uniformly to the union of a unit's
// currently-known payload types and every type referenced anywhere in
// missionTypes, applied before any payload_by_type entries so a per-type
// override can still refine a uniform one. Overriding a unit absent from
// res creates it. Units are visited in sorted name order so that
// map-iteration order never affects the outcome. Returns whether any
// override was actually present.
func ApplyOverrides(res *InitialResources, overrides Overrides, missionTypes []MissionType) bool {
	if len(overrides) == 0 {
		return false
	}

	index := make(map[string]int, len(res.Units))
	for i, u := range res.Units {
		index[u.Unit] = i
	}

	referenced := collectReferencedPayloadTypes(missionTypes)

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ov := overrides[name]
		i, ok := index[name]
		if !ok {
			res.Units = append(res.Units, UnitResources{Unit: name, Payloads: make(map[string]int)})
			i = len(res.Units) - 1
			index[name] = i
		}
		u := &res.Units[i]
		if u.Payloads == nil {
			u.Payloads = make(map[string]int)
		}

		if ov.Aircraft != nil && *ov.Aircraft >= 0 {
			u.Aircraft = int(math.Floor(*ov.Aircraft))
		}
		if ov.Pilots != nil && *ov.Pilots >= 0 {
			u.Pilots = int(math.Floor(*ov.Pilots))
		}
		if ov.SOs != nil && *ov.SOs >= 0 {
			u.SOs = int(math.Floor(*ov.SOs))
		}

		if ov.PayloadPerType != nil && *ov.PayloadPerType >= 0 {
			count := int(math.Floor(*ov.PayloadPerType))
			union := make(map[string]bool)
			for ptype := range u.Payloads {
				union[ptype] = true
			}
			for ptype := range referenced {
				union[ptype] = true
			}
			for ptype := range union {
				u.Payloads[ptype] = count
			}
		}

		if len(ov.PayloadByType) > 0 {
			ptypes := make([]string, 0, len(ov.PayloadByType))
			for ptype := range ov.PayloadByType {
				ptypes = append(ptypes, ptype)
			}
			sort.Strings(ptypes)
			for _, ptype := range ptypes {
				v := ov.PayloadByType[ptype]
				if v < 0 {
					continue
				}
				u.Payloads[ptype] = int(math.Floor(v))
			}
		}
	}

	return true
}
