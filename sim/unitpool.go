package sim

// UnitPool groups the five resource-pool dimensions tracked per unit —
// aircraft, pilots, sensor operators, and one pool per payload type — plus
// the list of mission finish times recorded against this unit.
type UnitPool struct {
	Name     string
	Aircraft *ResourcePool
	Pilots   *ResourcePool
	SOs      *ResourcePool
	Payloads map[string]*ResourcePool
	Finishes []float64
}

// NewUnitPool builds a UnitPool from a unit's initial resource counts.
func NewUnitPool(res UnitResources) *UnitPool {
	payloads := make(map[string]*ResourcePool, len(res.Payloads))
	for ptype, count := range res.Payloads {
		payloads[ptype] = NewResourcePool(count)
	}
	return &UnitPool{
		Name:     res.Unit,
		Aircraft: NewResourcePool(res.Aircraft),
		Pilots:   NewResourcePool(res.Pilots),
		SOs:      NewResourcePool(res.SOs),
		Payloads: payloads,
	}
}

// payloadPool returns the pool for ptype, lazily creating a zero-capacity
// one if the unit was never given that payload type. A zero-capacity pool
// is harmless: it simply denies every acquisition, which is the correct
// admission outcome for a payload type the unit never had.
func (u *UnitPool) payloadPool(ptype string) *ResourcePool {
	if u.Payloads == nil {
		u.Payloads = make(map[string]*ResourcePool)
	}
	p, ok := u.Payloads[ptype]
	if !ok {
		p = NewResourcePool(0)
		u.Payloads[ptype] = p
	}
	return p
}
