package sim

import "sort"

// ResourcePool is a counted capacity with an ordered multiset of in-flight
// release timestamps. Hold times stay sorted ascending so cleanup at a
// given instant is a binary-search partition plus an O(m) drop of the
// expired prefix, amortized O(1) per expiration; a fresh acquisition is a
// single sorted insertion of k identical release times.
type ResourcePool struct {
	capacity    int
	holds       []float64 // sorted ascending
	busyTime    float64
	allocations int
	denials     int
	lastCleanup float64
}

// NewResourcePool creates a pool with the given total capacity.
func NewResourcePool(capacity int) *ResourcePool {
	return &ResourcePool{capacity: capacity}
}

// cleanup drops all holds with release time <= t and advances the
// last-cleanup watermark. A no-op when t has already been processed.
func (p *ResourcePool) cleanup(t float64) {
	if t <= p.lastCleanup {
		return
	}
	idx := sort.Search(len(p.holds), func(i int) bool { return p.holds[i] > t })
	p.holds = p.holds[idx:]
	p.lastCleanup = t
}

// AvailableAt returns how many units are free at time t.
func (p *ResourcePool) AvailableAt(t float64) int {
	p.cleanup(t)
	return p.capacity - len(p.holds)
}

// TryAcquire attempts to hold k units from time t through t+d. On success
// it records k copies of the release time t+d at their sorted position and
// returns true; on failure it counts k denials and returns false without
// mutating any other state.
func (p *ResourcePool) TryAcquire(t, d float64, k int) bool {
	if p.AvailableAt(t) < k {
		p.denials += k
		return false
	}
	release := t + d
	idx := sort.Search(len(p.holds), func(i int) bool { return p.holds[i] > release })
	grown := make([]float64, 0, len(p.holds)+k)
	grown = append(grown, p.holds[:idx]...)
	for i := 0; i < k; i++ {
		grown = append(grown, release)
	}
	grown = append(grown, p.holds[idx:]...)
	p.holds = grown
	p.busyTime += d * float64(k)
	p.allocations += k
	return true
}

// Utilization returns min(1, busyTime / (capacity * horizon)), or 0 if the
// pool has no capacity or horizon is non-positive.
func (p *ResourcePool) Utilization(horizon float64) float64 {
	if p.capacity == 0 || horizon <= 0 {
		return 0
	}
	u := p.busyTime / (float64(p.capacity) * horizon)
	if u > 1 {
		return 1
	}
	return u
}

// Allocations returns the running count of accepted acquisition units.
func (p *ResourcePool) Allocations() int { return p.allocations }

// Denials returns the running count of denied acquisition units.
func (p *ResourcePool) Denials() int { return p.denials }
