package sim

import "testing"

func TestNewUnitPool_FromResources(t *testing.T) {
	res := UnitResources{
		Unit: "A", Aircraft: 2, Pilots: 1, SOs: 3,
		Payloads: map[string]int{"EW Pod": 4},
	}
	up := NewUnitPool(res)

	if up.Name != "A" {
		t.Fatalf("Name = %q, want A", up.Name)
	}
	if got := up.Aircraft.AvailableAt(0); got != 2 {
		t.Fatalf("Aircraft available = %d, want 2", got)
	}
	if got := up.Pilots.AvailableAt(0); got != 1 {
		t.Fatalf("Pilots available = %d, want 1", got)
	}
	if got := up.SOs.AvailableAt(0); got != 3 {
		t.Fatalf("SOs available = %d, want 3", got)
	}
	if got := up.payloadPool("EW Pod").AvailableAt(0); got != 4 {
		t.Fatalf("EW Pod available = %d, want 4", got)
	}
}

func TestUnitPool_PayloadPool_LazyZeroCapacity(t *testing.T) {
	// GIVEN a unit with no payloads configured
	up := NewUnitPool(UnitResources{Unit: "A"})

	// WHEN a mission references a payload type the unit never had
	pool := up.payloadPool("SmartSensor")

	// THEN a zero-capacity pool is created, which denies every acquisition
	if got := pool.AvailableAt(0); got != 0 {
		t.Fatalf("lazily-created payload pool AvailableAt(0) = %d, want 0", got)
	}
	if up.Payloads["SmartSensor"] != pool {
		t.Fatal("payloadPool should cache the created pool on the unit")
	}
}
