package sim

import (
	"math/rand"
	"testing"
)

func TestSample_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := Distribution{Kind: DistDeterministic, Value: 3.5}
	if got := Sample(d, rng); got != 3.5 {
		t.Fatalf("Sample(deterministic) = %v, want 3.5", got)
	}
}

func TestSample_Deterministic_NegativeClampsToZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := Distribution{Kind: DistDeterministic, Value: -1}
	if got := Sample(d, rng); got != 0 {
		t.Fatalf("Sample(deterministic, negative) = %v, want 0", got)
	}
}

func TestSample_Exponential_NonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := Distribution{Kind: DistExponential, Rate: 2}
	for i := 0; i < 1000; i++ {
		if got := Sample(d, rng); got < 0 {
			t.Fatalf("Sample(exponential) = %v, want >= 0", got)
		}
	}
}

func TestSample_Exponential_NonPositiveRateYieldsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := Distribution{Kind: DistExponential, Rate: 0}
	if got := Sample(d, rng); got != 0 {
		t.Fatalf("Sample(exponential, rate=0) = %v, want 0", got)
	}
}

func TestSample_Triangular_WithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	d := Distribution{Kind: DistTriangular, A: 1, M: 2, B: 5}
	for i := 0; i < 1000; i++ {
		got := Sample(d, rng)
		if got < 1 || got > 5 {
			t.Fatalf("Sample(triangular) = %v, want in [1,5]", got)
		}
	}
}

func TestSample_Triangular_InvalidShapeYieldsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// b <= a is an invalid shape per spec
	d := Distribution{Kind: DistTriangular, A: 5, M: 5, B: 5}
	if got := Sample(d, rng); got != 0 {
		t.Fatalf("Sample(triangular, invalid shape) = %v, want 0", got)
	}
}

func TestSample_Lognormal_NonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	d := Distribution{Kind: DistLognormal, Mu: 0, Sigma: 1}
	for i := 0; i < 1000; i++ {
		if got := Sample(d, rng); got < 0 {
			t.Fatalf("Sample(lognormal) = %v, want >= 0", got)
		}
	}
}

func TestSample_UnknownKindYieldsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := Distribution{Kind: DistKind("bogus")}
	if got := Sample(d, rng); got != 0 {
		t.Fatalf("Sample(unknown) = %v, want 0", got)
	}
}
