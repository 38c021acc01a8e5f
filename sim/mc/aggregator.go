// Package mc implements the Monte Carlo driver: it fans a scenario out
// across many independent DES runs and folds their Results into streaming
// per-metric statistics.
package mc

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const reservoirCapacity = 1000

var percentileLevels = []float64{0.10, 0.25, 0.50, 0.75, 0.90, 0.95, 0.99}

// Stat is the 11-field aggregated record spec'd for every tracked metric:
// rounded mean/stddev, min/max, and the seven percentiles.
type Stat struct {
	Mean   float64 `json:"mean"`
	P10    float64 `json:"p10"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stddev"`
}

// welford is an online accumulator for count, mean, variance, min, and max,
// per Welford's algorithm.
type welford struct {
	count int64
	mean  float64
	m2    float64
	min   float64
	max   float64
}

func (w *welford) add(x float64) {
	if w.count == 0 {
		w.min, w.max = x, x
	} else {
		if x < w.min {
			w.min = x
		}
		if x > w.max {
			w.max = x
		}
	}
	w.count++
	delta := x - w.mean
	w.mean += delta / float64(w.count)
	delta2 := x - w.mean
	w.m2 += delta * delta2
}

func (w *welford) variance() float64 {
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count-1)
}

// metricAccumulator pairs a Welford accumulator with a fixed-capacity
// reservoir sample (Algorithm R) used to approximate percentiles.
type metricAccumulator struct {
	welford   welford
	reservoir []float64
	seen      int64
}

func (m *metricAccumulator) add(x float64, rng *rand.Rand) {
	m.welford.add(x)
	m.seen++
	if len(m.reservoir) < reservoirCapacity {
		m.reservoir = append(m.reservoir, x)
		return
	}
	j := rng.Int63n(m.seen)
	if j < int64(reservoirCapacity) {
		m.reservoir[j] = x
	}
}

// stat computes the Stat record for this metric. The reservoir is sorted
// (a copy, so repeated calls are idempotent) and fed to gonum's empirical
// quantile function, which expects ascending, unweighted data.
func (m *metricAccumulator) stat() Stat {
	sorted := append([]float64(nil), m.reservoir...)
	sort.Float64s(sorted)

	s := Stat{
		Mean:   round2(m.welford.mean),
		Min:    m.welford.min,
		Max:    m.welford.max,
		StdDev: round2(math.Sqrt(m.welford.variance())),
	}
	if len(sorted) > 0 {
		s.P10 = stat.Quantile(percentileLevels[0], stat.Empirical, sorted, nil)
		s.P25 = stat.Quantile(percentileLevels[1], stat.Empirical, sorted, nil)
		s.P50 = stat.Quantile(percentileLevels[2], stat.Empirical, sorted, nil)
		s.P75 = stat.Quantile(percentileLevels[3], stat.Empirical, sorted, nil)
		s.P90 = stat.Quantile(percentileLevels[4], stat.Empirical, sorted, nil)
		s.P95 = stat.Quantile(percentileLevels[5], stat.Empirical, sorted, nil)
		s.P99 = stat.Quantile(percentileLevels[6], stat.Empirical, sorted, nil)
	}
	return s
}

// aggregator is a flat, lazily-populated table of metricAccumulators keyed
// by a dotted metric path (e.g. "missions.requested",
// "utilization.unitA.aircraft", "by_type.recon.completed"). Callers (the
// Driver) hold the aggregator's mutex for the duration of a fold, so the
// aggregator itself does no locking.
type aggregator struct {
	metrics map[string]*metricAccumulator
	rng     *rand.Rand
}

func newAggregator(reservoirRNG *rand.Rand) *aggregator {
	return &aggregator{metrics: make(map[string]*metricAccumulator), rng: reservoirRNG}
}

func (a *aggregator) add(key string, value float64) {
	m, ok := a.metrics[key]
	if !ok {
		m = &metricAccumulator{}
		a.metrics[key] = m
	}
	m.add(value, a.rng)
}

// statFor returns the Stat for key, and false if the metric was never
// observed (spec: "empty streams produce no entry").
func (a *aggregator) statFor(key string) (Stat, bool) {
	m, ok := a.metrics[key]
	if !ok || m.welford.count == 0 {
		return Stat{}, false
	}
	return m.stat(), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
