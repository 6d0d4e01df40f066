package metrics

import (
	"math"
	"sort"
)

// PercentileLadder is the fixed set of tail percentiles the components and
// total CSVs report, following the ladder shape
// DylanSiegel-GO-MICROSTRUCTURES-TBBO/metrics.go uses for its tail
// statistics (sorted-copy, then index by quantile).
type PercentileLadder struct {
	P90, P99, P999, P9999 float64
}

// StageStats accumulates latency-style samples (in nanoseconds) for one
// pipeline stage: mean, percentile ladder, stddev, jitter, min/max.
//
// Jitter is the standard deviation of consecutive-sample deltas, the
// stability measure original_source/include/metrics_collector.hpp tracks
// alongside its latency min/max/avg fields.
type StageStats struct {
	Name    string
	samples []float64
}

// NewStageStats returns an empty StageStats for the named pipeline stage.
func NewStageStats(name string) *StageStats {
	return &StageStats{Name: name}
}

// Observe folds one latency sample (nanoseconds) into the stage.
func (s *StageStats) Observe(v float64) {
	s.samples = append(s.samples, v)
}

// Count returns the number of samples observed.
func (s *StageStats) Count() int { return len(s.samples) }

// Mean returns the sample mean.
func (s *StageStats) Mean() float64 { return mean(s.samples) }

// Median returns the sample median.
func (s *StageStats) Median() float64 {
	return s.percentile(0.5)
}

// StdDev returns the sample standard deviation.
func (s *StageStats) StdDev() float64 { return stddev(s.samples, s.Mean()) }

// Min and Max return the smallest/largest observed sample, or 0 if empty.
func (s *StageStats) Min() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	m := s.samples[0]
	for _, v := range s.samples[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func (s *StageStats) Max() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	m := s.samples[0]
	for _, v := range s.samples[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Jitter returns the standard deviation of consecutive-sample deltas, in
// the order samples were observed.
func (s *StageStats) Jitter() float64 {
	if len(s.samples) < 3 {
		return 0
	}
	deltas := make([]float64, 0, len(s.samples)-1)
	for i := 1; i < len(s.samples); i++ {
		deltas = append(deltas, s.samples[i]-s.samples[i-1])
	}
	return stddev(deltas, mean(deltas))
}

func (s *StageStats) percentile(p float64) float64 {
	n := len(s.samples)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, s.samples)
	sort.Float64s(sorted)
	idx := int(p * float64(n-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// Percentiles returns the stage's p90/p99/p999/p9999 ladder.
func (s *StageStats) Percentiles() PercentileLadder {
	return PercentileLadder{
		P90:   s.percentile(0.90),
		P99:   s.percentile(0.99),
		P999:  s.percentile(0.999),
		P9999: s.percentile(0.9999),
	}
}

// PercentOfTotal returns this stage's mean as a fraction of the sum of all
// stage means passed in, for the components.csv "percent-of-total" column.
func (s *StageStats) PercentOfTotal(stages []*StageStats) float64 {
	var total float64
	for _, st := range stages {
		total += st.Mean()
	}
	if total == 0 {
		return 0
	}
	return s.Mean() / total
}

// isFinite guards CSV emission against NaN/Inf from empty-sample stages.
func isFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
