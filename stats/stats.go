// Package stats computes descriptive statistics over a prepared series.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var ErrEmptySeries = errors.New("empty series")

// Summary holds the descriptive statistics of a value series. Variance and
// standard deviation are population measures, dividing by n rather than n-1.
type Summary struct {
	Mean                   float64 `json:"mean"`
	Median                 float64 `json:"median"`
	Variance               float64 `json:"variance"`
	StdDev                 float64 `json:"std_dev"`
	Min                    float64 `json:"min"`
	Max                    float64 `json:"max"`
	Range                  float64 `json:"range"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	FirstValue             float64 `json:"first_value"`
	LastValue              float64 `json:"last_value"`
	TotalChange            float64 `json:"total_change"`
	PercentageChange       float64 `json:"percentage_change"`
}

// Calculate returns the Summary for the given values.
func Calculate(values []float64) (*Summary, error) {
	if len(values) == 0 {
		return nil, ErrEmptySeries
	}

	mean := stat.Mean(values, nil)
	variance := stat.PopVariance(values, nil)
	stddev := math.Sqrt(variance)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	minVal := sorted[0]
	maxVal := sorted[len(sorted)-1]

	var cv float64
	if mean != 0 {
		cv = stddev / math.Abs(mean) * 100.0
	}

	first := values[0]
	last := values[len(values)-1]
	var pctChange float64
	if first != 0 {
		pctChange = (last - first) / first * 100.0
	}

	return &Summary{
		Mean:                   mean,
		Median:                 median(sorted),
		Variance:               variance,
		StdDev:                 stddev,
		Min:                    minVal,
		Max:                    maxVal,
		Range:                  maxVal - minVal,
		CoefficientOfVariation: cv,
		FirstValue:             first,
		LastValue:              last,
		TotalChange:            last - first,
		PercentageChange:       pctChange,
	}, nil
}

// median expects sorted input and averages the two middle values for even
// lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2.0
}

// RelativeChanges returns (v[i]-v[i-1])/v[i-1] for each consecutive pair of
// values.
func RelativeChanges(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	changes := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		changes = append(changes, (values[i]-values[i-1])/values[i-1])
	}
	return changes
}

// Volatility is the population standard deviation of the period-over-period
// relative changes of the series.
func Volatility(values []float64) float64 {
	changes := RelativeChanges(values)
	if len(changes) == 0 {
		return 0.0
	}
	return math.Sqrt(stat.PopVariance(changes, nil))
}
