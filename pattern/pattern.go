// Package pattern scans a prepared series for outliers, cyclical behavior,
// mean shifts, and volatility.
package pattern

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/outcomely/go-trendalyzer/dataset"
	"github.com/outcomely/go-trendalyzer/stats"
)

const (
	// MinCyclePoints is the fewest points cycle detection will attempt.
	MinCyclePoints = 6

	changePointThreshold = 0.20
)

// OutlierType marks which fence a point fell outside of.
type OutlierType string

const (
	OutlierLow  OutlierType = "low"
	OutlierHigh OutlierType = "high"
)

// VolatilityLevel buckets the volatility of a series.
type VolatilityLevel string

const (
	VolatilityLow      VolatilityLevel = "low"
	VolatilityModerate VolatilityLevel = "moderate"
	VolatilityHigh     VolatilityLevel = "high"
)

// ChangeType marks the direction of a detected mean shift.
type ChangeType string

const (
	ChangeIncrease ChangeType = "increase"
	ChangeDecrease ChangeType = "decrease"
)

// Outlier is a prepared point outside the Tukey fences.
type Outlier struct {
	Index       int                   `json:"index"`
	Point       dataset.PreparedPoint `json:"point"`
	OutlierType OutlierType           `json:"outlier_type"`
}

// Cycles summarizes peak/trough structure found in the series.
type Cycles struct {
	Detected           bool    `json:"detected"`
	Peaks              []int   `json:"peaks"`
	Troughs            []int   `json:"troughs"`
	CycleCount         int     `json:"cycle_count"`
	AverageCycleLength float64 `json:"average_cycle_length"`
	Reason             string  `json:"reason,omitempty"`
}

// ChangePoint records a shift in local mean exceeding the relative threshold.
type ChangePoint struct {
	Index       int        `json:"index"`
	Period      string     `json:"period"`
	BeforeMean  float64    `json:"before_mean"`
	AfterMean   float64    `json:"after_mean"`
	ChangeRatio float64    `json:"change_ratio"`
	ChangeType  ChangeType `json:"change_type"`
}

// Volatility classifies the spread of period-over-period relative changes.
type Volatility struct {
	Volatility     float64         `json:"volatility"`
	Classification VolatilityLevel `json:"classification"`
	MaxChange      float64         `json:"max_change"`
	AverageChange  float64         `json:"average_change"`
}

// Result bundles all pattern findings for a series.
type Result struct {
	Outliers     []Outlier     `json:"outliers"`
	Cycles       Cycles        `json:"cycles"`
	ChangePoints []ChangePoint `json:"change_points"`
	Volatility   Volatility    `json:"volatility"`
}

// Detect runs all pattern scans over the prepared series.
func Detect(points []dataset.PreparedPoint) *Result {
	values := dataset.Values(points)
	return &Result{
		Outliers:     DetectOutliers(points),
		Cycles:       DetectCycles(values),
		ChangePoints: DetectChangePoints(points),
		Volatility:   ClassifyVolatility(values),
	}
}

// DetectOutliers fences points at 1.5 IQR beyond the quartiles. Quartiles use
// simple floor-index selection rather than interpolated percentiles, a known
// approximation kept for result stability across series lengths.
func DetectOutliers(points []dataset.PreparedPoint) []Outlier {
	values := dataset.Values(points)
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := sorted[int(math.Floor(float64(n)*0.25))]
	q3 := sorted[int(math.Floor(float64(n)*0.75))]
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var outliers []Outlier
	for i, p := range points {
		switch {
		case p.Value < lower:
			outliers = append(outliers, Outlier{Index: i, Point: p, OutlierType: OutlierLow})
		case p.Value > upper:
			outliers = append(outliers, Outlier{Index: i, Point: p, OutlierType: OutlierHigh})
		}
	}
	return outliers
}

// DetectCycles scans interior points for local peaks and troughs. A cycle is
// only reported when at least two of each are present.
func DetectCycles(values []float64) Cycles {
	if len(values) < MinCyclePoints {
		return Cycles{
			Detected: false,
			Reason:   fmt.Sprintf("need at least %d points for cycle detection, have %d", MinCyclePoints, len(values)),
		}
	}

	var peaks, troughs []int
	for i := 1; i < len(values)-1; i++ {
		switch {
		case values[i] > values[i-1] && values[i] > values[i+1]:
			peaks = append(peaks, i)
		case values[i] < values[i-1] && values[i] < values[i+1]:
			troughs = append(troughs, i)
		}
	}

	detected := len(peaks) >= 2 && len(troughs) >= 2

	var avgCycleLen float64
	if len(peaks) >= 2 {
		deltas := make([]float64, 0, len(peaks)-1)
		for i := 1; i < len(peaks); i++ {
			deltas = append(deltas, float64(peaks[i]-peaks[i-1]))
		}
		avgCycleLen = stat.Mean(deltas, nil)
	}

	cycleCount := len(peaks)
	if len(troughs) < cycleCount {
		cycleCount = len(troughs)
	}

	return Cycles{
		Detected:           detected,
		Peaks:              peaks,
		Troughs:            troughs,
		CycleCount:         cycleCount,
		AverageCycleLength: avgCycleLen,
	}
}

// DetectChangePoints slides a window of max(3, n/4) points across the series
// and flags indices where the local mean shifts by more than 20% relative to
// the preceding window.
func DetectChangePoints(points []dataset.PreparedPoint) []ChangePoint {
	values := dataset.Values(points)
	n := len(values)
	window := n / 4
	if window < 3 {
		window = 3
	}

	var changePoints []ChangePoint
	for i := window; i+window <= n; i++ {
		before := stat.Mean(values[i-window:i], nil)
		after := stat.Mean(values[i:i+window], nil)
		ratio := (after - before) / before
		if math.Abs(ratio) <= changePointThreshold {
			continue
		}

		changeType := ChangeIncrease
		if after < before {
			changeType = ChangeDecrease
		}
		changePoints = append(changePoints, ChangePoint{
			Index:       i,
			Period:      points[i].Period,
			BeforeMean:  before,
			AfterMean:   after,
			ChangeRatio: ratio,
			ChangeType:  changeType,
		})
	}
	return changePoints
}

// ClassifyVolatility buckets the population standard deviation of relative
// period-over-period changes.
func ClassifyVolatility(values []float64) Volatility {
	changes := stats.RelativeChanges(values)
	vol := stats.Volatility(values)

	var maxChange, sumAbs float64
	for _, c := range changes {
		abs := math.Abs(c)
		if abs > maxChange {
			maxChange = abs
		}
		sumAbs += abs
	}
	var avgChange float64
	if len(changes) > 0 {
		avgChange = sumAbs / float64(len(changes))
	}

	classification := VolatilityHigh
	switch {
	case vol < 0.05:
		classification = VolatilityLow
	case vol < 0.15:
		classification = VolatilityModerate
	}

	return Volatility{
		Volatility:     vol,
		Classification: classification,
		MaxChange:      maxChange,
		AverageChange:  avgChange,
	}
}
