// Package dataset converts raw clinical measurements into an ordered,
// period-bucketed series suitable for trend fitting. Raw points may arrive
// unsorted and with optional per-point confidence weights.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoDataPoints       = errors.New("no data points")
	ErrUnknownGranularity = errors.New("unknown granularity")
)

// Granularity selects the calendar period raw points are bucketed into.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

func (g Granularity) Valid() error {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return nil
	}
	return fmt.Errorf("%q, %w", string(g), ErrUnknownGranularity)
}

// RawPoint is a single measurement. Confidence is an optional aggregation
// weight defaulting to 1.0 when nil. It is not a statistical confidence level.
type RawPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Value      float64   `json:"value"`
	Confidence *float64  `json:"confidence,omitempty"`
}

func (p RawPoint) weight() float64 {
	if p.Confidence == nil {
		return 1.0
	}
	return *p.Confidence
}

// PreparedPoint is the confidence-weighted aggregate of all raw points that
// fell into one calendar bucket. Timestamp is the bucket's period start.
type PreparedPoint struct {
	Period    string    `json:"period"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Count     int       `json:"count"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Variance  float64   `json:"variance"`
}

// Prepare sorts raw points ascending by time, buckets them by the requested
// granularity, and aggregates each bucket into a single PreparedPoint. The
// output is ordered ascending by timestamp with one entry per distinct bucket.
// The sum of all bucket counts equals len(points).
func Prepare(points []RawPoint, granularity Granularity) ([]PreparedPoint, error) {
	if len(points) == 0 {
		return nil, ErrNoDataPoints
	}
	if err := granularity.Valid(); err != nil {
		return nil, err
	}

	sorted := make([]RawPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	buckets := make(map[string][]RawPoint)
	order := make([]string, 0)
	for _, p := range sorted {
		key := bucketKey(p.Timestamp, granularity)
		if _, exists := buckets[key]; !exists {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], p)
	}

	prepared := make([]PreparedPoint, 0, len(order))
	for _, key := range order {
		prepared = append(prepared, aggregate(key, buckets[key], granularity))
	}
	return prepared, nil
}

// Values extracts the aggregated value series from prepared points.
func Values(points []PreparedPoint) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = p.Value
	}
	return vals
}

func aggregate(key string, points []RawPoint, granularity Granularity) PreparedPoint {
	var weightedSum, weightSum float64
	vals := make([]float64, len(points))
	for i, p := range points {
		w := p.weight()
		weightedSum += p.Value * w
		weightSum += w
		vals[i] = p.Value
	}

	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range vals {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	return PreparedPoint{
		Period:    key,
		Timestamp: bucketStart(points[0].Timestamp, granularity),
		Value:     weightedSum / weightSum,
		Count:     len(points),
		Min:       minVal,
		Max:       maxVal,
		Variance:  stat.PopVariance(vals, nil),
	}
}

func bucketKey(t time.Time, granularity Granularity) string {
	switch granularity {
	case GranularityDaily:
		return t.Format("2006-01-02")
	case GranularityWeekly:
		return weekStart(t).Format("2006-01-02")
	case GranularityMonthly:
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

func bucketStart(t time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GranularityDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case GranularityWeekly:
		return weekStart(t)
	case GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	return t
}

// weekStart truncates to the Sunday beginning the week containing t.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}
