// Package forecast projects a fitted trend over future periods and derives
// residual-based confidence intervals around predicted values.
package forecast

import (
	"errors"
	"math"
	"time"

	"github.com/outcomely/go-trendalyzer/dataset"
	"github.com/outcomely/go-trendalyzer/trend"
)

var (
	ErrNoFit          = errors.New("no fitted trend")
	ErrEmptySeries    = errors.New("empty prepared series")
	ErrNoHorizon      = errors.New("forecast horizon must be at least 1 period")
	ErrUnsupportedFit = errors.New("unsupported trend result type")
)

// DefaultHorizon is the number of future periods projected when the caller
// does not choose one.
const DefaultHorizon = 4

// fallbackInterval spaces forecast timestamps when the series is too short
// to infer an interval from its last two points.
const fallbackInterval = 7 * 24 * time.Hour

// Point is a single projected period. Period numbering starts at 1 for the
// first period past the observed series.
type Point struct {
	Period         int       `json:"period"`
	Timestamp      time.Time `json:"timestamp"`
	PredictedValue float64   `json:"predicted_value"`
	Confidence     float64   `json:"confidence"`
}

// Project extrapolates the fitted trend for the requested number of future
// periods. Predictions are clamped to be non-negative and per-period
// confidence decays linearly from 0.9 down to a floor of 0.1.
func Project(points []dataset.PreparedPoint, fit trend.Result, periods int) ([]Point, error) {
	if fit == nil {
		return nil, ErrNoFit
	}
	if len(points) == 0 {
		return nil, ErrEmptySeries
	}
	if periods < 1 {
		return nil, ErrNoHorizon
	}

	n := len(points)
	last := points[n-1].Timestamp
	interval := fallbackInterval
	if n >= 2 {
		interval = last.Sub(points[n-2].Timestamp)
	}

	forecast := make([]Point, 0, periods)
	for i := 1; i <= periods; i++ {
		predicted, err := predictAt(fit, float64(n-1+i))
		if err != nil {
			return nil, err
		}
		if predicted < 0 {
			predicted = 0
		}

		confidence := 0.9 - 0.1*float64(i)
		if confidence < 0.1 {
			confidence = 0.1
		}

		forecast = append(forecast, Point{
			Period:         i,
			Timestamp:      last.Add(time.Duration(i) * interval),
			PredictedValue: predicted,
			Confidence:     confidence,
		})
	}
	return forecast, nil
}

// predictAt evaluates the fitted model's closed form at index x. Moving
// average fits project the straight line refit over their smoothed series;
// the smoothed values themselves are never consulted, so the projection can
// diverge from the smoothed tail.
func predictAt(fit trend.Result, x float64) (float64, error) {
	switch f := fit.(type) {
	case *trend.Linear:
		return f.Slope*x + f.Intercept, nil
	case *trend.Exponential:
		return f.A * math.Exp(f.B*x), nil
	case *trend.MovingAverage:
		return f.Trend.Slope*x + f.Trend.Intercept, nil
	}
	return 0, ErrUnsupportedFit
}
