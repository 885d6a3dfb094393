// Package trend fits a model to a prepared value series and classifies its
// direction, strength, and significance. The three supported model families
// are linear least squares, exponential growth via log-linearization, and
// moving-average smoothing with a linear refit over the smoothed series.
package trend

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/outcomely/go-trendalyzer/stats"
)

var (
	ErrTooFewPoints         = errors.New("need at least 3 points to fit a trend")
	ErrTooFewPositivePoints = errors.New("need at least 3 positive values for an exponential fit")
	ErrWindowExceedsSeries  = errors.New("series is shorter than the moving average window")
	ErrUnknownAnalysisType  = errors.New("unknown analysis type")
)

const (
	// DefaultWindow is the moving average window used when none is set.
	DefaultWindow = 3

	directionThreshold = 0.01
)

// Type discriminates the fitted model family.
type Type string

const (
	TypeLinear        Type = "linear"
	TypeExponential   Type = "exponential"
	TypeMovingAverage Type = "moving_average"
)

func (t Type) Valid() error {
	switch t {
	case TypeLinear, TypeExponential, TypeMovingAverage:
		return nil
	}
	return fmt.Errorf("%q, %w", string(t), ErrUnknownAnalysisType)
}

// Direction labels which way the fitted series moves.
type Direction string

const (
	DirectionIncreasing        Direction = "increasing"
	DirectionDecreasing        Direction = "decreasing"
	DirectionStable            Direction = "stable"
	DirectionExponentialGrowth Direction = "exponential_growth"
	DirectionExponentialDecay  Direction = "exponential_decay"
)

// Strength buckets how much variance the fit explains.
type Strength string

const (
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

// Confidence is a qualitative label derived from the fit's R squared.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Significance reports whether a fit explains enough variance over enough
// points to act on.
type Significance struct {
	IsSignificant bool       `json:"is_significant"`
	Confidence    Confidence `json:"confidence"`
}

// Result is the fitted trend model. Exactly one concrete variant backs each
// value: *Linear, *Exponential, or *MovingAverage.
type Result interface {
	Type() Type
	Direction() Direction
}

// Linear is an ordinary least squares fit of value against point index.
type Linear struct {
	Slope          float64      `json:"slope"`
	Intercept      float64      `json:"intercept"`
	RSquared       float64      `json:"r_squared"`
	TrendDirection Direction    `json:"trend_direction"`
	TrendStrength  Strength     `json:"trend_strength"`
	Significance   Significance `json:"significance"`
}

func (l *Linear) Type() Type           { return TypeLinear }
func (l *Linear) Direction() Direction { return l.TrendDirection }

// Exponential is a fit of value = A * exp(B*index), estimated over the
// positive values by regressing log(value) against index.
type Exponential struct {
	A              float64      `json:"a"`
	B              float64      `json:"b"`
	GrowthRate     float64      `json:"growth_rate"`
	RSquared       float64      `json:"r_squared"`
	TrendDirection Direction    `json:"trend_direction"`
	Significance   Significance `json:"significance"`
}

func (e *Exponential) Type() Type           { return TypeExponential }
func (e *Exponential) Direction() Direction { return e.TrendDirection }

// SmoothingEffect compares series volatility before and after smoothing.
type SmoothingEffect struct {
	OriginalVolatility float64 `json:"original_volatility"`
	SmoothedVolatility float64 `json:"smoothed_volatility"`
	ReductionRatio     float64 `json:"reduction_ratio"`
}

// MovingAverage smooths the series with a simple moving average and refits a
// linear trend over the smoothed values.
type MovingAverage struct {
	Window          int             `json:"window"`
	MovingAverages  []float64       `json:"moving_averages"`
	Trend           *Linear         `json:"trend"`
	SmoothingEffect SmoothingEffect `json:"smoothing_effect"`
}

func (m *MovingAverage) Type() Type           { return TypeMovingAverage }
func (m *MovingAverage) Direction() Direction { return m.Trend.TrendDirection }

// Fit dispatches to the fitter for the requested analysis type. window only
// applies to moving average fits and falls back to DefaultWindow when zero.
func Fit(values []float64, analysisType Type, window int) (Result, error) {
	if len(values) < 3 {
		return nil, ErrTooFewPoints
	}
	switch analysisType {
	case TypeLinear:
		return FitLinear(values), nil
	case TypeExponential:
		return FitExponential(values)
	case TypeMovingAverage:
		if window <= 0 {
			window = DefaultWindow
		}
		return FitMovingAverage(values, window)
	}
	return nil, fmt.Errorf("%q, %w", string(analysisType), ErrUnknownAnalysisType)
}

// FitLinear computes an ordinary least squares fit of values against their
// indices 0..n-1.
func FitLinear(values []float64) *Linear {
	n := len(values)
	xs := indexSeries(n)

	intercept, slope := stat.LinearRegression(xs, values, nil, false)

	predicted := make([]float64, n)
	for i := range predicted {
		predicted[i] = slope*xs[i] + intercept
	}
	r2 := rSquared(predicted, values)

	direction := DirectionStable
	switch {
	case slope > directionThreshold:
		direction = DirectionIncreasing
	case slope < -directionThreshold:
		direction = DirectionDecreasing
	}

	strength := StrengthStrong
	switch {
	case r2 < 0.3:
		strength = StrengthWeak
	case r2 < 0.7:
		strength = StrengthModerate
	}

	return &Linear{
		Slope:          slope,
		Intercept:      intercept,
		RSquared:       r2,
		TrendDirection: direction,
		TrendStrength:  strength,
		Significance:   significance(r2, n),
	}
}

// FitExponential log-linearizes value = A*exp(B*x) over the positive values.
// Fewer than 3 positive values is an expected terminal state reported as
// ErrTooFewPositivePoints.
func FitExponential(values []float64) (*Exponential, error) {
	logs := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			logs = append(logs, math.Log(v))
		}
	}
	if len(logs) < 3 {
		return nil, ErrTooFewPositivePoints
	}

	xs := indexSeries(len(logs))
	logA, b := stat.LinearRegression(xs, logs, nil, false)

	predicted := make([]float64, len(logs))
	for i := range predicted {
		predicted[i] = b*xs[i] + logA
	}
	r2 := rSquared(predicted, logs)

	direction := DirectionStable
	switch {
	case b > directionThreshold:
		direction = DirectionExponentialGrowth
	case b < -directionThreshold:
		direction = DirectionExponentialDecay
	}

	return &Exponential{
		A:              math.Exp(logA),
		B:              b,
		GrowthRate:     (math.Exp(b) - 1.0) * 100.0,
		RSquared:       r2,
		TrendDirection: direction,
		Significance:   significance(r2, len(logs)),
	}, nil
}

// FitMovingAverage smooths values with a simple moving average of the given
// window and fits a linear trend over the smoothed series. A series shorter
// than the window is an expected terminal state reported as
// ErrWindowExceedsSeries.
func FitMovingAverage(values []float64, window int) (*MovingAverage, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(values) < window {
		return nil, fmt.Errorf("%d points with window %d, %w", len(values), window, ErrWindowExceedsSeries)
	}

	smoothed := make([]float64, 0, len(values)-window+1)
	for i := 0; i+window <= len(values); i++ {
		var sum float64
		for _, v := range values[i : i+window] {
			sum += v
		}
		smoothed = append(smoothed, sum/float64(window))
	}

	origVol := stats.Volatility(values)
	smoothVol := stats.Volatility(smoothed)
	var reduction float64
	if origVol != 0 {
		reduction = (origVol - smoothVol) / origVol
	}

	return &MovingAverage{
		Window:         window,
		MovingAverages: smoothed,
		Trend:          FitLinear(smoothed),
		SmoothingEffect: SmoothingEffect{
			OriginalVolatility: origVol,
			SmoothedVolatility: smoothVol,
			ReductionRatio:     reduction,
		},
	}, nil
}

func significance(r2 float64, n int) Significance {
	confidence := ConfidenceLow
	switch {
	case r2 > 0.8:
		confidence = ConfidenceHigh
	case r2 > 0.5:
		confidence = ConfidenceMedium
	}
	return Significance{
		IsSignificant: r2 > 0.5 && n > 5,
		Confidence:    confidence,
	}
}

func indexSeries(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// rSquared guards the constant-series case where total variance is zero and
// gonum's RSquaredFrom would divide by zero.
func rSquared(predicted, actual []float64) float64 {
	mean := stat.Mean(actual, nil)
	var ssTot float64
	for _, v := range actual {
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		return 1.0
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}
