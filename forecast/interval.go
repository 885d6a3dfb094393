package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/outcomely/go-trendalyzer/dataset"
	"github.com/outcomely/go-trendalyzer/trend"
)

// zScores maps supported confidence levels to their normal z value. Levels
// without an entry fall back to 1.64 (roughly 90%).
var zScores = map[float64]float64{
	0.95: 1.96,
	0.99: 2.58,
}

const defaultZScore = 1.64

// Interval carries the residual-derived margin applied symmetrically around
// any predicted value.
type Interval struct {
	ConfidenceLevel float64 `json:"confidence_level"`
	StandardError   float64 `json:"standard_error"`
	MarginOfError   float64 `json:"margin_of_error"`
}

// NewInterval fits per-index residuals of the model against the observed
// series and derives the margin of error for the requested confidence level.
func NewInterval(points []dataset.PreparedPoint, fit trend.Result, confidenceLevel float64) (*Interval, error) {
	if fit == nil {
		return nil, ErrNoFit
	}
	if len(points) == 0 {
		return nil, ErrEmptySeries
	}

	residuals := make([]float64, len(points))
	for i, p := range points {
		predicted, err := predictAt(fit, float64(i))
		if err != nil {
			return nil, err
		}
		residuals[i] = p.Value - predicted
	}

	stdErr := math.Sqrt(stat.PopVariance(residuals, nil))

	z, ok := zScores[confidenceLevel]
	if !ok {
		z = defaultZScore
	}

	return &Interval{
		ConfidenceLevel: confidenceLevel,
		StandardError:   stdErr,
		MarginOfError:   z * stdErr,
	}, nil
}

// LowerBound returns the bottom of the interval around a predicted value.
func (ci *Interval) LowerBound(v float64) float64 {
	return v - ci.MarginOfError
}

// UpperBound returns the top of the interval around a predicted value.
func (ci *Interval) UpperBound(v float64) float64 {
	return v + ci.MarginOfError
}
