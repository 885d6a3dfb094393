package trendalyzer

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/outcomely/go-trendalyzer/dataset"
	"github.com/outcomely/go-trendalyzer/forecast"
	"github.com/outcomely/go-trendalyzer/insight"
	"github.com/outcomely/go-trendalyzer/pattern"
	"github.com/outcomely/go-trendalyzer/stats"
	"github.com/outcomely/go-trendalyzer/trend"
)

// TrendAnalysis is the serializable form of a fitted trend. Exactly one of
// the variant fields is set on a successful fit; Error carries the reason
// when an expected terminal state prevented the fit.
type TrendAnalysis struct {
	Type          trend.Type           `json:"type"`
	Linear        *trend.Linear        `json:"linear,omitempty"`
	Exponential   *trend.Exponential   `json:"exponential,omitempty"`
	MovingAverage *trend.MovingAverage `json:"moving_average,omitempty"`
	Error         string               `json:"error,omitempty"`
}

func newTrendAnalysis(fit trend.Result) *TrendAnalysis {
	ta := &TrendAnalysis{Type: fit.Type()}
	switch f := fit.(type) {
	case *trend.Linear:
		ta.Linear = f
	case *trend.Exponential:
		ta.Exponential = f
	case *trend.MovingAverage:
		ta.MovingAverage = f
	}
	return ta
}

// Fit returns the trend variant backing this analysis, or nil when the fit
// ended in an expected terminal state.
func (ta *TrendAnalysis) Fit() trend.Result {
	switch {
	case ta.Linear != nil:
		return ta.Linear
	case ta.Exponential != nil:
		return ta.Exponential
	case ta.MovingAverage != nil:
		return ta.MovingAverage
	}
	return nil
}

// Metadata records how and when an analysis was produced.
type Metadata struct {
	AnalyzedAt      time.Time  `json:"analyzed_at"`
	AnalysisType    trend.Type `json:"analysis_type"`
	ConfidenceLevel float64    `json:"confidence_level"`
}

// Result is the full output of one analysis run. When HasInsufficientData is
// set only Message, DataPointCount, and Metadata are populated.
type Result struct {
	HasInsufficientData bool   `json:"has_insufficient_data,omitempty"`
	Message             string `json:"message,omitempty"`

	DataPointCount int                     `json:"data_point_count"`
	Timeframe      string                  `json:"timeframe"`
	Granularity    dataset.Granularity     `json:"granularity"`
	PreparedPoints []dataset.PreparedPoint `json:"prepared_points,omitempty"`

	Statistics          *stats.Summary           `json:"statistics,omitempty"`
	TrendAnalysis       *TrendAnalysis           `json:"trend_analysis,omitempty"`
	PatternAnalysis     *pattern.Result          `json:"pattern_analysis,omitempty"`
	Seasonality         *Seasonality             `json:"seasonality_analysis,omitempty"`
	Forecast            []forecast.Point         `json:"forecast,omitempty"`
	ConfidenceIntervals *forecast.Interval       `json:"confidence_intervals,omitempty"`
	Insights            []insight.Insight        `json:"insights,omitempty"`
	Recommendations     []insight.Recommendation `json:"recommendations,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// JSON serializes the result for callers shipping it across a process
// boundary.
func (r *Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}
