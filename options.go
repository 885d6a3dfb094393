package trendalyzer

import (
	"github.com/outcomely/go-trendalyzer/dataset"
	"github.com/outcomely/go-trendalyzer/forecast"
	"github.com/outcomely/go-trendalyzer/trend"
)

// Options configures a trend analysis run.
type Options struct {
	// AnalysisType selects the trend model family to fit.
	AnalysisType trend.Type `json:"analysis_type"`

	// Timeframe is a caller-facing label for the analyzed window. It is
	// echoed back in the result and never interpreted.
	Timeframe string `json:"timeframe"`

	// Granularity selects the calendar bucket raw points aggregate into.
	Granularity dataset.Granularity `json:"granularity"`

	// IncludeSeasonality enables the seasonality hook when the prepared
	// series is long enough.
	IncludeSeasonality bool `json:"include_seasonality"`

	// ConfidenceLevel picks the z score used for interval margins.
	ConfidenceLevel float64 `json:"confidence_level"`

	// ForecastPeriods is the number of future periods to project.
	ForecastPeriods int `json:"forecast_periods"`

	// MovingAverageWindow sizes the smoothing window for moving average
	// analyses. Zero falls back to trend.DefaultWindow.
	MovingAverageWindow int `json:"moving_average_window"`
}

// NewDefaultOptions returns the options used when the caller provides none.
func NewDefaultOptions() *Options {
	return &Options{
		AnalysisType:        trend.TypeLinear,
		Timeframe:           "6months",
		Granularity:         dataset.GranularityWeekly,
		IncludeSeasonality:  true,
		ConfidenceLevel:     0.95,
		ForecastPeriods:     forecast.DefaultHorizon,
		MovingAverageWindow: trend.DefaultWindow,
	}
}
