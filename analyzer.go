// Package trendalyzer analyzes a time-ordered series of clinical outcome
// measurements. One call produces descriptive statistics, a fitted trend
// model, pattern and anomaly findings, a forecast with confidence bounds,
// and derived insights and recommendations. The engine is a pure computation:
// it performs no I/O and holds no state across calls, so concurrent use is
// safe.
package trendalyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/outcomely/go-trendalyzer/dataset"
	"github.com/outcomely/go-trendalyzer/forecast"
	"github.com/outcomely/go-trendalyzer/insight"
	"github.com/outcomely/go-trendalyzer/pattern"
	"github.com/outcomely/go-trendalyzer/stats"
	"github.com/outcomely/go-trendalyzer/trend"
)

// MinPreparedPoints is the fewest aggregated periods an analysis will run on.
const MinPreparedPoints = 3

// Analyzer runs trend analyses with a fixed set of options. The zero-cost
// package function AnalyzeTrends covers one-off calls.
type Analyzer struct {
	opt *Options
}

// New creates an Analyzer with the provided options. If no options are
// provided a default is used.
func New(opt *Options) *Analyzer {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Analyzer{opt: opt}
}

// AnalyzeTrends is a convenience wrapper running a single analysis with the
// given options.
func AnalyzeTrends(points []dataset.RawPoint, opt *Options) (*Result, error) {
	return New(opt).AnalyzeTrends(points)
}

// AnalyzeTrends aggregates the raw points and runs the full pipeline. Fewer
// than MinPreparedPoints aggregated periods is an expected terminal state
// reported on the result, not an error. Expected fit failures (too few
// positive values for an exponential fit, series shorter than the smoothing
// window) are likewise carried on the result's trend analysis.
func (a *Analyzer) AnalyzeTrends(points []dataset.RawPoint) (*Result, error) {
	res, err := a.analyze(points)
	if err != nil {
		return nil, fmt.Errorf("trend analysis failed, %w", err)
	}
	return res, nil
}

func (a *Analyzer) analyze(points []dataset.RawPoint) (*Result, error) {
	if err := a.opt.AnalysisType.Valid(); err != nil {
		return nil, err
	}

	prepared, err := dataset.Prepare(points, a.opt.Granularity)
	if err != nil {
		return nil, err
	}

	metadata := Metadata{
		AnalyzedAt:      time.Now().UTC(),
		AnalysisType:    a.opt.AnalysisType,
		ConfidenceLevel: a.opt.ConfidenceLevel,
	}

	if len(prepared) < MinPreparedPoints {
		return &Result{
			HasInsufficientData: true,
			Message:             fmt.Sprintf("need at least %d aggregated periods for trend analysis, have %d", MinPreparedPoints, len(prepared)),
			DataPointCount:      len(prepared),
			Timeframe:           a.opt.Timeframe,
			Granularity:         a.opt.Granularity,
			Metadata:            metadata,
		}, nil
	}

	values := dataset.Values(prepared)

	summary, err := stats.Calculate(values)
	if err != nil {
		return nil, err
	}

	trendAnalysis, fit, err := a.fitTrend(values)
	if err != nil {
		return nil, err
	}

	patterns := pattern.Detect(prepared)

	var forecastPoints []forecast.Point
	var interval *forecast.Interval
	if fit != nil {
		forecastPoints, err = forecast.Project(prepared, fit, a.opt.ForecastPeriods)
		if err != nil {
			return nil, err
		}
		interval, err = forecast.NewInterval(prepared, fit, a.opt.ConfidenceLevel)
		if err != nil {
			return nil, err
		}
	}

	var seasonality *Seasonality
	if a.opt.IncludeSeasonality {
		seasonality = analyzeSeasonality(prepared)
	}

	insights := insight.Generate(fit, patterns, summary)

	return &Result{
		DataPointCount:      len(prepared),
		Timeframe:           a.opt.Timeframe,
		Granularity:         a.opt.Granularity,
		PreparedPoints:      prepared,
		Statistics:          summary,
		TrendAnalysis:       trendAnalysis,
		PatternAnalysis:     patterns,
		Seasonality:         seasonality,
		Forecast:            forecastPoints,
		ConfidenceIntervals: interval,
		Insights:            insights,
		Recommendations:     insight.Recommend(insights),
		Metadata:            metadata,
	}, nil
}

// fitTrend runs the configured fitter. Expected terminal states surface as a
// TrendAnalysis carrying the error reason with a nil fit.
func (a *Analyzer) fitTrend(values []float64) (*TrendAnalysis, trend.Result, error) {
	fit, err := trend.Fit(values, a.opt.AnalysisType, a.opt.MovingAverageWindow)
	if err != nil {
		if errors.Is(err, trend.ErrTooFewPositivePoints) || errors.Is(err, trend.ErrWindowExceedsSeries) {
			return &TrendAnalysis{
				Type:  a.opt.AnalysisType,
				Error: err.Error(),
			}, nil, nil
		}
		return nil, nil, err
	}
	return newTrendAnalysis(fit), fit, nil
}
