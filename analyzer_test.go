package trendalyzer

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outcomely/go-trendalyzer/dataset"
	"github.com/outcomely/go-trendalyzer/insight"
	"github.com/outcomely/go-trendalyzer/trend"
)

func dailyPoints(values []float64) []dataset.RawPoint {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	points := make([]dataset.RawPoint, len(values))
	for i, v := range values {
		points[i] = dataset.RawPoint{
			Timestamp: base.AddDate(0, 0, i),
			Value:     v,
		}
	}
	return points
}

func TestAnalyzeTrendsInsufficientData(t *testing.T) {
	testData := map[string]struct {
		points []dataset.RawPoint
		count  int
	}{
		"two periods": {
			points: dailyPoints([]float64{60, 62}),
			count:  2,
		},
		"many points one period": {
			points: []dataset.RawPoint{
				{Timestamp: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), Value: 60},
				{Timestamp: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC), Value: 61},
				{Timestamp: time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC), Value: 62},
			},
			count: 1,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := AnalyzeTrends(td.points, &Options{
				AnalysisType:    trend.TypeLinear,
				Granularity:     dataset.GranularityDaily,
				ConfidenceLevel: 0.95,
				ForecastPeriods: 4,
			})
			require.NoError(t, err)

			assert.True(t, res.HasInsufficientData)
			assert.NotEmpty(t, res.Message)
			assert.Equal(t, td.count, res.DataPointCount)
			assert.Nil(t, res.Statistics)
			assert.Nil(t, res.TrendAnalysis)
			assert.Empty(t, res.Forecast)
		})
	}
}

func TestAnalyzeTrendsLinear(t *testing.T) {
	values := []float64{60, 62, 64, 66, 68, 70, 72, 74, 76, 78}
	res, err := AnalyzeTrends(dailyPoints(values), &Options{
		AnalysisType:    trend.TypeLinear,
		Timeframe:       "2weeks",
		Granularity:     dataset.GranularityDaily,
		ConfidenceLevel: 0.95,
		ForecastPeriods: 4,
	})
	require.NoError(t, err)
	require.False(t, res.HasInsufficientData)

	assert.Equal(t, 10, res.DataPointCount)
	assert.Equal(t, "2weeks", res.Timeframe)
	assert.Equal(t, dataset.GranularityDaily, res.Granularity)

	// one raw point per bucket
	total := 0
	for _, p := range res.PreparedPoints {
		total += p.Count
	}
	assert.Equal(t, len(values), total)

	require.NotNil(t, res.Statistics)
	assert.InDelta(t, 60.0, res.Statistics.FirstValue, 1e-9)
	assert.InDelta(t, 78.0, res.Statistics.LastValue, 1e-9)
	assert.InDelta(t, 18.0, res.Statistics.TotalChange, 1e-9)
	assert.InDelta(t, 30.0, res.Statistics.PercentageChange, 1e-9)

	require.NotNil(t, res.TrendAnalysis)
	require.NotNil(t, res.TrendAnalysis.Linear)
	assert.Empty(t, res.TrendAnalysis.Error)
	assert.InDelta(t, 2.0, res.TrendAnalysis.Linear.Slope, 1e-9)
	assert.Equal(t, trend.DirectionIncreasing, res.TrendAnalysis.Linear.TrendDirection)
	assert.True(t, res.TrendAnalysis.Linear.Significance.IsSignificant)

	require.Len(t, res.Forecast, 4)
	prev := 1.0
	for _, f := range res.Forecast {
		assert.GreaterOrEqual(t, f.PredictedValue, 0.0)
		assert.LessOrEqual(t, f.Confidence, prev)
		assert.GreaterOrEqual(t, f.Confidence, 0.1)
		prev = f.Confidence
	}

	require.NotNil(t, res.ConfidenceIntervals)
	assert.Equal(t, 0.95, res.ConfidenceIntervals.ConfidenceLevel)

	assert.NotEmpty(t, res.Insights)
	assert.NotEmpty(t, res.Recommendations)

	// 10 periods is below the seasonality floor
	assert.Nil(t, res.Seasonality)

	assert.Equal(t, trend.TypeLinear, res.Metadata.AnalysisType)
	assert.False(t, res.Metadata.AnalyzedAt.IsZero())
}

func TestAnalyzeTrendsNilOptionsUsesDefaults(t *testing.T) {
	// weekly buckets across four weeks
	points := make([]dataset.RawPoint, 0, 8)
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		points = append(points, dataset.RawPoint{
			Timestamp: base.AddDate(0, 0, 3*i),
			Value:     50 + float64(i),
		})
	}

	res, err := AnalyzeTrends(points, nil)
	require.NoError(t, err)

	assert.Equal(t, "6months", res.Timeframe)
	assert.Equal(t, dataset.GranularityWeekly, res.Granularity)
	assert.Equal(t, trend.TypeLinear, res.Metadata.AnalysisType)
	assert.Equal(t, 0.95, res.Metadata.ConfidenceLevel)
}

func TestAnalyzeTrendsExponentialTooFewPositive(t *testing.T) {
	res, err := AnalyzeTrends(dailyPoints([]float64{-5, -4, 3, 10, -2}), &Options{
		AnalysisType:    trend.TypeExponential,
		Granularity:     dataset.GranularityDaily,
		ConfidenceLevel: 0.95,
		ForecastPeriods: 4,
	})
	require.NoError(t, err)
	require.False(t, res.HasInsufficientData)

	require.NotNil(t, res.TrendAnalysis)
	assert.Equal(t, trend.TypeExponential, res.TrendAnalysis.Type)
	assert.NotEmpty(t, res.TrendAnalysis.Error)
	assert.Nil(t, res.TrendAnalysis.Fit())

	// no fit means nothing to project
	assert.Empty(t, res.Forecast)
	assert.Nil(t, res.ConfidenceIntervals)

	// statistics and patterns still run
	assert.NotNil(t, res.Statistics)
	assert.NotNil(t, res.PatternAnalysis)
}

func TestAnalyzeTrendsMovingAverageWindowTooLarge(t *testing.T) {
	res, err := AnalyzeTrends(dailyPoints([]float64{1, 2, 3}), &Options{
		AnalysisType:        trend.TypeMovingAverage,
		Granularity:         dataset.GranularityDaily,
		ConfidenceLevel:     0.95,
		ForecastPeriods:     4,
		MovingAverageWindow: 5,
	})
	require.NoError(t, err)

	require.NotNil(t, res.TrendAnalysis)
	assert.Equal(t, trend.TypeMovingAverage, res.TrendAnalysis.Type)
	assert.NotEmpty(t, res.TrendAnalysis.Error)
}

func TestAnalyzeTrendsSeasonalityHook(t *testing.T) {
	values := make([]float64, 14)
	for i := range values {
		values[i] = 60 + float64(i)
	}

	testData := map[string]struct {
		include  bool
		expected bool
	}{
		"enabled":  {include: true, expected: true},
		"disabled": {include: false, expected: false},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := AnalyzeTrends(dailyPoints(values), &Options{
				AnalysisType:       trend.TypeLinear,
				Granularity:        dataset.GranularityDaily,
				IncludeSeasonality: td.include,
				ConfidenceLevel:    0.95,
				ForecastPeriods:    2,
			})
			require.NoError(t, err)

			if !td.expected {
				assert.Nil(t, res.Seasonality)
				return
			}
			require.NotNil(t, res.Seasonality)
			assert.False(t, res.Seasonality.Supported)
			assert.Equal(t, 14, res.Seasonality.PeriodCount)
		})
	}
}

func TestAnalyzeTrendsErrors(t *testing.T) {
	testData := map[string]struct {
		points []dataset.RawPoint
		opt    *Options
	}{
		"no points": {
			opt: &Options{
				AnalysisType:    trend.TypeLinear,
				Granularity:     dataset.GranularityDaily,
				ConfidenceLevel: 0.95,
				ForecastPeriods: 4,
			},
		},
		"unknown granularity": {
			points: dailyPoints([]float64{1, 2, 3}),
			opt: &Options{
				AnalysisType:    trend.TypeLinear,
				Granularity:     dataset.Granularity("hourly"),
				ConfidenceLevel: 0.95,
				ForecastPeriods: 4,
			},
		},
		"unknown analysis type": {
			points: dailyPoints([]float64{1, 2, 3}),
			opt: &Options{
				AnalysisType:    trend.Type("quadratic"),
				Granularity:     dataset.GranularityDaily,
				ConfidenceLevel: 0.95,
				ForecastPeriods: 4,
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := AnalyzeTrends(td.points, td.opt)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Contains(t, err.Error(), "trend analysis failed")
		})
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	values := []float64{60, 62, 64, 66, 68, 70}
	res, err := AnalyzeTrends(dailyPoints(values), &Options{
		AnalysisType:    trend.TypeLinear,
		Timeframe:       "1week",
		Granularity:     dataset.GranularityDaily,
		ConfidenceLevel: 0.95,
		ForecastPeriods: 3,
	})
	require.NoError(t, err)

	raw, err := res.JSON()
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, res.DataPointCount, decoded.DataPointCount)
	assert.Equal(t, res.Timeframe, decoded.Timeframe)
	assert.Equal(t, res.Statistics, decoded.Statistics)
	assert.Equal(t, res.TrendAnalysis.Linear, decoded.TrendAnalysis.Linear)
	assert.Len(t, decoded.Forecast, 3)
	require.Len(t, decoded.Recommendations, len(res.Recommendations))
	for i, rec := range decoded.Recommendations {
		assert.Equal(t, res.Recommendations[i].Priority, rec.Priority)
	}
}

func TestAnalyzerIsReusable(t *testing.T) {
	a := New(&Options{
		AnalysisType:    trend.TypeLinear,
		Granularity:     dataset.GranularityDaily,
		ConfidenceLevel: 0.95,
		ForecastPeriods: 2,
	})

	first, err := a.AnalyzeTrends(dailyPoints([]float64{1, 2, 3, 4}))
	require.NoError(t, err)
	second, err := a.AnalyzeTrends(dailyPoints([]float64{1, 2, 3, 4}))
	require.NoError(t, err)

	assert.Equal(t, first.Statistics, second.Statistics)
	assert.Equal(t, first.TrendAnalysis, second.TrendAnalysis)
	assert.Equal(t, first.Forecast, second.Forecast)

	recs := first.Recommendations
	require.NotEmpty(t, recs)
	assert.Equal(t, insight.PriorityLow, recs[len(recs)-1].Priority)
}
