package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	testData := map[string]struct {
		values   []float64
		expected Summary
	}{
		"steady improvement": {
			values: []float64{60, 65, 70, 75, 80},
			expected: Summary{
				Mean:                   70,
				Median:                 70,
				Variance:               50,
				StdDev:                 7.0711,
				Min:                    60,
				Max:                    80,
				Range:                  20,
				CoefficientOfVariation: 10.1015,
				FirstValue:             60,
				LastValue:              80,
				TotalChange:            20,
				PercentageChange:       33.3333,
			},
		},
		"even length median": {
			values: []float64{4, 1, 3, 2},
			expected: Summary{
				Mean:                   2.5,
				Median:                 2.5,
				Variance:               1.25,
				StdDev:                 1.1180,
				Min:                    1,
				Max:                    4,
				Range:                  3,
				CoefficientOfVariation: 44.7214,
				FirstValue:             4,
				LastValue:              2,
				TotalChange:            -2,
				PercentageChange:       -50,
			},
		},
		"zero mean has zero coefficient of variation": {
			values: []float64{-1, 0, 1},
			expected: Summary{
				Mean:                   0,
				Median:                 0,
				Variance:               0.6667,
				StdDev:                 0.8165,
				Min:                    -1,
				Max:                    1,
				Range:                  2,
				CoefficientOfVariation: 0,
				FirstValue:             -1,
				LastValue:              1,
				TotalChange:            2,
				PercentageChange:       -200,
			},
		},
		"zero first value has zero percentage change": {
			values: []float64{0, 5, 10},
			expected: Summary{
				Mean:                   5,
				Median:                 5,
				Variance:               16.6667,
				StdDev:                 4.0825,
				Min:                    0,
				Max:                    10,
				Range:                  10,
				CoefficientOfVariation: 81.6497,
				FirstValue:             0,
				LastValue:              10,
				TotalChange:            10,
				PercentageChange:       0,
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			summary, err := Calculate(td.values)
			require.NoError(t, err)

			assert.InDelta(t, td.expected.Mean, summary.Mean, 1e-4)
			assert.InDelta(t, td.expected.Median, summary.Median, 1e-4)
			assert.InDelta(t, td.expected.Variance, summary.Variance, 1e-4)
			assert.InDelta(t, td.expected.StdDev, summary.StdDev, 1e-4)
			assert.InDelta(t, td.expected.Min, summary.Min, 1e-4)
			assert.InDelta(t, td.expected.Max, summary.Max, 1e-4)
			assert.InDelta(t, td.expected.Range, summary.Range, 1e-4)
			assert.InDelta(t, td.expected.CoefficientOfVariation, summary.CoefficientOfVariation, 1e-4)
			assert.InDelta(t, td.expected.FirstValue, summary.FirstValue, 1e-4)
			assert.InDelta(t, td.expected.LastValue, summary.LastValue, 1e-4)
			assert.InDelta(t, td.expected.TotalChange, summary.TotalChange, 1e-4)
			assert.InDelta(t, td.expected.PercentageChange, summary.PercentageChange, 1e-4)
		})
	}
}

func TestCalculateEmpty(t *testing.T) {
	_, err := Calculate(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestVolatility(t *testing.T) {
	testData := map[string]struct {
		values   []float64
		expected float64
	}{
		"constant series":  {values: []float64{5, 5, 5, 5}, expected: 0},
		"single point":     {values: []float64{5}, expected: 0},
		"uniform growth":   {values: []float64{100, 110, 121}, expected: 0},
		"alternating": {
			values: []float64{10, 20, 10, 20},
			// changes are +1.0, -0.5, +1.0 with population stddev sqrt(0.5)
			expected: 0.7071,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, Volatility(td.values), 1e-4)
		})
	}
}

func TestRelativeChanges(t *testing.T) {
	assert.Nil(t, RelativeChanges([]float64{1}))

	changes := RelativeChanges([]float64{10, 15, 12})
	assert.InDeltaSlice(t, []float64{0.5, -0.2}, changes, 1e-9)
}
