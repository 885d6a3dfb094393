package trendalyzer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNothingToPlot = errors.New("result carries no prepared series to plot")

// Plot renders the analyzed series, the forecast with its confidence bounds,
// and the smoothed series when present to an html file using the Apache
// Echarts library.
func (r *Result) Plot(path string) error {
	if len(r.PreparedPoints) == 0 {
		return ErrNothingToPlot
	}

	page := components.NewPage()
	page.AddCharts(lineAnalysis(r))
	if r.TrendAnalysis != nil && r.TrendAnalysis.MovingAverage != nil {
		page.AddCharts(lineSmoothed(r))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return page.Render(io.MultiWriter(file))
}

func lineAnalysis(r *Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: fmt.Sprintf("Trend analysis (%s, %s)", r.Metadata.AnalysisType, r.Granularity),
			},
		),
	)

	n := len(r.PreparedPoints)
	x := make([]string, 0, n+len(r.Forecast))
	observed := make([]opts.LineData, 0, n+len(r.Forecast))
	predicted := make([]opts.LineData, 0, n+len(r.Forecast))
	upper := make([]opts.LineData, 0, n+len(r.Forecast))
	lower := make([]opts.LineData, 0, n+len(r.Forecast))

	for _, p := range r.PreparedPoints {
		x = append(x, p.Period)
		observed = append(observed, opts.LineData{Value: p.Value})
		predicted = append(predicted, opts.LineData{})
		upper = append(upper, opts.LineData{})
		lower = append(lower, opts.LineData{})
	}
	for _, f := range r.Forecast {
		x = append(x, f.Timestamp.Format(time.DateOnly))
		observed = append(observed, opts.LineData{})
		predicted = append(predicted, opts.LineData{Value: f.PredictedValue})
		if r.ConfidenceIntervals != nil {
			upper = append(upper, opts.LineData{Value: r.ConfidenceIntervals.UpperBound(f.PredictedValue)})
			lower = append(lower, opts.LineData{Value: r.ConfidenceIntervals.LowerBound(f.PredictedValue)})
		}
	}

	line.SetXAxis(x).
		AddSeries("Observed", observed).
		AddSeries("Forecast", predicted)
	if r.ConfidenceIntervals != nil {
		line.AddSeries("Upper", upper).
			AddSeries("Lower", lower)
	}
	return line
}

func lineSmoothed(r *Result) *charts.Line {
	ma := r.TrendAnalysis.MovingAverage

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: fmt.Sprintf("Moving average (window %d)", ma.Window),
			},
		),
	)

	x := make([]string, 0, len(ma.MovingAverages))
	smoothed := make([]opts.LineData, 0, len(ma.MovingAverages))
	for i, v := range ma.MovingAverages {
		x = append(x, r.PreparedPoints[i+ma.Window-1].Period)
		smoothed = append(smoothed, opts.LineData{Value: v})
	}

	line.SetXAxis(x).
		AddSeries("Smoothed", smoothed)
	return line
}
