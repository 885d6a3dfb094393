package dataset

import (
	"math"
	"math/rand"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// clinicCalendar marks the days a measurement site is closed. Observations
// simulated on closed days are skipped, mimicking the gaps clinical series
// carry around weekends and US holidays.
var clinicCalendar = func() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(
		us.NewYear,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	return c
}()

// SimulateT generates n daily timestamps ending at the day before nowFunc(),
// skipping weekends and clinic holidays.
func SimulateT(n int, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	now := nowFunc()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for len(t) < n {
		day = day.AddDate(0, 0, -1)
		if !clinicCalendar.IsWorkday(day) {
			continue
		}
		t = append(t, day)
	}
	for i, j := 0, len(t)-1; i < j; i, j = i+1, j-1 {
		t[i], t[j] = t[j], t[i]
	}
	return t
}

// SimulateLinear produces raw points following value = intercept + slope*i
// over the provided timestamps.
func SimulateLinear(t []time.Time, intercept, slope float64) []RawPoint {
	points := make([]RawPoint, len(t))
	for i, ts := range t {
		points[i] = RawPoint{
			Timestamp: ts,
			Value:     intercept + slope*float64(i),
		}
	}
	return points
}

// SimulateWave overlays a sinusoid of the given amplitude and period (in
// samples) on a constant baseline.
func SimulateWave(t []time.Time, baseline, amp, periodSamples float64) []RawPoint {
	points := make([]RawPoint, len(t))
	for i, ts := range t {
		points[i] = RawPoint{
			Timestamp: ts,
			Value:     baseline + amp*math.Sin(2.0*math.Pi*float64(i)/periodSamples),
		}
	}
	return points
}

// AddNoise perturbs point values with gaussian noise of the given scale and
// assigns each point a confidence weight drifting between 0.5 and 1.0.
func AddNoise(points []RawPoint, scale float64) []RawPoint {
	noisy := make([]RawPoint, len(points))
	for i, p := range points {
		conf := 0.5 + 0.5*rand.Float64()
		noisy[i] = RawPoint{
			Timestamp:  p.Timestamp,
			Value:      p.Value + rand.NormFloat64()*scale,
			Confidence: &conf,
		}
	}
	return noisy
}
