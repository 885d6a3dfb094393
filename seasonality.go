package trendalyzer

import (
	"fmt"

	"github.com/outcomely/go-trendalyzer/dataset"
)

// MinSeasonalityPoints is the fewest prepared points the seasonality hook
// will consider.
const MinSeasonalityPoints = 12

// Seasonality is the placeholder output of the seasonality hook. Full
// decomposition is not implemented; the hook only reports whether enough
// points exist for a future decomposition to attempt.
type Seasonality struct {
	Supported   bool   `json:"supported"`
	PeriodCount int    `json:"period_count"`
	Message     string `json:"message"`
}

func analyzeSeasonality(points []dataset.PreparedPoint) *Seasonality {
	if len(points) < MinSeasonalityPoints {
		return nil
	}
	return &Seasonality{
		Supported:   false,
		PeriodCount: len(points),
		Message:     fmt.Sprintf("seasonality decomposition not implemented; %d periods available", len(points)),
	}
}
