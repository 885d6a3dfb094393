// Package insight turns fitted trends, detected patterns, and descriptive
// statistics into qualitative findings and prioritized follow-up actions.
// Generation is a fixed rule table: identical inputs always produce identical
// output in the same order.
package insight

import (
	"fmt"
	"math"
	"sort"

	"github.com/outcomely/go-trendalyzer/pattern"
	"github.com/outcomely/go-trendalyzer/stats"
	"github.com/outcomely/go-trendalyzer/trend"
)

// Type categorizes what a finding is about.
type Type string

const (
	TypeTrend       Type = "trend"
	TypeVolatility  Type = "volatility"
	TypeOutliers    Type = "outliers"
	TypeCycles      Type = "cycles"
	TypeChangePoint Type = "change_point"
	TypeChange      Type = "change"
)

// Impact labels whether a finding is good, bad, or indifferent for the
// measured outcome.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Priority orders recommendations by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is a single qualitative finding.
type Insight struct {
	Type       Type             `json:"type"`
	Message    string           `json:"message"`
	Impact     Impact           `json:"impact"`
	Confidence trend.Confidence `json:"confidence"`
}

// Recommendation is an action derived from one or more insights.
type Recommendation struct {
	Priority  Priority `json:"priority"`
	Category  string   `json:"category"`
	Action    string   `json:"action"`
	Rationale string   `json:"rationale"`
}

// Generate builds the insight list from the fitted trend, pattern findings,
// and series statistics.
func Generate(fit trend.Result, patterns *pattern.Result, summary *stats.Summary) []Insight {
	var insights []Insight

	if fit != nil {
		insights = append(insights, trendInsight(fit))
	}
	if summary != nil && summary.PercentageChange != 0 {
		insights = append(insights, changeInsight(summary))
	}
	if patterns != nil {
		insights = append(insights, patternInsights(patterns)...)
	}
	return insights
}

func trendInsight(fit trend.Result) Insight {
	confidence := trend.ConfidenceLow
	impact := ImpactNeutral
	var message string

	switch f := fit.(type) {
	case *trend.Linear:
		confidence = f.Significance.Confidence
		switch f.TrendDirection {
		case trend.DirectionIncreasing:
			impact = ImpactPositive
			message = fmt.Sprintf("Values show a %s increasing trend, gaining %.2f per period.", f.TrendStrength, f.Slope)
		case trend.DirectionDecreasing:
			impact = ImpactNegative
			message = fmt.Sprintf("Values show a %s decreasing trend, losing %.2f per period.", f.TrendStrength, -f.Slope)
		default:
			message = "Values are stable with no meaningful slope."
		}
	case *trend.Exponential:
		confidence = f.Significance.Confidence
		switch f.TrendDirection {
		case trend.DirectionExponentialGrowth:
			impact = ImpactPositive
			message = fmt.Sprintf("Values are growing exponentially at %.1f%% per period.", f.GrowthRate)
		case trend.DirectionExponentialDecay:
			impact = ImpactNegative
			message = fmt.Sprintf("Values are decaying exponentially at %.1f%% per period.", -f.GrowthRate)
		default:
			message = "Values are stable with no meaningful growth rate."
		}
	case *trend.MovingAverage:
		inner := trendInsight(f.Trend)
		inner.Message = fmt.Sprintf("%s Smoothing over %d periods reduced volatility by %.0f%%.",
			inner.Message, f.Window, f.SmoothingEffect.ReductionRatio*100.0)
		return inner
	}

	return Insight{
		Type:       TypeTrend,
		Message:    message,
		Impact:     impact,
		Confidence: confidence,
	}
}

func changeInsight(summary *stats.Summary) Insight {
	impact := ImpactPositive
	direction := "increased"
	if summary.PercentageChange < 0 {
		impact = ImpactNegative
		direction = "decreased"
	}
	confidence := trend.ConfidenceMedium
	return Insight{
		Type:       TypeChange,
		Message:    fmt.Sprintf("Values %s %.1f%% from %.2f to %.2f over the analyzed window.", direction, math.Abs(summary.PercentageChange), summary.FirstValue, summary.LastValue),
		Impact:     impact,
		Confidence: confidence,
	}
}

func patternInsights(patterns *pattern.Result) []Insight {
	var insights []Insight

	switch patterns.Volatility.Classification {
	case pattern.VolatilityHigh:
		insights = append(insights, Insight{
			Type:       TypeVolatility,
			Message:    fmt.Sprintf("High volatility: period-over-period changes swing up to %.0f%%.", patterns.Volatility.MaxChange*100.0),
			Impact:     ImpactNegative,
			Confidence: trend.ConfidenceMedium,
		})
	case pattern.VolatilityModerate:
		insights = append(insights, Insight{
			Type:       TypeVolatility,
			Message:    "Moderate volatility between consecutive periods.",
			Impact:     ImpactNeutral,
			Confidence: trend.ConfidenceMedium,
		})
	}

	if len(patterns.Outliers) > 0 {
		insights = append(insights, Insight{
			Type:       TypeOutliers,
			Message:    fmt.Sprintf("%d outlier period(s) fall outside the expected range.", len(patterns.Outliers)),
			Impact:     ImpactNegative,
			Confidence: trend.ConfidenceHigh,
		})
	}

	if patterns.Cycles.Detected {
		insights = append(insights, Insight{
			Type:       TypeCycles,
			Message:    fmt.Sprintf("Cyclical pattern detected with an average cycle length of %.1f periods.", patterns.Cycles.AverageCycleLength),
			Impact:     ImpactNeutral,
			Confidence: trend.ConfidenceMedium,
		})
	}

	if len(patterns.ChangePoints) > 0 {
		cp := patterns.ChangePoints[0]
		insights = append(insights, Insight{
			Type:       TypeChangePoint,
			Message:    fmt.Sprintf("%d significant shift(s) in the series mean, first at period %s (%s).", len(patterns.ChangePoints), cp.Period, cp.ChangeType),
			Impact:     changePointImpact(cp.ChangeType),
			Confidence: trend.ConfidenceMedium,
		})
	}

	return insights
}

func changePointImpact(t pattern.ChangeType) Impact {
	if t == pattern.ChangeIncrease {
		return ImpactPositive
	}
	return ImpactNegative
}

// Recommend maps insights to prioritized actions. One recommendation is
// emitted per triggering insight type; output is ordered high to low
// priority, ties kept in insight order.
func Recommend(insights []Insight) []Recommendation {
	var recs []Recommendation
	for _, ins := range insights {
		if rec, ok := recommendationFor(ins); ok {
			recs = append(recs, rec)
		}
	}
	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Priority:  PriorityLow,
			Category:  "monitoring",
			Action:    "Continue routine monitoring",
			Rationale: "No findings require intervention.",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank(recs[i].Priority) < priorityRank(recs[j].Priority)
	})
	return recs
}

func recommendationFor(ins Insight) (Recommendation, bool) {
	switch ins.Type {
	case TypeTrend, TypeChange:
		if ins.Impact == ImpactNegative {
			return Recommendation{
				Priority:  PriorityHigh,
				Category:  "performance",
				Action:    "Investigate declining performance",
				Rationale: ins.Message,
			}, true
		}
		if ins.Impact == ImpactPositive && ins.Type == TypeTrend {
			return Recommendation{
				Priority:  PriorityLow,
				Category:  "monitoring",
				Action:    "Maintain the current approach",
				Rationale: ins.Message,
			}, true
		}
	case TypeVolatility:
		if ins.Impact == ImpactNegative {
			return Recommendation{
				Priority:  PriorityMedium,
				Category:  "process",
				Action:    "Standardize the measurement process",
				Rationale: ins.Message,
			}, true
		}
	case TypeOutliers:
		return Recommendation{
			Priority:  PriorityMedium,
			Category:  "data_quality",
			Action:    "Investigate outlier events",
			Rationale: ins.Message,
		}, true
	case TypeChangePoint:
		return Recommendation{
			Priority:  PriorityMedium,
			Category:  "operations",
			Action:    "Review what changed around the detected shift",
			Rationale: ins.Message,
		}, true
	case TypeCycles:
		return Recommendation{
			Priority:  PriorityLow,
			Category:  "planning",
			Action:    "Align interventions with the observed cycle",
			Rationale: ins.Message,
		}, true
	}
	return Recommendation{}, false
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	}
	return 2
}
