package market

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Recommendations.
const (
	RecommendSell = "sell"
	RecommendHold = "hold"
	RecommendWait = "wait"
)

// Confidence levels.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ErrNoHistory is returned by a Predictor when there are no quotes to read.
var ErrNoHistory = errors.New("no price history")

// fallbackText is shown to farmers when no analysis is available: "Coffee
// prices may change. Keep watching."
const fallbackText = "Igiciro cy'ikawa gishobora guhinduka. Komeza gukurikirana."

// Prediction is a short-horizon price outlook for farmers.
type Prediction struct {
	Prediction      string    `json:"prediction"`
	Confidence      string    `json:"confidence"`
	Recommendation  string    `json:"recommendation"`
	PredictedChange float64   `json:"predicted_change"`
	Reasoning       string    `json:"reasoning"`
	Fallback        bool      `json:"fallback"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// FallbackPrediction is served when no prediction can be produced.
func FallbackPrediction(reason string, at time.Time) Prediction {
	return Prediction{
		Prediction:     fallbackText,
		Confidence:     ConfidenceMedium,
		Recommendation: RecommendHold,
		Reasoning:      reason,
		Fallback:       true,
		GeneratedAt:    at,
	}
}

// Predictor produces a price outlook from the market state.
type Predictor interface {
	Predict(ctx context.Context, snap Snapshot, trends TrendReport) (Prediction, error)
}

// RulePredictor extrapolates half of the observed move over the history
// window and recommends from the sign of that move and the event trend.
type RulePredictor struct {
	Now func() time.Time
}

// Predict implements Predictor.
func (p RulePredictor) Predict(ctx context.Context, snap Snapshot, trends TrendReport) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	prices := trends.Prices
	if len(prices) == 0 {
		return Prediction{}, ErrNoHistory
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	first, last := prices[0].Price, prices[len(prices)-1].Price
	move := (last - first) / first * 100
	change := math.Round(move/2*10) / 10

	out := Prediction{
		Confidence:      confidenceFor(trends.Statistics.DataPoints),
		PredictedChange: change,
		GeneratedAt:     now(),
	}
	switch {
	case change > 0.5 && snap.Trend != TrendFalling:
		out.Recommendation = RecommendWait
		out.Prediction = fmt.Sprintf("Prices are climbing; expect about +%.1f%% in the coming days.", change)
	case change < -0.5:
		out.Recommendation = RecommendSell
		out.Prediction = fmt.Sprintf("Prices are easing; expect about %.1f%% in the coming days.", change)
	default:
		out.Recommendation = RecommendHold
		out.Prediction = "Prices are steady around the current level."
	}
	out.Reasoning = fmt.Sprintf("%d quotes between %.0f and %.0f BIF/kg, average %.0f; market events trend %s.",
		trends.Statistics.DataPoints, trends.Statistics.Min, trends.Statistics.Max,
		trends.Statistics.Average, snap.Trend)
	return out, nil
}

func confidenceFor(points int) string {
	switch {
	case points >= 20:
		return ConfidenceHigh
	case points >= 5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
