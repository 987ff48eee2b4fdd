package feeds

import (
	"strings"

	"github.com/bobmcallan/agripulse/internal/models"
)

var (
	positiveWords = []string{"good", "increase", "growth", "profit", "success", "opportunity"}
	negativeWords = []string{"bad", "decrease", "loss", "crisis", "threat", "problem"}
)

// AnalyzeSentiment scores text by counting which positive and negative
// keywords occur in it. Each keyword counts once, matched as a substring.
func AnalyzeSentiment(text string) models.Status {
	lower := strings.ToLower(text)
	pos := countPresent(lower, positiveWords)
	neg := countPresent(lower, negativeWords)

	switch {
	case pos > neg:
		return models.StatusOpportunity
	case neg > pos:
		return models.StatusThreat
	default:
		return models.StatusWatch
	}
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
