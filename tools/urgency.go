package tools

import (
	"context"
	"strings"

	"agentflow/models"
)

// Keyword sets for the local urgency heuristic. High wins over medium,
// first match wins, anything else is low.
var highUrgencyKeywords = []string{
	"urgent", "asap", "emergency", "now", "immediately",
	"where are you", "still on", "cancelled",
}

var mediumUrgencyKeywords = []string{
	"today", "tomorrow", "schedule", "reschedule", "time", "when",
}

// ClassifyUrgency runs the case-insensitive substring heuristic over the
// message and returns one of the urgency literals.
func ClassifyUrgency(message string) string {
	lower := strings.ToLower(message)

	for _, keyword := range highUrgencyKeywords {
		if strings.Contains(lower, keyword) {
			return models.URGENCY_HIGH
		}
	}
	for _, keyword := range mediumUrgencyKeywords {
		if strings.Contains(lower, keyword) {
			return models.URGENCY_MEDIUM
		}
	}
	return models.URGENCY_LOW
}

// KeywordClassifier is the local deployment mode of the urgency classifier,
// used when no AI provider is configured.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(ctx context.Context, message string) string {
	return ClassifyUrgency(message)
}
