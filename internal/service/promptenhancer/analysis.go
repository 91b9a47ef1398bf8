package promptenhancer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pitchforge/backend/internal/model"
)

// Requirements are the formatting flags detected in an original prompt.
type Requirements struct {
	BulletPoints bool `json:"bullet_points"`
	Examples     bool `json:"examples"`
	DataDriven   bool `json:"data_driven"`
	Comparative  bool `json:"comparative"`
}

// Analysis captures the structured facts extracted from an original
// prompt before template substitution.
type Analysis struct {
	WordCount    int          `json:"word_count"`
	Topic        string       `json:"topic"`
	Requirements Requirements `json:"requirements"`
	StyleHint    string       `json:"style_hint,omitempty"` // formal, informal, or empty
}

var (
	wordCountRe  = regexp.MustCompile(`(?i)\b(\d{1,4})\s*words?\b`)
	actionVerbRe = regexp.MustCompile(`(?i)^\s*(?:create|generate|write|develop|explain|describe|analyze|compare)\s+(.+)$`)
)

// topicPrepositions are scanned in string order; the earliest hit wins.
var topicPrepositions = []string{" on ", " about ", " regarding ", " for "}

// Analyze extracts word count, topic, requirement flags and a style hint
// from an original prompt. Pure function.
func Analyze(original, slideType string) Analysis {
	return Analysis{
		WordCount:    extractWordCount(original, slideType),
		Topic:        extractTopic(original),
		Requirements: extractRequirements(original),
		StyleHint:    extractStyleHint(original),
	}
}

// ReplaceWordCount rewrites every "N words" phrase in s to n words.
func ReplaceWordCount(s string, n int) string {
	return wordCountRe.ReplaceAllString(s, strconv.Itoa(n)+" words")
}

func extractWordCount(original, slideType string) int {
	if m := wordCountRe.FindStringSubmatch(original); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	switch slideType {
	case model.SlideTypeTitle:
		return 10
	case model.SlideTypeBody:
		return 150
	default:
		return 100
	}
}

func extractTopic(original string) string {
	lower := strings.ToLower(original)

	best := -1
	bestLen := 0
	for _, prep := range topicPrepositions {
		if idx := strings.Index(lower, prep); idx >= 0 && (best == -1 || idx < best) {
			best = idx
			bestLen = len(prep)
		}
	}
	if best >= 0 {
		return trimTopic(original[best+bestLen:])
	}

	if m := actionVerbRe.FindStringSubmatch(original); m != nil {
		return trimTopic(m[1])
	}
	return ""
}

func trimTopic(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!?,;: ")
	return s
}

func extractRequirements(original string) Requirements {
	lower := strings.ToLower(original)
	return Requirements{
		BulletPoints: strings.Contains(lower, "bullet"),
		Examples:     strings.Contains(lower, "example") || strings.Contains(lower, "instance"),
		DataDriven: strings.Contains(lower, "data") || strings.Contains(lower, "statistic") ||
			strings.Contains(lower, "metric") || strings.Contains(lower, "figure"),
		Comparative: strings.Contains(lower, "compar") || strings.Contains(lower, "versus") ||
			strings.Contains(lower, " vs ") || strings.Contains(lower, "pros and cons"),
	}
}

func extractStyleHint(original string) string {
	lower := strings.ToLower(original)
	switch {
	case strings.Contains(lower, "professional") || strings.Contains(lower, "executive"):
		return "formal"
	case strings.Contains(lower, "casual") || strings.Contains(lower, "friendly"):
		return "informal"
	default:
		return ""
	}
}
