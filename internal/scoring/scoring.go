// Package scoring converts a candidate's screening answers into a 0-100
// integer score. The engine is pure: same answers always yield the same
// score, and malformed input degrades to the lowest tier instead of failing.
package scoring

import (
	"strconv"
	"strings"
)

// Question keys the engine reads from the answers map. Unknown or missing
// keys score as empty.
const (
	KeyYearsExperience = "yearsExperience"
	KeyReactExperience = "reactExperience"
	KeySystemDesign    = "systemDesign"
	KeyAvailability    = "availability"
	KeyNoticePeriod    = "noticePeriod"
)

// DefaultKeywords is the stock vocabulary for the free-text quality
// sub-score. Each keyword counts at most once per answer regardless of how
// often it appears.
var DefaultKeywords = []string{
	"scalability",
	"scalable",
	"performance",
	"caching",
	"cache",
	"database",
	"db",
	"microservices",
	"api",
	"load balancing",
	"queue",
	"async",
	"event-driven",
	"redis",
	"postgres",
	"mongodb",
	"architecture",
	"patterns",
	"security",
	"monitoring",
	"testing",
	"ci/cd",
	"docker",
	"kubernetes",
	"cloud",
	"aws",
	"azure",
	"gcp",
}

var availabilityScale = map[string]int{
	"immediate": 10,
	"2weeks":    8,
	"1month":    6,
	"2months":   3,
	"3months":   1,
}

var noticeScale = map[string]int{
	"none":    10,
	"1week":   8,
	"2weeks":  6,
	"1month":  4,
	"2months": 2,
	"3months": 0,
}

// Engine computes screening scores over a configurable keyword vocabulary.
type Engine struct {
	keywords []string
}

// NewEngine creates an engine using DefaultKeywords.
func NewEngine() *Engine {
	return NewEngineWithKeywords(DefaultKeywords)
}

// NewEngineWithKeywords creates an engine with a custom vocabulary. Keywords
// are matched case-insensitively as substrings of the systemDesign answer.
func NewEngineWithKeywords(keywords []string) *Engine {
	kws := make([]string, len(keywords))
	for i, kw := range keywords {
		kws[i] = strings.ToLower(kw)
	}
	return &Engine{keywords: kws}
}

// Score maps screening answers to an integer in [0,100]. Four independent
// sub-scores are summed: years of experience (0-30), domain-stack experience
// (0-30), free-text quality (0-20) and availability/notice (0-20, capped).
// The final clamp is defensive; the tier tables cannot exceed 100 as written.
func (e *Engine) Score(answers map[string]string) int {
	score := 0
	score += experienceScore(parseYears(answers[KeyYearsExperience]))
	score += stackScore(parseYears(answers[KeyReactExperience]))
	score += e.designScore(answers[KeySystemDesign])
	score += availabilityNoticeScore(answers[KeyAvailability], answers[KeyNoticePeriod])

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// KeywordMatches counts how many distinct vocabulary entries appear in the
// answer, case-insensitively. Exported so the dashboard can explain a score.
func (e *Engine) KeywordMatches(answer string) int {
	lowered := strings.ToLower(answer)
	matches := 0
	for _, kw := range e.keywords {
		if strings.Contains(lowered, kw) {
			matches++
		}
	}
	return matches
}

func (e *Engine) designScore(answer string) int {
	matches := e.KeywordMatches(answer)
	switch {
	case matches >= 6:
		return 20
	case matches >= 4:
		return 15
	case matches >= 2:
		return 10
	case len(answer) > 50:
		return 5
	default:
		return 0
	}
}

func experienceScore(years int) int {
	switch {
	case years >= 8:
		return 30
	case years >= 5:
		return 25
	case years >= 3:
		return 20
	case years >= 1:
		return 10
	default:
		return 5
	}
}

func stackScore(years int) int {
	switch {
	case years >= 5:
		return 30
	case years >= 3:
		return 25
	case years >= 2:
		return 20
	case years >= 1:
		return 10
	default:
		return 0
	}
}

func availabilityNoticeScore(availability, notice string) int {
	sum := availabilityScale[availability] + noticeScale[notice]
	if sum > 20 {
		sum = 20
	}
	return sum
}

// parseYears parses an integer answer; non-numeric input scores as zero.
func parseYears(raw string) int {
	years, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return years
}
