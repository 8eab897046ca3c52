package scoring

import "testing"

func TestScoreStrongCandidate(t *testing.T) {
	e := NewEngine()
	answers := map[string]string{
		KeyYearsExperience: "8",
		KeyReactExperience: "5",
		KeySystemDesign:    "Built a scalable microservices architecture with caching, load balancing, and Kubernetes orchestration",
		KeyAvailability:    "immediate",
		KeyNoticePeriod:    "none",
	}
	if got := e.Score(answers); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestScoreWeakCandidate(t *testing.T) {
	e := NewEngine()
	answers := map[string]string{
		KeyYearsExperience: "0",
		KeyReactExperience: "0",
		KeySystemDesign:    "",
		KeyAvailability:    "3months",
		KeyNoticePeriod:    "3months",
	}
	// 5 (floor experience tier) + 0 + 0 + min(20, 1+0)
	if got := e.Score(answers); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
}

func TestScoreEmptyAnswers(t *testing.T) {
	e := NewEngine()
	if got := e.Score(map[string]string{}); got != 5 {
		t.Fatalf("expected 5 for empty answers, got %d", got)
	}
	if got := e.Score(nil); got != 5 {
		t.Fatalf("expected 5 for nil answers, got %d", got)
	}
}

func TestExperienceTiers(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"12", 30},
		{"8", 30},
		{"7", 25},
		{"5", 25},
		{"4", 20},
		{"3", 20},
		{"2", 10},
		{"1", 10},
		{"0", 5},
		{"-2", 5},
		{"ten", 5},
		{"", 5},
	}
	e := NewEngine()
	for _, tc := range cases {
		got := e.Score(map[string]string{KeyYearsExperience: tc.raw})
		if got != tc.want {
			t.Errorf("yearsExperience=%q: expected %d, got %d", tc.raw, tc.want, got)
		}
	}
}

func TestStackTiers(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"6", 30},
		{"5", 30},
		{"4", 25},
		{"3", 25},
		{"2", 20},
		{"1", 10},
		{"0", 0},
		{"abc", 0},
	}
	e := NewEngine()
	for _, tc := range cases {
		// yearsExperience left empty contributes a constant 5.
		got := e.Score(map[string]string{KeyReactExperience: tc.raw})
		if got != tc.want+5 {
			t.Errorf("reactExperience=%q: expected %d, got %d", tc.raw, tc.want+5, got)
		}
	}
}

func TestDesignScoreTiers(t *testing.T) {
	cases := []struct {
		name   string
		answer string
		want   int
	}{
		{"six keywords", "redis postgres docker kubernetes aws caching", 20},
		{"four keywords", "redis postgres docker kubernetes", 15},
		{"two keywords", "we used redis and postgres", 10},
		{"no keywords long answer", "I worked on an internal tool for the finance team for several years", 5},
		{"no keywords short answer", "I built a tool", 0},
		{"case insensitive", "REDIS and Postgres with DOCKER and KUBERNETES", 15},
	}
	e := NewEngine()
	for _, tc := range cases {
		got := e.Score(map[string]string{KeySystemDesign: tc.answer})
		if got != tc.want+5 {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want+5, got)
		}
	}
}

func TestDesignScoreCountsKeywordsOnce(t *testing.T) {
	e := NewEngine()
	// One keyword repeated five times is still one match.
	got := e.KeywordMatches("redis redis redis redis redis")
	if got != 1 {
		t.Fatalf("expected 1 distinct match, got %d", got)
	}
}

func TestAvailabilityNoticeCap(t *testing.T) {
	cases := []struct {
		availability string
		notice       string
		want         int
	}{
		{"immediate", "none", 20}, // 10+10 capped
		{"immediate", "1week", 18},
		{"2weeks", "2weeks", 14},
		{"1month", "1month", 10},
		{"3months", "3months", 1},
		{"3months", "none", 11},
		{"unknown", "unknown", 0},
		{"", "", 0},
	}
	e := NewEngine()
	for _, tc := range cases {
		got := e.Score(map[string]string{
			KeyAvailability: tc.availability,
			KeyNoticePeriod: tc.notice,
		})
		if got != tc.want+5 {
			t.Errorf("availability=%q notice=%q: expected %d, got %d",
				tc.availability, tc.notice, tc.want+5, got)
		}
	}
}

func TestScoreIsPure(t *testing.T) {
	e := NewEngine()
	answers := map[string]string{
		KeyYearsExperience: "5",
		KeyReactExperience: "2",
		KeySystemDesign:    "caching and monitoring on aws",
		KeyAvailability:    "2weeks",
		KeyNoticePeriod:    "1month",
	}
	first := e.Score(answers)
	for i := 0; i < 10; i++ {
		if got := e.Score(answers); got != first {
			t.Fatalf("score changed between calls: %d then %d", first, got)
		}
	}
	if first < 0 || first > 100 {
		t.Fatalf("score out of range: %d", first)
	}
}

func TestCustomVocabulary(t *testing.T) {
	e := NewEngineWithKeywords([]string{"terraform", "Ansible"})
	if got := e.KeywordMatches("we provisioned with terraform and ansible"); got != 2 {
		t.Fatalf("expected 2 matches against custom vocabulary, got %d", got)
	}
	if got := e.KeywordMatches("redis postgres docker"); got != 0 {
		t.Fatalf("custom vocabulary should not match defaults, got %d", got)
	}
}
