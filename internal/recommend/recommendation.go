package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// Kind identifies the relationship behind a contribution.
type Kind string

const (
	KindCounters    Kind = "counters"     // Candidate beats an enemy
	KindCounteredBy Kind = "countered_by" // An enemy beats the candidate
	KindSynergy     Kind = "synergy"      // An ally pairs well with the candidate
)

// Contribution is one signed term of a candidate's score.
type Contribution struct {
	Kind      Kind    `json:"kind"`
	Character string  `json:"character"` // The enemy or ally on the other side of the relationship
	Value     float64 `json:"value"`
}

// String renders the contribution as a reason line, e.g. "Counters Alpha (+0.70)".
func (c Contribution) String() string {
	magnitude := math.Abs(c.Value)
	switch c.Kind {
	case KindCounters:
		return fmt.Sprintf("Counters %s (+%.2f)", c.Character, magnitude)
	case KindCounteredBy:
		return fmt.Sprintf("Countered by %s (-%.2f)", c.Character, magnitude)
	case KindSynergy:
		return fmt.Sprintf("Synergy with %s (+%.2f)", c.Character, magnitude)
	default:
		return fmt.Sprintf("%s %s (%+.2f)", c.Kind, c.Character, c.Value)
	}
}

// Recommendation is a scored candidate.
type Recommendation struct {
	Character     *roster.Character
	Score         float64
	Reasons       []string
	Contributions []Contribution
}

func newRecommendation(c *roster.Character, contributions []Contribution) *Recommendation {
	rec := &Recommendation{
		Character:     c,
		Reasons:       make([]string, 0, len(contributions)),
		Contributions: contributions,
	}
	for _, contribution := range contributions {
		rec.Score += contribution.Value
		rec.Reasons = append(rec.Reasons, contribution.String())
	}
	return rec
}

// Delta formats the score with an explicit sign, e.g. "+0.70".
func (r *Recommendation) Delta() string {
	return fmt.Sprintf("%+.2f", r.Score)
}

// Summary joins the reasons with ", " and truncates the result to max runes.
// A max of zero or less disables truncation.
func (r *Recommendation) Summary(max int) string {
	summary := strings.Join(r.Reasons, ", ")
	if max <= 0 {
		return summary
	}

	runes := []rune(summary)
	if len(runes) <= max {
		return summary
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// Top returns at most n recommendations from the front of recs.
// A negative n returns everything.
func Top(recs []*Recommendation, n int) []*Recommendation {
	if n < 0 || n >= len(recs) {
		return recs
	}
	return recs[:n]
}
