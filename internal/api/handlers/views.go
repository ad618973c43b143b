package handlers

import (
	"github.com/ramonehamilton/moba-draft/internal/recommend"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// summaryLength is the reason summary length shown in pick lists.
const summaryLength = 60

// CharacterView is the JSON form of a roster character.
type CharacterView struct {
	Name      string             `json:"name"`
	Roles     []roster.Role      `json:"roles"`
	Weight    float64            `json:"weight"`
	Icon      string             `json:"icon,omitempty"`
	Counters  map[string]float64 `json:"counters"`
	Synergies map[string]float64 `json:"synergies"`
}

func newCharacterView(c *roster.Character) CharacterView {
	return CharacterView{
		Name:      c.Name,
		Roles:     c.Roles,
		Weight:    c.Weight,
		Icon:      c.Icon,
		Counters:  nonNilMap(c.Counters),
		Synergies: nonNilMap(c.Synergies),
	}
}

func newCharacterViews(characters []*roster.Character) []CharacterView {
	views := make([]CharacterView, 0, len(characters))
	for _, c := range characters {
		views = append(views, newCharacterView(c))
	}
	return views
}

func nonNilMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

// RecommendationView is the JSON form of a ranked candidate.
type RecommendationView struct {
	Name          string                   `json:"name"`
	Roles         []roster.Role            `json:"roles"`
	Icon          string                   `json:"icon,omitempty"`
	Score         float64                  `json:"score"`
	Delta         string                   `json:"delta"`
	Reasons       []string                 `json:"reasons"`
	Summary       string                   `json:"summary"`
	Contributions []recommend.Contribution `json:"contributions"`
}

func newRecommendationViews(recs []*recommend.Recommendation) []RecommendationView {
	views := make([]RecommendationView, 0, len(recs))
	for _, rec := range recs {
		reasons := rec.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		contributions := rec.Contributions
		if contributions == nil {
			contributions = []recommend.Contribution{}
		}
		views = append(views, RecommendationView{
			Name:          rec.Character.Name,
			Roles:         rec.Character.Roles,
			Icon:          rec.Character.Icon,
			Score:         rec.Score,
			Delta:         rec.Delta(),
			Reasons:       reasons,
			Summary:       rec.Summary(summaryLength),
			Contributions: contributions,
		})
	}
	return views
}
