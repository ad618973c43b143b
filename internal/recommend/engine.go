// Package recommend ranks the characters that could fill the next pick slot.
//
// Scoring reads three directional relationships from the roster:
//
//   - an enemy's counter entry for the candidate is the candidate's edge
//     over that enemy and adds to the score (advantage factor);
//   - the candidate's own counter entry for an enemy is that enemy's threat
//     and subtracts from the score (disadvantage factor);
//   - an ally's synergy entry for the candidate adds to the score
//     (advantage factor).
//
// Weights are percentages and are divided by 100 before scaling.
// The engine keeps no state between calls.
package recommend

import (
	"sort"

	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// SlotsPerSide is the number of pick (and ban) slots each team has.
const SlotsPerSide = 5

// Factors scale relationship weights into score contributions.
type Factors struct {
	Advantage    float64 // Applied to counters held over enemies and to ally synergies
	Disadvantage float64 // Applied to counters enemies hold over the candidate
}

// DefaultFactors returns unit scaling: a 70 weight contributes 0.70.
func DefaultFactors() Factors {
	return Factors{
		Advantage:    1.0,
		Disadvantage: 1.0,
	}
}

// Config controls scoring and role eligibility.
type Config struct {
	Factors Factors

	// RoleCapacity caps how many allies may occupy each role before the role
	// counts as filled. Roles missing from the map use DefaultRoleCapacity.
	RoleCapacity map[roster.Role]int

	// DefaultRoleCapacity applies to roles without an explicit capacity (default: 1).
	DefaultRoleCapacity int
}

// DefaultConfig returns the one-ally-per-role configuration.
func DefaultConfig() Config {
	return Config{
		Factors:             DefaultFactors(),
		RoleCapacity:        map[roster.Role]int{},
		DefaultRoleCapacity: 1,
	}
}

// Capacity returns the number of allies role r can hold.
func (c Config) Capacity(r roster.Role) int {
	if n, ok := c.RoleCapacity[r]; ok {
		return n
	}
	return c.DefaultRoleCapacity
}

// Engine scores and ranks candidates against a read-only roster.
// It is safe for concurrent use.
type Engine struct {
	roster *roster.Roster
	config Config
}

// NewEngine creates an engine over r.
func NewEngine(r *roster.Roster, config Config) *Engine {
	if config.DefaultRoleCapacity <= 0 {
		config.DefaultRoleCapacity = 1
	}

	capacity := make(map[roster.Role]int, len(config.RoleCapacity))
	for role, n := range config.RoleCapacity {
		capacity[role] = n
	}
	config.RoleCapacity = capacity

	return &Engine{
		roster: r,
		config: config,
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// ScoreCandidate scores candidate against the occupied enemy and ally slots.
// Nil slots are skipped. The score starts at zero and is not clamped.
func (e *Engine) ScoreCandidate(candidate *roster.Character, enemies, allies []*roster.Character) (float64, []string) {
	contributions := e.contributions(candidate, enemies, allies)
	if len(contributions) == 0 {
		return 0, nil
	}

	score := 0.0
	reasons := make([]string, 0, len(contributions))
	for _, c := range contributions {
		score += c.Value
		reasons = append(reasons, c.String())
	}
	return score, reasons
}

// contributions lists every relationship between candidate and the board,
// enemies first in slot order then allies in slot order.
func (e *Engine) contributions(candidate *roster.Character, enemies, allies []*roster.Character) []Contribution {
	if candidate == nil {
		return nil
	}

	f := e.config.Factors
	var out []Contribution

	for _, enemy := range enemies {
		if enemy == nil {
			continue
		}
		if w, ok := enemy.CounterWeight(candidate.Name); ok {
			out = append(out, Contribution{
				Kind:      KindCounters,
				Character: enemy.Name,
				Value:     w / 100 * f.Advantage,
			})
		}
		if w, ok := candidate.CounterWeight(enemy.Name); ok {
			out = append(out, Contribution{
				Kind:      KindCounteredBy,
				Character: enemy.Name,
				Value:     -(w / 100 * f.Disadvantage),
			})
		}
	}

	for _, ally := range allies {
		if ally == nil {
			continue
		}
		if w, ok := ally.SynergyWeight(candidate.Name); ok {
			out = append(out, Contribution{
				Kind:      KindSynergy,
				Character: ally.Name,
				Value:     w / 100 * f.Advantage,
			})
		}
	}

	return out
}

// RankCandidates scores every eligible roster character and returns them best first.
//
// A character is eligible when it is not excluded, is not already on the
// board, and holds at least one role the allies have not filled. Equal scores
// keep roster order. The result is never nil.
func (e *Engine) RankCandidates(enemies, allies []*roster.Character, excluded map[string]struct{}) []*Recommendation {
	filled := e.filledRoles(allies)
	onBoard := boardNames(enemies, allies)

	recommendations := make([]*Recommendation, 0)
	for _, candidate := range e.roster.Characters() {
		if _, ok := excluded[candidate.Name]; ok {
			continue
		}
		if _, ok := onBoard[candidate.Name]; ok {
			continue
		}
		if !hasOpenRole(candidate, filled) {
			continue
		}

		contributions := e.contributions(candidate, enemies, allies)
		recommendations = append(recommendations, newRecommendation(candidate, contributions))
	}

	sortRecommendations(recommendations)
	return recommendations
}

// Recommend ranks candidates for a board snapshot.
func (e *Engine) Recommend(s Snapshot) []*Recommendation {
	return e.RankCandidates(s.Enemies, s.Allies, s.Excluded)
}

// filledRoles returns the roles whose ally count has reached capacity.
func (e *Engine) filledRoles(allies []*roster.Character) map[roster.Role]bool {
	counts := make(map[roster.Role]int)
	for _, ally := range allies {
		if ally == nil {
			continue
		}
		for _, role := range ally.Roles {
			counts[role]++
		}
	}

	filled := make(map[roster.Role]bool, len(roster.AllRoles))
	for _, role := range roster.AllRoles {
		if counts[role] >= e.config.Capacity(role) {
			filled[role] = true
		}
	}
	for role, n := range counts {
		if n >= e.config.Capacity(role) {
			filled[role] = true
		}
	}
	return filled
}

// hasOpenRole reports whether any of c's roles is still open.
// A character without roles never has an open role.
func hasOpenRole(c *roster.Character, filled map[roster.Role]bool) bool {
	for _, role := range c.Roles {
		if !filled[role] {
			return true
		}
	}
	return false
}

func boardNames(slotLists ...[]*roster.Character) map[string]struct{} {
	names := make(map[string]struct{})
	for _, slots := range slotLists {
		for _, c := range slots {
			if c != nil {
				names[c.Name] = struct{}{}
			}
		}
	}
	return names
}

// sortRecommendations orders by descending score, keeping roster order on ties.
func sortRecommendations(recommendations []*Recommendation) {
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
}
