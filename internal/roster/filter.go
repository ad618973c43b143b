package roster

import (
	"sort"
	"strings"
)

// Filter describes a derived view over the roster for the character picker.
type Filter struct {
	Search     string // Case-insensitive substring of the name ("" = any)
	Role       Role   // Only characters holding this role ("" = all)
	Descending bool   // Z-A instead of A-Z
}

// Apply returns the characters matching f, sorted by name.
// The roster is not modified.
func Apply(r *Roster, f Filter) []*Character {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	result := make([]*Character, 0, r.Len())
	for _, c := range r.Characters() {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		if f.Role != "" && !c.HasRole(f.Role) {
			continue
		}
		result = append(result, c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if f.Descending {
			return a > b
		}
		return a < b
	})

	return result
}
