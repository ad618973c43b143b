// Package roster holds the static character table the draft planner reads from.
package roster

// Role is a lane a character can be drafted into.
type Role string

// Role constants for the five lanes.
const (
	RoleBaron   Role = "Baron"
	RoleJungle  Role = "Jungle"
	RoleMid     Role = "Mid"
	RoleDragon  Role = "Dragon"
	RoleSupport Role = "Support"
)

// AllRoles lists every role in board order.
var AllRoles = []Role{RoleBaron, RoleJungle, RoleMid, RoleDragon, RoleSupport}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Character is one roster entry. Characters are shared read-only between
// callers once the roster has been built.
type Character struct {
	Name   string
	Roles  []Role
	Weight float64 // Tier weight from the data table; not used for scoring
	Icon   string

	// Counters maps the name of a character that counters this one to the
	// strength (0-100) of that matchup. An entry Counters["B"] means B is a
	// good pick against this character, and this character is a poor pick
	// against B.
	Counters map[string]float64

	// Synergies maps the name of a character that pairs well with this one
	// to the strength (0-100) of the pairing. It is read from the ally's side:
	// an ally's entry for a candidate raises the candidate's score.
	Synergies map[string]float64
}

// HasRole reports whether the character can play role r.
func (c *Character) HasRole(r Role) bool {
	for _, role := range c.Roles {
		if role == r {
			return true
		}
	}
	return false
}

// CounterWeight returns the counter weight against name and whether an entry exists.
// A present entry with weight 0 returns (0, true).
func (c *Character) CounterWeight(name string) (float64, bool) {
	w, ok := c.Counters[name]
	return w, ok
}

// SynergyWeight returns the synergy weight with name and whether an entry exists.
func (c *Character) SynergyWeight(name string) (float64, bool) {
	w, ok := c.Synergies[name]
	return w, ok
}
