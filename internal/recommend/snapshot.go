package recommend

import "github.com/ramonehamilton/moba-draft/internal/roster"

// Snapshot is the board as seen by the side about to pick.
// It is built fresh for every request and never modified by the engine.
type Snapshot struct {
	Allies   []*roster.Character
	Enemies  []*roster.Character
	Excluded map[string]struct{}
}

// NewSnapshot resolves slot names against r. Empty names and names missing
// from the roster become empty slots.
func NewSnapshot(r *roster.Roster, allies, enemies, excluded []string) Snapshot {
	s := Snapshot{
		Allies:   resolveSlots(r, allies),
		Enemies:  resolveSlots(r, enemies),
		Excluded: make(map[string]struct{}, len(excluded)),
	}
	for _, name := range excluded {
		if name != "" {
			s.Excluded[name] = struct{}{}
		}
	}
	return s
}

func resolveSlots(r *roster.Roster, names []string) []*roster.Character {
	slots := make([]*roster.Character, len(names))
	for i, name := range names {
		if c, ok := r.Lookup(name); ok {
			slots[i] = c
		}
	}
	return slots
}
