package roster

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicateCharacter is returned when two entries share a name.
	ErrDuplicateCharacter = errors.New("duplicate character")

	// ErrInvalidCharacter is returned for entries that cannot be drafted.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrCharacterNotFound is returned when a name is not in the roster.
	ErrCharacterNotFound = errors.New("character not found")
)

// Roster is an ordered, read-only table of characters.
// File order is preserved and used as the tie-break order when ranking.
type Roster struct {
	characters []*Character
	byName     map[string]*Character
}

// New builds a roster from characters in the given order.
func New(characters []*Character) (*Roster, error) {
	r := &Roster{
		characters: make([]*Character, 0, len(characters)),
		byName:     make(map[string]*Character, len(characters)),
	}

	for i, c := range characters {
		if c == nil || c.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidCharacter, i)
		}
		if len(c.Roles) == 0 {
			return nil, fmt.Errorf("%w: %s has no roles", ErrInvalidCharacter, c.Name)
		}
		for _, role := range c.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("%w: %s has unknown role %q", ErrInvalidCharacter, c.Name, role)
			}
		}
		if _, exists := r.byName[c.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCharacter, c.Name)
		}

		r.characters = append(r.characters, c)
		r.byName[c.Name] = c
	}

	return r, nil
}

// Len returns the number of characters.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.characters)
}

// Characters returns the characters in roster order.
// The slice is a copy; the characters themselves are shared.
func (r *Roster) Characters() []*Character {
	if r == nil {
		return nil
	}
	out := make([]*Character, len(r.characters))
	copy(out, r.characters)
	return out
}

// Lookup returns the character with the given name.
func (r *Roster) Lookup(name string) (*Character, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.byName[name]
	return c, ok
}

// Get is like Lookup but returns ErrCharacterNotFound.
func (r *Roster) Get(name string) (*Character, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCharacterNotFound, name)
	}
	return c, nil
}

// DanglingReferences lists counter and synergy targets that are not in the roster,
// formatted as "owner -> target". They are harmless to the engine.
func (r *Roster) DanglingReferences() []string {
	if r == nil {
		return nil
	}

	var dangling []string
	for _, c := range r.characters {
		for _, target := range sortedKeys(c.Counters) {
			if _, ok := r.byName[target]; !ok {
				dangling = append(dangling, fmt.Sprintf("%s -> %s (counter)", c.Name, target))
			}
		}
		for _, target := range sortedKeys(c.Synergies) {
			if _, ok := r.byName[target]; !ok {
				dangling = append(dangling, fmt.Sprintf("%s -> %s (synergy)", c.Name, target))
			}
		}
	}
	return dangling
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
