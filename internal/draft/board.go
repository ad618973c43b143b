// Package draft holds the pick/ban board for both teams.
package draft

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ramonehamilton/moba-draft/internal/recommend"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

var (
	// ErrInvalidSlot is returned for an unknown side, slot type or index.
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrNoSelection is returned when locking without a selected slot.
	ErrNoSelection = errors.New("no slot selected")

	// ErrUnavailable is returned when a character is already picked or banned elsewhere.
	ErrUnavailable = errors.New("character unavailable")
)

// Side is a team.
type Side string

const (
	SideBlue Side = "blue"
	SideRed  Side = "red"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideBlue {
		return SideRed
	}
	return SideBlue
}

// SlotType distinguishes pick slots from ban slots.
type SlotType string

const (
	SlotPick SlotType = "pick"
	SlotBan  SlotType = "ban"
)

// Selection is the slot the user is currently filling.
type Selection struct {
	Side  Side     `json:"side"`
	Index int      `json:"index"`
	Type  SlotType `json:"type"`
}

func (s Selection) validate() error {
	if s.Side != SideBlue && s.Side != SideRed {
		return fmt.Errorf("%w: side %q", ErrInvalidSlot, s.Side)
	}
	if s.Type != SlotPick && s.Type != SlotBan {
		return fmt.Errorf("%w: type %q", ErrInvalidSlot, s.Type)
	}
	if s.Index < 0 || s.Index >= recommend.SlotsPerSide {
		return fmt.Errorf("%w: index %d", ErrInvalidSlot, s.Index)
	}
	return nil
}

type slots [recommend.SlotsPerSide]*roster.Character

// State is a copy of the board for rendering.
type State struct {
	ID        string     `json:"id"`
	BluePicks []string   `json:"blue_picks"`
	RedPicks  []string   `json:"red_picks"`
	BlueBans  []string   `json:"blue_bans"`
	RedBans   []string   `json:"red_bans"`
	Selection *Selection `json:"selection,omitempty"`
}

// Board is the draft board. It is safe for concurrent use.
type Board struct {
	id string

	bluePicks slots
	redPicks  slots
	blueBans  slots
	redBans   slots
	selection *Selection

	mu sync.RWMutex
}

// NewBoard returns an empty board with a fresh ID.
func NewBoard() *Board {
	return &Board{id: uuid.NewString()}
}

// ID returns the board identifier.
func (b *Board) ID() string {
	return b.id
}

// SelectSlot marks a slot as the one being filled.
func (b *Board) SelectSlot(side Side, index int, slotType SlotType) error {
	sel := Selection{Side: side, Index: index, Type: slotType}
	if err := sel.validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = &sel
	return nil
}

// ClearSelection deselects the current slot.
func (b *Board) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = nil
}

// Selection returns the selected slot, if any.
func (b *Board) Selection() (Selection, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.selection == nil {
		return Selection{}, false
	}
	return *b.selection, true
}

// Lock writes c into the selected slot and clears the selection.
// Re-locking the character already in the selected slot is allowed.
func (b *Board) Lock(c *roster.Character) error {
	if c == nil {
		return fmt.Errorf("%w: nil character", ErrUnavailable)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.selection == nil {
		return ErrNoSelection
	}

	target := b.slotsFor(b.selection.Side, b.selection.Type)
	current := target[b.selection.Index]

	if _, taken := b.unavailableLocked()[c.Name]; taken && (current == nil || current.Name != c.Name) {
		return fmt.Errorf("%w: %s", ErrUnavailable, c.Name)
	}

	target[b.selection.Index] = c
	b.selection = nil
	return nil
}

// Reset empties every slot and clears the selection. The ID is kept.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bluePicks = slots{}
	b.redPicks = slots{}
	b.blueBans = slots{}
	b.redBans = slots{}
	b.selection = nil
}

// Unavailable returns the names in every pick and ban slot on both sides.
func (b *Board) Unavailable() map[string]struct{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.unavailableLocked()
}

func (b *Board) unavailableLocked() map[string]struct{} {
	names := make(map[string]struct{})
	for _, s := range []*slots{&b.bluePicks, &b.redPicks, &b.blueBans, &b.redBans} {
		for _, c := range s {
			if c != nil {
				names[c.Name] = struct{}{}
			}
		}
	}
	return names
}

// Snapshot builds the engine input for the selected pick slot.
//
// The selected slot counts as open: its occupant is neither an ally nor
// excluded, so it can be suggested again. It returns false when no slot is
// selected or a ban slot is selected.
func (b *Board) Snapshot() (recommend.Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.selection == nil || b.selection.Type != SlotPick {
		return recommend.Snapshot{}, false
	}

	allies := *b.slotsFor(b.selection.Side, SlotPick)
	enemies := *b.slotsFor(b.selection.Side.Opponent(), SlotPick)

	excluded := b.unavailableLocked()
	if current := allies[b.selection.Index]; current != nil {
		delete(excluded, current.Name)
		allies[b.selection.Index] = nil
	}

	return recommend.Snapshot{
		Allies:   allies[:],
		Enemies:  enemies[:],
		Excluded: excluded,
	}, true
}

// State returns a copy of the board with empty slots as "".
func (b *Board) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st := State{
		ID:        b.id,
		BluePicks: slotNames(&b.bluePicks),
		RedPicks:  slotNames(&b.redPicks),
		BlueBans:  slotNames(&b.blueBans),
		RedBans:   slotNames(&b.redBans),
	}
	if b.selection != nil {
		sel := *b.selection
		st.Selection = &sel
	}
	return st
}

func (b *Board) slotsFor(side Side, slotType SlotType) *slots {
	switch {
	case side == SideBlue && slotType == SlotPick:
		return &b.bluePicks
	case side == SideRed && slotType == SlotPick:
		return &b.redPicks
	case side == SideBlue:
		return &b.blueBans
	default:
		return &b.redBans
	}
}

func slotNames(s *slots) []string {
	out := make([]string, len(s))
	for i, c := range s {
		if c != nil {
			out[i] = c.Name
		}
	}
	return out
}
