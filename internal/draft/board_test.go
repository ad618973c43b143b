package draft

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/moba-draft/internal/recommend"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

func character(name string, roles ...roster.Role) *roster.Character {
	if len(roles) == 0 {
		roles = []roster.Role{roster.RoleMid}
	}
	return &roster.Character{Name: name, Roles: roles}
}

func lock(t *testing.T, b *Board, side Side, index int, slotType SlotType, c *roster.Character) {
	t.Helper()
	require.NoError(t, b.SelectSlot(side, index, slotType))
	require.NoError(t, b.Lock(c))
}

func TestNewBoard(t *testing.T) {
	b := NewBoard()
	assert.NotEmpty(t, b.ID())
	assert.NotEqual(t, b.ID(), NewBoard().ID())

	st := b.State()
	assert.Len(t, st.BluePicks, recommend.SlotsPerSide)
	assert.Len(t, st.RedBans, recommend.SlotsPerSide)
	assert.Nil(t, st.Selection)
	assert.Empty(t, b.Unavailable())
}

func TestSelectSlot(t *testing.T) {
	tests := []struct {
		name    string
		side    Side
		index   int
		typ     SlotType
		wantErr bool
	}{
		{"blue pick", SideBlue, 0, SlotPick, false},
		{"red ban last", SideRed, 4, SlotBan, false},
		{"index too high", SideBlue, 5, SlotPick, true},
		{"negative index", SideRed, -1, SlotBan, true},
		{"unknown side", Side("green"), 0, SlotPick, true},
		{"unknown type", SideBlue, 0, SlotType("hover"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			err := b.SelectSlot(tt.side, tt.index, tt.typ)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSlot)
				_, ok := b.Selection()
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			sel, ok := b.Selection()
			require.True(t, ok)
			assert.Equal(t, Selection{Side: tt.side, Index: tt.index, Type: tt.typ}, sel)
		})
	}
}

func TestLock(t *testing.T) {
	b := NewBoard()
	alpha := character("Alpha")

	assert.ErrorIs(t, b.Lock(alpha), ErrNoSelection)

	lock(t, b, SideBlue, 2, SlotPick, alpha)
	st := b.State()
	assert.Equal(t, "Alpha", st.BluePicks[2])
	assert.Nil(t, st.Selection, "lock clears the selection")

	// Alpha cannot be banned or picked again elsewhere.
	require.NoError(t, b.SelectSlot(SideRed, 0, SlotBan))
	assert.ErrorIs(t, b.Lock(alpha), ErrUnavailable)

	// Re-locking the same slot with the same character is fine.
	require.NoError(t, b.SelectSlot(SideBlue, 2, SlotPick))
	assert.NoError(t, b.Lock(alpha))

	assert.ErrorIs(t, b.Lock(nil), ErrUnavailable)
}

func TestUnavailable(t *testing.T) {
	b := NewBoard()
	lock(t, b, SideBlue, 0, SlotPick, character("A"))
	lock(t, b, SideRed, 1, SlotPick, character("B"))
	lock(t, b, SideBlue, 3, SlotBan, character("C"))
	lock(t, b, SideRed, 4, SlotBan, character("D"))

	assert.Equal(t, map[string]struct{}{"A": {}, "B": {}, "C": {}, "D": {}}, b.Unavailable())
}

func TestSnapshot(t *testing.T) {
	b := NewBoard()
	blueMid := character("BlueMid")
	blueJungle := character("BlueJungle", roster.RoleJungle)
	redMid := character("RedMid")
	banned := character("Banned")

	lock(t, b, SideBlue, 0, SlotPick, blueMid)
	lock(t, b, SideBlue, 1, SlotPick, blueJungle)
	lock(t, b, SideRed, 0, SlotPick, redMid)
	lock(t, b, SideRed, 2, SlotBan, banned)

	_, ok := b.Snapshot()
	assert.False(t, ok, "no selection")

	require.NoError(t, b.SelectSlot(SideBlue, 0, SlotBan))
	_, ok = b.Snapshot()
	assert.False(t, ok, "ban selection has no suggestions")

	t.Run("blue pick", func(t *testing.T) {
		require.NoError(t, b.SelectSlot(SideBlue, 2, SlotPick))
		s, ok := b.Snapshot()
		require.True(t, ok)
		assert.Len(t, s.Allies, recommend.SlotsPerSide)
		assert.Same(t, blueMid, s.Allies[0])
		assert.Same(t, blueJungle, s.Allies[1])
		assert.Same(t, redMid, s.Enemies[0])
		assert.Equal(t, map[string]struct{}{"BlueMid": {}, "BlueJungle": {}, "RedMid": {}, "Banned": {}}, s.Excluded)
	})

	t.Run("red pick sees blue as enemies", func(t *testing.T) {
		require.NoError(t, b.SelectSlot(SideRed, 1, SlotPick))
		s, ok := b.Snapshot()
		require.True(t, ok)
		assert.Same(t, redMid, s.Allies[0])
		assert.Same(t, blueMid, s.Enemies[0])
	})

	t.Run("occupied slot counts as open", func(t *testing.T) {
		require.NoError(t, b.SelectSlot(SideBlue, 0, SlotPick))
		s, ok := b.Snapshot()
		require.True(t, ok)
		assert.Nil(t, s.Allies[0])
		assert.NotContains(t, s.Excluded, "BlueMid")
		assert.Contains(t, s.Excluded, "BlueJungle")

		// The board itself is untouched.
		assert.Equal(t, "BlueMid", b.State().BluePicks[0])
	})
}

func TestSnapshotFeedsEngine(t *testing.T) {
	alpha := &roster.Character{Name: "Alpha", Roles: []roster.Role{roster.RoleMid}, Counters: map[string]float64{"Beta": 70}}
	beta := character("Beta", roster.RoleJungle)
	gamma := character("Gamma", roster.RoleBaron)
	r, err := roster.New([]*roster.Character{alpha, beta, gamma})
	require.NoError(t, err)

	b := NewBoard()
	lock(t, b, SideRed, 0, SlotPick, alpha)
	lock(t, b, SideRed, 0, SlotBan, gamma)
	require.NoError(t, b.SelectSlot(SideBlue, 0, SlotPick))

	s, ok := b.Snapshot()
	require.True(t, ok)

	recs := recommend.NewEngine(r, recommend.DefaultConfig()).Recommend(s)
	require.Len(t, recs, 1)
	assert.Equal(t, "Beta", recs[0].Character.Name)
	assert.Equal(t, []string{"Counters Alpha (+0.70)"}, recs[0].Reasons)
}

func TestReset(t *testing.T) {
	b := NewBoard()
	id := b.ID()
	lock(t, b, SideBlue, 0, SlotPick, character("A"))
	require.NoError(t, b.SelectSlot(SideRed, 0, SlotPick))

	b.Reset()

	assert.Equal(t, id, b.ID())
	assert.Empty(t, b.Unavailable())
	_, ok := b.Selection()
	assert.False(t, ok)
}

func TestBoardConcurrentAccess(t *testing.T) {
	b := NewBoard()
	var wg sync.WaitGroup
	for i := 0; i < recommend.SlotsPerSide; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = b.SelectSlot(SideBlue, i, SlotPick)
			_ = b.Lock(character(string(rune('A' + i))))
		}()
		go func() {
			defer wg.Done()
			b.Snapshot()
			b.State()
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, len(b.Unavailable()), recommend.SlotsPerSide)
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, SideRed, SideBlue.Opponent())
	assert.Equal(t, SideBlue, SideRed.Opponent())
}
