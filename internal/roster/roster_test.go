package roster

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		characters []*Character
		wantErr    error
		wantLen    int
	}{
		{
			name:       "empty roster",
			characters: nil,
			wantLen:    0,
		},
		{
			name: "valid characters",
			characters: []*Character{
				{Name: "Alpha", Roles: []Role{RoleMid}},
				{Name: "Beta", Roles: []Role{RoleJungle, RoleBaron}},
			},
			wantLen: 2,
		},
		{
			name: "duplicate name",
			characters: []*Character{
				{Name: "Alpha", Roles: []Role{RoleMid}},
				{Name: "Alpha", Roles: []Role{RoleDragon}},
			},
			wantErr: ErrDuplicateCharacter,
		},
		{
			name:       "missing name",
			characters: []*Character{{Roles: []Role{RoleMid}}},
			wantErr:    ErrInvalidCharacter,
		},
		{
			name:       "no roles",
			characters: []*Character{{Name: "Alpha"}},
			wantErr:    ErrInvalidCharacter,
		},
		{
			name:       "unknown role",
			characters: []*Character{{Name: "Alpha", Roles: []Role{"Top"}}},
			wantErr:    ErrInvalidCharacter,
		},
		{
			name:       "nil entry",
			characters: []*Character{nil},
			wantErr:    ErrInvalidCharacter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.characters)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if r.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", r.Len(), tt.wantLen)
			}
		})
	}
}

func TestRosterLookup(t *testing.T) {
	r, err := New([]*Character{
		{Name: "Alpha", Roles: []Role{RoleMid}},
		{Name: "Beta", Roles: []Role{RoleJungle}},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if c, ok := r.Lookup("Beta"); !ok || c.Name != "Beta" {
		t.Errorf("Lookup(Beta) = %v, %v", c, ok)
	}
	if _, ok := r.Lookup("Gamma"); ok {
		t.Error("Lookup(Gamma) should miss")
	}
	if _, err := r.Get("Gamma"); !errors.Is(err, ErrCharacterNotFound) {
		t.Errorf("Get(Gamma) error = %v, want ErrCharacterNotFound", err)
	}

	// Characters returns a copy in roster order.
	chars := r.Characters()
	chars[0] = nil
	if r.Characters()[0] == nil {
		t.Error("Characters() exposed the internal slice")
	}
	if got := r.Characters()[1].Name; got != "Beta" {
		t.Errorf("Characters()[1] = %s, want Beta", got)
	}
}

func TestNilRoster(t *testing.T) {
	var r *Roster
	if r.Len() != 0 {
		t.Error("nil roster should have length 0")
	}
	if r.Characters() != nil {
		t.Error("nil roster should have no characters")
	}
	if _, ok := r.Lookup("Alpha"); ok {
		t.Error("nil roster lookup should miss")
	}
}

func TestCharacterWeights(t *testing.T) {
	c := &Character{
		Name:      "Beta",
		Roles:     []Role{RoleJungle},
		Counters:  map[string]float64{"Alpha": 0},
		Synergies: map[string]float64{"Gamma": 55},
	}

	if w, ok := c.CounterWeight("Alpha"); !ok || w != 0 {
		t.Errorf("CounterWeight(Alpha) = %v, %v; want 0, true", w, ok)
	}
	if _, ok := c.CounterWeight("Gamma"); ok {
		t.Error("CounterWeight(Gamma) should be absent")
	}
	if w, ok := c.SynergyWeight("Gamma"); !ok || w != 55 {
		t.Errorf("SynergyWeight(Gamma) = %v, %v; want 55, true", w, ok)
	}
	if !c.HasRole(RoleJungle) || c.HasRole(RoleMid) {
		t.Error("HasRole mismatch")
	}
}

func TestLoadFile(t *testing.T) {
	for _, path := range []string{"testdata/characters.json", "testdata/characters.yaml"} {
		t.Run(path, func(t *testing.T) {
			r, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error: %v", err)
			}
			if r.Len() != 3 {
				t.Fatalf("Len() = %d, want 3", r.Len())
			}

			names := []string{}
			for _, c := range r.Characters() {
				names = append(names, c.Name)
			}
			if !reflect.DeepEqual(names, []string{"Alpha", "Beta", "Gamma"}) {
				t.Errorf("order = %v, want file order", names)
			}

			beta, _ := r.Lookup("Beta")
			if w, ok := beta.CounterWeight("Alpha"); !ok || w != 70 {
				t.Errorf("Beta counter vs Alpha = %v, %v; want 70", w, ok)
			}
			if w, ok := beta.SynergyWeight("Alpha"); !ok || w != 0 {
				t.Errorf("Beta synergy with Alpha = %v, %v; want present 0", w, ok)
			}

			gamma, _ := r.Lookup("Gamma")
			if !gamma.HasRole(RoleBaron) || !gamma.HasRole(RoleMid) {
				t.Errorf("Gamma roles = %v", gamma.Roles)
			}
			if gamma.Icon != "gamma.png" {
				t.Errorf("Gamma icon = %q", gamma.Icon)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("testdata/missing.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeRejectsBadWeights(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"above range", `[{"name":"A","role":["Mid"],"counters":[{"characterName":"B","weight":101}]}]`},
		{"negative", `[{"name":"A","role":["Mid"],"synergies":[{"characterName":"B","weight":-1}]}]`},
		{"unnamed relation", `[{"name":"A","role":["Mid"],"counters":[{"weight":40}]}]`},
		{"malformed", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input), FormatJSON); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	r, err := LoadFile("testdata/characters.json")
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	again, err := Decode(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(r.Characters(), again.Characters()) {
		t.Error("roster changed after encode/decode")
	}
}

func TestDanglingReferences(t *testing.T) {
	r, err := LoadFile("testdata/characters.json")
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	got := r.DanglingReferences()
	want := []string{"Gamma -> Nobody (synergy)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DanglingReferences() = %v, want %v", got, want)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"roster.json": FormatJSON,
		"roster.YAML": FormatYAML,
		"roster.yml":  FormatYAML,
		"roster":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}
