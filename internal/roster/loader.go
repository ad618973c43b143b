package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a roster file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from the file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// relationRecord is one counter or synergy entry in a roster file.
type relationRecord struct {
	CharacterName string  `json:"characterName" yaml:"characterName"`
	Weight        float64 `json:"weight" yaml:"weight"`
}

// characterRecord mirrors one entry of the roster data table.
type characterRecord struct {
	Name      string           `json:"name" yaml:"name"`
	Role      []Role           `json:"role" yaml:"role"`
	Weight    float64          `json:"weight" yaml:"weight"`
	Counters  []relationRecord `json:"counters" yaml:"counters"`
	Synergies []relationRecord `json:"synergies" yaml:"synergies"`
	Icon      string           `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// LoadFile reads a roster from a JSON or YAML file.
func LoadFile(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()

	r, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("load roster %s: %w", path, err)
	}
	return r, nil
}

// Decode reads a roster in the given format.
func Decode(rd io.Reader, format Format) (*Roster, error) {
	var records []characterRecord

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(rd).Decode(&records); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parse yaml roster: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(rd).Decode(&records); err != nil {
			return nil, fmt.Errorf("parse json roster: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported roster format %q", format)
	}

	characters := make([]*Character, 0, len(records))
	for _, rec := range records {
		c, err := rec.toCharacter()
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}

	return New(characters)
}

// Encode writes the roster as an indented JSON data table.
func Encode(w io.Writer, r *Roster) error {
	records := make([]characterRecord, 0, r.Len())
	for _, c := range r.Characters() {
		records = append(records, fromCharacter(c))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	return nil
}

func (rec characterRecord) toCharacter() (*Character, error) {
	counters, err := relationMap(rec.Name, "counter", rec.Counters)
	if err != nil {
		return nil, err
	}
	synergies, err := relationMap(rec.Name, "synergy", rec.Synergies)
	if err != nil {
		return nil, err
	}

	return &Character{
		Name:      rec.Name,
		Roles:     rec.Role,
		Weight:    rec.Weight,
		Icon:      rec.Icon,
		Counters:  counters,
		Synergies: synergies,
	}, nil
}

func relationMap(owner, kind string, relations []relationRecord) (map[string]float64, error) {
	m := make(map[string]float64, len(relations))
	for _, rel := range relations {
		if rel.CharacterName == "" {
			return nil, fmt.Errorf("%w: %s has a %s entry without a name", ErrInvalidCharacter, owner, kind)
		}
		if rel.Weight < 0 || rel.Weight > 100 {
			return nil, fmt.Errorf("%w: %s %s weight for %s is %v, want 0-100",
				ErrInvalidCharacter, owner, kind, rel.CharacterName, rel.Weight)
		}
		// Later duplicates win, matching a plain object merge.
		m[rel.CharacterName] = rel.Weight
	}
	return m, nil
}

func fromCharacter(c *Character) characterRecord {
	rec := characterRecord{
		Name:   c.Name,
		Role:   append([]Role(nil), c.Roles...),
		Weight: c.Weight,
		Icon:   c.Icon,
	}
	for _, name := range sortedKeys(c.Counters) {
		rec.Counters = append(rec.Counters, relationRecord{CharacterName: name, Weight: c.Counters[name]})
	}
	for _, name := range sortedKeys(c.Synergies) {
		rec.Synergies = append(rec.Synergies, relationRecord{CharacterName: name, Weight: c.Synergies[name]})
	}
	return rec
}
