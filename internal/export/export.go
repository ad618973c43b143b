// Package export writes ranked recommendations as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ramonehamilton/moba-draft/internal/recommend"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// Format represents the export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Record is the exported form of one recommendation.
type Record struct {
	Rank          int                      `json:"rank"`
	Name          string                   `json:"name"`
	Roles         []roster.Role            `json:"roles"`
	Score         float64                  `json:"score"`
	Reasons       []string                 `json:"reasons"`
	Contributions []recommend.Contribution `json:"contributions"`
}

// Records converts recs into export records, ranked from 1.
// Slices are never nil so JSON output always shows arrays.
func Records(recs []*recommend.Recommendation) []Record {
	out := make([]Record, 0, len(recs))
	for i, rec := range recs {
		reasons := rec.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		contributions := rec.Contributions
		if contributions == nil {
			contributions = []recommend.Contribution{}
		}
		out = append(out, Record{
			Rank:          i + 1,
			Name:          rec.Character.Name,
			Roles:         rec.Character.Roles,
			Score:         rec.Score,
			Reasons:       reasons,
			Contributions: contributions,
		})
	}
	return out
}

// Write encodes recs to w in the given format.
func Write(w io.Writer, recs []*recommend.Recommendation, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, Records(recs))
	case FormatCSV:
		return writeCSV(w, Records(recs))
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func writeJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

var csvHeader = []string{"rank", "name", "roles", "score", "reasons"}

// writeCSV writes one row per record. Roles and reasons are joined with "; ".
func writeCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		roles := make([]string, len(rec.Roles))
		for i, role := range rec.Roles {
			roles[i] = string(role)
		}
		row := []string{
			strconv.Itoa(rec.Rank),
			rec.Name,
			strings.Join(roles, "; "),
			strconv.FormatFloat(rec.Score, 'f', 2, 64),
			strings.Join(rec.Reasons, "; "),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", rec.Rank, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
