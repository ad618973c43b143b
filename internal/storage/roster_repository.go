package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ramonehamilton/moba-draft/internal/roster"
)

const (
	relationCounter = "counter"
	relationSynergy = "synergy"
)

// ImportRecord describes one roster import.
type ImportRecord struct {
	ID         int64
	Source     string
	Characters int
	ImportedAt time.Time
}

// RosterRepository stores and loads the roster table.
type RosterRepository struct {
	db     *DB
	logger *slog.Logger
}

// NewRosterRepository creates a roster repository. A nil logger uses slog.Default().
func NewRosterRepository(db *DB, logger *slog.Logger) *RosterRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterRepository{db: db, logger: logger}
}

// Replace swaps the stored roster for r in a single transaction and records the import.
func (repo *RosterRepository) Replace(ctx context.Context, r *roster.Roster, source string) error {
	err := repo.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"character_relations", "character_roles", "characters"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		for i, c := range r.Characters() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO characters (name, position, weight, icon) VALUES (?, ?, ?, ?)`,
				c.Name, i, c.Weight, c.Icon,
			); err != nil {
				return fmt.Errorf("insert character %s: %w", c.Name, err)
			}

			for j, role := range c.Roles {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO character_roles (character_name, position, role) VALUES (?, ?, ?)`,
					c.Name, j, string(role),
				); err != nil {
					return fmt.Errorf("insert role %s for %s: %w", role, c.Name, err)
				}
			}

			if err := insertRelations(ctx, tx, c.Name, relationCounter, c.Counters); err != nil {
				return err
			}
			if err := insertRelations(ctx, tx, c.Name, relationSynergy, c.Synergies); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO roster_imports (source, characters) VALUES (?, ?)`,
			source, r.Len(),
		); err != nil {
			return fmt.Errorf("record import: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	repo.logger.Info("roster stored", "source", source, "characters", r.Len())
	return nil
}

func insertRelations(ctx context.Context, tx *sql.Tx, owner, kind string, relations map[string]float64) error {
	for other, weight := range relations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO character_relations (character_name, other_name, kind, weight) VALUES (?, ?, ?, ?)`,
			owner, other, kind, weight,
		); err != nil {
			return fmt.Errorf("insert %s %s -> %s: %w", kind, owner, other, err)
		}
	}
	return nil
}

// Load reads the stored roster in its original order.
func (repo *RosterRepository) Load(ctx context.Context) (*roster.Roster, error) {
	conn := repo.db.Conn()

	rows, err := conn.QueryContext(ctx, `SELECT name, weight, icon FROM characters ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()

	var characters []*roster.Character
	byName := make(map[string]*roster.Character)
	for rows.Next() {
		c := &roster.Character{
			Counters:  map[string]float64{},
			Synergies: map[string]float64{},
		}
		if err := rows.Scan(&c.Name, &c.Weight, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		characters = append(characters, c)
		byName[c.Name] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}

	roleRows, err := conn.QueryContext(ctx, `SELECT character_name, role FROM character_roles ORDER BY character_name, position`)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var name, role string
		if err := roleRows.Scan(&name, &role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		if c, ok := byName[name]; ok {
			c.Roles = append(c.Roles, roster.Role(role))
		}
	}
	if err := roleRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	relRows, err := conn.QueryContext(ctx, `SELECT character_name, other_name, kind, weight FROM character_relations`)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer relRows.Close()

	for relRows.Next() {
		var owner, other, kind string
		var weight float64
		if err := relRows.Scan(&owner, &other, &kind, &weight); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		c, ok := byName[owner]
		if !ok {
			continue
		}
		switch kind {
		case relationCounter:
			c.Counters[other] = weight
		case relationSynergy:
			c.Synergies[other] = weight
		}
	}
	if err := relRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relations: %w", err)
	}

	r, err := roster.New(characters)
	if err != nil {
		return nil, fmt.Errorf("stored roster is invalid: %w", err)
	}
	return r, nil
}

// ErrNoImports is returned by LastImport on an empty store.
var ErrNoImports = errors.New("no roster imported")

// LastImport returns the most recent import record.
func (repo *RosterRepository) LastImport(ctx context.Context) (*ImportRecord, error) {
	var rec ImportRecord
	var importedAt int64
	err := repo.db.Conn().QueryRowContext(ctx,
		`SELECT id, source, characters, CAST(strftime('%s', imported_at) AS INTEGER)
		 FROM roster_imports ORDER BY id DESC LIMIT 1`,
	).Scan(&rec.ID, &rec.Source, &rec.Characters, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoImports
	}
	if err != nil {
		return nil, fmt.Errorf("query last import: %w", err)
	}
	rec.ImportedAt = time.Unix(importedAt, 0).UTC()
	return &rec, nil
}
