package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/diceydrinks/internal/cookbook"
	"github.com/cory-johannsen/diceydrinks/internal/game/recipe"
)

const cookbookSchema = `
	CREATE TABLE IF NOT EXISTS cookbook_entries (
		id         UUID         PRIMARY KEY,
		name       TEXT         NOT NULL,
		rating     SMALLINT     NOT NULL CHECK (rating BETWEEN 0 AND 5),
		notes      TEXT         NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ  NOT NULL,
		recipe     JSONB        NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cookbook_entries_created_at ON cookbook_entries (created_at);
`

// CookbookRepository implements cookbook.Store on PostgreSQL.
type CookbookRepository struct {
	db *pgxpool.Pool
}

var _ cookbook.Store = (*CookbookRepository)(nil)

// NewCookbookRepository creates a CookbookRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCookbookRepository(db *pgxpool.Pool) *CookbookRepository {
	return &CookbookRepository{db: db}
}

// EnsureSchema creates the cookbook table if it does not exist.
//
// Postcondition: the cookbook_entries table exists.
func (r *CookbookRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, cookbookSchema); err != nil {
		return fmt.Errorf("creating cookbook schema: %w", err)
	}
	return nil
}

// Save inserts e or replaces the row with the same id.
//
// Precondition: e passes Validate, else cookbook.ErrInvalidEntry.
// Postcondition: Returns e as stored.
func (r *CookbookRepository) Save(ctx context.Context, e cookbook.Entry) (cookbook.Entry, error) {
	if err := e.Validate(); err != nil {
		return cookbook.Entry{}, err
	}
	body, err := json.Marshal(e.Recipe)
	if err != nil {
		return cookbook.Entry{}, fmt.Errorf("encoding recipe: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO cookbook_entries (id, name, rating, notes, created_at, recipe)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, rating = EXCLUDED.rating, notes = EXCLUDED.notes,
		     created_at = EXCLUDED.created_at, recipe = EXCLUDED.recipe`,
		e.ID, e.Name, e.Rating, e.Notes, e.Date, body,
	)
	if err != nil {
		return cookbook.Entry{}, fmt.Errorf("saving cookbook entry: %w", err)
	}
	return e, nil
}

// Get retrieves an entry by id.
//
// Postcondition: Returns the Entry or cookbook.ErrNotFound.
func (r *CookbookRepository) Get(ctx context.Context, id uuid.UUID) (cookbook.Entry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, rating, notes, created_at, recipe
		 FROM cookbook_entries WHERE id = $1`,
		id,
	)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cookbook.Entry{}, fmt.Errorf("%s: %w", id, cookbook.ErrNotFound)
		}
		return cookbook.Entry{}, fmt.Errorf("querying cookbook entry: %w", err)
	}
	return e, nil
}

// List returns every entry, oldest first.
func (r *CookbookRepository) List(ctx context.Context) ([]cookbook.Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, rating, notes, created_at, recipe
		 FROM cookbook_entries ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cookbook entries: %w", err)
	}
	defer rows.Close()

	var out []cookbook.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cookbook entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cookbook entries: %w", err)
	}
	return out, nil
}

// Delete removes the entry with id.
//
// Postcondition: Returns cookbook.ErrNotFound if no row was deleted.
func (r *CookbookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cookbook_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting cookbook entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", id, cookbook.ErrNotFound)
	}
	return nil
}

func scanEntry(row pgx.Row) (cookbook.Entry, error) {
	var (
		e    cookbook.Entry
		body []byte
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Rating, &e.Notes, &e.Date, &body); err != nil {
		return cookbook.Entry{}, err
	}
	var s recipe.State
	if err := json.Unmarshal(body, &s); err != nil {
		return cookbook.Entry{}, fmt.Errorf("decoding recipe: %w", err)
	}
	e.Recipe = s
	return e, nil
}
