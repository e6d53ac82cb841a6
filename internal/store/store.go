// internal/store/store.go
//
// SQL persistence for layout templates.
//
// Context
// -------
// Templates edited through the HTTP API outlive the process in a single
// table:
//
//	layout_template (id PK, category, body JSON, updated_at)
//
// `body` holds the whole template as JSON, so the schema never changes
// when the template model grows.  `category` is denormalised for listing
// by category without decoding every row.
//
// Both linked drivers are supported.  The only dialect difference is the
// upsert statement, chosen from db.DriverName().
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/layoutkit/internal/layout"
)

// ErrNotFound is returned by ByID when no row matches.
var ErrNotFound = errors.New("store: template not found")

// Store is safe for concurrent use; *sqlx.DB owns the pool.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// New wraps an open handle.
func New(db *sqlx.DB) *Store { return &Store{db: db, now: time.Now} }

type row struct {
	ID   string `db:"id"`
	Body []byte `db:"body"`
}

const schema = `CREATE TABLE IF NOT EXISTS layout_template (
    id         VARCHAR(191) NOT NULL PRIMARY KEY,
    category   VARCHAR(32)  NOT NULL,
    body       TEXT         NOT NULL,
    updated_at TIMESTAMP    NOT NULL
)`

// Migrate creates the table when absent.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// All returns every stored template ordered by id.
func (s *Store) All(ctx context.Context) ([]*layout.Template, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, body FROM layout_template ORDER BY id`); err != nil {
		return nil, err
	}
	out := make([]*layout.Template, 0, len(rows))
	for _, r := range rows {
		t, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ByID loads one template.  Missing rows yield ErrNotFound.
func (s *Store) ByID(ctx context.Context, id string) (*layout.Template, error) {
	var r row
	err := s.db.GetContext(ctx, &r, `SELECT id, body FROM layout_template WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(r)
}

// Save inserts or replaces t keyed by its id.
func (s *Store) Save(ctx context.Context, t *layout.Template) error {
	if t == nil || t.ID == "" {
		return errors.New("store: template id is required")
	}
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", t.ID, err)
	}
	_, err = s.db.ExecContext(ctx, s.upsert(), t.ID, string(t.Category), body, s.now().UTC())
	return err
}

// Delete removes id and reports whether a row existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layout_template WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) upsert() string {
	const insert = `INSERT INTO layout_template (id, category, body, updated_at) VALUES (?, ?, ?, ?) `
	if s.db.DriverName() == "sqlite3" {
		return insert + `ON CONFLICT(id) DO UPDATE SET category = excluded.category, ` +
			`body = excluded.body, updated_at = excluded.updated_at`
	}
	return insert + `ON DUPLICATE KEY UPDATE category = VALUES(category), ` +
		`body = VALUES(body), updated_at = VALUES(updated_at)`
}

func decode(r row) (*layout.Template, error) {
	var t layout.Template
	if err := json.Unmarshal(r.Body, &t); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", r.ID, err)
	}
	if t.ID == "" {
		t.ID = r.ID
	}
	return &t, nil
}
