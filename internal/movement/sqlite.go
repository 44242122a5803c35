package movement

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"stockbot/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS movements (
    id              TEXT PRIMARY KEY,
    location        TEXT NOT NULL,
    item            TEXT NOT NULL,
    kind            TEXT NOT NULL,
    quantity_change INTEGER NOT NULL,
    quantity_before INTEGER NOT NULL,
    quantity_after  INTEGER NOT NULL,
    note            TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_movements_created_at ON movements (created_at);
`

type SQLiteJournal struct {
	db *sqlx.DB
}

// NewSQLiteJournal opens (or creates) the journal database at path.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open movements db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init movements schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Log(ctx context.Context, m *model.Movement) error {
	query := `
        INSERT INTO movements (
            id, location, item, kind,
            quantity_change, quantity_before, quantity_after,
            note, created_at
        )
        VALUES (
            :id, :location, :item, :kind,
            :quantity_change, :quantity_before, :quantity_after,
            :note, :created_at
        )
    `
	_, err := j.db.NamedExecContext(ctx, query, m)
	return err
}

func (j *SQLiteJournal) List(ctx context.Context, limit int) ([]model.Movement, error) {
	var items []model.Movement
	query := `SELECT * FROM movements ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	err := j.db.SelectContext(ctx, &items, query)
	return items, err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
