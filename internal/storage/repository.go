package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"financie/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultDSN keeps the database in memory for the lifetime of the process.
const DefaultDSN = ":memory:"

// SQLiteRepository is a record store backed by SQLite.
type SQLiteRepository struct {
	db    *sql.DB
	newID func() string
}

func NewSQLiteRepository(dsn string) (*SQLiteRepository, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, newID: uuid.NewString}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Add implements records.Writer
func (r *SQLiteRepository) Add(ctx context.Context, d core.Draft) (core.Record, error) {
	rec := d.WithID(r.newID())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO records (id, description, amount_cents, kind, category, occurred_on)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Description, rec.Amount.Cents, string(rec.Kind), rec.Category, rec.Date.Format(time.RFC3339))
	if err != nil {
		return core.Record{}, fmt.Errorf("insert record: %w", err)
	}

	slog.DebugContext(ctx, "Record saved to SQLite",
		"id", rec.ID,
		"kind", rec.Kind,
		"amount_cents", rec.Amount.Cents,
		"category", rec.Category)

	return rec, nil
}

// Remove implements records.Deleter
func (r *SQLiteRepository) Remove(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// List implements records.Lister
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, kind, category, occurred_on
		 FROM records ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var (
			rec        core.Record
			kind, date string
		)
		if err := rows.Scan(&rec.ID, &rec.Description, &rec.Amount.Cents, &kind, &rec.Category, &date); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Kind = core.Kind(kind)
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parse date of record %s: %w", rec.ID, err)
		}
		rec.Date = core.Date{Time: t}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// HealthCheck verifies the database connection is alive.
func (r *SQLiteRepository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
