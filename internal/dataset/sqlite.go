package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kotae/internal/models"
)

// SQLiteFixtures keeps fixture rows in a SQLite file so operators can edit them without a rebuild.
// Rows are read once at startup into a Deployment; the running process never writes to it.
type SQLiteFixtures struct {
	db *sql.DB
}

// NewSQLiteFixtures opens or creates the fixture database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteFixtures(dbPath string) (*SQLiteFixtures, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteFixtures{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		deployment TEXT NOT NULL,
		domain TEXT NOT NULL,
		position INTEGER NOT NULL,
		record_id TEXT NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (deployment, domain, position)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Seed writes d's collections when the database holds no rows for d.Name yet.
// Existing rows are left untouched. Returns the number of rows written.
func (s *SQLiteFixtures) Seed(ctx context.Context, d *Deployment) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE deployment = ?`, d.Name,
	).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (deployment, domain, position, record_id, body)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	written := 0
	for _, tag := range d.Tags {
		for i, rec := range d.Collections[tag] {
			body, err := json.Marshal(rec)
			if err != nil {
				return 0, fmt.Errorf("failed to marshal %s record %s: %w", tag, rec.RecordID(), err)
			}
			if _, err := stmt.ExecContext(ctx, d.Name, string(tag), i, rec.RecordID(), string(body)); err != nil {
				return 0, err
			}
			written++
		}
	}
	return written, tx.Commit()
}

// Load returns a copy of d whose collections are read from the database, in stored order.
// Tags with no stored rows get an empty collection.
func (s *SQLiteFixtures) Load(ctx context.Context, d *Deployment) (*Deployment, error) {
	out := &Deployment{
		Name:        d.Name,
		Tags:        append([]models.DomainTag(nil), d.Tags...),
		Collections: make(map[models.DomainTag][]models.Record, len(d.Tags)),
		decoders:    d.decoders,
	}
	for _, tag := range d.Tags {
		records, err := s.listByDomain(ctx, d, tag)
		if err != nil {
			return nil, err
		}
		out.Collections[tag] = records
	}
	return out, nil
}

func (s *SQLiteFixtures) listByDomain(ctx context.Context, d *Deployment, tag models.DomainTag) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM records WHERE deployment = ? AND domain = ? ORDER BY position`,
		d.Name, string(tag),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		rec, err := d.decode(tag, []byte(body))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s record: %w", tag, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountRecords returns the number of stored rows for the deployment.
func (s *SQLiteFixtures) CountRecords(ctx context.Context, deployment string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE deployment = ?`, deployment).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteFixtures) Close() error {
	return s.db.Close()
}
