// Package sqlite keeps the dataset in a SQLite table, one record per row
// ordered by position.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"tarjetas/internal/core"
	"tarjetas/internal/records"
)

type Store struct {
	db *sql.DB
}

var _ records.Store = (*Store)(nil)

// Open creates the database file if needed and migrates it.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Load(ctx context.Context) ([]core.Credit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT position, record FROM credits ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query credits: %w", err)
	}
	defer rows.Close()

	credits := []core.Credit{}
	for rows.Next() {
		var (
			position int
			record   string
		)
		if err := rows.Scan(&position, &record); err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		c, err := records.DecodeCredit([]byte(record))
		if err != nil {
			return nil, &records.MalformedRecordError{Line: position + 1, Err: err}
		}
		credits = append(credits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credits: %w", err)
	}
	return credits, nil
}

// Save replaces every row in one transaction.
func (s *Store) Save(ctx context.Context, credits []core.Credit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM credits`); err != nil {
		return fmt.Errorf("clear credits: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO credits (position, name, record) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range credits {
		data, err := records.EncodeCredit(c)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, i, c.Name, string(data)); err != nil {
			return fmt.Errorf("insert credit %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credits: %w", err)
	}
	slog.DebugContext(ctx, "Credits saved to SQLite", "credits", len(credits))
	return nil
}
