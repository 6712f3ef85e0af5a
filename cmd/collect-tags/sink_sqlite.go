package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// sqliteSink keeps the mapping in a single tags(tag, urls) table that is
// dropped and recreated on every Replace.
type sqliteSink struct {
	path string
}

func (s *sqliteSink) Name() string        { return sinkSQLite }
func (s *sqliteSink) Destination() string { return s.path }

func openSQLite(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql open failed for %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=DELETE;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode failed for %s: %w", path, err)
	}
	return db, nil
}

func (s *sqliteSink) Replace(ctx context.Context, tags tagURLs) error {
	db, err := openSQLite(s.path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin failed for %s: %w", s.path, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+tagsTable); err != nil {
		return fmt.Errorf("drop table failed for %s: %w", s.path, err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+tagsTable+` (tag TEXT PRIMARY KEY, urls TEXT)`); err != nil {
		return fmt.Errorf("create table failed for %s: %w", s.path, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+tagsTable+` (tag, urls) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, desc := range sortedKeys(tags) {
		if _, err := stmt.ExecContext(ctx, desc, joinURLs(tags[desc])); err != nil {
			return fmt.Errorf("insert %q failed for %s: %w", desc, s.path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed for %s: %w", s.path, err)
	}
	return nil
}

func (s *sqliteSink) Load(ctx context.Context) (tagURLs, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", s.path, err)
	}
	db, err := openSQLite(s.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT tag, urls FROM `+tagsTable+` ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("query failed for %s: %w", s.path, err)
	}
	defer rows.Close()

	out := make(tagURLs)
	for rows.Next() {
		var tag, urls string
		if err := rows.Scan(&tag, &urls); err != nil {
			return nil, err
		}
		out[tag] = splitURLs(urls)
	}
	return out, rows.Err()
}
