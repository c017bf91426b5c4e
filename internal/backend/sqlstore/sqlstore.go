// Package sqlstore implements service.Service on a MySQL table.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-sql-driver/mysql"

	"anto/internal/task"
)

const createTable = `CREATE TABLE IF NOT EXISTS tasks (
    id VARCHAR(64) PRIMARY KEY,
    position BIGINT NOT NULL,
    description TEXT NOT NULL,
    done BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    KEY idx_position (position)
)`

// ErrNotFound is returned when the row behind an index no longer exists.
var ErrNotFound = errors.New("task row not found")

// Store keeps tasks in the MySQL table "tasks", ordered by position.
// ids[i] is the primary key of the task at index i.
type Store struct {
	db      *sql.DB
	ids     []string
	nextPos int64
	logger  *log.Logger
}

// Open connects to dsn and creates the tasks table if needed.
func Open(ctx context.Context, dsn string, logger *log.Logger) (*Store, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tasks table: %w", err)
	}

	logger.Debug("connected to mysql", "addr", cfg.Addr, "db", cfg.DBName)
	return &Store{db: db, logger: logger}, nil
}

// Load implements service.Service.
func (s *Store) Load(ctx context.Context) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, position, description, done FROM tasks ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var ids []string
	var result []*task.Task
	var maxPos int64
	for rows.Next() {
		var t task.Task
		var pos int64
		if err := rows.Scan(&t.ID, &pos, &t.Description, &t.Done); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if pos > maxPos {
			maxPos = pos
		}
		ids = append(ids, t.ID)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	s.ids = ids
	s.nextPos = maxPos + 1
	s.logger.Debug("loaded mysql tasks", "count", len(result))
	if result == nil {
		result = []*task.Task{}
	}
	return result, nil
}

// Append implements tasklist.Storage.
func (s *Store) Append(ctx context.Context, t *task.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, position, description, done) VALUES (?, ?, ?, ?)`,
		t.ID, s.nextPos, t.Description, t.Done)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	s.ids = append(s.ids, t.ID)
	s.nextPos++
	return nil
}

// MarkDone implements tasklist.Storage.
func (s *Store) MarkDone(ctx context.Context, index int) error {
	return s.setDone(ctx, index, true)
}

// Unmark implements tasklist.Storage.
func (s *Store) Unmark(ctx context.Context, index int) error {
	return s.setDone(ctx, index, false)
}

// Delete implements tasklist.Storage.
func (s *Store) Delete(ctx context.Context, index int) error {
	id, err := s.idAt(index)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.ids = append(s.ids[:index], s.ids[index+1:]...)
	return nil
}

// Close implements service.Service.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) setDone(ctx context.Context, index int, done bool) error {
	id, err := s.idAt(index)
	if err != nil {
		return err
	}
	// Unchanged rows report zero affected rows, so existence is checked
	// separately.
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to look up task: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE tasks SET done = ? WHERE id = ?`, done, id); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (s *Store) idAt(index int) (string, error) {
	if index < 0 || index >= len(s.ids) {
		return "", fmt.Errorf("no stored task at index %d", index)
	}
	return s.ids[index], nil
}
