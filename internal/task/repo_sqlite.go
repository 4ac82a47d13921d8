package task

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"workplan/internal/model"
)

const schemaVersion = 1

// SQLiteRepo is a durable task repository backed by a single SQLite file.
// Each task row is written as one unit, so a task's edges and time entries
// can never be half-persisted.
type SQLiteRepo struct {
	mu sync.Mutex
	db *sql.DB
}

func NewSQLiteRepo(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func initSchema(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	status      TEXT NOT NULL,
	project     TEXT,
	assignee    TEXT,
	start_date  TEXT NOT NULL,
	data        TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project);
`
	if _, err := db.Exec(ddl); err != nil {
		return err
	}

	var version int
	err := db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion)
		return err
	case err != nil:
		return err
	case version > schemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion)
	default:
		return nil
	}
}

func (r *SQLiteRepo) writeTask(tx *sql.Tx, t model.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	var project sql.NullString
	if t.Project != nil {
		project = sql.NullString{String: *t.Project, Valid: true}
	}
	_, err = tx.Exec(`
INSERT INTO tasks (id, status, project, assignee, start_date, data, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	status = excluded.status,
	project = excluded.project,
	assignee = excluded.assignee,
	start_date = excluded.start_date,
	data = excluded.data,
	updated_at = excluded.updated_at`,
		string(t.ID), string(t.Status), project, t.Assignee,
		t.StartDate.UTC().Format(time.RFC3339Nano), string(data),
		t.UpdatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (r *SQLiteRepo) readTask(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, id model.TaskID) (model.Task, error) {
	var data string
	err := q.QueryRow(`SELECT data FROM tasks WHERE id = ?`, string(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	var t model.Task
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return model.Task{}, fmt.Errorf("decode task %s: %w", id, err)
	}
	normalizeTask(&t)
	return t, nil
}

func (r *SQLiteRepo) Create(t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if t.ID == "" {
		t.ID = newID()
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	normalizeTask(&t)

	tx, err := r.db.Begin()
	if err != nil {
		return model.Task{}, err
	}
	if err := r.writeTask(tx, t); err != nil {
		_ = tx.Rollback()
		return model.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *SQLiteRepo) Get(id model.TaskID) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readTask(r.db, id)
}

func (r *SQLiteRepo) Update(id model.TaskID, p Patch) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return model.Task{}, err
	}

	t, err := r.readTask(tx, id)
	if err != nil {
		_ = tx.Rollback()
		return model.Task{}, err
	}
	if err := applyPatch(&t, p); err != nil {
		_ = tx.Rollback()
		return model.Task{}, err
	}
	t.UpdatedAt = time.Now()
	normalizeTask(&t)

	if err := r.writeTask(tx, t); err != nil {
		_ = tx.Rollback()
		return model.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *SQLiteRepo) List(filter ListFilter) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT data FROM tasks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var t model.Task
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decode task row: %w", err)
		}
		normalizeTask(&t)
		if matchesFilter(t, filter) {
			out = append(out, t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *SQLiteRepo) Delete(id model.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`DELETE FROM tasks WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) AddTimeEntry(id model.TaskID, entry model.TimeEntry) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.DurationMinutes <= 0 {
		return model.Task{}, ErrInvalidInterval
	}

	tx, err := r.db.Begin()
	if err != nil {
		return model.Task{}, err
	}

	t, err := r.readTask(tx, id)
	if err != nil {
		_ = tx.Rollback()
		return model.Task{}, err
	}
	t.TimeEntries = append(t.TimeEntries, entry)
	t.UpdatedAt = time.Now()
	normalizeTask(&t)

	if err := r.writeTask(tx, t); err != nil {
		_ = tx.Rollback()
		return model.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}
