package reminder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// dueLayout is the persisted wire format for instants: UTC, minute
// resolution. Seconds are dropped on write and never come back.
const dueLayout = "2006-01-02 15:04"

// Store owns the durable reminder collection. Every read-modify-write
// cycle runs under one mutex, so a command append can never race a
// scheduler tick's save into last-writer-wins data loss.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (or creates) the SQLite database at dbPath and ensures
// the reminders table exists. A fresh database is an empty collection,
// not an error.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id             TEXT PRIMARY KEY,
			owner          TEXT NOT NULL,
			body           TEXT NOT NULL,
			due_at         TEXT NOT NULL,
			recurrence     TEXT,
			notify_offsets TEXT NOT NULL DEFAULT '[]',
			created_at     TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns all reminders in insertion order.
func (s *Store) Load() ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save atomically replaces the durable collection with rs. A concurrent
// Load sees either the old contents or the new, never a partial write.
func (s *Store) Save(rs []Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(rs)
}

// AppendOne adds a single reminder to the collection.
func (s *Store) AppendOne(r Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO reminders (id, owner, body, due_at, recurrence, notify_offsets, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, insertArgs(r)...)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// RemoveWhere deletes every reminder matching pred as one
// read-modify-write cycle and returns how many were removed.
func (s *Store) RemoveWhere(pred func(Reminder) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.loadLocked()
	if err != nil {
		return 0, err
	}

	kept := rs[:0:0]
	removed := 0
	for _, r := range rs {
		if pred(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.saveLocked(kept)
}

// UpdateWhere applies mutate to every reminder matching pred as one
// read-modify-write cycle and returns how many were changed.
func (s *Store) UpdateWhere(pred func(Reminder) bool, mutate func(*Reminder)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.loadLocked()
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range rs {
		if pred(rs[i]) {
			mutate(&rs[i])
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	return updated, s.saveLocked(rs)
}

func (s *Store) loadLocked() ([]Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, owner, body, due_at, recurrence, notify_offsets, created_at
		FROM reminders ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	defer rows.Close()

	var rs []Reminder
	for rows.Next() {
		var (
			r          Reminder
			dueAt      string
			recurrence sql.NullString
			offsets    string
			createdAt  string
		)
		if err := rows.Scan(&r.ID, &r.Owner, &r.Text, &dueAt, &recurrence, &offsets, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		r.DueAt, err = time.ParseInLocation(dueLayout, dueAt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("corrupt due_at %q for reminder %s: %w", dueAt, r.ID, err)
		}
		r.Recurrence = recurrence.String
		if err := json.Unmarshal([]byte(offsets), &r.NotifyOffsets); err != nil {
			return nil, fmt.Errorf("corrupt notify_offsets for reminder %s: %w", r.ID, err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		rs = append(rs, r)
	}
	return rs, rows.Err()
}

// saveLocked replaces the whole table inside one transaction, keeping
// slice order as insertion order.
func (s *Store) saveLocked(rs []Reminder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reminders`); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}
	for _, r := range rs {
		if _, err := tx.Exec(`
			INSERT INTO reminders (id, owner, body, due_at, recurrence, notify_offsets, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, insertArgs(r)...); err != nil {
			return fmt.Errorf("failed to write reminder %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

func insertArgs(r Reminder) []interface{} {
	offsets := r.NotifyOffsets
	if offsets == nil {
		offsets = []int{}
	}
	encoded, _ := json.Marshal(offsets)

	var recurrence sql.NullString
	if r.Recurrence != RepeatNone {
		recurrence = sql.NullString{String: r.Recurrence, Valid: true}
	}

	return []interface{}{
		r.ID,
		r.Owner,
		r.Text,
		r.DueAt.UTC().Format(dueLayout),
		recurrence,
		string(encoded),
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
