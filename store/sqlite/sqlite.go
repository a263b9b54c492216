/*
Package sqlite provides the SQLite-backed persistence collaborator.

PURPOSE:
  Stores the three inputs the engine consumes - punches, employee
  compensation profiles, tip records - and hands them back by employee and
  period. The engine itself never touches this package: the caller fetches,
  the engine computes.

APPEND-ONLY ENFORCEMENT:
  The punches table is append-only:
  - No UPDATE statements on punches
  - No DELETE statements on punches (outside full demo resets)
  - Corrections are superseding rows; a manager force clock-out is just
    another inserted ClockOut with the manager's chosen timestamp

KEY TABLES:
  punches:    Immutable clock events
  employees:  Directory rows with the compensation profile (JSON)
  tips:       Earned / paid-out records from the tip pool

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/punchclock.db")
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - payroll/assembler.go: Pure consumer of the fetched data
  - api/handlers.go: The fetch-then-compute call sites
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/punch-engine/factory"
	"github.com/warp/punch-engine/pay"
	"github.com/warp/punch-engine/punch"
)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and if needed creates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Punches (append-only)
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		at TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_punches_employee_at
		ON punches(employee_id, at);

	-- Employee directory with compensation profile
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		profile_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Tip records from the tip-pool collaborator
	CREATE TABLE IF NOT EXISTS tips (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		kind TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tips_employee_date
		ON tips(employee_id, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PUNCHES
// =============================================================================

// InsertPunch appends one clock event. Returns the row ID.
func (s *Store) InsertPunch(ctx context.Context, e punch.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO punches (id, employee_id, kind, at, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(e.EmployeeID), string(e.Kind),
		e.At.UTC().Format(time.RFC3339Nano), e.Note,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert punch: %w", err)
	}
	return id, nil
}

// ListPunches returns an employee's punches with at in [from, to], ordered
// by timestamp then insertion.
func (s *Store) ListPunches(ctx context.Context, employeeID punch.EmployeeID, from, to time.Time) ([]punch.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, kind, at, COALESCE(note, '')
		 FROM punches
		 WHERE employee_id = ? AND at >= ? AND at <= ?
		 ORDER BY at, rowid`,
		string(employeeID),
		from.UTC().Format(time.RFC3339Nano),
		to.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("list punches: %w", err)
	}
	defer rows.Close()

	var out []punch.Event
	for rows.Next() {
		var e punch.Event
		var empID, kind, at string
		if err := rows.Scan(&empID, &kind, &at, &e.Note); err != nil {
			return nil, fmt.Errorf("scan punch: %w", err)
		}
		e.EmployeeID = punch.EmployeeID(empID)
		e.Kind = punch.Kind(kind)
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("punch timestamp: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Employee is a directory row.
type Employee struct {
	ID      punch.EmployeeID
	Name    string
	Profile pay.Profile
}

// UpsertEmployee stores a directory row with its compensation profile.
func (s *Store) UpsertEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(factory.ToJSON(emp.Profile))
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, profile_json, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name,
		                               profile_json = excluded.profile_json`,
		string(emp.ID), emp.Name, string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert employee: %w", err)
	}
	return nil
}

// GetEmployee fetches one directory row.
func (s *Store) GetEmployee(ctx context.Context, id punch.EmployeeID) (Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var emp Employee
	var profileJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, profile_json FROM employees WHERE id = ?`,
		string(id),
	).Scan(&emp.ID, &emp.Name, &profileJSON)
	if err != nil {
		return Employee{}, fmt.Errorf("get employee %s: %w", id, err)
	}
	emp.Profile, err = factory.ParseProfile([]byte(profileJSON))
	if err != nil {
		return Employee{}, fmt.Errorf("employee %s profile: %w", id, err)
	}
	return emp, nil
}

// ListEmployees returns the whole directory, ordered by ID.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, profile_json FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		var profileJSON string
		if err := rows.Scan(&emp.ID, &emp.Name, &profileJSON); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		emp.Profile, err = factory.ParseProfile([]byte(profileJSON))
		if err != nil {
			return nil, fmt.Errorf("employee %s profile: %w", emp.ID, err)
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// =============================================================================
// TIPS
// =============================================================================

// InsertTip appends one tip record.
func (s *Store) InsertTip(ctx context.Context, r pay.TipRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tips (id, employee_id, date, amount_cents, kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(r.EmployeeID), r.Date.UTC().Format("2006-01-02"),
		r.AmountCents, string(r.Kind),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert tip: %w", err)
	}
	return id, nil
}

// ListTips returns an employee's tip records with date in [from, to].
func (s *Store) ListTips(ctx context.Context, employeeID punch.EmployeeID, from, to time.Time) ([]pay.TipRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, date, amount_cents, kind
		 FROM tips
		 WHERE employee_id = ? AND date >= ? AND date <= ?
		 ORDER BY date, rowid`,
		string(employeeID),
		from.UTC().Format("2006-01-02"),
		to.UTC().Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("list tips: %w", err)
	}
	defer rows.Close()

	var out []pay.TipRecord
	for rows.Next() {
		var r pay.TipRecord
		var empID, date, kind string
		if err := rows.Scan(&empID, &date, &r.AmountCents, &kind); err != nil {
			return nil, fmt.Errorf("scan tip: %w", err)
		}
		r.EmployeeID = punch.EmployeeID(empID)
		r.Kind = pay.TipKind(kind)
		r.Date, err = time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("tip date: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// RESET - Demo/dev only
// =============================================================================

// Reset clears all tables. Used by scenario loading; never by payroll runs.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM punches;
		DELETE FROM employees;
		DELETE FROM tips;
	`)
	return err
}
