package grid

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite" // SQLite driver
)

// Options controls how a grid file is opened.
type Options struct {
	ReadOnly    bool          // reject writes; take a shared lock
	LockTimeout time.Duration // how long to wait for the grid lock
}

// SQLiteStore implements Store on a single SQLite database file.
// It holds the grid lock from OpenSQLite until Close.
type SQLiteStore struct {
	mu       sync.RWMutex
	db       *sql.DB
	path     string
	readOnly bool
	lock     *flock.Flock
}

// OpenSQLite locks and opens the grid database at path, creating it unless
// opts.ReadOnly is set.
func OpenSQLite(ctx context.Context, path string, opts Options) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("grid path is required")
	}
	if opts.ReadOnly {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open grid: %w", err)
		}
	}

	lock, err := acquireLock(path, opts.ReadOnly, opts.LockTimeout)
	if err != nil {
		return nil, err
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if opts.ReadOnly {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=query_only(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if !opts.ReadOnly {
		if err := InitSchema(ctx, db); err != nil {
			db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return &SQLiteStore{
		db:       db,
		path:     path,
		readOnly: opts.ReadOnly,
		lock:     lock,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Get returns the value at path.
func (s *SQLiteStore) Get(ctx context.Context, path string) (Value, error) {
	p, err := cleanPath(path)
	if err != nil {
		return Value{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return Value{}, fmt.Errorf("get %s: %w", p, ErrClosed)
	}

	var kind, data string
	err = s.db.QueryRowContext(ctx, `SELECT kind, data FROM entries WHERE path = ?`, p).Scan(&kind, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Value{}, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return Value{}, fmt.Errorf("failed to read %s: %w", p, err)
	}
	v, err := decodeValue(Kind(kind), data)
	if err != nil {
		return Value{}, fmt.Errorf("failed to decode %s: %w", p, err)
	}
	return v, nil
}

// Set upserts v at path.
func (s *SQLiteStore) Set(ctx context.Context, path string, v Value) error {
	p, err := cleanPath(path)
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}
	if s.readOnly {
		return fmt.Errorf("set %s: %w", p, ErrReadOnly)
	}
	data, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", p, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("set %s: %w", p, ErrClosed)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries (path, kind, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind = excluded.kind,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		p, string(v.Kind), data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return nil
}

// Has reports whether path holds a value.
func (s *SQLiteStore) Has(ctx context.Context, path string) (bool, error) {
	p, err := cleanPath(path)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return false, fmt.Errorf("has %s: %w", p, ErrClosed)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE path = ?`, p).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query %s: %w", p, err)
	}
	return count > 0, nil
}

// List returns the immediate children of prefix.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	base := strings.Trim(prefix, "/")

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, fmt.Errorf("list %q: %w", base, ErrClosed)
	}

	var rows *sql.Rows
	var err error
	if base == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT path FROM entries`)
	} else {
		// '0' sorts right after '/', so this range is exactly the paths below base/.
		rows, err = s.db.QueryContext(ctx,
			`SELECT path FROM entries WHERE path >= ? AND path < ?`, base+"/", base+"0")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", base, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", base, err)
	}
	return childNames(paths, base), nil
}

// Close closes the database and releases the grid lock.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
		s.db = nil
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release grid lock: %w", err))
		}
		s.lock = nil
	}
	return errors.Join(errs...)
}

func encodeValue(v Value) (string, error) {
	var payload any
	switch v.Kind {
	case KindScalar:
		payload = v.Floats[0]
	case KindFloats:
		if v.Floats == nil {
			payload = []float64{}
		} else {
			payload = v.Floats
		}
	case KindStrings:
		if v.Strings == nil {
			payload = []string{}
		} else {
			payload = v.Strings
		}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeValue(kind Kind, data string) (Value, error) {
	switch kind {
	case KindScalar:
		var f float64
		if err := json.Unmarshal([]byte(data), &f); err != nil {
			return Value{}, err
		}
		return Scalar(f), nil
	case KindFloats:
		var xs []float64
		if err := json.Unmarshal([]byte(data), &xs); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindFloats, Floats: xs}, nil
	case KindStrings:
		var ss []string
		if err := json.Unmarshal([]byte(data), &ss); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindStrings, Strings: ss}, nil
	default:
		return Value{}, fmt.Errorf("unknown value kind %q", kind)
	}
}
