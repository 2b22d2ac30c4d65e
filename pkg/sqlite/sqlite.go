// Package sqlite wraps a single embedded SQLite connection behind a
// small, context-aware handle. Every operation issues one statement to
// the engine and returns its outcome directly; the engine below the
// handle performs all SQL execution, locking and file I/O.
package sqlite

import (
	"context"
	"database/sql"
	"net/url"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the database/sql driver
)

// Mode selects the access mode flags used when opening a database file.
type Mode string

const (
	// ModeReadWriteCreate opens the database read-write and creates the
	// file if it does not exist. This is the default.
	ModeReadWriteCreate Mode = "rwc"

	// ModeReadWrite opens the database read-write; the file must exist.
	ModeReadWrite Mode = "rw"

	// ModeReadOnly opens the database read-only; the file must exist.
	ModeReadOnly Mode = "ro"

	// ModeMemory opens a private in-memory database.
	ModeMemory Mode = "memory"
)

// MemoryFilename is the special designator for an in-memory database.
const MemoryFilename = ":memory:"

// DB is a handle owning exactly one underlying SQLite connection for
// its lifetime. Concurrent operations on the same handle are serialized
// by the engine, not by this layer. After Close the handle reports
// ErrNotOpen for every data operation.
type DB struct {
	db *sql.DB
}

type options struct {
	mode        Mode
	journalMode string
	busyTimeout time.Duration
	foreignKeys bool
}

// Option customizes Open.
type Option func(*options)

// WithMode sets the open-mode flags.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithJournalMode sets the journal mode pragma (e.g. "WAL").
func WithJournalMode(mode string) Option {
	return func(o *options) { o.journalMode = mode }
}

// WithBusyTimeout sets how long the engine waits on a locked database
// before reporting SQLITE_BUSY.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// WithForeignKeys enables foreign key enforcement.
func WithForeignKeys() Option {
	return func(o *options) { o.foreignKeys = true }
}

// Open constructs the underlying connection for filename and returns a
// handle wrapping it once the engine has actually opened the database.
// filename may be a file path or MemoryFilename. Engine errors are
// returned verbatim.
func Open(ctx context.Context, filename string, opts ...Option) (*DB, error) {
	o := options{mode: ModeReadWriteCreate}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite3", buildDSN(filename, o))
	if err != nil {
		return nil, err
	}

	// One connection per handle: the engine serializes everything that
	// runs against it (no pool, per the handle contract).
	db.SetMaxOpenConns(1)

	// sql.Open is lazy; Ping forces the engine to open the file now so
	// open failures surface here rather than on the first statement.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

// New wraps an already-open connection. The caller keeps responsibility
// for how that connection was configured.
func New(db *sql.DB) *DB {
	return &DB{db: db}
}

// SQLDB exposes the wrapped connection object directly so callers can
// reach engine capabilities this handle does not cover. Deliberate
// escape hatch; the wrapper is not meant to be exhaustive.
func (d *DB) SQLDB() *sql.DB {
	if d == nil {
		return nil
	}
	return d.db
}

// Close releases the underlying connection. Closing a handle that was
// never opened, or closing twice, is an immediate success.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// buildDSN renders filename and options into a sqlite3 driver DSN.
func buildDSN(filename string, o options) string {
	q := url.Values{}

	mode := o.mode
	if filename == MemoryFilename {
		mode = ModeMemory
	}
	if mode == ModeMemory && filename == "" {
		filename = MemoryFilename
	}
	q.Set("mode", string(mode))

	if o.journalMode != "" {
		q.Set("_journal_mode", o.journalMode)
	}
	if o.busyTimeout > 0 {
		q.Set("_busy_timeout", strconv.Itoa(int(o.busyTimeout/time.Millisecond)))
	}
	if o.foreignKeys {
		q.Set("_foreign_keys", "on")
	}

	return "file:" + filename + "?" + q.Encode()
}
