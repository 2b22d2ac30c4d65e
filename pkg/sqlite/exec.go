package sqlite

// exec.go implements the data operations of the handle: Run, Get, All,
// Each and Exec. Each operation hands one statement to the engine and
// forwards the engine's outcome verbatim.

import (
	"context"
	"database/sql"
	"sort"
	"strings"
)

// Result describes the effect of a non-row-returning statement as
// reported by the engine's execution context.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Run executes a statement expected to produce no row output (DDL,
// INSERT, UPDATE, DELETE) and returns the engine's result descriptor.
func (d *DB) Run(ctx context.Context, query string, args ...any) (Result, error) {
	if d == nil || d.db == nil {
		return Result{}, ErrNotOpen
	}
	res, err := d.db.ExecContext(ctx, query, forwardArgs(args)...)
	if err != nil {
		return Result{}, err
	}
	// The sqlite3 driver never fails these accessors for a completed
	// statement.
	id, _ := res.LastInsertId()
	n, _ := res.RowsAffected()
	return Result{LastInsertID: id, RowsAffected: n}, nil
}

// Get executes a statement expected to produce at most one row of
// interest. It returns (nil, nil) when no row matched.
func (d *DB) Get(ctx context.Context, query string, args ...any) (Row, error) {
	if d == nil || d.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := d.db.QueryContext(ctx, query, forwardArgs(args)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	return scanRowMap(rows, cols)
}

// All executes a statement and materializes every matching row, in the
// order the engine produces them.
func (d *DB) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	if d == nil || d.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := d.db.QueryContext(ctx, query, forwardArgs(args)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		row, err := scanRowMap(rows, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Each executes a statement and invokes fn once per produced row, in
// production order, without materializing the result set. It returns
// the number of rows delivered once the cursor is exhausted. An error
// returned by fn aborts delivery and becomes the operation's error; no
// further invocations occur. A nil fn fails before any engine call.
func (d *DB) Each(ctx context.Context, query string, args []any, fn func(Row) error) (int, error) {
	if fn == nil {
		return 0, ErrMissingCallback
	}
	if d == nil || d.db == nil {
		return 0, ErrNotOpen
	}
	rows, err := d.db.QueryContext(ctx, query, forwardArgs(args)...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	count := 0
	for rows.Next() {
		row, err := scanRowMap(rows, cols)
		if err != nil {
			return count, err
		}
		if err := fn(row); err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}

// Exec executes a string of one or more semicolon-separated statements
// with no parameter binding and no row output.
func (d *DB) Exec(ctx context.Context, script string) error {
	if d == nil || d.db == nil {
		return ErrNotOpen
	}
	// Without bind arguments the sqlite3 driver runs every statement in
	// the script.
	_, err := d.db.ExecContext(ctx, script)
	return err
}

// forwardArgs applies the parameter-forwarding rule: a single []any
// argument is forwarded positionally, a single map argument is
// forwarded as named parameters, anything else is passed through in
// order. Values are never validated or coerced.
func forwardArgs(args []any) []any {
	if len(args) != 1 {
		return args
	}
	switch v := args[0].(type) {
	case []any:
		return v
	case Values:
		return v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		named := make([]any, 0, len(v))
		for _, k := range keys {
			// Accept the engine's placeholder sigils in map keys.
			named = append(named, sql.Named(strings.TrimLeft(k, ":@$"), v[k]))
		}
		return named
	case Row:
		return forwardArgs([]any{map[string]any(v)})
	}
	return args
}
