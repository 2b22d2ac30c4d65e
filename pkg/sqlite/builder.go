package sqlite

// builder.go implements the convenience statement builders. They build
// SQL text and hand it to Run; on engine failure the insertion builders
// wrap the error together with the generated statement for diagnostics.

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// CreateTable builds and runs CREATE TABLE [IF NOT EXISTS] name (columns...).
// Each element of columns is one column definition, e.g.
// "id INTEGER PRIMARY KEY".
func (d *DB) CreateTable(ctx context.Context, name string, ifNotExists bool, columns ...string) error {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(name)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(")")
	_, err := d.Run(ctx, b.String())
	return err
}

// DropTable builds and runs DROP TABLE [IF EXISTS] name.
func (d *DB) DropTable(ctx context.Context, name string, ifExists bool) error {
	stmt := "DROP TABLE "
	if ifExists {
		stmt += "IF EXISTS "
	}
	stmt += name
	_, err := d.Run(ctx, stmt)
	return err
}

// Insert builds and runs a single-row INSERT. row is either a
// positional Values (column names omitted) or a named Row (column names
// emitted in ascending key order).
func (d *DB) Insert(ctx context.Context, table string, row any) (Result, error) {
	return d.insertRow(ctx, "INSERT", table, row)
}

// Replace is Insert with the REPLACE verb.
func (d *DB) Replace(ctx context.Context, table string, row any) (Result, error) {
	return d.insertRow(ctx, "REPLACE", table, row)
}

func (d *DB) insertRow(ctx context.Context, verb, table string, row any) (Result, error) {
	stmt, err := buildInsert(verb, table, row)
	if err != nil {
		return Result{}, err
	}
	res, err := d.Run(ctx, stmt)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", stmt, err)
	}
	return res, nil
}

// InsertMany builds and runs a single multi-row INSERT. With a non-empty
// columns list, named rows are projected in that column order (absent
// keys emit NULL) and positional rows are used as-is. Without columns,
// every row must be positional; named rows are rejected with
// ErrUnorderedRow rather than relying on unspecified map order.
func (d *DB) InsertMany(ctx context.Context, table string, columns []string, rows ...any) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrNoRows
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	if len(columns) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(columns, ", "))
		b.WriteString(")")
	}
	b.WriteString(" VALUES ")

	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		vals, err := rowValues(row, columns)
		if err != nil {
			return Result{}, err
		}
		writeTuple(&b, vals)
	}

	stmt := b.String()
	res, err := d.Run(ctx, stmt)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", stmt, err)
	}
	return res, nil
}

func buildInsert(verb, table string, row any) (string, error) {
	var b strings.Builder
	b.WriteString(verb)
	b.WriteString(" INTO ")
	b.WriteString(table)

	switch r := rowVariant(row).(type) {
	case Values:
		b.WriteString(" VALUES ")
		writeTuple(&b, r)
	case Row:
		keys := sortedKeys(r)
		b.WriteString(" (")
		b.WriteString(strings.Join(keys, ", "))
		b.WriteString(") VALUES ")
		vals := make(Values, len(keys))
		for i, k := range keys {
			vals[i] = r[k]
		}
		writeTuple(&b, vals)
	default:
		return "", ErrInvalidRow
	}
	return b.String(), nil
}

// rowValues resolves one InsertMany row into an ordered tuple.
func rowValues(row any, columns []string) (Values, error) {
	switch r := rowVariant(row).(type) {
	case Values:
		return r, nil
	case Row:
		if len(columns) == 0 {
			return nil, ErrUnorderedRow
		}
		vals := make(Values, len(columns))
		for i, c := range columns {
			vals[i] = r[c] // absent keys stay nil and emit NULL
		}
		return vals, nil
	default:
		return nil, ErrInvalidRow
	}
}

// rowVariant normalizes the accepted row shapes onto the two tagged
// variants: positional Values or named Row.
func rowVariant(row any) any {
	switch r := row.(type) {
	case Values:
		return r
	case []any:
		return Values(r)
	case Row:
		return r
	case map[string]any:
		return Row(r)
	default:
		return row
	}
}

func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeTuple(b *strings.Builder, vals Values) {
	b.WriteString("(")
	for i, v := range vals {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(literal(v))
	}
	b.WriteString(")")
}

// literal renders one value as a SQL literal: nil as NULL, strings
// single-quoted with '' escaping, everything else via its default
// textual form.
func literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(t, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(t), "'", "''") + "'"
	default:
		return fmt.Sprint(v)
	}
}
