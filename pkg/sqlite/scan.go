package sqlite

// scan.go converts engine rows into Row maps and, for typed callers,
// into structs carrying `db` tags.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Row is one opaque record produced by a query. Column values arrive as
// the engine reports them, except []byte which is normalized to string.
type Row map[string]any

// Values is an ordered sequence of column values for the insertion
// builders; column order is implied and no column names are emitted.
type Values []any

// GetInto executes a query and scans the first row into dest, a non-nil
// pointer to a struct with `db` tags or to a Row. Returns sql.ErrNoRows
// when no row matched.
func (d *DB) GetInto(ctx context.Context, dest any, query string, args ...any) error {
	if d == nil || d.db == nil {
		return ErrNotOpen
	}
	rows, err := d.db.QueryContext(ctx, query, forwardArgs(args)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	return scanSingle(rows, cols, dest)
}

// AllInto executes a query and scans every row into dest, a non-nil
// pointer to a slice of structs or a slice of Row.
func (d *DB) AllInto(ctx context.Context, dest any, query string, args ...any) error {
	if d == nil || d.db == nil {
		return ErrNotOpen
	}
	rows, err := d.db.QueryContext(ctx, query, forwardArgs(args)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	return scanSlice(rows, dest)
}

func scanSlice(rows *sql.Rows, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("dest must be a non-nil pointer")
	}
	sliceVal := rv.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return errors.New("dest must be pointer to a slice")
	}
	elemType := sliceVal.Type().Elem()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		switch elemType.Kind() {
		case reflect.Map:
			row, err := scanRowMap(rows, cols)
			if err != nil {
				return err
			}
			sliceVal.Set(reflect.Append(sliceVal, reflect.ValueOf(row).Convert(elemType)))
		case reflect.Struct:
			itemPtr := reflect.New(elemType)
			if err := scanRowStruct(rows, cols, itemPtr.Elem()); err != nil {
				return err
			}
			sliceVal.Set(reflect.Append(sliceVal, itemPtr.Elem()))
		default:
			return fmt.Errorf("unsupported slice element type: %s", elemType.Kind())
		}
	}
	return rows.Err()
}

func scanSingle(rows *sql.Rows, cols []string, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("dest must be a non-nil pointer")
	}
	switch rv.Elem().Kind() {
	case reflect.Map:
		row, err := scanRowMap(rows, cols)
		if err != nil {
			return err
		}
		rv.Elem().Set(reflect.ValueOf(row).Convert(rv.Elem().Type()))
		return nil
	case reflect.Struct:
		return scanRowStruct(rows, cols, rv.Elem())
	default:
		return fmt.Errorf("unsupported dest kind: %s", rv.Elem().Kind())
	}
}

// scanRowMap scans the current cursor row into a Row.
func scanRowMap(rows *sql.Rows, cols []string) (Row, error) {
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	out := make(Row, len(cols))
	for i, c := range cols {
		out[c] = normalizeValue(raw[i])
	}
	return out, nil
}

// scanRowStruct scans the current cursor row into a struct by matching
// column names against `db` tags (field name fallback).
func scanRowStruct(rows *sql.Rows, cols []string, destStruct reflect.Value) error {
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return err
	}
	fieldIndex := buildFieldIndex(destStruct.Type())
	for i, c := range cols {
		idx, ok := fieldIndex[strings.ToLower(c)]
		if !ok {
			continue
		}
		field := destStruct.Field(idx)
		if !field.CanSet() {
			continue
		}
		if err := setFieldValue(field, raw[i]); err != nil {
			return fmt.Errorf("column %s: %w", c, err)
		}
	}
	return nil
}

func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func buildFieldIndex(t reflect.Type) map[string]int {
	m := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "-" {
			continue
		}
		col := strings.Split(tag, ",")[0]
		if col == "" {
			col = f.Name
		}
		m[strings.ToLower(col)] = i
	}
	return m
}

func setFieldValue(field reflect.Value, raw any) error {
	if raw == nil {
		// leave zero value
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		switch v := raw.(type) {
		case string:
			field.SetString(v)
		case []byte:
			field.SetString(string(v))
		default:
			field.SetString(fmt.Sprint(v))
		}
	case reflect.Bool:
		switch v := raw.(type) {
		case bool:
			field.SetBool(v)
		case int64:
			field.SetBool(v != 0)
		case []byte:
			s := string(v)
			field.SetBool(s == "1" || strings.EqualFold(s, "true"))
		default:
			field.SetBool(false)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := raw.(type) {
		case int64:
			field.SetInt(v)
		case []byte:
			var n int64
			fmt.Sscan(string(v), &n)
			field.SetInt(n)
		default:
			return fmt.Errorf("cannot convert %T to int", raw)
		}
	case reflect.Float32, reflect.Float64:
		switch v := raw.(type) {
		case float64:
			field.SetFloat(v)
		case []byte:
			var fv float64
			fmt.Sscan(string(v), &fv)
			field.SetFloat(fv)
		default:
			return fmt.Errorf("cannot convert %T to float", raw)
		}
	case reflect.Struct:
		if field.Type() == reflect.TypeOf(time.Time{}) {
			switch v := raw.(type) {
			case time.Time:
				field.Set(reflect.ValueOf(v))
			case []byte:
				if tt, err := time.Parse(time.RFC3339, string(v)); err == nil {
					field.Set(reflect.ValueOf(tt))
				}
			case string:
				if tt, err := time.Parse(time.RFC3339, v); err == nil {
					field.Set(reflect.ValueOf(tt))
				}
			}
			return nil
		}
		return fmt.Errorf("unsupported dest field type: %s", field.Type())
	default:
		return fmt.Errorf("unsupported dest field kind: %s", field.Kind())
	}
	return nil
}
