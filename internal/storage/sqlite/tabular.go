package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/tuskmem/pkg/sqlite"
)

// Table is the content of one database table flattened into text rows.
type Table struct {
	Name    string
	Columns []string
	Schema  string
	Rows    []string
}

// ReadFirstTable opens the database read-only and returns its first user
// table with every row formatted as "col: value, col: value".
func ReadFirstTable(ctx context.Context, path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	db, err := sql.Open(sqlite.DriverName, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var name string
	err = db.QueryRowContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY rowid
		LIMIT 1
	`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("find table: %w", err)
	}

	t := &Table{Name: name}
	if err := t.readSchema(ctx, db); err != nil {
		return nil, err
	}
	if err := t.readRows(ctx, db); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) readSchema(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT name, type FROM pragma_table_info(?)`, t.Name)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	defer rows.Close()

	var parts []string
	for rows.Next() {
		var col, typ string
		if err := rows.Scan(&col, &typ); err != nil {
			return err
		}
		t.Columns = append(t.Columns, col)
		parts = append(parts, strings.TrimSpace(col+" "+typ))
	}
	t.Schema = strings.Join(parts, ", ")
	return rows.Err()
}

func (t *Table) readRows(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(t.Name))
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		fields := make([]string, len(cols))
		for i, c := range cols {
			fields[i] = c + ": " + formatValue(vals[i])
		}
		t.Rows = append(t.Rows, strings.Join(fields, ", "))
	}
	return rows.Err()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
