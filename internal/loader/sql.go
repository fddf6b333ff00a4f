package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	_ "modernc.org/sqlite"
)

// ErrNoTable is returned when a relational source is given without a table name.
var ErrNoTable = errors.New("no table name given")

type postgresLoader struct{}

func (postgresLoader) CanLoad(src Source) bool {
	return strings.HasPrefix(src.DSN, "postgres://") || strings.HasPrefix(src.DSN, "postgresql://")
}

func (postgresLoader) Load(ctx context.Context, src Source) (*table.Table, error) {
	return LoadPostgres(ctx, src.DSN, src.Table)
}

// LoadPostgres reads a whole table. name may be schema qualified ("schema.table").
// Enum columns are stored as categorical columns.
func LoadPostgres(ctx context.Context, dsn, name string) (*table.Table, error) {
	if name == "" {
		return nil, ErrNoTable
	}
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	ident := pgx.Identifier(strings.Split(name, "."))
	rows, err := conn.Query(ctx, "SELECT * FROM "+ident.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([][]any, len(fields))
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			cols[i] = append(cols[i], pgValue(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	t := &table.Table{Name: name}
	typeMap := conn.TypeMap()
	for i, fd := range fields {
		vals := cols[i]
		if vals == nil {
			vals = []any{}
		}
		c := FromValues(fd.Name, vals)
		if _, known := typeMap.TypeForOID(fd.DataTypeOID); !known && c.Kind == table.String {
			c.Kind = table.Categorical
		}
		if fd.DataTypeOID == pgtype.TimestamptzOID {
			c.Zoned = true
		}
		t.Columns = append(t.Columns, c)
	}
	return t, nil
}

// pgValue maps pgx result values onto table cells.
func pgValue(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		if x.Exp >= 0 && x.Int != nil && x.Int.IsInt64() {
			if n, err := x.Int64Value(); err == nil && n.Valid {
				return n.Int64
			}
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(x).String()
	case time.Time:
		return x
	case pgtype.Time:
		if !x.Valid {
			return nil
		}
		return time.Duration(x.Microseconds * int64(time.Microsecond)).String()
	case pgtype.Interval:
		if !x.Valid {
			return nil
		}
		return fmt.Sprintf("%d months %d days %s", x.Months, x.Days, time.Duration(x.Microseconds*int64(time.Microsecond)))
	}
	return v
}

type sqliteLoader struct{}

func (sqliteLoader) CanLoad(src Source) bool {
	return src.DSN == "" && hasSuffix(src.Path, ".db", ".sqlite", ".sqlite3")
}

func (sqliteLoader) Load(ctx context.Context, src Source) (*table.Table, error) {
	return LoadSQLite(ctx, src.Path, src.Table)
}

// LoadSQLite reads a whole table from a SQLite database file.
func LoadSQLite(ctx context.Context, path, name string) (*table.Table, error) {
	if name == "" {
		return nil, ErrNoTable
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %q", name))
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	cols := make([][]any, len(names))
	for i := range cols {
		cols[i] = []any{}
	}
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			cols[i] = append(cols[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	t := &table.Table{Name: name}
	for i, n := range names {
		t.Columns = append(t.Columns, FromValues(n, cols[i]))
	}
	return t, nil
}
