// Package loader materializes a table from a delimited file, a spreadsheet or a
// relational table.
package loader

import (
	"context"
	"errors"
	"strings"

	"github.com/KaramelBytes/edaclean/internal/table"
)

// Source selects what to load.
type Source struct {
	// Path is a file path, or a database file for SQLite sources.
	Path string
	// DSN is a Postgres connection string (postgres:// or postgresql://).
	DSN string
	// Table names the relational table to read.
	Table string
	// Sheet names the spreadsheet tab; empty means the first sheet.
	Sheet string
	// Delimiter for delimited files. If 0, auto-detects among ',', ';', '\t', '|'.
	Delimiter rune
}

// String describes the source for logs and errors.
func (s Source) String() string {
	switch {
	case s.DSN != "" && s.Table != "":
		return "postgres:" + s.Table
	case s.DSN != "":
		return "postgres"
	case s.Table != "":
		return s.Path + ":" + s.Table
	}
	return s.Path
}

// Loader defines a source reader implementation.
type Loader interface {
	CanLoad(src Source) bool
	Load(ctx context.Context, src Source) (*table.Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no loader accepts the source.
var ErrUnsupported = errors.New("unsupported source format")

// Load selects a loader for src and reads the table. Every failure is returned as
// a *LoadError; a nil table is never returned without an error.
func Load(ctx context.Context, src Source) (*table.Table, error) {
	for _, l := range registry {
		if !l.CanLoad(src) {
			continue
		}
		t, err := l.Load(ctx, src)
		if err != nil {
			return nil, &LoadError{Source: src.String(), Err: err}
		}
		if err := t.Validate(); err != nil {
			return nil, &LoadError{Source: src.String(), Err: err}
		}
		return t, nil
	}
	return nil, &LoadError{Source: src.String(), Err: ErrUnsupported}
}

func init() {
	Register(postgresLoader{})
	Register(sqliteLoader{})
	Register(xlsxLoader{})
	Register(csvLoader{})
}

// hasSuffix reports whether name ends with any of the suffixes, ignoring case.
func hasSuffix(name string, suffixes ...string) bool {
	n := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(n, s) {
			return true
		}
	}
	return false
}
