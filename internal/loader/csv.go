package loader

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var compressedSuffixes = []string{".gz", ".bz2", ".xz", ".zst"}

type csvLoader struct{}

func (csvLoader) CanLoad(src Source) bool {
	if src.Path == "" || src.DSN != "" {
		return false
	}
	name := trimCompression(src.Path)
	return hasSuffix(name, ".csv", ".tsv", ".txt", ".psv")
}

func (csvLoader) Load(_ context.Context, src Source) (*table.Table, error) {
	return LoadCSV(src.Path, src.Delimiter)
}

// LoadCSV reads a delimited file, transparently decompressing .gz, .bz2, .xz and
// .zst files. The first record is the header.
func LoadCSV(path string, delim rune) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	r, closeFn, err := decompress(f, path)
	if err != nil {
		return nil, err
	}
	if closeFn != nil {
		defer closeFn()
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if delim == 0 {
		delim = sniffDelimiter(trimCompression(path), data)
	}
	return ParseCSV(tableName(path), bytes.NewReader(data), delim)
}

// ParseCSV reads delimited records from r.
func ParseCSV(name string, r io.Reader, delim rune) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return FromRecords(name, header, records)
}

func decompress(r io.Reader, path string) (io.Reader, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return gz, gz.Close, nil
	case ".bz2":
		return bzip2.NewReader(r), nil, nil
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("create xz reader: %w", err)
		}
		return xr, nil, nil
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("create zstd reader: %w", err)
		}
		return dec, func() error { dec.Close(); return nil }, nil
	}
	return r, nil, nil
}

func trimCompression(path string) string {
	for _, s := range compressedSuffixes {
		if hasSuffix(path, s) {
			return path[:len(path)-len(s)]
		}
	}
	return path
}

// sniffDelimiter uses the extension for .tsv/.psv and otherwise picks the most
// frequent candidate in the header line, defaulting to a comma.
func sniffDelimiter(path string, data []byte) rune {
	switch {
	case hasSuffix(path, ".tsv"):
		return '\t'
	case hasSuffix(path, ".psv"):
		return '|'
	}
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestN := ',', 0
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}

func tableName(path string) string {
	base := filepath.Base(trimCompression(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
