package loader

import (
	"math/big"
	"testing"

	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecordsInfersKinds(t *testing.T) {
	header := []string{"i", "f", "b", "s", "e"}
	records := [][]string{
		{"1", "1.5", "True", "x", ""},
		{" 2 ", "NA", "false", "y", "NaN"},
		{"", "3", "FALSE", "3", "null"},
	}
	tb, err := FromRecords("t", header, records)
	require.NoError(t, err)
	require.NoError(t, tb.Validate())

	want := map[string]table.Kind{
		"i": table.Int64, "f": table.Float64, "b": table.Boolean, "s": table.String, "e": table.Float64,
	}
	for name, kind := range want {
		assert.Equal(t, kind, tb.Column(name).Kind, name)
	}
	assert.Equal(t, []any{int64(1), int64(2), nil}, tb.Column("i").Values)
	assert.Equal(t, []any{1.5, nil, 3.0}, tb.Column("f").Values)
	assert.Equal(t, []any{true, false, false}, tb.Column("b").Values)
	assert.Equal(t, []any{"x", "y", "3"}, tb.Column("s").Values)
	assert.Equal(t, 3, tb.Column("e").NullCount())
}

func TestFromRecordsPadsShortRows(t *testing.T) {
	tb, err := FromRecords("t", []string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), nil}, tb.Column("b").Values)
}

func TestFromRecordsRejectsLongRows(t *testing.T) {
	_, err := FromRecords("t", []string{"a"}, [][]string{{"1", "2"}})
	assert.Error(t, err)
}

func TestFromRecordsDuplicateHeaders(t *testing.T) {
	tb, err := FromRecords("t", []string{"a", "a", "b", "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "b", "a.2"}, tb.Names())
	assert.Equal(t, 0, tb.Rows())
}

func TestFromValues(t *testing.T) {
	c := FromValues("n", []any{int32(1), 2.5, nil})
	assert.Equal(t, table.Float64, c.Kind)
	assert.Equal(t, []any{1.0, 2.5, nil}, c.Values)

	c = FromValues("s", []any{[]byte("a"), "b"})
	assert.Equal(t, table.String, c.Kind)
	assert.Equal(t, []any{"a", "b"}, c.Values)

	c = FromValues("m", []any{"a", int64(1)})
	assert.Equal(t, table.Opaque, c.Kind)

	c = FromValues("z", []any{nil, nil})
	assert.Equal(t, table.Float64, c.Kind)

	c = FromValues("big", []any{big.NewInt(7)})
	assert.Equal(t, table.Int64, c.Kind)
	assert.Equal(t, []any{int64(7)}, c.Values)
}

func TestPgValue(t *testing.T) {
	assert.Equal(t, 123.45, pgValue(pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}))
	assert.Equal(t, int64(12345), pgValue(pgtype.Numeric{Int: big.NewInt(12345), Valid: true}))
	assert.Nil(t, pgValue(pgtype.Numeric{}))

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, id.String(), pgValue([16]byte(id)))
	assert.Equal(t, "x", pgValue("x"))
	assert.Nil(t, pgValue(pgtype.Interval{}))
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter("a.csv", []byte("a;b;c\n1;2;3")))
	assert.Equal(t, '|', sniffDelimiter("a.txt", []byte("a|b\n")))
	assert.Equal(t, '\t', sniffDelimiter("a.tsv", []byte("a,b,c\n")))
	assert.Equal(t, ',', sniffDelimiter("a.csv", []byte("single\n")))
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "sales", tableName("/data/sales.csv.gz"))
	assert.Equal(t, "sales", tableName("sales.xlsx"))
}
