package clean_test

import (
	"regexp"
	"testing"

	"github.com/KaramelBytes/edaclean/internal/clean"
	"github.com/KaramelBytes/edaclean/internal/logging"
	"github.com/KaramelBytes/edaclean/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  id", "id"},
		{"i$d", "id"},
		{"cit--y", "cit__y"},
		{"First Name", "first_name"},
		{"Total (USD)", "total_usd"},
		{"Café", "cafe"},
		{"already_ok_1", "already_ok_1"},
		{"a - b", "a___b"},
		{"%%%", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, clean.NormalizeName(c.in), "input %q", c.in)
	}
}

func TestNormalizeNameAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9_]*$`)
	inputs := []string{"Ünïcödé Name", "tab\there", "QTY#", "日本語", "x.y.z", "  MiXeD-Case  ", "ø-æ-å"}
	for _, in := range inputs {
		got := clean.NormalizeName(in)
		assert.Regexp(t, valid, got, "input %q", in)
		assert.Equal(t, got, clean.NormalizeName(got), "idempotent for %q", in)
	}
}

func TestNormalizeNamesCollisions(t *testing.T) {
	tb := table.New("t",
		table.NewColumn("A", table.Int64, []any{int64(1)}),
		table.NewColumn("a", table.Int64, []any{int64(2)}),
		table.NewColumn("a ", table.Int64, []any{int64(3)}),
		table.NewColumn("$$", table.Int64, []any{int64(4)}),
	)
	renames := clean.NormalizeNames(tb, logging.Discard())
	assert.Equal(t, []string{"a", "a__2", "a__3", "unnamed"}, tb.Names())
	require.NoError(t, tb.Validate())
	assert.Contains(t, renames, clean.Rename{From: "A", To: "a"})
	assert.NotContains(t, renames, clean.Rename{From: "a", To: "a"})
}

func TestIsIdentifier(t *testing.T) {
	yes := []string{"id", "user_id", "id_user", "numid", "order_id_2", "valid"}
	no := []string{"idea", "identity", "name", "width_px", "ids", ""}
	for _, n := range yes {
		assert.True(t, clean.IsIdentifier(n), n)
	}
	for _, n := range no {
		assert.False(t, clean.IsIdentifier(n), n)
	}
}
