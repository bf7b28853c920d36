package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/errs"
)

type row struct {
	ID     string `json:"id" yaml:"id" table:"ID"`
	Risk   int    `json:"risk" yaml:"risk"`
	Secret string `json:"-" yaml:"-" table:"-"`
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format string
		want   Formatter
	}{
		{"", &TableFormatter{}},
		{"table", &TableFormatter{}},
		{"JSON", &JSONFormatter{}},
		{"yaml", &YAMLFormatter{}},
	}
	for _, tt := range tests {
		f, err := NewFormatter(tt.format)
		require.NoError(t, err)
		assert.IsType(t, tt.want, f)
	}

	_, err := NewFormatter("xml")
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestTableFormatter(t *testing.T) {
	out := (&TableFormatter{}).Format([]row{{"phishing_kit", 20, "x"}, {"bank_heist", 85, "y"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "RISK"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"phishing_kit", "20"}, strings.Fields(lines[1]))
	assert.NotContains(t, out, "SECRET")

	assert.Equal(t, "Nothing found.\n", (&TableFormatter{}).Format([]row{}))
	assert.Contains(t, (&TableFormatter{}).Format(row{ID: "a", Risk: 1}), "ID:")
}

func TestJSONAndYAML(t *testing.T) {
	data := []row{{ID: "a", Risk: 1}}
	assert.JSONEq(t, `[{"id":"a","risk":1}]`, (&JSONFormatter{}).Format(data))
	assert.Equal(t, "- id: a\n  risk: 1\n", (&YAMLFormatter{}).Format(data))
}
