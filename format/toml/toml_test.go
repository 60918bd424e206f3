package toml_test

import (
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	skemafile "github.com/reoring/skemafile"
	tomlformat "github.com/reoring/skemafile/format/toml"
)

func TestParse(t *testing.T) {
	ser := tomlformat.New()
	v, err := ser.Parse("theme = \"dark\"\nfontSize = 16\n")
	require.NoError(t, err)

	obj, ok := v.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "dark", obj["theme"])
	require.Equal(t, int64(16), obj["fontSize"])
}

func TestParse_Malformed(t *testing.T) {
	_, err := tomlformat.New().Parse("theme = ")
	require.Error(t, err)
}

func TestStringify_DocumentVersionFirst(t *testing.T) {
	ser := tomlformat.New()
	doc := skemafile.NewDocument()
	doc.Set("_version", 2)
	doc.Set("theme", "dark")
	doc.Set("editor", map[string]any{"tabWidth": int64(4)})

	out, err := ser.Stringify(doc, false)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.True(t, strings.HasPrefix(lines[0], "_version"), "version tag first: %q", out)
	// The table section must come after the scalar keys.
	require.Less(t, strings.Index(out, "theme"), strings.Index(out, "[editor]"))
}

func TestStringify_ScalarsBeforeTablesRegardlessOfOrder(t *testing.T) {
	ser := tomlformat.New()
	doc := skemafile.NewDocument()
	doc.Set("_version", 1)
	doc.Set("editor", map[string]any{"tabWidth": int64(4)})
	doc.Set("theme", "dark")

	out, err := ser.Stringify(doc, false)
	require.NoError(t, err)
	// theme would be swallowed by [editor] if emitted after it.
	require.Less(t, strings.Index(out, "theme"), strings.Index(out, "[editor]"))

	v, err := ser.Parse(out)
	require.NoError(t, err)
	obj := v.(map[string]any)
	require.Equal(t, "dark", obj["theme"])
	require.Equal(t, map[string]any{"tabWidth": int64(4)}, obj["editor"])
}

func TestStringify_CompactInlinesTables(t *testing.T) {
	ser := tomlformat.New()
	v := map[string]any{"theme": "dark", "editor": map[string]any{"tabWidth": int64(4)}}

	compact, err := ser.Stringify(v, true)
	require.NoError(t, err)
	require.NotContains(t, compact, "[editor]")
	require.Contains(t, compact, "editor = {")

	block, err := ser.Stringify(v, false)
	require.NoError(t, err)
	require.Contains(t, block, "[editor]")
}

func TestStringify_JSONNumbersStayNumeric(t *testing.T) {
	ser := tomlformat.New()
	out, err := ser.Stringify(map[string]any{"fontSize": gojson.Number("16")}, false)
	require.NoError(t, err)
	require.Contains(t, out, "fontSize = 16")
	require.NotContains(t, out, `'16'`)
	require.NotContains(t, out, `"16"`)
}

func TestStringify_RejectsNonTable(t *testing.T) {
	_, err := tomlformat.New().Stringify([]any{1, 2}, false)
	require.ErrorContains(t, err, "top-level value must be a table")
}

func TestRoundTrip(t *testing.T) {
	ser := tomlformat.New()
	v, err := ser.Parse("theme = \"dark\"\n\n[editor]\ntabWidth = 4\n")
	require.NoError(t, err)
	out, err := ser.Stringify(v, false)
	require.NoError(t, err)
	v2, err := ser.Parse(out)
	require.NoError(t, err)
	require.Equal(t, v, v2)
}

func TestFormatName(t *testing.T) {
	require.Equal(t, "toml", tomlformat.New().FormatName())
}
