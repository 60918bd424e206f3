// Package toml provides the TOML serializer backed by pelletier/go-toml/v2.
package toml

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	t "github.com/pelletier/go-toml/v2"

	skemafile "github.com/reoring/skemafile"
)

// New returns the TOML serializer. Compact mode emits sub-tables inline;
// block output is standard TOML. The top-level value must be a table.
func New() skemafile.Serializer { return serializer{} }

type serializer struct{}

func (serializer) Parse(text string) (any, error) {
	var v map[string]any
	if err := t.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return any(v), nil
}

func (s serializer) Stringify(v any, compact bool) (string, error) {
	if doc, ok := v.(*skemafile.Document); ok {
		return s.stringifyDoc(doc, compact)
	}
	if _, ok := v.(map[string]any); !ok {
		return "", fmt.Errorf("toml: top-level value must be a table, got %T", v)
	}
	return marshal(deepPlain(v), compact)
}

func (serializer) FormatName() string { return "toml" }

// stringifyDoc emits the document's keys in insertion order, one marshal per
// key. Scalar keys go first regardless of position: in TOML a key emitted
// after a table header would belong to that table.
func (s serializer) stringifyDoc(doc *skemafile.Document, compact bool) (string, error) {
	var scalars, tables []string
	for _, k := range doc.Keys() {
		v, _ := doc.Get(k)
		if isTable(v) {
			tables = append(tables, k)
		} else {
			scalars = append(scalars, k)
		}
	}
	var buf bytes.Buffer
	for _, k := range append(scalars, tables...) {
		v, _ := doc.Get(k)
		chunk, err := marshal(map[string]any{k: deepPlain(v)}, compact)
		if err != nil {
			return "", err
		}
		buf.WriteString(chunk)
	}
	return buf.String(), nil
}

func marshal(v any, compact bool) (string, error) {
	var buf bytes.Buffer
	enc := t.NewEncoder(&buf)
	if compact {
		enc.SetTablesInline(true)
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// deepPlain rewrites *Document values into plain maps and json.Number values
// into real numeric types so the encoder's reflection sees ordinary tables
// and numbers.
func deepPlain(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case *skemafile.Document:
		out := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			fv, _ := x.Get(k)
			out[k] = deepPlain(fv)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, fv := range x {
			out[k] = deepPlain(fv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, fv := range x {
			out[i] = deepPlain(fv)
		}
		return out
	default:
		return v
	}
}

func isTable(v any) bool {
	switch x := v.(type) {
	case map[string]any, *skemafile.Document:
		return true
	case []any:
		if len(x) == 0 {
			return false
		}
		return isTable(x[0])
	default:
		return false
	}
}
