// Package yaml provides the YAML serializer backed by gopkg.in/yaml.v3.
package yaml

import (
	"bytes"

	json "github.com/goccy/go-json"
	y "gopkg.in/yaml.v3"

	skemafile "github.com/reoring/skemafile"
)

// New returns the YAML serializer. Compact mode emits flow style (single
// line); otherwise output is block style with two-space indentation.
func New() skemafile.Serializer { return serializer{} }

type serializer struct{}

func (serializer) Parse(text string) (any, error) {
	var v any
	if err := y.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (serializer) Stringify(v any, compact bool) (string, error) {
	node := &y.Node{}
	if err := node.Encode(plainNumbers(v)); err != nil {
		return "", err
	}
	if compact {
		setFlow(node)
	}
	var buf bytes.Buffer
	enc := y.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (serializer) FormatName() string { return "yaml" }

// plainNumbers rewrites json.Number values (untyped strings to the YAML
// encoder) into real numeric types before encoding.
func plainNumbers(v any) any {
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
		out := skemafile.NewDocument()
		for _, k := range x.Keys() {
			fv, _ := x.Get(k)
			out.Set(k, plainNumbers(fv))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, fv := range x {
			out[k] = plainNumbers(fv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, fv := range x {
			out[i] = plainNumbers(fv)
		}
		return out
	default:
		return v
	}
}

// setFlow forces flow style on every collection node so the document
// serializes without structural line breaks.
func setFlow(n *y.Node) {
	if n.Kind == y.MappingNode || n.Kind == y.SequenceNode {
		n.Style = y.FlowStyle
	}
	for _, c := range n.Content {
		setFlow(c)
	}
}
