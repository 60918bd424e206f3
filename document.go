package skemafile

import (
	"bytes"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Document is an ordered key/value object used where serialized key order
// matters. Save relies on it so the version tag is always the first key in the
// output; plain map[string]any loses that guarantee.
type Document struct {
	keys   []string
	fields map[string]any
}

// NewDocument returns an empty ordered document.
func NewDocument() *Document {
	return &Document{fields: map[string]any{}}
}

// Set appends key with v, or replaces the value in place when key is already
// present.
func (d *Document) Set(key string, v any) {
	if _, ok := d.fields[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.fields[key] = v
}

// Get returns the value for key and whether it is present.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len reports the number of keys.
func (d *Document) Len() int { return len(d.keys) }

// Map returns the fields as a plain unordered map.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		out[k] = v
	}
	return out
}

// MarshalJSON emits the document as a JSON object with keys in insertion
// order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(d.fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits the document as a YAML mapping with keys in insertion
// order.
func (d *Document) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range d.keys {
		kn := &yaml.Node{}
		kn.SetString(k)
		vn := &yaml.Node{}
		if err := vn.Encode(d.fields[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, kn, vn)
	}
	return node, nil
}
