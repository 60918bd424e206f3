// Package json provides the JSON serializer backed by goccy/go-json.
package json

import (
	"errors"
	"fmt"
	"io"
	"strings"

	j "github.com/goccy/go-json"

	skemafile "github.com/reoring/skemafile"
)

// New returns the JSON serializer. Numbers parse as json.Number to avoid
// precision loss on round trips.
func New() skemafile.Serializer { return serializer{} }

type serializer struct{}

func (serializer) Parse(text string) (any, error) {
	dec := j.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// A second decode must hit EOF, otherwise the input holds trailing data.
	var rest any
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func (serializer) Stringify(v any, compact bool) (string, error) {
	if compact {
		b, err := j.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func (serializer) FormatName() string { return "json" }
