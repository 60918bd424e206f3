// Package jwcc provides a serializer for JSON with comments and trailing
// commas (JWCC, a.k.a. HuJSON). Input is standardized with tailscale/hujson
// before decoding; output is plain JSON, comments are not preserved.
package jwcc

import (
	"github.com/tailscale/hujson"

	skemafile "github.com/reoring/skemafile"
	"github.com/reoring/skemafile/format/json"
)

// New returns the JWCC serializer.
func New() skemafile.Serializer { return serializer{inner: json.New()} }

type serializer struct {
	inner skemafile.Serializer
}

func (s serializer) Parse(text string) (any, error) {
	// hujson requires line comments to be newline-terminated; a trailing
	// "// note" at EOF would otherwise fail to standardize.
	std, err := hujson.Standardize([]byte(text + "\n"))
	if err != nil {
		return nil, err
	}
	return s.inner.Parse(string(std))
}

func (s serializer) Stringify(v any, compact bool) (string, error) {
	return s.inner.Stringify(v, compact)
}

func (serializer) FormatName() string { return "jwcc" }
