// Package goskemabind adapts goskema schemas and codecs to the skemafile
// Schema capability. Validation failures surface the original goskema.Issues
// as the error so callers keep JSON-Pointer level diagnostics.
package goskemabind

import (
	"bytes"
	"context"

	j "github.com/goccy/go-json"
	goskema "github.com/reoring/goskema"

	skemafile "github.com/reoring/skemafile"
)

// Schema adapts a goskema.Schema[T]. Decode delegates to Parse; Encode
// validates the typed value and projects it to its plain JSON-like form.
func Schema[T any](s goskema.Schema[T]) skemafile.Schema[T] {
	return schemaAdapter[T]{s: s}
}

type schemaAdapter[T any] struct {
	s goskema.Schema[T]
}

func (a schemaAdapter[T]) Decode(ctx context.Context, v any) (T, error) {
	return a.s.Parse(ctx, v)
}

func (a schemaAdapter[T]) Encode(ctx context.Context, v T) (any, error) {
	if err := a.s.ValidateValue(ctx, v); err != nil {
		return nil, err
	}
	return toPlain(v)
}

// Codec adapts a goskema.Codec whose wire side is an object. Encode goes
// through the codec, so wire-side transformations (renames, representation
// changes) apply on save as well as load.
func Codec[T any](c goskema.Codec[map[string]any, T]) skemafile.Schema[T] {
	return codecAdapter[T]{c: c}
}

type codecAdapter[T any] struct {
	c goskema.Codec[map[string]any, T]
}

func (a codecAdapter[T]) Decode(ctx context.Context, v any) (T, error) {
	wire, ok := v.(map[string]any)
	if !ok {
		var zero T
		return zero, goskema.Issues{goskema.Issue{
			Path: "/", Code: goskema.CodeInvalidType, Message: "expected object",
		}}
	}
	return a.c.Decode(ctx, wire)
}

func (a codecAdapter[T]) Encode(ctx context.Context, v T) (any, error) {
	wire, err := a.c.Encode(ctx, v)
	if err != nil {
		return nil, err
	}
	return any(wire), nil
}

// Step adapts an object schema for use as a migration step's source schema,
// which skemafile types as Schema[any].
func Step(s goskema.Schema[map[string]any]) skemafile.Schema[any] {
	return stepAdapter{s: s}
}

type stepAdapter struct {
	s goskema.Schema[map[string]any]
}

func (a stepAdapter) Decode(ctx context.Context, v any) (any, error) {
	m, err := a.s.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return any(m), nil
}

func (a stepAdapter) Encode(ctx context.Context, v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, goskema.Issues{goskema.Issue{
			Path: "/", Code: goskema.CodeInvalidType, Message: "expected object",
		}}
	}
	if err := a.s.ValidateValue(ctx, m); err != nil {
		return nil, err
	}
	return v, nil
}

// toPlain round-trips v through JSON so typed structs come back as the
// generic map/slice/json.Number shapes serializers expect.
func toPlain(v any) (any, error) {
	b, err := j.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
