package skemafile

import "context"

// VersionKey is the reserved document field carrying the schema version in
// versioned mode. Domain schemas must not declare a field with this name.
const VersionKey = "_version"

// Schema validates untyped data into T and encodes T back into a plain value
// for serialization. Plain values are the generic JSON-like shapes a
// Serializer produces: nil, bool, numbers, string, map[string]any, []any.
type Schema[T any] interface {
	// Decode transforms an untyped input into T. It returns an error when
	// validation fails; the error should describe field-level issues.
	Decode(ctx context.Context, v any) (T, error)
	// Encode converts a typed value back into its plain representation.
	Encode(ctx context.Context, v T) (any, error)
}

// Serializer converts between a plain in-memory value and its text form.
// Implementations are format-specific and stateless.
type Serializer interface {
	// Parse decodes text into a plain value. It returns an error on
	// malformed input.
	Parse(text string) (any, error)
	// Stringify encodes a plain value into text. When compact is true the
	// output carries no structural whitespace; otherwise it is indented and
	// multi-line. Values may include *Document, which serializes its keys in
	// insertion order.
	Stringify(v any, compact bool) (string, error)
	// FormatName identifies the format in error messages (for example "json").
	FormatName() string
}

// Migration transforms a document from FromVersion to FromVersion+1. Schema
// validates the document at FromVersion before Migrate runs.
type Migration struct {
	FromVersion int
	Schema      Schema[any]
	Migrate     func(ctx context.Context, v any) (any, error)
}

// FileIO reads and writes UTF-8 text at a path. The default implementation is
// OS-backed with atomic writes; tests inject fakes.
type FileIO interface {
	ReadText(ctx context.Context, path string) (string, error)
	WriteText(ctx context.Context, path string, text string) error
}

// FixedDefault returns a factory yielding v, covering the fixed-value arm of
// the default union. Callers needing a fresh value per fallback supply their
// own factory instead.
func FixedDefault[T any](v T) func() T {
	return func() T { return v }
}
