package skemafile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Config bundles everything a Store closes over. Schema and Serializer are
// required; the rest is optional.
type Config[T any] struct {
	// Schema validates loaded documents and encodes values for saving. It is
	// bound to the current version's shape.
	Schema Schema[T]
	// Default, when set, is invoked fresh per failed load and its result
	// returned instead of the error. Use FixedDefault for a constant value.
	Default func() T
	// Version enables versioned mode when > 0: documents carry a VersionKey
	// field and may be migrated on load. Zero means unversioned.
	Version int
	// Migrations is the unordered set of steps from older formats to the
	// current one. Non-empty chains require Version and must cover exactly
	// 1..Version-1.
	Migrations []Migration
	// Serializer converts documents to and from text. See format/.
	Serializer Serializer
	// FS overrides file access; defaults to the OS-backed implementation.
	FS FileIO
	// Logger receives debug events per pipeline stage. Nil disables logging.
	Logger *zerolog.Logger
}

// LoadOpt adjusts a single Load call. The last option wins.
type LoadOpt struct {
	// Strict disables the default fallback: the classified error is returned
	// even when Config.Default is set.
	Strict bool
}

// SaveOpt adjusts a single Save call. The last option wins.
type SaveOpt struct {
	// Compact emits output without structural whitespace.
	Compact bool
}

// Store persists schema-validated values of type T to text files. A Store is
// stateless across calls and safe for concurrent use as long as the
// caller-supplied default factory is.
type Store[T any] struct {
	schema    Schema[T]
	defaultFn func() T
	version   int
	chain     []Migration
	ser       Serializer
	fs        FileIO
	log       zerolog.Logger
}

// New validates the configuration and returns a configured Store. Chain
// misconfiguration fails here, never at load time.
func New[T any](cfg Config[T]) (*Store[T], error) {
	if cfg.Schema == nil {
		return nil, errors.New("skemafile: Config.Schema is required")
	}
	if cfg.Serializer == nil {
		return nil, errors.New("skemafile: Config.Serializer is required (see format/)")
	}
	if cfg.Version < 0 {
		return nil, fmt.Errorf("skemafile: Config.Version must be a positive integer, got %d", cfg.Version)
	}
	chain, err := buildChain(cfg.Migrations, cfg.Version)
	if err != nil {
		return nil, err
	}
	fs := cfg.FS
	if fs == nil {
		fs = OSFileIO()
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Store[T]{
		schema:    cfg.Schema,
		defaultFn: cfg.Default,
		version:   cfg.Version,
		chain:     chain,
		ser:       cfg.Serializer,
		fs:        fs,
		log:       log,
	}, nil
}

// MustNew is like New but panics on configuration errors.
func MustNew[T any](cfg Config[T]) *Store[T] {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Store[T]) versioned() bool { return s.version > 0 }

// Load reads, parses, migrates, and validates the document at path. On any
// classified failure it resolves to the configured default unless the option
// is strict or no default exists, in which case the error propagates.
func (s *Store[T]) Load(ctx context.Context, path string, opts ...LoadOpt) (T, error) {
	var opt LoadOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	v, err := s.load(ctx, path)
	if err == nil {
		return v, nil
	}
	if opt.Strict || s.defaultFn == nil {
		var zero T
		return zero, err
	}
	s.log.Debug().Str("path", path).Str("kind", string(KindOf(err))).Err(err).
		Msg("load failed; falling back to default")
	return s.defaultFn(), nil
}

func (s *Store[T]) load(ctx context.Context, path string) (T, error) {
	var zero T
	text, err := s.fs.ReadText(ctx, path)
	if err != nil {
		return zero, wrapErrorf(KindFileRead, err, "read %s: %v", path, err)
	}
	raw, err := s.ser.Parse(text)
	if err != nil {
		return zero, wrapErrorf(KindInvalidFormat, err, "parse %s as %s: %v", path, s.ser.FormatName(), err)
	}
	payload := raw
	if s.versioned() {
		fileVersion, stripped, err := s.extractVersion(raw)
		if err != nil {
			return zero, err
		}
		payload = stripped
		if fileVersion < s.version {
			s.log.Debug().Str("path", path).Int("from", fileVersion).Int("to", s.version).
				Msg("migrating document")
			payload, err = s.runMigrations(ctx, payload, fileVersion)
			if err != nil {
				return zero, err
			}
		}
	}
	v, err := s.schema.Decode(ctx, payload)
	if err != nil {
		return zero, wrapErrorf(KindValidation, err, "validate %s: %v", path, err)
	}
	return v, nil
}

// extractVersion pulls the version tag out of a parsed document and returns
// the tag alongside the domain payload with the tag removed.
func (s *Store[T]) extractVersion(raw any) (int, any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return 0, nil, newErrorf(KindInvalidVersion, "document is missing the %s field", VersionKey)
	}
	field, present := obj[VersionKey]
	if !present {
		return 0, nil, newErrorf(KindInvalidVersion, "document is missing the %s field", VersionKey)
	}
	ver, ok := versionOf(field)
	if !ok {
		return 0, nil, newErrorf(KindInvalidVersion, "document has an invalid %s field: %v", VersionKey, field)
	}
	if ver > int64(s.version) {
		return 0, nil, newErrorf(KindUnsupportedVersion, "document version %d exceeds the schema version %d", ver, s.version)
	}
	payload := make(map[string]any, len(obj)-1)
	for k, v := range obj {
		if k != VersionKey {
			payload[k] = v
		}
	}
	return int(ver), payload, nil
}

// versionOf normalizes the numeric representations serializers produce for the
// version tag. Non-integral and non-positive values are rejected; positive
// integers keep their full 64-bit magnitude so callers can classify a version
// far beyond the schema version as a future file rather than a malformed one.
func versionOf(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), n > 0
	case int64:
		return n, n > 0
	case uint64:
		return int64(n), n > 0 && n <= math.MaxInt64
	case float64:
		if n != math.Trunc(n) || n <= 0 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, i > 0
	default:
		return 0, false
	}
}

// Save encodes v, tags it with the current version when versioned, and writes
// the serialized text to path. Failures always propagate; the default
// fallback applies only to Load.
func (s *Store[T]) Save(ctx context.Context, v T, path string, opts ...SaveOpt) error {
	var opt SaveOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	encoded, err := s.schema.Encode(ctx, v)
	if err != nil {
		return wrapErrorf(KindEncoding, err, "encode for %s: %v", path, err)
	}
	out := encoded
	if s.versioned() {
		out = s.tagVersion(encoded)
	}
	text, err := s.ser.Stringify(out, opt.Compact)
	if err != nil {
		return wrapErrorf(KindEncoding, err, "stringify as %s: %v", s.ser.FormatName(), err)
	}
	if err := s.fs.WriteText(ctx, path, text); err != nil {
		return wrapErrorf(KindFileWrite, err, "write %s: %v", path, err)
	}
	s.log.Debug().Str("path", path).Bool("compact", opt.Compact).Msg("saved document")
	return nil
}

// tagVersion wraps the encoded value into an ordered document with the
// version tag as the first key. Non-object encodings get the tag alone; that
// is a safety net, object schemas are the contract.
func (s *Store[T]) tagVersion(encoded any) *Document {
	doc := NewDocument()
	doc.Set(VersionKey, s.version)
	switch fields := encoded.(type) {
	case *Document:
		for _, k := range fields.Keys() {
			if k == VersionKey {
				continue
			}
			v, _ := fields.Get(k)
			doc.Set(k, v)
		}
	case map[string]any:
		keys := make([]string, 0, len(fields))
		for k := range fields {
			if k != VersionKey {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			doc.Set(k, fields[k])
		}
	}
	return doc
}
