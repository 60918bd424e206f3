package skemafile_test

import (
	"context"
	"strings"
	"testing"

	skemafile "github.com/reoring/skemafile"
	jsonformat "github.com/reoring/skemafile/format/json"
)

func step(from int) skemafile.Migration {
	return skemafile.Migration{
		FromVersion: from,
		Schema:      anyMapSchema{},
		Migrate:     func(_ context.Context, v any) (any, error) { return v, nil },
	}
}

func TestNew_ChainValidation(t *testing.T) {
	cases := []struct {
		name      string
		version   int
		steps     []skemafile.Migration
		wantErr   string
		wantNoErr bool
	}{
		{name: "unversioned no migrations", version: 0, wantNoErr: true},
		{name: "versioned no migrations", version: 1, wantNoErr: true},
		{name: "contiguous chain", version: 3, steps: []skemafile.Migration{step(1), step(2)}, wantNoErr: true},
		{name: "unsorted input is sorted", version: 4, steps: []skemafile.Migration{step(3), step(1), step(2)}, wantNoErr: true},
		{name: "gap", version: 4, steps: []skemafile.Migration{step(1), step(3)}, wantErr: "contiguous"},
		{name: "duplicate", version: 3, steps: []skemafile.Migration{step(1), step(1)}, wantErr: "contiguous"},
		{name: "starts above one", version: 3, steps: []skemafile.Migration{step(2)}, wantErr: "contiguous"},
		{name: "zero source version", version: 2, steps: []skemafile.Migration{step(0)}, wantErr: "contiguous"},
		{name: "version required", version: 0, steps: []skemafile.Migration{step(1)}, wantErr: "Version is required"},
		{name: "short chain", version: 3, steps: []skemafile.Migration{step(1)}, wantErr: "terminate"},
		{name: "chain reaches current version", version: 3, steps: []skemafile.Migration{step(1), step(2), step(3)}, wantErr: "terminate"},
		{name: "negative version", version: -1, wantErr: "positive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := skemafile.New(skemafile.Config[prefs]{
				Schema:     prefsSchema{},
				Version:    tc.version,
				Migrations: tc.steps,
				Serializer: jsonformat.New(),
				FS:         newMemFS(),
			})
			if tc.wantNoErr {
				if err != nil {
					t.Fatalf("expected construction to succeed, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected construction to fail")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNew_RejectsIncompleteSteps(t *testing.T) {
	base := skemafile.Config[prefs]{
		Schema:     prefsSchema{},
		Version:    2,
		Serializer: jsonformat.New(),
	}

	cfg := base
	cfg.Migrations = []skemafile.Migration{{
		FromVersion: 1,
		Migrate:     func(_ context.Context, v any) (any, error) { return v, nil },
	}}
	if _, err := skemafile.New(cfg); err == nil || !strings.Contains(err.Error(), "no schema") {
		t.Fatalf("expected missing schema error, got %v", err)
	}

	cfg = base
	cfg.Migrations = []skemafile.Migration{{FromVersion: 1, Schema: anyMapSchema{}}}
	if _, err := skemafile.New(cfg); err == nil || !strings.Contains(err.Error(), "no migrate function") {
		t.Fatalf("expected missing migrate error, got %v", err)
	}
}

func TestNew_RequiresSchemaAndSerializer(t *testing.T) {
	if _, err := skemafile.New(skemafile.Config[prefs]{Serializer: jsonformat.New()}); err == nil {
		t.Fatalf("expected error for missing schema")
	}
	if _, err := skemafile.New(skemafile.Config[prefs]{Schema: prefsSchema{}}); err == nil {
		t.Fatalf("expected error for missing serializer")
	}
}

func TestMustNew_PanicsOnMisconfiguredChain(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	skemafile.MustNew(skemafile.Config[prefs]{
		Schema:     prefsSchema{},
		Version:    4,
		Migrations: []skemafile.Migration{step(1), step(3)},
		Serializer: jsonformat.New(),
	})
}
