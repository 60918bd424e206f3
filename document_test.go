package skemafile_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	skemafile "github.com/reoring/skemafile"
)

func TestDocument_InsertionOrderAndReplace(t *testing.T) {
	doc := skemafile.NewDocument()
	doc.Set("_version", 2)
	doc.Set("theme", "dark")
	doc.Set("fontSize", 16)
	doc.Set("theme", "light") // replace keeps position

	if diff := cmp.Diff([]string{"_version", "theme", "fontSize"}, doc.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, ok := doc.Get("theme"); !ok || v != "light" {
		t.Fatalf("replaced value not visible: %v %v", v, ok)
	}
	if doc.Len() != 3 {
		t.Fatalf("expected 3 keys, got %d", doc.Len())
	}
	if _, ok := doc.Get("missing"); ok {
		t.Fatalf("missing key must report false")
	}
}

func TestDocument_MarshalJSONKeepsOrder(t *testing.T) {
	doc := skemafile.NewDocument()
	doc.Set("_version", 1)
	doc.Set("zebra", true)
	doc.Set("alpha", []any{1, 2})

	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(b); got != `{"_version":1,"zebra":true,"alpha":[1,2]}` {
		t.Fatalf("order not preserved: %s", got)
	}
}

func TestDocument_MarshalYAMLKeepsOrder(t *testing.T) {
	doc := skemafile.NewDocument()
	doc.Set("_version", 1)
	doc.Set("zebra", "z")
	doc.Set("alpha", "a")

	b, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "_version:") || !strings.HasPrefix(lines[1], "zebra:") {
		t.Fatalf("order not preserved: %q", lines)
	}
}

func TestDocument_Map(t *testing.T) {
	doc := skemafile.NewDocument()
	doc.Set("a", 1)
	doc.Set("b", 2)
	want := map[string]any{"a": 1, "b": 2}
	if diff := cmp.Diff(want, doc.Map()); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}
