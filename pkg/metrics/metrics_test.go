package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()
	a.DocsIndexedTotal.Add(3)

	families, err := b.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == "docs_indexed_total" && f.GetMetric()[0].GetCounter().GetValue() != 0 {
			t.Error("registries share state")
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.DocsIndexedTotal.Add(2)
	m.QueriesTotal.WithLabelValues("bm25", "hit").Inc()

	path := filepath.Join(t.TempDir(), "tools.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"docs_indexed_total 2", `queries_total{outcome="hit",retriever="bm25"} 1`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}

func TestWriteTextfileEmptyPath(t *testing.T) {
	if err := New().WriteTextfile(""); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}
