package segment

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

func sampleIndex(t *testing.T, stemmed bool) *index.Index {
	t.Helper()
	mi := index.NewMemoryIndex(stemmed)
	docs := []struct {
		docNo  string
		tokens []string
	}{
		{"LA010189-0001", []string{"cat", "dog", "cat"}},
		{"LA010189-0002", []string{"dog", "bird"}},
		{"LA010289-0001", nil},
	}
	for _, d := range docs {
		if _, err := mi.AddDocument(d.docNo, d.tokens); err != nil {
			t.Fatal(err)
		}
	}
	return mi.Snapshot()
}

func writeSample(t *testing.T, stemmed bool) (string, *index.Index) {
	t.Helper()
	dir := t.TempDir()
	idx := sampleIndex(t, stemmed)
	w := NewWriter(dir)
	w.now = func() time.Time { return time.Unix(600000000, 0) }
	path, err := w.Write(idx)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != filepath.Join(dir, FileName) {
		t.Errorf("path = %s", path)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
	return dir, idx
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir, want := writeSample(t, true)

	seg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := seg.Index
	if !got.Stemmed() {
		t.Error("stemmed flag lost")
	}
	if seg.Header.CreatedAt != 600000000 {
		t.Errorf("CreatedAt = %d", seg.Header.CreatedAt)
	}
	if diff := cmp.Diff(want.DocNos(), got.DocNos()); diff != "" {
		t.Errorf("docnos mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Lengths(), got.Lengths()); diff != "" {
		t.Errorf("lengths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Lexicon().Terms(), got.Lexicon().Terms()); diff != "" {
		t.Errorf("lexicon mismatch (-want +got):\n%s", diff)
	}
	for id := 0; id < want.NumTerms(); id++ {
		if diff := cmp.Diff(want.PostingsByID(id), got.PostingsByID(id)); diff != "" {
			t.Errorf("postings %d mismatch (-want +got):\n%s", id, diff)
		}
	}
	if seg.Footer.TotalPostings != 4 {
		t.Errorf("TotalPostings = %d", seg.Footer.TotalPostings)
	}
	if len(seg.Fingerprint) != 64 {
		t.Errorf("fingerprint %q is not a hex blake3 digest", seg.Fingerprint)
	}
}

func TestFingerprintIsStable(t *testing.T) {
	dirA, _ := writeSample(t, false)
	dirB, _ := writeSample(t, false)
	a, err := Load(dirA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(dirB)
	if err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint != b.Fingerprint {
		t.Error("identical indexes produced different fingerprints")
	}

	dirC, _ := writeSample(t, true)
	c, err := Load(dirC)
	if err != nil {
		t.Fatal(err)
	}
	if c.Fingerprint == a.Fingerprint {
		t.Error("stem flag did not change the fingerprint")
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	dir, _ := writeSample(t, false)
	original, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"truncated", func(b []byte) []byte { return b[:40] }},
		{"bad magic", func(b []byte) []byte { b[0] ^= 0xff; return b }},
		{"bad version", func(b []byte) []byte { b[4] = 9; return b }},
		{"flipped body byte", func(b []byte) []byte { b[HeaderSize+3] ^= 0x01; return b }},
		{"bad footer magic", func(b []byte) []byte { b[len(b)-FooterSize+24] ^= 0xff; return b }},
		{"count mismatch", func(b []byte) []byte { b[12]++; return b }},
		{"dropped footer", func(b []byte) []byte { return b[:len(b)-FooterSize] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(append([]byte(nil), original...))
			if _, err := Decode(data); !errors.Is(err, apperrors.ErrCorruptIndex) {
				t.Errorf("err = %v, want ErrCorruptIndex", err)
			}
		})
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error")
	}
}
