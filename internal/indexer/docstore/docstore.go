// Package docstore files one text record per indexed document under
// docs/YY/MM/DD/<docno>.txt so documents can be fetched without the corpus.
package docstore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/corpus"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

const dirName = "docs"

// Record is the metadata stored alongside a document's raw markup.
type Record struct {
	DocNo    string
	ID       int
	Date     corpus.Date
	Headline string
	Raw      string
}

// Store reads and writes records below an index directory.
type Store struct {
	root string
}

func New(indexDir string) *Store {
	return &Store{root: filepath.Join(indexDir, dirName)}
}

// Path is where the record of docNo lives.
func (s *Store) Path(docNo string) (string, error) {
	date, err := corpus.ParseDate(docNo)
	if err != nil {
		return "", err
	}
	yy, mm, dd := date.PathElems()
	return filepath.Join(s.root, yy, mm, dd, docNo+".txt"), nil
}

// Put writes rec, creating its date directories.
func (s *Store) Put(rec Record) error {
	path, err := s.Path(rec.DocNo)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating record directory for %s: %w", rec.DocNo, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating record %s: %w", rec.DocNo, err)
	}
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "docno: %s\n", rec.DocNo)
	fmt.Fprintf(w, "internal id: %d\n", rec.ID)
	fmt.Fprintf(w, "date: %s\n", rec.Date)
	fmt.Fprintf(w, "headline: %s\n", rec.Headline)
	fmt.Fprintf(w, "raw document: \n%s\n", rec.Raw)
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing record %s: %w", rec.DocNo, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing record %s: %w", rec.DocNo, err)
	}
	return nil
}

// Get returns the stored record text of docNo.
func (s *Store) Get(docNo string) (string, error) {
	path, err := s.Path(docNo)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperrors.Newf(apperrors.ErrNotFound, apperrors.ExitFailure, "no stored document %s", docNo)
	}
	if err != nil {
		return "", fmt.Errorf("reading record %s: %w", docNo, err)
	}
	return string(data), nil
}

// DocNoResolver maps internal ids to docnos; *index.Index implements it.
type DocNoResolver interface {
	DocNo(docID int) (string, error)
}

// GetByID resolves an internal id through ids and returns the record.
func (s *Store) GetByID(ids DocNoResolver, docID int) (string, error) {
	docNo, err := ids.DocNo(docID)
	if err != nil {
		return "", err
	}
	return s.Get(docNo)
}
