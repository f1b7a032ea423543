package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

const endOfDocument = "</DOC>"

// Scanner yields the documents of a gzipped corpus in corpus order.
//
//	s, err := corpus.NewScanner(f)
//	for s.Scan() {
//		doc := s.Document()
//	}
//	if err := s.Err(); err != nil { ... }
type Scanner struct {
	gz   *gzip.Reader
	r    *bufio.Reader
	doc  *Document
	err  error
	read int
}

// NewScanner wraps a gzip stream. It fails if the gzip header is unreadable.
func NewScanner(r io.Reader) (*Scanner, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrTruncatedCorpus, apperrors.ExitFailure,
			"opening gzip stream: %v", err)
	}
	return &Scanner{gz: gz, r: bufio.NewReaderSize(gz, 1<<16)}, nil
}

// Scan advances to the next document. It returns false at the end of the
// corpus or on error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	var raw strings.Builder
	for {
		line, err := s.r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimRight(line, "\r\n")
			raw.WriteString(line)
			raw.WriteByte('\n')
			if strings.Contains(line, endOfDocument) {
				s.doc = Parse(raw.String())
				s.read++
				return true
			}
		}
		if err == nil {
			continue
		}
		s.doc = nil
		switch {
		case errors.Is(err, io.EOF):
			if strings.TrimSpace(raw.String()) != "" {
				s.err = apperrors.Newf(apperrors.ErrTruncatedCorpus, apperrors.ExitFailure,
					"corpus ends inside document %d", s.read)
			} else {
				s.err = io.EOF
			}
		case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, gzip.ErrChecksum), errors.Is(err, gzip.ErrHeader):
			s.err = apperrors.Newf(apperrors.ErrTruncatedCorpus, apperrors.ExitFailure,
				"reading document %d: %v", s.read, err)
		default:
			s.err = fmt.Errorf("reading document %d: %w", s.read, err)
		}
		return false
	}
}

// Document returns the document found by the last successful Scan.
func (s *Scanner) Document() *Document {
	return s.doc
}

// Err returns the first non-EOF error encountered.
func (s *Scanner) Err() error {
	if errors.Is(s.err, io.EOF) {
		return nil
	}
	return s.err
}

// Count is the number of documents returned so far.
func (s *Scanner) Count() int {
	return s.read
}

func (s *Scanner) Close() error {
	return s.gz.Close()
}

// OpenFile opens a gzipped corpus on disk. Closing the returned Scanner
// does not close the file; the returned close func does both.
func OpenFile(path string) (*Scanner, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening corpus: %w", err)
	}
	s, err := NewScanner(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	closeAll := func() error {
		s.Close()
		return f.Close()
	}
	return s, closeAll, nil
}
