package segment

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/index"
)

// Writer serialises an index.Index into a segment file.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a Writer that writes index.seg into dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Write atomically creates the segment file. It writes to a .tmp file
// first and renames on success. It returns the final path.
func (w *Writer) Write(idx *index.Index) (string, error) {
	if idx.NumDocs() > math.MaxUint32 || idx.NumTerms() > math.MaxUint32 {
		return "", fmt.Errorf("index too large for segment format: %d docs, %d terms", idx.NumDocs(), idx.NumTerms())
	}
	finalPath := filepath.Join(w.dir, FileName)
	tmpPath := finalPath + ".tmp"

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating index directory: %w", err)
	}
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("creating temp segment file: %w", err)
	}
	defer f.Close()

	headerBytes := make([]byte, HeaderSize)
	if _, err := f.Write(headerBytes); err != nil {
		return "", fmt.Errorf("writing header placeholder: %w", err)
	}

	body := newBodyWriter(f, int64(HeaderSize))
	header := Header{
		Magic:     MagicBytes,
		Version:   FormatVersion,
		DocCount:  uint32(idx.NumDocs()),
		TermCount: uint32(idx.NumTerms()),
		CreatedAt: w.now().Unix(),
	}
	if idx.Stemmed() {
		header.Flags |= flagStemmed
	}

	header.DocNoOffset = body.offset
	for _, docNo := range idx.DocNos() {
		if err := body.putString(docNo); err != nil {
			return "", fmt.Errorf("writing docno %q: %w", docNo, err)
		}
	}

	header.LexiconOffset = body.offset
	for _, term := range idx.Lexicon().Terms() {
		if err := body.putString(term); err != nil {
			return "", fmt.Errorf("writing term %q: %w", term, err)
		}
	}

	header.PostingsOffset = body.offset
	var totalPostings uint64
	for termID := 0; termID < idx.NumTerms(); termID++ {
		list := idx.PostingsByID(termID)
		body.putUint32(uint32(len(list)))
		for _, p := range list {
			body.putUint32(uint32(p.DocID))
			body.putUint32(uint32(p.Frequency))
		}
		totalPostings += uint64(len(list))
	}

	header.LengthsOffset = body.offset
	for _, length := range idx.Lengths() {
		body.putUint32(uint32(length))
	}
	if err := body.flush(); err != nil {
		return "", fmt.Errorf("writing segment body: %w", err)
	}

	footer := Footer{
		Checksum:      body.crc.Sum32(),
		DocCount:      header.DocCount,
		TermCount:     header.TermCount,
		TotalPostings: totalPostings,
		Magic:         FooterMagicBytes,
	}
	if _, err := f.Write(encodeFooter(footer)); err != nil {
		return "", fmt.Errorf("writing footer: %w", err)
	}
	encodeHeader(headerBytes, header)
	if _, err := f.WriteAt(headerBytes, 0); err != nil {
		return "", fmt.Errorf("updating header: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("syncing segment file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing segment file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("renaming segment file: %w", err)
	}
	return finalPath, nil
}

// bodyWriter tracks the file offset and checksum of everything written
// between header and footer. Write errors are sticky and surface on flush.
type bodyWriter struct {
	buf     *bufio.Writer
	crc     hash.Hash32
	offset  int64
	err     error
	scratch [4]byte
}

func newBodyWriter(w io.Writer, start int64) *bodyWriter {
	crc := crc32.NewIEEE()
	return &bodyWriter{
		buf:    bufio.NewWriterSize(io.MultiWriter(w, crc), 1<<20),
		crc:    crc,
		offset: start,
	}
}

func (b *bodyWriter) write(p []byte) {
	if b.err != nil {
		return
	}
	n, err := b.buf.Write(p)
	b.offset += int64(n)
	b.err = err
}

func (b *bodyWriter) putUint32(v uint32) {
	binary.LittleEndian.PutUint32(b.scratch[:], v)
	b.write(b.scratch[:4])
}

func (b *bodyWriter) putString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string of %d bytes exceeds u16 length prefix", len(s))
	}
	binary.LittleEndian.PutUint16(b.scratch[:2], uint16(len(s)))
	b.write(b.scratch[:2])
	b.write([]byte(s))
	return nil
}

func (b *bodyWriter) flush() error {
	if b.err != nil {
		return b.err
	}
	return b.buf.Flush()
}

func encodeHeader(dst []byte, h Header) {
	binary.LittleEndian.PutUint32(dst[0:4], h.Magic)
	binary.LittleEndian.PutUint32(dst[4:8], h.Version)
	binary.LittleEndian.PutUint32(dst[8:12], h.Flags)
	binary.LittleEndian.PutUint32(dst[12:16], h.DocCount)
	binary.LittleEndian.PutUint32(dst[16:20], h.TermCount)
	binary.LittleEndian.PutUint64(dst[24:32], uint64(h.CreatedAt))
	binary.LittleEndian.PutUint64(dst[32:40], uint64(h.DocNoOffset))
	binary.LittleEndian.PutUint64(dst[40:48], uint64(h.LexiconOffset))
	binary.LittleEndian.PutUint64(dst[48:56], uint64(h.PostingsOffset))
	binary.LittleEndian.PutUint64(dst[56:64], uint64(h.LengthsOffset))
}

func encodeFooter(f Footer) []byte {
	out := make([]byte, FooterSize)
	binary.LittleEndian.PutUint32(out[0:4], f.Checksum)
	binary.LittleEndian.PutUint32(out[4:8], f.DocCount)
	binary.LittleEndian.PutUint32(out[8:12], f.TermCount)
	binary.LittleEndian.PutUint64(out[16:24], f.TotalPostings)
	binary.LittleEndian.PutUint32(out[24:28], f.Magic)
	return out
}
