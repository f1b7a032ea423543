package segment

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/lexicon"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

// Segment is a fully decoded segment file.
type Segment struct {
	Header      Header
	Footer      Footer
	Index       *index.Index
	Fingerprint string
}

// Load reads dir/index.seg into memory, validates it and decodes the index.
func Load(dir string) (*Segment, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading segment file: %w", err)
	}
	seg, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return seg, nil
}

// Decode validates and decodes an in-memory segment file.
func Decode(data []byte) (*Segment, error) {
	if len(data) < HeaderSize+FooterSize {
		return nil, corrupt("file of %d bytes is shorter than header and footer", len(data))
	}
	header := decodeHeader(data[:HeaderSize])
	if header.Magic != MagicBytes {
		return nil, corrupt("bad magic bytes %x", header.Magic)
	}
	if header.Version != FormatVersion {
		return nil, corrupt("unsupported version %d", header.Version)
	}
	footer := decodeFooter(data[len(data)-FooterSize:])
	if footer.Magic != FooterMagicBytes {
		return nil, corrupt("bad footer magic %x", footer.Magic)
	}
	if footer.DocCount != header.DocCount || footer.TermCount != header.TermCount {
		return nil, corrupt("header counts (%d docs, %d terms) disagree with footer (%d docs, %d terms)",
			header.DocCount, header.TermCount, footer.DocCount, footer.TermCount)
	}
	bodyEnd := int64(len(data) - FooterSize)
	if sum := crc32.ChecksumIEEE(data[HeaderSize:bodyEnd]); sum != footer.Checksum {
		return nil, corrupt("checksum mismatch: computed %08x, stored %08x", sum, footer.Checksum)
	}

	offsets := []int64{header.DocNoOffset, header.LexiconOffset, header.PostingsOffset, header.LengthsOffset, bodyEnd}
	prev := int64(HeaderSize)
	for _, off := range offsets {
		if off < prev || off > bodyEnd {
			return nil, corrupt("section offset %d out of order", off)
		}
		prev = off
	}

	docCount := int(header.DocCount)
	termCount := int(header.TermCount)

	dec := &decoder{data: data[:header.LexiconOffset], pos: header.DocNoOffset}
	docNos := make([]string, docCount)
	for i := range docNos {
		docNos[i] = dec.string()
	}
	if err := dec.finish("docno table"); err != nil {
		return nil, err
	}

	dec = &decoder{data: data[:header.PostingsOffset], pos: header.LexiconOffset}
	terms := make([]string, termCount)
	for i := range terms {
		terms[i] = dec.string()
	}
	if err := dec.finish("lexicon"); err != nil {
		return nil, err
	}
	lex, err := lexicon.FromTerms(terms)
	if err != nil {
		return nil, corrupt("lexicon: %v", err)
	}

	dec = &decoder{data: data[:header.LengthsOffset], pos: header.PostingsOffset}
	postings := make([]index.PostingList, termCount)
	var total uint64
	for termID := range postings {
		n := int(dec.uint32())
		if dec.err != nil {
			break
		}
		if remaining := len(dec.data) - int(dec.pos); n > remaining/8 {
			return nil, corrupt("postings for term %d claim %d entries", termID, n)
		}
		list := make(index.PostingList, n)
		for i := range list {
			list[i] = index.Posting{DocID: int(dec.uint32()), Frequency: int(dec.uint32())}
		}
		postings[termID] = list
		total += uint64(n)
	}
	if err := dec.finish("postings"); err != nil {
		return nil, err
	}
	if total != footer.TotalPostings {
		return nil, corrupt("decoded %d postings, footer records %d", total, footer.TotalPostings)
	}

	dec = &decoder{data: data[:bodyEnd], pos: header.LengthsOffset}
	lengths := make([]int, docCount)
	for i := range lengths {
		lengths[i] = int(dec.uint32())
	}
	if err := dec.finish("document lengths"); err != nil {
		return nil, err
	}

	idx, err := index.New(lex, postings, docNos, lengths, header.Stemmed())
	if err != nil {
		return nil, err
	}
	sum := blake3.Sum256(data)
	return &Segment{
		Header:      header,
		Footer:      footer,
		Index:       idx,
		Fingerprint: hex.EncodeToString(sum[:]),
	}, nil
}

func corrupt(format string, args ...any) error {
	return apperrors.Newf(apperrors.ErrCorruptIndex, apperrors.ExitFailure, format, args...)
}

func decodeHeader(b []byte) Header {
	return Header{
		Magic:          binary.LittleEndian.Uint32(b[0:4]),
		Version:        binary.LittleEndian.Uint32(b[4:8]),
		Flags:          binary.LittleEndian.Uint32(b[8:12]),
		DocCount:       binary.LittleEndian.Uint32(b[12:16]),
		TermCount:      binary.LittleEndian.Uint32(b[16:20]),
		CreatedAt:      int64(binary.LittleEndian.Uint64(b[24:32])),
		DocNoOffset:    int64(binary.LittleEndian.Uint64(b[32:40])),
		LexiconOffset:  int64(binary.LittleEndian.Uint64(b[40:48])),
		PostingsOffset: int64(binary.LittleEndian.Uint64(b[48:56])),
		LengthsOffset:  int64(binary.LittleEndian.Uint64(b[56:64])),
	}
}

func decodeFooter(b []byte) Footer {
	return Footer{
		Checksum:      binary.LittleEndian.Uint32(b[0:4]),
		DocCount:      binary.LittleEndian.Uint32(b[4:8]),
		TermCount:     binary.LittleEndian.Uint32(b[8:12]),
		TotalPostings: binary.LittleEndian.Uint64(b[16:24]),
		Magic:         binary.LittleEndian.Uint32(b[24:28]),
	}
}

// decoder reads one section. The first overrun is remembered and reported
// by finish.
type decoder struct {
	data []byte
	pos  int64
	err  error
}

func (d *decoder) take(n int64) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.pos+n > int64(len(d.data)) {
		d.err = fmt.Errorf("read of %d bytes at offset %d overruns section", n, d.pos)
		return nil
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

func (d *decoder) uint32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) string() string {
	b := d.take(2)
	if b == nil {
		return ""
	}
	return string(d.take(int64(binary.LittleEndian.Uint16(b))))
}

func (d *decoder) finish(section string) error {
	if d.err != nil {
		return corrupt("%s: %v", section, d.err)
	}
	if d.pos != int64(len(d.data)) {
		return corrupt("%s: %d trailing bytes", section, int64(len(d.data))-d.pos)
	}
	return nil
}

// Fingerprint hashes a segment file on disk without decoding it. It equals
// the Fingerprint that Load reports for the same file.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening segment file: %w", err)
	}
	defer f.Close()
	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing segment file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
