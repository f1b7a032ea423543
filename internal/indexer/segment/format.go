// Package segment persists an index.Index as a single versioned binary
// file and loads it back into memory.
package segment

const (
	MagicBytes       uint32 = 0x4C545258
	FooterMagicBytes uint32 = 0x5854524C
	FormatVersion    uint32 = 1
	HeaderSize       int    = 64
	FooterSize       int    = 32

	// FileName is the segment file inside an index directory.
	FileName = "index.seg"

	flagStemmed uint32 = 1 << 0
)

// Header is the fixed 64-byte prefix of a segment file.
type Header struct {
	Magic          uint32
	Version        uint32
	Flags          uint32
	DocCount       uint32
	TermCount      uint32
	CreatedAt      int64
	DocNoOffset    int64
	LexiconOffset  int64
	PostingsOffset int64
	LengthsOffset  int64
}

func (h Header) Stemmed() bool {
	return h.Flags&flagStemmed != 0
}

// Footer is the fixed 32-byte suffix of a segment file. Checksum covers
// every byte between the header and the footer.
type Footer struct {
	Checksum      uint32
	DocCount      uint32
	TermCount     uint32
	TotalPostings uint64
	Magic         uint32
}
