package index

// Posting records how often a term occurs in one document.
type Posting struct {
	DocID     int `json:"d"`
	Frequency int `json:"f"`
}

// PostingList is ordered by ascending DocID.
type PostingList []Posting
