// Package corpus reads the gzipped LA Times SGML collection one document
// at a time and extracts the fields that are indexed.
package corpus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

var (
	docNoPattern    = regexp.MustCompile(`<DOCNO>(.+?)</DOCNO>`)
	headlinePattern = regexp.MustCompile(`(?s)<HEADLINE>(.*?)</HEADLINE>`)
	textPattern     = regexp.MustCompile(`(?s)<TEXT>(.*?)</TEXT>`)
	graphicPattern  = regexp.MustCompile(`(?s)<GRAPHIC>(.*?)</GRAPHIC>`)
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
)

// Document is one <DOC> element with its markup-free fields.
type Document struct {
	DocNo    string
	Headline string
	Text     string
	Graphic  string
	// Raw is the document exactly as read, one "\n" after every line.
	Raw string
}

// Parse extracts the fields of a raw document. Missing fields are empty.
func Parse(raw string) *Document {
	doc := &Document{Raw: raw}
	if m := docNoPattern.FindStringSubmatch(raw); m != nil {
		doc.DocNo = strings.Join(strings.Fields(m[1]), "")
	}
	doc.Headline = extract(headlinePattern, raw)
	doc.Text = extract(textPattern, raw)
	doc.Graphic = extract(graphicPattern, raw)
	return doc
}

func extract(pattern *regexp.Regexp, raw string) string {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	stripped := tagPattern.ReplaceAllString(m[1], "")
	return strings.Join(strings.Fields(stripped), " ")
}

// Tokens tokenizes headline, text and graphic independently and
// concatenates the results in that order.
func (d *Document) Tokens(t *tokenizer.Tokenizer) []string {
	tokens := t.AppendTokens(nil, d.Headline)
	tokens = t.AppendTokens(tokens, d.Text)
	return t.AppendTokens(tokens, d.Graphic)
}

// Date is the publication date encoded in a docno such as LA010189-0001
// (month, day, two-digit year).
type Date struct {
	Year  int
	Month time.Month
	Day   int

	yy, mm, dd string
}

// ParseDate decodes the MMDDYY code between the two-letter prefix and the
// dash of a docno. Years are in the 1900s.
func ParseDate(docNo string) (Date, error) {
	dash := strings.IndexByte(docNo, '-')
	if dash != 8 {
		return Date{}, apperrors.Newf(apperrors.ErrBadFormat, apperrors.ExitFailure,
			"docno %q does not carry an MMDDYY date code", docNo)
	}
	code := docNo[2:dash]
	mm, dd, yy := code[0:2], code[2:4], code[4:6]
	month, errM := strconv.Atoi(mm)
	day, errD := strconv.Atoi(dd)
	year, errY := strconv.Atoi(yy)
	if errM != nil || errD != nil || errY != nil || month < 1 || month > 12 || day < 1 || day > 31 || year < 0 {
		return Date{}, apperrors.Newf(apperrors.ErrBadFormat, apperrors.ExitFailure,
			"docno %q has invalid date code %q", docNo, code)
	}
	return Date{
		Year:  1900 + year,
		Month: time.Month(month),
		Day:   day,
		yy:    yy,
		mm:    mm,
		dd:    dd,
	}, nil
}

// String formats the date as "January 1, 1989".
func (d Date) String() string {
	return fmt.Sprintf("%s %d, %d", d.Month, d.Day, d.Year)
}

// PathElems returns the YY, MM and DD directory names used to file a
// document by date.
func (d Date) PathElems() (yy, mm, dd string) {
	return d.yy, d.mm, d.dd
}
