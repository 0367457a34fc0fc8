// Package pdf reads page counts and a short text excerpt from uploaded PDFs.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const excerptRunes = 500

type Info struct {
	Pages   int    `json:"pages"`
	Excerpt string `json:"excerpt"`
}

// IsPDF sniffs the magic header.
func IsPDF(data []byte) bool { return bytes.HasPrefix(data, []byte("%PDF-")) }

// Inspect parses data and extracts text until the excerpt is full. Pages
// whose text cannot be extracted are skipped.
func Inspect(data []byte) (info Info, err error) {
	// the parser panics on some malformed object streams
	defer func() {
		if p := recover(); p != nil {
			info, err = Info{}, fmt.Errorf("pdf: malformed: %v", p)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("pdf: read: %w", err)
	}
	info = Info{Pages: r.NumPage()}

	var b strings.Builder
	for n := 1; n <= info.Pages && utf8.RuneCountInString(b.String()) < excerptRunes; n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte(' ')
	}
	info.Excerpt = excerpt(b.String(), excerptRunes)
	return info, nil
}

// excerpt collapses whitespace and cuts at max runes.
func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
