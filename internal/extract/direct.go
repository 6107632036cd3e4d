package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageCount opens the document just far enough to learn its page count.
func pageCount(doc []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return r.NumPage(), nil
}

// directPages reads the embedded text layer of each selected page. A page
// whose text layer is absent or unreadable becomes an empty Page; the
// strategy itself only fails when the document cannot be opened at all.
func (e *Extractor) directPages(_ context.Context, doc []byte, pages []int) ([]Page, error) {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	out := make([]Page, 0, len(pages))
	for _, idx := range pages {
		p := r.Page(idx + 1) // ledongthuc/pdf pages are 1-based
		text := ""
		if !p.V.IsNull() {
			if t, err := p.GetPlainText(nil); err == nil {
				text = strings.TrimSpace(t)
			}
		}
		out = append(out, Page{
			Index:  idx,
			Text:   text,
			Method: MethodDirect,
			Empty:  text == "",
		})
	}
	return out, nil
}
