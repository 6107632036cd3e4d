package extract

import "context"

// Extraction methods reported to callers.
const (
	MethodDirect = "direct"
	MethodOCR    = "ocr"
)

// Request describes one extraction call. Ephemeral, created per call.
type Request struct {
	Document  []byte // raw PDF bytes
	PageRange string // "1-3,5,7-9"; empty = all pages
	ForceOCR  bool   // skip the direct strategy
}

// Page is one extracted page block.
type Page struct {
	Index  int    // zero-based page index in the source document
	Text   string // raw text, trimmed; "" when nothing was found
	Method string // MethodDirect | MethodOCR
	Empty  bool
}

// Result is the converged output of whichever strategy succeeded.
type Result struct {
	Text   string // page-tagged combined text
	Method string // strategy that produced the result
	Pages  []Page
}

// TextExtractor is the interface the pipeline depends on.
type TextExtractor interface {
	Extract(ctx context.Context, req Request) (Result, error)
}
