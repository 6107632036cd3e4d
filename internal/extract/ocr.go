package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ocrPages rasterizes each selected page at the configured DPI and runs
// document OCR on the rendered image. Rendered images live in a temp dir
// removed on every exit path.
func (e *Extractor) ocrPages(ctx context.Context, doc []byte, pages []int) ([]Page, error) {
	tmpDir, err := os.MkdirTemp("", "proc-ocr-*")
	if err != nil {
		return nil, err
	}
	defer func(path string) {
		if rerr := os.RemoveAll(path); rerr != nil {
			e.logger.Warn("extract.ocr.tmp_cleanup_failed", "dir", path, "error", rerr)
		}
	}(tmpDir)

	pdfPath := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(pdfPath, doc, 0o600); err != nil {
		return nil, err
	}

	out := make([]Page, 0, len(pages))
	for _, idx := range pages {
		img, err := e.renderPage(ctx, pdfPath, tmpDir, idx)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", idx+1, err)
		}
		text, err := e.tesseractOCR(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("ocr page %d: %w", idx+1, err)
		}
		text = strings.TrimSpace(text)
		out = append(out, Page{
			Index:  idx,
			Text:   text,
			Method: MethodOCR,
			Empty:  text == "",
		})
	}
	return out, nil
}

// renderPage rasterizes one page to PNG and returns the image path.
// DPI is tuned above screen resolution so small Devanagari glyphs survive.
func (e *Extractor) renderPage(ctx context.Context, pdfPath, tmpDir string, idx int) (string, error) {
	pageNo := strconv.Itoa(idx + 1)
	prefix := filepath.Join(tmpDir, "page-"+pageNo)

	// pdftoppm -r <dpi> -f N -l N -png in.pdf <prefix>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", strconv.Itoa(e.cfg.DPI),
		"-f", pageNo, "-l", pageNo,
		"-png", pdfPath, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %s: %w", truncate(string(errb), 512), err)
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %s", pageNo)
	}
	return matches[0], nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, imgPath string) (string, error) {
	args := []string{imgPath, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %s: %w", truncate(string(errb), 512), err)
	}
	return string(out), nil
}
