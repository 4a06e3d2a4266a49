// Package printing turns producer orders into printable packing slips:
// an HTML document rendered to PDF by headless Chrome.
package printing

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// PaperSize is a supported output sheet
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"
	PaperSizeLetter PaperSize = "LETTER"
)

// ParsePaperSize accepts a case-insensitive name; empty means A4
func ParsePaperSize(s string) (PaperSize, error) {
	switch p := PaperSize(strings.ToUpper(strings.TrimSpace(s))); p {
	case "":
		return PaperSizeA4, nil
	case PaperSizeA4, PaperSizeLetter:
		return p, nil
	}
	return "", fmt.Errorf("unsupported paper size %q (want A4 or Letter)", s)
}

// Dimensions returns width and height in millimetres
func (p PaperSize) Dimensions() (width, height float64) {
	if p == PaperSizeLetter {
		return 215.9, 279.4
	}
	return 210, 297
}

// RenderRequest is one HTML document to print
type RenderRequest struct {
	HTML      string
	Title     string
	PaperSize PaperSize
	MarginMM  float64
	// Timeout overrides the renderer default
	Timeout time.Duration
}

// RenderResult is the produced PDF
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer converts HTML to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidInput  = "INVALID_RENDER_INPUT"
	ErrCodeTemplate      = "TEMPLATE_FAILED"
)

// RenderError is returned by renderers and the packing slip printer
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error { return e.Cause }

// NewRenderError creates a RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// estimatePageCount counts page objects in a PDF; it is approximate and
// never returns less than one for non-empty output
func estimatePageCount(pdf []byte) int {
	n := strings.Count(string(pdf), "/Type /Page") - strings.Count(string(pdf), "/Type /Pages")
	if n < 1 && len(pdf) > 0 {
		return 1
	}
	return n
}
