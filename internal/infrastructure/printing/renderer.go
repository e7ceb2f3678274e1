package printing

import (
	"context"
	"time"
)

// PDFRenderer turns an HTML document into a PDF. The only production
// implementation drives headless Chrome; tests substitute a mock.
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases the browser process or remote connection.
	Close() error
}

// RenderRequest describes one document to render.
type RenderRequest struct {
	// HTML is the document body. A bare fragment gets wrapped in a
	// minimal document before printing.
	HTML string
	// Title ends up in the PDF metadata.
	Title string
	// Landscape flips the page orientation from the portrait default.
	Landscape bool
	// Timeout overrides the renderer's default per-document timeout.
	Timeout time.Duration
}

// RenderResult is the output of a successful render.
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// Rendering failure codes carried by RenderError.
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
)

// RenderError wraps a rendering failure with a stable code the caller
// can branch on.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
