// Package splitparse composes the Digitization Client and Layout
// Normalizer into a single split-parse controller: turn a source PDF into
// a normalized, two-up-split page stream.
package splitparse

import (
	"context"
	"fmt"

	"github.com/bluecalif/bookforge/internal/digitization"
	"github.com/bluecalif/bookforge/internal/normalizer"
)

// Controller wraps a digitization.Client and exposes the one-call parse
// operation the parse stage of the orchestrator needs.
type Controller struct {
	digitize *digitization.Client
}

// New returns a Controller driving the given digitization client.
func New(digitize *digitization.Client) *Controller {
	return &Controller{digitize: digitize}
}

// Parse digitizes the PDF at path and normalizes the result into an
// ordered, reading-order page stream ready for structure analysis and
// page-level extraction.
func (c *Controller) Parse(ctx context.Context, path string) ([]normalizer.NormalizedPage, error) {
	resp, err := c.digitize.Digitize(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("digitize %s: %w", path, err)
	}
	return normalizer.Normalize(resp), nil
}
