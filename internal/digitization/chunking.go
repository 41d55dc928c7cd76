package digitization

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCap is the external service's documented per-request page limit
// .
const PageCap = 100

// chunk describes a contiguous page window to be digitized as one request.
type chunk struct {
	path       string // temp file path holding just this window's pages
	startPage  int    // 1-indexed, within the original PDF
	pageCount  int
	isOriginal bool // true when the chunk is the original file unmodified
}

// probePageCount returns path's page count using a local PDF parse, no
// network call involved.
func probePageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF for page count: %w", err)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to probe page count: %w", err)
	}
	return count, nil
}

// planChunks splits path into contiguous windows of at most PageCap pages
// each, writing each window (other than a lone first window) to a new
// temporary file via pdfcpu's page trim. When totalPages <= PageCap, a
// single chunk referencing the original file is returned.
func planChunks(path string, totalPages int) ([]chunk, error) {
	if totalPages <= PageCap {
		return []chunk{{path: path, startPage: 1, pageCount: totalPages, isOriginal: true}}, nil
	}

	var chunks []chunk
	tmpDir := os.TempDir()
	base := filepath.Base(path)

	for start := 1; start <= totalPages; start += PageCap {
		end := start + PageCap - 1
		if end > totalPages {
			end = totalPages
		}

		outPath := filepath.Join(tmpDir, fmt.Sprintf("bookforge-chunk-%d-%d-%s", start, end, base))
		selection := []string{pageRangeSelector(start, end)}
		if err := api.TrimFile(path, outPath, selection, nil); err != nil {
			cleanupChunks(chunks)
			return nil, fmt.Errorf("failed to split pages %d-%d: %w", start, end, err)
		}

		chunks = append(chunks, chunk{
			path:      outPath,
			startPage: start,
			pageCount: end - start + 1,
		})
	}

	return chunks, nil
}

// pageRangeSelector formats a pdfcpu page-selection expression for the
// inclusive range [start,end].
func pageRangeSelector(start, end int) string {
	if start == end {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

// cleanupChunks removes any temporary files created for split chunks.
func cleanupChunks(chunks []chunk) {
	for _, c := range chunks {
		if !c.isOriginal {
			_ = os.Remove(c.path)
		}
	}
}
