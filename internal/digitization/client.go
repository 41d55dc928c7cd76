package digitization

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bluecalif/bookforge/internal/cachestore"
)

// interChunkSpacing is the minimum pause between sequential chunk requests,
// to avoid tripping the service's rate limiter.
const interChunkSpacing = 2 * time.Second

// Config configures a Client.
type Config struct {
	EndpointURL string
	APIKey      string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client turns a PDF path into a single logical Response,
// transparently chunking oversize PDFs and caching the merged result.
type Client struct {
	endpointURL string
	apiKey      string
	timeout     time.Duration
	httpClient  *http.Client
	cache       *cachestore.Store
	logger      *slog.Logger
}

// New constructs a digitization Client. cache may be nil to disable caching
// (tests); logger may be nil.
func New(cfg Config, cache *cachestore.Store, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpointURL: cfg.EndpointURL,
		apiKey:      cfg.APIKey,
		timeout:     timeout,
		httpClient:  httpClient,
		cache:       cache,
		logger:      logger,
	}
}

// Digitize turns the PDF at path into a uniform Response. Identical file
// bytes short-circuit to the cached merged response.
func (c *Client) Digitize(ctx context.Context, path string) (Response, error) {
	var fingerprint string
	if c.cache != nil {
		fp, err := cachestore.FileFingerprint(path)
		if err == nil {
			fingerprint = fp
			var cached Response
			if hit, lookupErr := c.cache.Lookup(cachestore.NamespaceDigitization, fp, &cached); lookupErr == nil && hit {
				c.logger.Debug("digitization cache hit", "fingerprint", fp)
				return cached, nil
			}
		} else {
			c.logger.Warn("failed to fingerprint PDF for digitization cache", "path", path, "error", err)
		}
	}

	totalPages, probeErr := probePageCount(path)
	var chunks []chunk
	if probeErr != nil {
		// Fall back to single-request mode.
		c.logger.Warn("page-count probe failed, falling back to single-request mode", "path", path, "error", probeErr)
		chunks = []chunk{{path: path, startPage: 1, pageCount: 0, isOriginal: true}}
		totalPages = 0
	} else {
		planned, err := planChunks(path, totalPages)
		if err != nil {
			return Response{}, err
		}
		chunks = planned
	}
	defer cleanupChunks(chunks)

	responses := make([]Response, 0, len(chunks))
	for i, chk := range chunks {
		if i > 0 {
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(interChunkSpacing):
			}
		}

		resp, err := c.issueChunk(ctx, chk)
		if err != nil {
			return Response{}, err
		}
		responses = append(responses, resp)
	}

	if totalPages == 0 {
		// Single-request fallback: usage.pages comes straight from the
		// service, no rebase/renumber needed.
		merged := responses[0]
		if fingerprint != "" && c.cache != nil {
			c.cache.StoreArtifact(cachestore.NamespaceDigitization, fingerprint, merged, cachestore.Meta{OriginalPath: path})
		}
		return merged, nil
	}

	merged, err := mergeResponses(responses, chunks, totalPages)
	if err != nil {
		return Response{}, err
	}

	if fingerprint != "" && c.cache != nil {
		c.cache.StoreArtifact(cachestore.NamespaceDigitization, fingerprint, merged, cachestore.Meta{OriginalPath: path})
	}

	return merged, nil
}
