package digitization

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bluecalif/bookforge/internal/retrypolicy"
)

// issueChunk uploads the PDF at c.path to the digitization endpoint and
// decodes its response, retrying transient/rate-limited failures: 2xx
// accepted, 429 waits 2^attempt seconds (max 3 attempts), 5xx/transport
// error uses the same backoff, any other 4xx fails permanently, and
// timeouts count as transient.
func (c *Client) issueChunk(ctx context.Context, chk chunk) (Response, error) {
	var result Response

	policy := retrypolicy.Options{
		MaxAttempts:        3,
		BaseDelay:          time.Second,
		RateLimitDelayBase: 2 * time.Second, // Run doubles per attempt: 2s, 4s, 8s ~= 2^attempt
	}

	err := retrypolicy.Run(ctx, policy, func(ctx context.Context, attempt int) error {
		body, contentType, err := buildUploadBody(chk.path)
		if err != nil {
			return retrypolicy.Classify(retrypolicy.KindPermanent, err)
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpointURL, body)
		if err != nil {
			return retrypolicy.Classify(retrypolicy.KindPermanent, err)
		}
		req.Header.Set("Content-Type", contentType)
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Context deadline exceeded and other transport failures are
			// transient.
			return retrypolicy.Classify(retrypolicy.KindTransient, fmt.Errorf("digitization request failed: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			kind := retrypolicy.ClassifyHTTPStatus(resp.StatusCode)
			return retrypolicy.Classify(kind, fmt.Errorf("digitization service returned status %d", resp.StatusCode))
		}

		decoded, err := decodeResponse(resp.Body)
		if err != nil {
			return retrypolicy.Classify(retrypolicy.KindTransient, err)
		}
		result = decoded
		return nil
	})

	return result, err
}

func decodeResponse(r io.Reader) (Response, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("failed to decode digitization response: %w", err)
	}
	return resp, nil
}

func buildUploadBody(path string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open chunk file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("failed to copy PDF bytes into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
