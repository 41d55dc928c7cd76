package digitization

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func TestIssueChunkRetriesAfterRateLimitThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements":[{"id":0,"page":1,"html":"hi"}],"usage":{"pages":1},"model":"m","api_version":"v1"}`))
	}))
	defer srv.Close()

	c := New(Config{EndpointURL: srv.URL, Timeout: 5 * time.Second}, nil, nil)
	resp, err := c.issueChunk(t.Context(), chunk{path: writeTempPDF(t), startPage: 1, pageCount: 1, isOriginal: true})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Usage.Pages)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestIssueChunkFailsPermanentlyOn4xxOtherThan429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(Config{EndpointURL: srv.URL, Timeout: 5 * time.Second}, nil, nil)
	_, err := c.issueChunk(t.Context(), chunk{path: writeTempPDF(t), startPage: 1, pageCount: 1, isOriginal: true})
	require.Error(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "permanent failures are not retried")
}

func TestIssueChunkRetriesOn5xxThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements":[],"usage":{"pages":1},"model":"m","api_version":"v1"}`))
	}))
	defer srv.Close()

	c := New(Config{EndpointURL: srv.URL, Timeout: 5 * time.Second}, nil, nil)
	resp, err := c.issueChunk(t.Context(), chunk{path: writeTempPDF(t), startPage: 1, pageCount: 1, isOriginal: true})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Usage.Pages)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}
