package digitization

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluecalif/bookforge/internal/cachestore"
)

func TestDigitizeFallsBackToSingleRequestWhenProbeFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements":[{"id":0,"page":1,"html":"hi"}],"usage":{"pages":12},"model":"m","api_version":"v1"}`))
	}))
	defer srv.Close()

	path := writeTempPDF(t) // not a real parseable PDF -> page-count probe fails
	c := New(Config{EndpointURL: srv.URL, Timeout: 5 * time.Second}, nil, nil)

	resp, err := c.Digitize(t.Context(), path)
	require.NoError(t, err)
	require.Equal(t, 12, resp.Usage.Pages)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDigitizeCachesMergedResponseByFileFingerprint(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements":[],"usage":{"pages":1},"model":"m","api_version":"v1"}`))
	}))
	defer srv.Close()

	path := writeTempPDF(t)
	store, err := cachestore.New(t.TempDir(), nil)
	require.NoError(t, err)

	c := New(Config{EndpointURL: srv.URL, Timeout: 5 * time.Second}, store, nil)

	_, err = c.Digitize(t.Context(), path)
	require.NoError(t, err)
	_, err = c.Digitize(t.Context(), path)
	require.NoError(t, err)

	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "second call must hit cache, not the service")
}
