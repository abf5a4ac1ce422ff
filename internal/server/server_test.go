// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/url2md/internal/convert"
	"github.com/pdiddy/url2md/internal/reader"
	"github.com/pdiddy/url2md/pkg/types"
)

var fixedNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

// newUpstream fakes the conversion service. It records the path it was
// asked for and answers with status and body.
func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *atomic.Value, *int32) {
	t.Helper()
	var lastPath atomic.Value
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		lastPath.Store(r.URL.Path)
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &lastPath, &calls
}

func newTestServer(t *testing.T, upstream string, cfg types.ServeConfig) *Server {
	t.Helper()
	f := reader.New(types.ReaderConfig{HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second}})
	return New(cfg, f, upstream, WithClock(func() time.Time { return fixedNow }), WithLogger(zap.NewNop()))
}

func get(t *testing.T, s *Server, target string) (*http.Response, string) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func convertPath(raw string) string {
	return "/convert?url=" + url.QueryEscape(raw)
}

func TestConvert_Success(t *testing.T) {
	upstream, lastPath, _ := newUpstream(t, http.StatusOK, "# Example\n")
	s := newTestServer(t, upstream.URL, types.ServeConfig{})

	resp, body := get(t, s, convertPath("https://example.com/page/"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "# Example\n", body)
	assert.Equal(t, "/example.com/page", lastPath.Load())
	assert.Contains(t, resp.Header.Get("Content-Type"), convert.MarkdownMIME)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "example-com-page-2024-03-05T14-07-09.md")
	assert.Equal(t, convert.MsgSuccess, resp.Header.Get("X-Notification"))
	assert.Equal(t, "https://example.com/page/", resp.Header.Get("X-Source-URL"))
}

func TestConvert_InvalidURL(t *testing.T) {
	upstream, _, calls := newUpstream(t, http.StatusOK, "# never")
	s := newTestServer(t, upstream.URL, types.ServeConfig{})

	for _, raw := range []string{"not a url", ""} {
		resp, body := get(t, s, convertPath(raw))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var eb errorBody
		require.NoError(t, json.Unmarshal([]byte(body), &eb))
		assert.Equal(t, convert.MsgInvalidURL, eb.Error)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestConvert_UpstreamFailure(t *testing.T) {
	upstream, _, calls := newUpstream(t, http.StatusInternalServerError, "boom")
	s := newTestServer(t, upstream.URL, types.ServeConfig{})

	resp, body := get(t, s, convertPath("https://example.com"))

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var eb errorBody
	require.NoError(t, json.Unmarshal([]byte(body), &eb))
	assert.Equal(t, convert.MsgConversionFailed, eb.Error)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestConvert_RateLimited(t *testing.T) {
	upstream, _, calls := newUpstream(t, http.StatusOK, "# ok")
	s := newTestServer(t, upstream.URL, types.ServeConfig{RequestsPerSecond: 0.001, Burst: 1})

	first, _ := get(t, s, convertPath("https://example.com"))
	second, _ := get(t, s, convertPath("https://example.com"))

	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", types.ServeConfig{})
	resp, body := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", types.ServeConfig{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
