// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeFetcher records every target it is asked for and returns a canned
// body or error. When gate is non-nil Fetch blocks until it is closed.
type fakeFetcher struct {
	mu      sync.Mutex
	targets []string
	body    string
	err     error
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, target string) (string, error) {
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.body, f.err
}

func (f *fakeFetcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.targets...)
}

type savedFile struct {
	filename, mimeType, content string
}

type fakeSaver struct {
	saved []savedFile
	err   error
}

func (s *fakeSaver) SaveTextFile(filename, mimeType, content string) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, savedFile{filename, mimeType, content})
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	failures []string
}

func (n *recordingNotifier) NotifySuccess(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, msg)
}

func (n *recordingNotifier) NotifyFailure(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

var fixedNow = time.Date(2024, 3, 5, 14, 7, 9, 500_000_000, time.UTC)

type harness struct {
	session   *Session
	fetcher   *fakeFetcher
	saver     *fakeSaver
	notifier  *recordingNotifier
	submitted []string
}

func newHarness(t *testing.T, f *fakeFetcher, opts ...Option) *harness {
	t.Helper()
	h := &harness{fetcher: f, saver: &fakeSaver{}, notifier: &recordingNotifier{}}
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(zap.NewNop()),
		WithOnSubmit(func(url string) { h.submitted = append(h.submitted, url) }),
	}
	h.session = New(f, h.saver, h.notifier, append(base, opts...)...)
	return h
}

func TestSubmit_InvalidURL(t *testing.T) {
	h := newHarness(t, &fakeFetcher{body: "# never"})
	h.session.Open()
	h.session.SetText("not a url")

	_, err := h.session.Submit(context.Background())

	require.ErrorIs(t, err, ErrInvalidURL)
	assert.Empty(t, h.fetcher.calls(), "no network request for invalid input")
	assert.Equal(t, []string{MsgInvalidURL}, h.notifier.failures)
	assert.Empty(t, h.notifier.success)
	assert.Equal(t, "not a url", h.session.Text())
	assert.Equal(t, PhaseOpenIdle, h.session.Phase())
	assert.Empty(t, h.submitted)
}

func TestSubmit_Success(t *testing.T) {
	h := newHarness(t, &fakeFetcher{body: "# Example\n\nHello."})
	h.session.Open()
	h.session.SetText("https://example.com/page/")

	conv, err := h.session.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"https://r.jina.ai/example.com/page"}, h.fetcher.calls())

	require.Len(t, h.saver.saved, 1)
	saved := h.saver.saved[0]
	assert.Equal(t, "example-com-page-2024-03-05T14-07-09.md", saved.filename)
	assert.Regexp(t, regexp.MustCompile(`^example-com-page-\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}\.md$`), saved.filename)
	assert.Equal(t, MarkdownMIME, saved.mimeType)
	assert.Equal(t, "# Example\n\nHello.", saved.content)

	assert.Equal(t, []string{MsgSuccess}, h.notifier.success)
	assert.Empty(t, h.notifier.failures)
	assert.Equal(t, []string{"https://example.com/page/"}, h.submitted)

	assert.Equal(t, PhaseClosed, h.session.Phase())
	assert.Equal(t, "", h.session.Text())
	assert.False(t, h.session.InFlight())

	assert.Equal(t, "https://example.com/page/", conv.SourceURL)
	assert.Equal(t, "example.com/page", conv.Normalized)
	assert.Equal(t, "https://r.jina.ai/example.com/page", conv.TargetURL)
	assert.Equal(t, saved.filename, conv.Filename)
	assert.Equal(t, len("# Example\n\nHello."), conv.Bytes)
	assert.Equal(t, fixedNow, conv.ConvertedAt)
}

func TestSubmit_FetchFailure(t *testing.T) {
	h := newHarness(t, &fakeFetcher{err: errors.New("HTTP 502")})
	h.session.Open()
	h.session.SetText("https://example.com/broken")

	_, err := h.session.Submit(context.Background())

	require.ErrorIs(t, err, ErrConversionFailed)
	assert.False(t, h.session.InFlight())
	assert.Equal(t, PhaseOpenIdle, h.session.Phase())
	assert.Equal(t, "https://example.com/broken", h.session.Text())
	assert.Equal(t, []string{MsgConversionFailed}, h.notifier.failures)
	assert.Empty(t, h.saver.saved)
	assert.Empty(t, h.submitted)
}

func TestSubmit_SaveFailure(t *testing.T) {
	h := newHarness(t, &fakeFetcher{body: "# ok"})
	h.saver.err = errors.New("disk full")
	h.session.Open()
	h.session.SetText("https://example.com")

	_, err := h.session.Submit(context.Background())

	require.ErrorIs(t, err, ErrConversionFailed)
	assert.False(t, h.session.InFlight())
	assert.True(t, h.session.IsOpen())
	assert.Equal(t, "https://example.com", h.session.Text())
	assert.Equal(t, []string{MsgConversionFailed}, h.notifier.failures)
	assert.Empty(t, h.submitted)
}

func TestSubmit_CustomServiceURL(t *testing.T) {
	h := newHarness(t, &fakeFetcher{body: "x"}, WithServiceURL("http://127.0.0.1:9999/"))
	h.session.SetText("http://example.com/")

	_, err := h.session.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"http://127.0.0.1:9999/example.com"}, h.fetcher.calls())
}

func TestSubmit_EmptyInput(t *testing.T) {
	h := newHarness(t, &fakeFetcher{})
	h.session.Open()
	h.session.SetText("   ")

	assert.False(t, h.session.CanSubmit())
	_, err := h.session.Submit(context.Background())

	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, h.fetcher.calls())
	assert.Empty(t, h.notifier.failures)
}

func TestSubmit_WhileInFlight(t *testing.T) {
	f := &fakeFetcher{
		body:    "# slow",
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	h := newHarness(t, f)
	h.session.Open()
	h.session.SetText("https://example.com/slow")

	done := make(chan error, 1)
	go func() {
		_, err := h.session.Submit(context.Background())
		done <- err
	}()
	<-f.started

	assert.Equal(t, PhaseOpenSubmitting, h.session.Phase())
	assert.False(t, h.session.CanSubmit())

	_, err := h.session.Submit(context.Background())
	require.ErrorIs(t, err, ErrBusy)
	assert.Len(t, f.calls(), 1, "second submit must not issue a request")

	close(f.gate)
	require.NoError(t, <-done)
	assert.Len(t, f.calls(), 1)
	assert.Equal(t, []string{"https://example.com/slow"}, h.submitted)
	assert.False(t, h.session.InFlight())
}

func TestBeginComplete_Disposed(t *testing.T) {
	h := newHarness(t, &fakeFetcher{})
	h.session.Open()
	h.session.SetText("https://example.com")

	req, err := h.session.Begin()
	require.NoError(t, err)
	assert.True(t, h.session.InFlight())

	h.session.Dispose()
	_, err = h.session.Complete(req, "# late", nil)

	require.ErrorIs(t, err, ErrDisposed)
	assert.False(t, h.session.InFlight())
	assert.Empty(t, h.saver.saved)
	assert.Empty(t, h.notifier.success)
	assert.Empty(t, h.submitted)

	_, err = h.session.Begin()
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestDisabledSession(t *testing.T) {
	h := newHarness(t, &fakeFetcher{body: "x"}, WithDisabled(true))

	assert.False(t, h.session.Toggle())
	h.session.Open()
	assert.False(t, h.session.IsOpen())
	h.session.SetText("https://example.com")
	assert.Equal(t, "", h.session.Text())

	_, err := h.session.Submit(context.Background())
	require.ErrorIs(t, err, ErrDisabled)
	assert.Empty(t, h.fetcher.calls())

	h.session.SetDisabled(false)
	assert.True(t, h.session.Toggle())
}

func TestOverlayKeepsTextOnDismiss(t *testing.T) {
	h := newHarness(t, &fakeFetcher{})

	assert.Equal(t, PhaseClosed, h.session.Phase())
	assert.True(t, h.session.Toggle())
	h.session.SetText("https://example.com/draft")
	h.session.Close()
	assert.Equal(t, PhaseClosed, h.session.Phase())
	h.session.Open()
	assert.Equal(t, "https://example.com/draft", h.session.Text())
	assert.Equal(t, PhaseOpenIdle, h.session.Phase())
}

func TestSessionsAreIndependent(t *testing.T) {
	a := newHarness(t, &fakeFetcher{})
	b := newHarness(t, &fakeFetcher{})

	a.session.Open()
	a.session.SetText("https://a.example.com")

	assert.NotEqual(t, a.session.ID(), b.session.ID())
	assert.False(t, b.session.IsOpen())
	assert.Equal(t, "", b.session.Text())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "closed", PhaseClosed.String())
	assert.Equal(t, "open-idle", PhaseOpenIdle.String())
	assert.Equal(t, "open-submitting", PhaseOpenSubmitting.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
