// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/url2md/pkg/types"
)

// Phase is the visible state of a session.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpenIdle
	PhaseOpenSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseOpenIdle:
		return "open-idle"
	case PhaseOpenSubmitting:
		return "open-submitting"
	default:
		return "unknown"
	}
}

// Request is a validated submission waiting for its fetch to settle.
type Request struct {
	// Original is the text as entered.
	Original string
	// Normalized is Original without scheme prefix and trailing slash.
	Normalized string
	// Target is the conversion service URL to fetch.
	Target string
}

// Option configures a Session.
type Option func(*Session)

// WithServiceURL overrides the conversion service address.
func WithServiceURL(u string) Option {
	return func(s *Session) {
		s.serviceURL = u
	}
}

// WithOnSubmit sets the completion callback. It is invoked once per
// successful conversion with the URL exactly as entered.
func WithOnSubmit(fn func(url string)) Option {
	return func(s *Session) {
		s.onSubmit = fn
	}
}

// WithDisabled suppresses every interaction when disabled is true.
func WithDisabled(disabled bool) Option {
	return func(s *Session) {
		s.disabled = disabled
	}
}

// WithClock sets the time source used for file name timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger sets the logger. The default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// Session is one conversion widget instance. It owns its input text,
// overlay visibility and in-flight flag; no state is shared between
// sessions. All methods are safe for concurrent use. Capabilities are called
// without the session lock held.
type Session struct {
	id         string
	fetcher    Fetcher
	saver      Saver
	notifier   Notifier
	serviceURL string
	onSubmit   func(string)
	now        func() time.Time
	log        *zap.Logger

	mu       sync.Mutex
	text     string
	open     bool
	inFlight bool
	disabled bool
	disposed bool
}

// New creates a closed, idle session.
func New(f Fetcher, s Saver, n Notifier, opts ...Option) *Session {
	sess := &Session{
		id:         uuid.NewString(),
		fetcher:    f,
		saver:      s,
		notifier:   n,
		serviceURL: DefaultServiceURL,
		now:        time.Now,
		log:        zap.L(),
	}
	for _, opt := range opts {
		opt(sess)
	}
	sess.log = sess.log.With(zap.String("session", sess.id))
	return sess
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Phase reports the current visible state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.open:
		return PhaseClosed
	case s.inFlight:
		return PhaseOpenSubmitting
	default:
		return PhaseOpenIdle
	}
}

// IsOpen reports whether the overlay is shown.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// InFlight reports whether a conversion request is outstanding.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Disabled reports whether interaction is suppressed.
func (s *Session) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

// SetDisabled toggles interaction suppression.
func (s *Session) SetDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = disabled
}

// Text returns the current input.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// SetText replaces the input. It is ignored while disabled.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return
	}
	s.text = text
}

// Open shows the overlay. Existing input is kept.
func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return
	}
	s.open = true
}

// Close dismisses the overlay. Existing input is kept.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return
	}
	s.open = false
}

// Toggle flips overlay visibility and reports whether it is now open.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.disabled {
		s.open = !s.open
	}
	return s.open
}

// CanSubmit reports whether the submit control is enabled: the session is
// not disabled, the input is not blank and nothing is in flight.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disabled && !s.inFlight && strings.TrimSpace(s.text) != ""
}

// Dispose marks the session as gone. A request that settles afterwards
// performs no save, notification or callback.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
}

// Begin validates the current input and, if it is an absolute URL, marks the
// session in flight and returns the request to fetch. Invalid input is
// reported through the notifier and leaves the text untouched.
func (s *Session) Begin() (Request, error) {
	s.mu.Lock()
	switch {
	case s.disabled:
		s.mu.Unlock()
		return Request{}, ErrDisabled
	case s.disposed:
		s.mu.Unlock()
		return Request{}, ErrDisposed
	case s.inFlight:
		s.mu.Unlock()
		return Request{}, ErrBusy
	case strings.TrimSpace(s.text) == "":
		s.mu.Unlock()
		return Request{}, ErrEmptyInput
	}

	text := s.text
	if err := Validate(text); err != nil {
		s.mu.Unlock()
		s.log.Debug("rejected input", zap.String("input", text), zap.Error(err))
		s.notifier.NotifyFailure(MsgInvalidURL)
		return Request{}, err
	}

	normalized := Normalize(text)
	req := Request{
		Original:   text,
		Normalized: normalized,
		Target:     TargetURL(s.serviceURL, normalized),
	}
	s.inFlight = true
	s.mu.Unlock()

	s.log.Info("conversion started", zap.String("url", req.Original), zap.String("target", req.Target))
	return req, nil
}

// Complete settles a request started by Begin. fetchErr is the outcome of
// fetching req.Target and body the markdown text on success. The in-flight
// flag stays set while the body is saved and is cleared on every path.
func (s *Session) Complete(req Request, body string, fetchErr error) (types.Conversion, error) {
	s.mu.Lock()
	if s.disposed {
		s.inFlight = false
		s.mu.Unlock()
		s.log.Debug("dropping result for disposed session", zap.String("url", req.Original))
		return types.Conversion{}, ErrDisposed
	}
	s.mu.Unlock()

	if fetchErr != nil {
		s.settle()
		return types.Conversion{}, s.fail(req, eris.Wrap(fetchErr, "fetch"))
	}

	ts := s.now()
	filename := Filename(req.Normalized, ts)
	if err := s.saver.SaveTextFile(filename, MarkdownMIME, body); err != nil {
		s.settle()
		return types.Conversion{}, s.fail(req, eris.Wrapf(err, "save %s", filename))
	}

	s.mu.Lock()
	s.inFlight = false
	s.open = false
	s.text = ""
	onSubmit := s.onSubmit
	s.mu.Unlock()

	s.notifier.NotifySuccess(MsgSuccess)
	s.log.Info("conversion saved",
		zap.String("url", req.Original),
		zap.String("filename", filename),
		zap.Int("bytes", len(body)),
	)

	if onSubmit != nil {
		onSubmit(req.Original)
	}

	return types.Conversion{
		SourceURL:   req.Original,
		Normalized:  req.Normalized,
		TargetURL:   req.Target,
		Filename:    filename,
		Bytes:       len(body),
		ConvertedAt: ts,
	}, nil
}

func (s *Session) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
}

// fail reports a conversion failure and returns it wrapped in
// ErrConversionFailed.
func (s *Session) fail(req Request, cause error) error {
	s.log.Warn("conversion failed", zap.String("url", req.Original), zap.Error(cause))
	s.notifier.NotifyFailure(MsgConversionFailed)
	return eris.Wrapf(ErrConversionFailed, "%s: %v", req.Target, cause)
}

// Submit runs the whole flow for the current input: Begin, fetch and
// Complete. It blocks until the request settles.
func (s *Session) Submit(ctx context.Context) (types.Conversion, error) {
	req, err := s.Begin()
	if err != nil {
		return types.Conversion{}, err
	}
	body, fetchErr := s.fetcher.Fetch(ctx, req.Target)
	return s.Complete(req, body, fetchErr)
}
