// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "github.com/rotisserie/eris"

// User-facing notification texts.
const (
	MsgSuccess          = "Markdown file downloaded successfully!"
	MsgConversionFailed = "Failed to convert URL to markdown"
	MsgInvalidURL       = "Please enter a valid URL"
)

var (
	// ErrInvalidURL is returned when the input is not an absolute URL.
	// No network request is made.
	ErrInvalidURL = eris.New("invalid url")

	// ErrConversionFailed covers transport errors, non-2xx responses and
	// failures to save the converted body.
	ErrConversionFailed = eris.New("conversion failed")

	// ErrBusy is returned when a submit arrives while a request is in flight.
	ErrBusy = eris.New("conversion already in flight")

	// ErrEmptyInput is returned when submit is attempted with blank text.
	ErrEmptyInput = eris.New("empty input")

	// ErrDisabled is returned for any interaction with a disabled session.
	ErrDisabled = eris.New("session disabled")

	// ErrDisposed is returned when a request settles after the session was disposed.
	ErrDisposed = eris.New("session disposed")
)
