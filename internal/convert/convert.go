// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the URL-to-markdown conversion widget: a
// session that holds the entered URL, the overlay visibility and the
// in-flight guard, and drives validate, fetch and save for one submission
// at a time.
//
// Transport, file saving and user notification are injected capabilities so
// the same session runs behind a terminal widget, a one-shot command or an
// HTTP endpoint.
package convert

import "context"

// MarkdownMIME is the content type of saved conversions.
const MarkdownMIME = "text/markdown"

// Fetcher retrieves the textual body at targetURL. Implementations must
// treat any non-2xx status as an error.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (string, error)
}

// Saver stores converted content under filename.
type Saver interface {
	SaveTextFile(filename, mimeType, content string) error
}

// Notifier surfaces transient success and failure messages to the user.
type Notifier interface {
	NotifySuccess(msg string)
	NotifyFailure(msg string)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, targetURL string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, targetURL string) (string, error) {
	return f(ctx, targetURL)
}
