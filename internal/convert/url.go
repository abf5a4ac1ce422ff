// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultServiceURL is the conversion service that renders pages as markdown.
const DefaultServiceURL = "https://r.jina.ai"

// timestampLayout is an ISO-8601 UTC instant with ':' and '.' replaced by '-'
// and the fractional seconds and zone suffix dropped.
const timestampLayout = "2006-01-02T15-04-05"

var (
	schemePrefix = regexp.MustCompile(`^(\w+:)?//`)
	unsafeChars  = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Validate reports whether raw is a well-formed absolute URL. The text is
// checked as entered; surrounding whitespace makes it invalid.
func Validate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return eris.Wrapf(ErrInvalidURL, "parse %q: %v", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return eris.Wrapf(ErrInvalidURL, "%q is not an absolute URL", raw)
	}
	return nil
}

// Normalize strips a leading "scheme://" (or "//") and one trailing slash,
// leaving host and path: "https://example.com/page/" becomes
// "example.com/page".
func Normalize(raw string) string {
	s := schemePrefix.ReplaceAllString(raw, "")
	return strings.TrimSuffix(s, "/")
}

// TargetURL prefixes a normalized address with the conversion service URL.
func TargetURL(serviceURL, normalized string) string {
	return strings.TrimSuffix(serviceURL, "/") + "/" + normalized
}

// Sanitize replaces every character outside [a-zA-Z0-9] with '-'.
func Sanitize(s string) string {
	return unsafeChars.ReplaceAllString(s, "-")
}

// Timestamp formats t for use in a file name.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Filename builds "<sanitized>-<timestamp>.md" for a normalized address.
func Filename(normalized string, t time.Time) string {
	return Sanitize(normalized) + "-" + Timestamp(t) + ".md"
}
