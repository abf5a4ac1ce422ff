// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Conversion describes one completed URL-to-markdown conversion.
type Conversion struct {
	// SourceURL is the URL exactly as the user entered it.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Normalized is SourceURL without its scheme prefix and trailing slash
	// (e.g. "example.com/page").
	Normalized string `json:"normalized" yaml:"normalized"`

	// TargetURL is the conversion service address that was fetched.
	TargetURL string `json:"target_url" yaml:"target_url"`

	// Filename is the generated markdown file name.
	Filename string `json:"filename" yaml:"filename"`

	// Bytes is the size of the saved markdown body.
	Bytes int `json:"bytes" yaml:"bytes"`

	// ConvertedAt is the instant used for the filename timestamp.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
