// Package sanitize provides text sanitization utilities for user-provided
// values that end up in exports and filenames.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// filenameRegex matches everything a safe base filename may not contain
	filenameRegex = regexp.MustCompile(`[^a-zA-Z0-9 _-]+`)
	// spaceRunRegex collapses runs of whitespace
	spaceRunRegex = regexp.MustCompile(`\s+`)
)

const maxFilenameLen = 80

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	// Decode common HTML entities
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes a string for safe text storage by stripping HTML
// and normalizing whitespace. Use for user-provided text fields like
// reasons and notes.
func Text(s string) string {
	return StripHTML(s)
}

// TextPtr is a helper for optional string pointers
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}

// Filename turns an arbitrary base name into a safe filename stem:
// non-alphanumeric characters (other than space, dash, underscore) are
// stripped, whitespace runs collapse to a single underscore, and the result
// is bounded in length. Returns "leads" when nothing survives.
func Filename(s string) string {
	cleaned := filenameRegex.ReplaceAllString(s, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = spaceRunRegex.ReplaceAllString(cleaned, "_")
	if len(cleaned) > maxFilenameLen {
		cleaned = cleaned[:maxFilenameLen]
		cleaned = strings.Trim(cleaned, "_-")
	}
	if cleaned == "" {
		return "leads"
	}
	return cleaned
}
