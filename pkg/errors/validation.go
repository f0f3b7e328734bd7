package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// maxIDLength bounds node identifiers and categories.
const maxIDLength = 256

// checkName applies the rules shared by ids and categories.
func checkName(what, s string) error {
	switch {
	case strings.TrimSpace(s) == "":
		return New(ErrCodeInvalidInput, "%s cannot be empty", what)
	case len(s) > maxIDLength:
		return New(ErrCodeInvalidInput, "%s too long (max %d bytes)", what, maxIDLength)
	case strings.IndexFunc(s, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidInput, "%s contains control characters", what)
	}
	return nil
}

// ValidateNodeID checks a hierarchy node id. Ids end up in URLs, cache
// keys and SVG element ids, so they must be non-blank, short and free of
// control characters.
func ValidateNodeID(id string) error {
	return checkName("node id", id)
}

// ValidateCategory checks a category name before it selects a file or
// collection key. Path separators and ".." are rejected.
func ValidateCategory(category string) error {
	if err := checkName("category", category); err != nil {
		return err
	}
	if strings.Contains(category, "..") || strings.ContainsAny(category, `/\`) {
		return New(ErrCodeInvalidInput, "category %q must not contain path elements", category)
	}
	return nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}
