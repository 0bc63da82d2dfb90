package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// CleanText strips markup from user supplied plain text and trims it. Entities produced by the
// sanitizer are decoded again so JSON clients read back what they sent.
// An empty result means the input was blank.
func CleanText(input string) string {
	return strings.TrimSpace(html.UnescapeString(Sanitize(strings.TrimSpace(input))))
}
