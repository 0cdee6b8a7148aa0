// Package fetch - readable.go falls back to readability scoring when no selector matches.
package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
)

// ExtractReadable runs readability over the page and returns its plain text.
// pageURL may be empty.
func ExtractReadable(html, pageURL string) (string, error) {
	var base *url.URL
	if pageURL != "" {
		if parsed, err := url.Parse(pageURL); err == nil {
			base = parsed
		}
	}

	article, err := readability.FromReader(strings.NewReader(html), base)
	if err != nil {
		return "", fmt.Errorf("readability failed: %w", err)
	}

	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return "", fmt.Errorf("readability render failed: %w", err)
	}
	return cleanWhitespace(buf.String()), nil
}
