package http

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURL appends the path segments to baseURL, escaping each one so that
// names such as "Customer Group" become "Customer%20Group", and encodes query
// as the query string.
func BuildURL(baseURL string, query url.Values, segments ...string) (string, error) {
	if baseURL == "" {
		return "", fmt.Errorf("base URL is required")
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	for _, segment := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(segment))
	}

	parsedURL, err := url.Parse(b.String())
	if err != nil {
		return "", fmt.Errorf("error parsing URL: %w", err)
	}

	if len(query) > 0 {
		parsedURL.RawQuery = query.Encode()
	}

	return parsedURL.String(), nil
}
