package views

import (
	"net/url"
	"path"
	"strings"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PageURL returns the listing URL for a next_page cursor.
func PageURL(cursor string) string {
	return "/?page=" + url.QueryEscape(cursor)
}

// PartialURL returns the HTMX fragment URL for a next_page cursor.
func PartialURL(cursor string) string {
	return PageURL(cursor) + "&partial=posts"
}
