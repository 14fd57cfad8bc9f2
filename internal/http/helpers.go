package http

import "net/url"

// urlQueryEscape escapes a value for use in a redirect query string.
func urlQueryEscape(s string) string {
	return url.QueryEscape(s)
}
