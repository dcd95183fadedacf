package plopper

import "net/url"

// IsAbsoluteURL reports whether s is a syntactically valid absolute
// http(s) URL with a host. Pasted text passing this check is routed to
// the URL resolver instead of being stored as plain text.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
