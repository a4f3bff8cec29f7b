// Package urlcheck implements the URL-shape predicate applied to submitted
// links. The check is purely syntactic: it accepts an optional http/https
// scheme followed by a domain-label sequence, `localhost`, a dotted-quad
// IPv4 literal or a bracketed IPv6-shaped literal, an optional port and an
// optional path/query. It performs no DNS resolution and no octet-range
// checking.
package urlcheck

import (
	"regexp"
	"strings"
)

var linkShape = regexp.MustCompile(
	`^(https?://)?` +
		`((([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,})` +
		`|localhost` +
		`|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}` +
		`|\[?[a-fA-F0-9:.]+\])` +
		`(:\d+)?` +
		`(/[-a-zA-Z0-9@:%_+.~#?&/=]*)?$`,
)

// IsValid reports whether raw looks like a monitorable URL.
func IsValid(raw string) bool {
	return linkShape.MatchString(raw)
}

// EnsureScheme returns raw with an explicit scheme, defaulting to http://
// when none is present. The predicate accepts scheme-less input but the
// probe transport needs an absolute URL.
func EnsureScheme(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	return "http://" + raw
}
