package urlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "plain domain", raw: "example.com", want: true},
		{name: "http scheme", raw: "http://example.com", want: true},
		{name: "https scheme", raw: "https://example.com", want: true},
		{name: "subdomain and path", raw: "https://status.example.co.uk/health?x=1", want: true},
		{name: "localhost", raw: "localhost", want: true},
		{name: "localhost with port", raw: "http://localhost:8080/ping", want: true},
		{name: "ipv4 literal", raw: "127.0.0.1", want: true},
		{name: "ipv4 out-of-range octets still accepted", raw: "999.999.999.999", want: true},
		{name: "bracketed ipv6", raw: "http://[::1]:9090", want: true},
		{name: "hyphened labels", raw: "my-host.example-site.org", want: true},
		{name: "free text", raw: "not a url", want: false},
		{name: "empty", raw: "", want: false},
		{name: "missing tld", raw: "http://example", want: false},
		{name: "single-letter tld", raw: "example.c", want: false},
		{name: "unsupported scheme", raw: "ftp://example.com", want: false},
		{name: "spaces in path", raw: "http://example.com/a b", want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, IsValid(test.raw))
		})
	}
}

func TestEnsureScheme(t *testing.T) {
	assert.Equal(t, "http://example.com", EnsureScheme("example.com"))
	assert.Equal(t, "http://example.com", EnsureScheme("http://example.com"))
	assert.Equal(t, "https://example.com", EnsureScheme("https://example.com"))
}
