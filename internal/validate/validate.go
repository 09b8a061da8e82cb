// Package validate holds the format predicates used to classify free-text
// author fragments as email addresses or URLs.
package validate

import (
	"net/mail"
	"net/url"
	"strings"
)

// URL schemes accepted by IsURL.
var urlSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
}

// IsEmail reports whether s is a bare RFC 5322 addr-spec ("user@example.com").
// Display names and angle brackets are rejected, and the domain must contain a dot.
func IsEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// IsURL reports whether s is an absolute http, https or ftp URL with a host.
func IsURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n<>\"") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return urlSchemes[u.Scheme] && u.Hostname() != ""
}
