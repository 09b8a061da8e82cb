// Package scm classifies Maven style scm connection strings
// ("scm:git:https://host/repo.git", "scm:svn:svn://host/repo") and
// normalises repository locations into something a cloner accepts.
package scm

import (
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-getter"

	"github.com/teranos/authorship/errors"
)

// Kind is the version control system behind a connection.
type Kind int

const (
	KindGit Kind = iota + 1
	KindSubversion
)

func (k Kind) String() string {
	switch k {
	case KindGit:
		return "git"
	case KindSubversion:
		return "svn"
	default:
		return "unknown"
	}
}

// Connection is a parsed scm connection.
type Connection struct {
	Kind     Kind
	URL      string // connection with the scm:<kind>: prefix removed
	Protocol string // svn only: "http" for http(s) repositories, "svn" otherwise
}

const prefix = "scm:"

// Parse classifies an scm connection string.
func Parse(connection string) (Connection, error) {
	connection = strings.TrimSpace(connection)
	if !strings.HasPrefix(connection, prefix) {
		return Connection{}, errors.WithHint(
			errors.NewInvalidRequestError("scm connection %q lacks the scm: prefix", connection),
			"use scm:git:<url> or scm:svn:<url>",
		)
	}

	rest := connection[len(prefix):]
	kind, location, ok := strings.Cut(rest, ":")
	if !ok || location == "" {
		return Connection{}, errors.NewInvalidRequestError("scm connection %q has no repository location", connection)
	}

	switch kind {
	case "git":
		return Connection{Kind: KindGit, URL: location}, nil
	case "svn":
		protocol := "svn"
		if strings.HasPrefix(location, "http:") || strings.HasPrefix(location, "https:") {
			protocol = "http"
		}
		return Connection{Kind: KindSubversion, URL: location, Protocol: protocol}, nil
	default:
		return Connection{}, errors.WithHint(
			errors.NewInvalidRequestError("unsupported scm kind %q", kind),
			"supported kinds are git and svn",
		)
	}
}

// NormalizeRemote expands repository shorthands with go-getter detection:
// "github.com/user/repo" becomes "https://github.com/user/repo.git",
// "git@host:user/repo.git" becomes "ssh://git@host/user/repo.git" and local
// paths become absolute paths. Full URLs are returned unchanged.
func NormalizeRemote(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", errors.NewInvalidRequestError("empty repository location")
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(location, pwd, getter.Detectors)
	if err != nil {
		return "", errors.Wrapf(err, "failed to detect repository location %q", location)
	}
	detected = strings.TrimPrefix(detected, "git::")

	if strings.HasPrefix(detected, "file://") {
		u, err := url.Parse(detected)
		if err != nil {
			return "", errors.Wrapf(err, "failed to parse detected location %q", detected)
		}
		return u.Path, nil
	}
	return detected, nil
}
