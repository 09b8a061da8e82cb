// Package manifest reads declared developer lists from project manifests.
//
// Supported files: pom.xml, Cargo.toml, package.json, pyproject.toml and
// CITATION.cff. Besides the developers, a manifest may name the project's
// repository, which is returned as an scm connection string.
package manifest

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/teranos/authorship/annotation"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/internal/validate"
	"github.com/teranos/authorship/source"
)

// Format identifies a manifest by its conventional file name.
type Format string

const (
	FormatPOM       Format = "pom.xml"
	FormatCargo     Format = "Cargo.toml"
	FormatNPM       Format = "package.json"
	FormatPyProject Format = "pyproject.toml"
	FormatCitation  Format = "CITATION.cff"
)

// Formats lists the supported manifests in detection order.
var Formats = []Format{FormatPOM, FormatCargo, FormatNPM, FormatPyProject, FormatCitation}

// Manifest is the author-relevant content of a project manifest.
type Manifest struct {
	Path       string
	Format     Format
	Developers []source.Developer
	Connection string // "scm:<kind>:<url>", empty when the manifest names no repository
}

// Declared returns the declared-metadata source for the manifest's developers.
func (m *Manifest) Declared() *source.Declared {
	return &source.Declared{Developers: m.Developers}
}

// FormatOf maps a path to its manifest format by file name.
func FormatOf(path string) (Format, bool) {
	base := filepath.Base(path)
	for _, f := range Formats {
		if string(f) == base {
			return f, true
		}
	}
	return "", false
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, errors.WithHintf(
			errors.NewInvalidRequestError("unsupported manifest %s", path),
			"supported manifests: %s", formatList(),
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "manifest %s", path)
		}
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	m, err := Parse(format, data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	m.Path = path
	return m, nil
}

// Parse decodes manifest content of the given format.
func Parse(format Format, data []byte) (*Manifest, error) {
	var (
		m   *Manifest
		err error
	)
	switch format {
	case FormatPOM:
		m, err = parsePOM(data)
	case FormatCargo:
		m, err = parseCargo(data)
	case FormatNPM:
		m, err = parseNPM(data)
	case FormatPyProject:
		m, err = parsePyProject(data)
	case FormatCitation:
		m, err = parseCitation(data)
	default:
		return nil, errors.NewInvalidRequestError("unsupported manifest format %q", format)
	}
	if err != nil {
		return nil, err
	}
	m.Format = format
	return m, nil
}

// Detect returns the path of the first known manifest in dir.
func Detect(dir string) (string, error) {
	for _, f := range Formats {
		path := filepath.Join(dir, string(f))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.WithHintf(
		errors.Wrapf(errors.ErrNotFound, "no manifest in %s", dir),
		"expected one of: %s", formatList(),
	)
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// personPattern reads the "Name <email> (url)" person string used by Cargo,
// poetry and npm. Email and URL are both optional.
var personPattern = regexp.MustCompile(`^\s*([^<(]*?)\s*(?:<([^>]*)>)?\s*(?:\(([^)]*)\))?\s*$`)

// developerFromText reads a free-text author entry ("Jane Doe <jane@example.com>").
// Hyphens belong to the name or email here. Entries that are not in person
// form go through the annotation grammar.
func developerFromText(text string) (source.Developer, bool) {
	if m := personPattern.FindStringSubmatch(text); m != nil {
		d := clean(source.Developer{Name: m[1], Email: m[2], URL: m[3]})
		if d.Email == "" && d.URL == "" && validate.IsEmail(d.Name) {
			d = source.Developer{Email: d.Name}
		}
		return d, !empty(d)
	}
	a := annotation.Parse(text)
	if !a.IsValid() {
		return source.Developer{}, false
	}
	return source.Developer{ID: a.ID, Name: a.Name, Email: a.Email, URL: a.URL}, true
}

func developersFromText(entries []string) []source.Developer {
	var devs []source.Developer
	for _, e := range entries {
		if d, ok := developerFromText(e); ok {
			devs = append(devs, d)
		}
	}
	return devs
}

// gitConnection turns a repository URL into a git scm connection.
func gitConnection(repository string) string {
	repository = strings.TrimSpace(repository)
	if repository == "" {
		return ""
	}
	return "scm:git:" + strings.TrimPrefix(repository, "git+")
}

func clean(d source.Developer) source.Developer {
	return source.Developer{
		ID:    strings.TrimSpace(d.ID),
		Name:  strings.TrimSpace(d.Name),
		Email: strings.TrimSpace(d.Email),
		URL:   strings.TrimSpace(d.URL),
	}
}

func empty(d source.Developer) bool {
	return d == source.Developer{}
}
