package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/source"
)

const pomXML = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <artifactId>demo</artifactId>
  <developers>
    <developer>
      <id>kinow</id>
      <name>Bruno P. Kinoshita</name>
      <email>brunodepaulak AT yahoo DOT com DOT br</email>
      <url>http://www.kinoshita.eti.br</url>
    </developer>
    <developer>
      <id> alice </id>
      <name>Alice</name>
    </developer>
    <developer></developer>
  </developers>
  <scm>
    <connection>scm:git:https://github.com/example/demo.git</connection>
    <developerConnection>scm:git:git@github.com:example/demo.git</developerConnection>
  </scm>
</project>
`

func TestParse_POM(t *testing.T) {
	m, err := Parse(FormatPOM, []byte(pomXML))
	require.NoError(t, err)

	assert.Equal(t, FormatPOM, m.Format)
	assert.Equal(t, []source.Developer{
		{ID: "kinow", Name: "Bruno P. Kinoshita", Email: "brunodepaulak AT yahoo DOT com DOT br", URL: "http://www.kinoshita.eti.br"},
		{ID: "alice", Name: "Alice"},
	}, m.Developers)
	assert.Equal(t, "scm:git:https://github.com/example/demo.git", m.Connection)
}

func TestParse_POMDeveloperConnectionFallback(t *testing.T) {
	m, err := Parse(FormatPOM, []byte(`<project><scm><developerConnection>scm:svn:svn://svn.example.org/demo</developerConnection></scm></project>`))
	require.NoError(t, err)
	assert.Empty(t, m.Developers)
	assert.Equal(t, "scm:svn:svn://svn.example.org/demo", m.Connection)
}

func TestParse_Cargo(t *testing.T) {
	m, err := Parse(FormatCargo, []byte(`
[package]
name = "demo"
authors = ["Alice <alice@example.com>", "Bob", ""]
repository = "https://github.com/example/demo"
`))
	require.NoError(t, err)

	assert.Equal(t, []source.Developer{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bob"},
	}, m.Developers)
	assert.Equal(t, "scm:git:https://github.com/example/demo", m.Connection)
}

func TestParse_CargoHyphenatedAuthors(t *testing.T) {
	m, err := Parse(FormatCargo, []byte(`
[package]
name = "demo"
authors = [
  "Mary-Jane Doe <mj@example.com>",
  "Jo Smith <jo-smith@example.com>",
  "Jean-Luc Picard",
  "ops-team@example.com",
]
`))
	require.NoError(t, err)

	assert.Equal(t, []source.Developer{
		{Name: "Mary-Jane Doe", Email: "mj@example.com"},
		{Name: "Jo Smith", Email: "jo-smith@example.com"},
		{Name: "Jean-Luc Picard"},
		{Email: "ops-team@example.com"},
	}, m.Developers)
}

func TestDeveloperFromText(t *testing.T) {
	tests := []struct {
		text string
		want source.Developer
		ok   bool
	}{
		{"Ann-Marie Li <ann-marie@example.com> (https://ann-marie.dev)", source.Developer{Name: "Ann-Marie Li", Email: "ann-marie@example.com", URL: "https://ann-marie.dev"}, true},
		{"  Bob  ", source.Developer{Name: "Bob"}, true},
		{"bob@example.com", source.Developer{Email: "bob@example.com"}, true},
		{"Jane (jane@example.com", source.Developer{Name: "Jane (jane@example.com"}, true},
		{"   ", source.Developer{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := developerFromText(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_PyProject(t *testing.T) {
	m, err := Parse(FormatPyProject, []byte(`
[project]
name = "demo"
authors = [{name = "Alice", email = "alice@example.com"}, {email = "ops@example.com"}]
maintainers = [{name = "Bob"}]

[project.urls]
Homepage = "https://demo.example.com"
Repository = "https://gitlab.com/example/demo.git"

[tool.poetry]
authors = ["Carol <carol@example.com>", "Dan O-Neil <dan-o@example.com>"]
`))
	require.NoError(t, err)

	assert.Equal(t, []source.Developer{
		{Name: "Alice", Email: "alice@example.com"},
		{Email: "ops@example.com"},
		{Name: "Bob"},
		{Name: "Carol", Email: "carol@example.com"},
		{Name: "Dan O-Neil", Email: "dan-o@example.com"},
	}, m.Developers)
	assert.Equal(t, "scm:git:https://gitlab.com/example/demo.git", m.Connection)
}

func TestParse_NPM(t *testing.T) {
	m, err := Parse(FormatNPM, []byte(`{
  "name": "demo",
  "author": "Alice <alice@example.com> (https://alice.dev)",
  "contributors": [
    {"name": "Bob", "email": "bob@example.com", "url": "https://bob.dev"},
    "Carol",
    {"name": "Dave", "web": "https://dave.dev"}
  ],
  "maintainers": ["erin@example.com"],
  "repository": {"type": "git", "url": "git+https://github.com/example/demo.git"}
}`))
	require.NoError(t, err)

	assert.Equal(t, []source.Developer{
		{Name: "Alice", Email: "alice@example.com", URL: "https://alice.dev"},
		{Name: "Bob", Email: "bob@example.com", URL: "https://bob.dev"},
		{Name: "Carol"},
		{Name: "Dave", URL: "https://dave.dev"},
		{Email: "erin@example.com"},
	}, m.Developers)
	assert.Equal(t, "scm:git:https://github.com/example/demo.git", m.Connection)
}

func TestExpandNPMRepository(t *testing.T) {
	tests := map[string]string{
		"example/demo":                 "github.com/example/demo",
		"github:example/demo":          "github.com/example/demo",
		"gitlab:example/demo":          "gitlab.com/example/demo",
		"bitbucket:example/demo":       "bitbucket.org/example/demo",
		"https://example.com/demo.git": "https://example.com/demo.git",
		"":                             "",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, expandNPMRepository(input), input)
	}
}

func TestParse_NPMNonGitRepository(t *testing.T) {
	m, err := Parse(FormatNPM, []byte(`{"repository": {"type": "svn", "url": "svn://svn.example.org/demo"}}`))
	require.NoError(t, err)
	assert.Empty(t, m.Connection)
	assert.Empty(t, m.Developers)
}

func TestParse_Citation(t *testing.T) {
	m, err := Parse(FormatCitation, []byte(`
cff-version: 1.2.0
title: demo
repository-code: https://github.com/example/demo
authors:
  - given-names: Ludwig
    name-particle: van
    family-names: Beethoven
    email: ludwig@example.com
    alias: lvb
  - given-names: Alice
    family-names: Smith
    name-suffix: Jr.
    orcid: https://orcid.org/0000-0000-0000-0000
  - name: The Demo Project Team
    website: https://demo.example.com
`))
	require.NoError(t, err)

	assert.Equal(t, []source.Developer{
		{ID: "lvb", Name: "Ludwig van Beethoven", Email: "ludwig@example.com"},
		{Name: "Alice Smith, Jr.", URL: "https://orcid.org/0000-0000-0000-0000"},
		{Name: "The Demo Project Team", URL: "https://demo.example.com"},
	}, m.Developers)
	assert.Equal(t, "scm:git:https://github.com/example/demo", m.Connection)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatPOM, "<project><developers>"},
		{FormatCargo, "[package\nname ="},
		{FormatNPM, "{"},
		{FormatPyProject, "authors = ["},
		{FormatCitation, "authors: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			_, err := Parse(tt.format, []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse("build.gradle", nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	require.NoError(t, os.WriteFile(path, []byte(pomXML), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path)
	assert.Len(t, m.Developers, 2)

	set, err := m.Declared().Authors(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "brunodepaulak@yahoo.com.br", set.All()[0].Email)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "pom.xml"))
	assert.True(t, errors.IsNotFoundError(err))

	_, err = Load(filepath.Join(dir, "build.gradle"))
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()

	_, err := Detect(dir)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{}`), 0o644))
	path, err := Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "package.json"), path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pom.xml"), []byte(`<project/>`), 0o644))
	path, err = Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pom.xml"), path, "pom.xml takes precedence")
}

func TestFormatOf(t *testing.T) {
	f, ok := FormatOf("/repo/Cargo.toml")
	assert.True(t, ok)
	assert.Equal(t, FormatCargo, f)

	_, ok = FormatOf("/repo/cargo.toml")
	assert.False(t, ok)
}
