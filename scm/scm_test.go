package scm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/authorship/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		connection string
		expected   Connection
	}{
		{
			name:       "git https",
			connection: "scm:git:https://github.com/apache/commons-lang.git",
			expected:   Connection{Kind: KindGit, URL: "https://github.com/apache/commons-lang.git"},
		},
		{
			name:       "git ssh with surrounding space",
			connection: "  scm:git:git@github.com:apache/commons-lang.git ",
			expected:   Connection{Kind: KindGit, URL: "git@github.com:apache/commons-lang.git"},
		},
		{
			name:       "svn over http",
			connection: "scm:svn:http://svn.apache.org/repos/asf/commons/proper/lang/trunk",
			expected:   Connection{Kind: KindSubversion, URL: "http://svn.apache.org/repos/asf/commons/proper/lang/trunk", Protocol: "http"},
		},
		{
			name:       "svn over https",
			connection: "scm:svn:https://svn.example.org/repo",
			expected:   Connection{Kind: KindSubversion, URL: "https://svn.example.org/repo", Protocol: "http"},
		},
		{
			name:       "svn native protocol",
			connection: "scm:svn:svn://svn.example.org/repo",
			expected:   Connection{Kind: KindSubversion, URL: "svn://svn.example.org/repo", Protocol: "svn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Parse(tt.connection)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, conn)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, connection := range []string{
		"",
		"https://github.com/apache/commons-lang.git",
		"scm:cvs:pserver:anonymous@cvs.example.org:/cvs",
		"scm:git",
		"scm:git:",
	} {
		t.Run(connection, func(t *testing.T) {
			_, err := Parse(connection)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidRequestError(err))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "git", KindGit.String())
	assert.Equal(t, "svn", KindSubversion.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestNormalizeRemote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://github.com/apache/commons-lang.git", "https://github.com/apache/commons-lang.git"},
		{"github.com/apache/commons-lang", "https://github.com/apache/commons-lang.git"},
		{"git@github.com:apache/commons-lang.git", "ssh://git@github.com/apache/commons-lang.git"},
		{"/srv/git/project", "/srv/git/project"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeRemote(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeRemote_Empty(t *testing.T) {
	_, err := NormalizeRemote("  ")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}
