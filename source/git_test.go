package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/authorship/author"
	"github.com/teranos/authorship/errors"
	authtest "github.com/teranos/authorship/internal/testing"
)

var (
	alice = authtest.Commit{Name: "Alice", Email: "alice@example.com", Message: "first"}
	bob   = authtest.Commit{Name: "Bob", Email: "bob@example.com", Message: "second"}
	carol = authtest.Commit{Name: "Carol", Email: "carol@example.com", Message: "third"}
)

func authorOf(c authtest.Commit) author.Author {
	return author.Author{Name: c.Name, Email: c.Email}
}

func TestGit_LocalRepository(t *testing.T) {
	repo := authtest.CreateGitRepo(t, alice, bob, alice, carol)

	g := &Git{URL: repo.Dir}
	set, err := g.Authors(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []author.Author{authorOf(alice), authorOf(bob), authorOf(carol)}, set.All())
	assert.DirExists(t, repo.Dir, "local repositories are read in place")
	assert.Equal(t, "git", g.Name())
}

func TestGit_RevisionRange(t *testing.T) {
	repo := authtest.CreateGitRepo(t, alice, bob, carol)
	repo.Tag(t, "v1", repo.Hashes[0])

	tests := []struct {
		name     string
		from, to string
		expected []author.Author
	}{
		{"head", "", "", []author.Author{authorOf(alice), authorOf(bob), authorOf(carol)}},
		{"excluding tag", "HEAD", "v1", []author.Author{authorOf(bob), authorOf(carol)}},
		{"from older commit", repo.Hashes[1].String(), "", []author.Author{authorOf(alice), authorOf(bob)}},
		{"empty range", "v1", "v1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Git{URL: repo.Dir, From: tt.from, To: tt.to}
			set, err := g.Authors(context.Background())
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, set.All())
		})
	}
}

func TestGit_UnresolvableRevision(t *testing.T) {
	repo := authtest.CreateGitRepo(t, alice)

	for _, g := range []*Git{
		{URL: repo.Dir, From: "no-such-branch"},
		{URL: repo.Dir, To: "no-such-tag"},
	} {
		_, err := g.Authors(context.Background())
		require.Error(t, err)

		kind, ok := errors.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, errors.KindAnalysis, kind)
	}
}

func fixtureCloner(t *testing.T, commits ...authtest.Commit) CloneFunc {
	return func(ctx context.Context, url, dir string) error {
		assert.Equal(t, "https://example.com/project.git", url)
		authtest.InitGitRepo(t, dir, commits...)
		return nil
	}
}

func TestGit_ClonesAndRemovesWorkingCopy(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "wc")

	g := &Git{
		URL:     "https://example.com/project.git",
		WorkDir: workDir,
		Cloner:  fixtureCloner(t, alice, bob),
	}
	set, err := g.Authors(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []author.Author{authorOf(alice), authorOf(bob)}, set.All())
	assertEmptyDir(t, workDir)
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "working copy left behind in %s", dir)
}

func TestGit_WorkDirContentSurvives(t *testing.T) {
	workDir := t.TempDir()
	notes := filepath.Join(workDir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("keep me"), 0o644))

	var cloneDir string
	g := &Git{
		URL:     "https://example.com/project.git",
		WorkDir: workDir,
		Cloner: CloneFunc(func(ctx context.Context, url, dir string) error {
			cloneDir = dir
			authtest.InitGitRepo(t, dir, alice)
			return nil
		}),
	}
	set, err := g.Authors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []author.Author{authorOf(alice)}, set.All())

	assert.Equal(t, workDir, filepath.Dir(cloneDir), "clone goes into a subdirectory of the work dir")
	assert.NoDirExists(t, cloneDir)
	assert.FileExists(t, notes)

	entries, err := os.ReadDir(workDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt", entries[0].Name())
}

func TestGit_WorkDirSurvivesCloneFailure(t *testing.T) {
	workDir := t.TempDir()
	notes := filepath.Join(workDir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("keep me"), 0o644))

	g := &Git{
		URL:     "https://example.com/project.git",
		WorkDir: workDir,
		Cloner: CloneFunc(func(ctx context.Context, url, dir string) error {
			return errors.New("network unreachable")
		}),
	}
	_, err := g.Authors(context.Background())
	require.Error(t, err)
	assert.FileExists(t, notes)
}

func TestGit_TempWorkingCopy(t *testing.T) {
	var removed string
	g := &Git{
		URL:    "https://example.com/project.git",
		Cloner: fixtureCloner(t, carol),
		Remove: func(path string) error {
			removed = path
			return os.RemoveAll(path)
		},
	}
	set, err := g.Authors(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []author.Author{authorOf(carol)}, set.All())
	assert.Contains(t, filepath.Base(removed), "authorship-git-project-")
	assert.NoDirExists(t, removed)
}

func TestGit_CloneFailureStillCleansUp(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "wc")

	g := &Git{
		URL:     "https://example.com/project.git",
		WorkDir: workDir,
		Cloner: CloneFunc(func(ctx context.Context, url, dir string) error {
			require.NoError(t, os.WriteFile(filepath.Join(dir, "partial"), []byte("x"), 0o644))
			return errors.New("authentication required")
		}),
	}
	set, err := g.Authors(context.Background())
	require.Error(t, err)
	assert.Nil(t, set)
	assert.Contains(t, err.Error(), "authentication required")

	kind, ok := errors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindRetrieval, kind)
	assertEmptyDir(t, workDir)
}

func TestGit_NotARepositoryAfterClone(t *testing.T) {
	g := &Git{
		URL:     "https://example.com/project.git",
		WorkDir: filepath.Join(t.TempDir(), "wc"),
		Cloner:  CloneFunc(func(ctx context.Context, url, dir string) error { return nil }),
	}
	_, err := g.Authors(context.Background())
	require.Error(t, err)

	kind, ok := errors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindRetrieval, kind)
}

func TestGit_FailingRemoverIsOnlyLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	g := &Git{
		URL:     "https://example.com/project.git",
		WorkDir: filepath.Join(t.TempDir(), "wc"),
		Cloner:  fixtureCloner(t, alice),
		Remove:  func(string) error { return errors.New("device busy") },
		Logger:  zap.New(core).Sugar(),
	}
	set, err := g.Authors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []author.Author{authorOf(alice)}, set.All())

	warnings := logs.FilterMessage("Failed to remove working copy").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "device busy", warnings[0].ContextMap()["error"])
}

func TestRepoName(t *testing.T) {
	tests := map[string]string{
		"https://github.com/apache/commons-lang.git": "commons-lang",
		"git@github.com:example/demo.git":            "demo",
		"https://example.com/repo/":                  "repo",
		"":                                           "repo",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, repoName(input), input)
	}
}
