package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit describes one commit to record in a fixture repository.
type Commit struct {
	Name    string
	Email   string
	Message string
}

// GitRepo is a throwaway repository built with go-git, so tests need no git binary.
type GitRepo struct {
	Dir    string
	Repo   *git.Repository
	Hashes []plumbing.Hash

	clock time.Time
}

// CreateGitRepo initialises a repository in a fresh temp dir and records commits in order.
func CreateGitRepo(t *testing.T, commits ...Commit) *GitRepo {
	t.Helper()
	return InitGitRepo(t, t.TempDir(), commits...)
}

// InitGitRepo is CreateGitRepo for a caller-chosen directory.
func InitGitRepo(t *testing.T, dir string, commits ...Commit) *GitRepo {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init test repository: %v", err)
	}

	r := &GitRepo{
		Dir:   dir,
		Repo:  repo,
		clock: time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, c := range commits {
		r.Commit(t, c)
	}
	return r
}

// Commit writes a file and records a commit authored by c.
func (r *GitRepo) Commit(t *testing.T, c Commit) plumbing.Hash {
	t.Helper()

	wt, err := r.Repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to open worktree: %v", err)
	}

	name := fmt.Sprintf("file-%03d.txt", len(r.Hashes))
	if err := os.WriteFile(filepath.Join(r.Dir, name), []byte(c.Message+"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("Failed to stage %s: %v", name, err)
	}

	message := c.Message
	if message == "" {
		message = "commit " + name
	}
	r.clock = r.clock.Add(time.Minute)
	sig := &object.Signature{Name: c.Name, Email: c.Email, When: r.clock}

	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	r.Hashes = append(r.Hashes, hash)
	return hash
}

// Tag creates a lightweight tag pointing at hash.
func (r *GitRepo) Tag(t *testing.T, name string, hash plumbing.Hash) {
	t.Helper()
	if _, err := r.Repo.CreateTag(name, hash, nil); err != nil {
		t.Fatalf("Failed to create tag %s: %v", name, err)
	}
}
