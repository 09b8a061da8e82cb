package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"

	"github.com/teranos/authorship/author"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/logger"
)

// Cloner materialises a working copy of url in dir.
type Cloner interface {
	Clone(ctx context.Context, url, dir string) error
}

// CloneFunc adapts a function to Cloner.
type CloneFunc func(ctx context.Context, url, dir string) error

// Clone calls f(ctx, url, dir).
func (f CloneFunc) Clone(ctx context.Context, url, dir string) error { return f(ctx, url, dir) }

// GoGitCloner clones with go-git, without a git binary.
type GoGitCloner struct{}

// Clone does a full clone of url into dir.
func (GoGitCloner) Clone(ctx context.Context, url, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: url})
	return err
}

// Git reads commit author identities from a git repository.
//
// A URL naming a local repository is read in place. Anything else is cloned
// into a fresh directory, created under WorkDir when set and under the system
// temp dir otherwise. That directory is removed before Authors returns,
// whether or not it succeeded; WorkDir itself is left alone.
type Git struct {
	URL     string
	WorkDir string
	From    string // revision to walk from; HEAD when empty
	To      string // optional; commits reachable from it are excluded

	Cloner Cloner                 // GoGitCloner when nil
	Remove func(path string) error // os.RemoveAll when nil
	Logger *zap.SugaredLogger
}

// Name identifies the source in reports and logs.
func (g *Git) Name() string { return "git" }

// Authors reads commit authors from a local repository in place, or from a
// temporary clone of a remote one.
func (g *Git) Authors(ctx context.Context) (*author.Set, error) {
	log := logger.OrNop(g.Logger)

	if isLocalRepository(g.URL) {
		log.Debugw("Reading local repository in place", logger.FieldRepository, g.URL)
		return g.read(g.URL, log)
	}

	dir, err := g.workingCopy()
	if err != nil {
		return nil, err
	}
	defer g.release(dir, log)

	log.Infow("Cloning repository",
		logger.FieldRepository, g.URL,
		logger.FieldWorkDir, dir,
	)
	cloner := g.Cloner
	if cloner == nil {
		cloner = GoGitCloner{}
	}
	if err := cloner.Clone(ctx, g.URL, dir); err != nil {
		return nil, errors.RetrievalFailure(err, "failed to clone %s", g.URL)
	}

	return g.read(dir, log)
}

// workingCopy creates a fresh directory for the clone, inside WorkDir when
// set. Only this directory is ever removed.
func (g *Git) workingCopy() (string, error) {
	if g.WorkDir != "" {
		if err := os.MkdirAll(g.WorkDir, 0o755); err != nil {
			return "", errors.RetrievalFailure(err, "failed to create working directory %s", g.WorkDir)
		}
	}
	dir, err := os.MkdirTemp(g.WorkDir, "authorship-git-"+repoName(g.URL)+"-*")
	if err != nil {
		return "", errors.RetrievalFailure(err, "failed to create working copy directory")
	}
	return dir, nil
}

// release removes the working copy. Failure is only logged.
func (g *Git) release(dir string, log *zap.SugaredLogger) {
	remove := g.Remove
	if remove == nil {
		remove = os.RemoveAll
	}
	if err := remove(dir); err != nil {
		log.Warnw("Failed to remove working copy",
			logger.FieldWorkDir, dir,
			logger.FieldError, err,
		)
		return
	}
	log.Debugw("Removed working copy", logger.FieldWorkDir, dir)
}

func (g *Git) read(dir string, log *zap.SugaredLogger) (*author.Set, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, errors.RetrievalFailure(err, "failed to open repository at %s", dir)
	}

	from := g.From
	if from == "" {
		from = "HEAD"
	}
	fromHash, err := repo.ResolveRevision(plumbing.Revision(from))
	if err != nil {
		return nil, errors.AnalysisFailure(err, "failed to resolve revision %s", from)
	}

	excluded := make(map[plumbing.Hash]struct{})
	if g.To != "" {
		toHash, err := repo.ResolveRevision(plumbing.Revision(g.To))
		if err != nil {
			return nil, errors.AnalysisFailure(err, "failed to resolve revision %s", g.To)
		}
		if err := walk(repo, *toHash, func(c *object.Commit) {
			excluded[c.Hash] = struct{}{}
		}); err != nil {
			return nil, errors.AnalysisFailure(err, "failed to walk history from %s", g.To)
		}
	}

	set := author.NewSet()
	commits := 0
	if err := walk(repo, *fromHash, func(c *object.Commit) {
		if _, skip := excluded[c.Hash]; skip {
			return
		}
		commits++
		set.Add(author.Author{Name: c.Author.Name, Email: c.Author.Email})
	}); err != nil {
		return nil, errors.AnalysisFailure(err, "failed to walk history from %s", from)
	}

	log.Debugw("Walked history",
		logger.FieldRevision, from,
		"to", g.To,
		"commits", commits,
		logger.FieldCount, set.Len(),
	)
	return set, nil
}

func walk(repo *git.Repository, from plumbing.Hash, fn func(*object.Commit)) error {
	iter, err := repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return err
	}
	defer iter.Close()
	return iter.ForEach(func(c *object.Commit) error {
		fn(c)
		return nil
	})
}

// isLocalRepository reports whether path is an existing directory holding a git repository.
func isLocalRepository(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = git.PlainOpen(path)
	return err == nil
}

// repoName extracts a directory-safe repository name for temp dir naming.
func repoName(url string) string {
	url = strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	url = filepath.Base(url)
	replacer := strings.NewReplacer("*", "-", string(filepath.Separator), "-", "@", "-")
	if name := replacer.Replace(url); name != "" && name != "." {
		return name
	}
	return "repo"
}
