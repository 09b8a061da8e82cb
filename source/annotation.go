package source

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/teranos/authorship/annotation"
	"github.com/teranos/authorship/author"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/logger"
)

// DefaultInclude selects the files scanned when no include globs are given.
var DefaultInclude = []string{"**/*.java"}

// DefaultTagPattern matches a javadoc author tag. Group 1 is the annotation text.
const DefaultTagPattern = `^\s?\*\s?@author\s+(.*)`

var defaultTag = regexp.MustCompile(DefaultTagPattern)

const maxLineSize = 1024 * 1024

// Annotation scans a source tree for author tags.
type Annotation struct {
	Root       string
	Include    []string       // doublestar globs relative to Root; DefaultInclude when empty
	TagPattern *regexp.Regexp // must have one capture group; DefaultTagPattern when nil
	Logger     *zap.SugaredLogger
}

// Name identifies the source in reports and logs.
func (a *Annotation) Name() string { return "annotations" }

// Authors returns the authors of every matching tag. A missing root yields an
// empty set. Files that cannot be read are skipped.
func (a *Annotation) Authors(ctx context.Context) (*author.Set, error) {
	log := logger.OrNop(a.Logger)
	set := author.NewSet()

	tag := a.TagPattern
	if tag == nil {
		tag = defaultTag
	}
	if tag.NumSubexp() < 1 {
		return nil, errors.ScanFailure(nil, "tag pattern %q has no capture group", tag.String())
	}

	info, err := os.Stat(a.Root)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugw("Source root does not exist", logger.FieldRoot, a.Root)
			return set, nil
		}
		return nil, errors.ScanFailure(err, "failed to stat source root %s", a.Root)
	}
	if !info.IsDir() {
		return nil, errors.ScanFailure(nil, "source root %s is not a directory", a.Root)
	}

	files, err := a.files()
	if err != nil {
		return nil, err
	}

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, errors.ScanFailure(err, "scan of %s interrupted", a.Root)
		}
		path := filepath.Join(a.Root, filepath.FromSlash(rel))
		if err := scanFile(path, tag, set); err != nil {
			log.Debugw("Skipping unreadable file", logger.FieldFile, path, logger.FieldError, err)
		}
	}

	log.Debugw("Scanned source root",
		logger.FieldRoot, a.Root,
		"files", len(files),
		logger.FieldCount, set.Len(),
	)
	return set, nil
}

// files lists the distinct files matched by the include globs, in glob order.
func (a *Annotation) files() ([]string, error) {
	include := a.Include
	if len(include) == 0 {
		include = DefaultInclude
	}

	fsys := os.DirFS(a.Root)
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.ScanFailure(doublestar.ErrBadPattern, "invalid include pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.ScanFailure(err, "failed to enumerate %q under %s", pattern, a.Root)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	return files, nil
}

func scanFile(path string, tag *regexp.Regexp, set *author.Set) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		m := tag.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		set.Add(annotation.Parse(m[1]))
	}
	return scanner.Err()
}

// Annotations scans several roots and unions what they find, in root order.
type Annotations struct {
	Roots []*Annotation
}

// AnnotationRoots builds one Annotation per root sharing include globs and tag pattern.
func AnnotationRoots(include []string, tag *regexp.Regexp, log *zap.SugaredLogger, roots ...string) *Annotations {
	a := &Annotations{}
	for _, root := range roots {
		a.Roots = append(a.Roots, &Annotation{
			Root:       root,
			Include:    include,
			TagPattern: tag,
			Logger:     log,
		})
	}
	return a
}

// Name matches Annotation, so a multi-root scan reports as one source.
func (a *Annotations) Name() string { return "annotations" }

// Authors unions every root in order. Any failing root fails the whole scan.
func (a *Annotations) Authors(ctx context.Context) (*author.Set, error) {
	set := author.NewSet()
	for _, root := range a.Roots {
		found, err := root.Authors(ctx)
		if err != nil {
			return nil, err
		}
		set.AddAll(found)
	}
	return set, nil
}
