// Package watch re-runs a callback when manifest, config or source files change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/authorship/config"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/logger"
)

// Trigger is called once per settled burst of changes with the paths that
// changed, sorted. An error is logged and watching continues.
type Trigger func(ctx context.Context, changed []string) error

// Options configure a Watcher.
type Options struct {
	// Files are watched through their parent directory, so atomic
	// saves that replace the file are still seen.
	Files []string
	// Trees are directories watched recursively. Directories created
	// later are added as they appear.
	Trees []string
	// Match filters events inside Trees. Nil accepts every file.
	Match func(path string) bool

	Debounce    time.Duration
	MinInterval time.Duration
	Logger      *zap.SugaredLogger
}

// Watcher batches filesystem events and invokes a Trigger.
type Watcher struct {
	fsw     *fsnotify.Watcher
	opts    Options
	limiter *rate.Limiter
	trigger Trigger
	log     *zap.SugaredLogger

	files map[string]struct{}
	trees []string

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	fire    chan struct{}

	stopOnce sync.Once
	stopped  chan struct{}
}

// New creates a watcher over opts' files and trees. Missing files are
// tolerated as long as their directory exists; a missing tree is an error.
func New(opts Options, trigger Trigger) (*Watcher, error) {
	if trigger == nil {
		return nil, errors.NewInvalidRequestError("watch trigger is required")
	}
	if opts.Debounce < 0 || opts.MinInterval < 0 {
		return nil, errors.NewInvalidRequestError("watch intervals must not be negative")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	w := &Watcher{
		fsw:     fsw,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		trigger: trigger,
		log:     logger.OrNop(opts.Logger),
		files:   make(map[string]struct{}),
		pending: make(map[string]struct{}),
		fire:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}

	if err := w.addAll(); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addAll() error {
	dirs := make(map[string]struct{})
	for _, f := range w.opts.Files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", f)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}

	for _, t := range w.opts.Trees {
		abs, err := filepath.Abs(t)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", t)
		}
		if err := w.addTree(abs); err != nil {
			return err
		}
		w.trees = append(w.trees, abs)
	}
	return nil
}

// addTree watches root and every directory below it except hidden ones.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "failed to walk %s", path)
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch directory %s", path)
		}
		return nil
	})
}

// Run processes events until ctx is cancelled or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stopped:
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)

		case <-w.fire:
			if err := w.run(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.log.Errorw("Watch trigger failed", logger.FieldError, err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if config.IsBackupFile(event.Name) {
		return
	}

	path := filepath.Clean(event.Name)
	if event.Has(fsnotify.Create) && w.inTree(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.log.Warnw("Failed to watch new directory", logger.FieldFile, path, logger.FieldError, err)
			}
			return
		}
	}

	if !w.relevant(path) {
		return
	}

	w.log.Debugw("Watcher detected change", logger.FieldFile, path, "op", event.Op.String())
	w.schedule(path)
}

func (w *Watcher) inTree(path string) bool {
	for _, t := range w.trees {
		if path == t || strings.HasPrefix(path, t+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) relevant(path string) bool {
	if _, ok := w.files[path]; ok {
		return true
	}
	if !w.inTree(path) {
		return false
	}
	return w.opts.Match == nil || w.opts.Match(path)
}

// schedule records path and restarts the debounce timer.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(changed)
	return changed
}

func (w *Watcher) run(ctx context.Context) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter")
	}
	changed := w.drain()
	if len(changed) == 0 {
		return nil
	}
	w.log.Infow("Inputs changed, re-running", logger.FieldCount, len(changed))
	return w.trigger(ctx, changed)
}

// Stop releases the underlying fsnotify watcher. It is safe to call more
// than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopped)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fsw.Close()
	})
	return err
}
