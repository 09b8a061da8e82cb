// Package collect builds the author sources from configuration, runs them
// side by side and reconciles what they found.
//
// A source that fails contributes an empty set and a warning; the run itself
// never fails because of one source.
package collect

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/authorship/author"
	"github.com/teranos/authorship/config"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/logger"
	"github.com/teranos/authorship/manifest"
	"github.com/teranos/authorship/reconcile"
	"github.com/teranos/authorship/scm"
	"github.com/teranos/authorship/source"
)

// Plan is the set of sources for one project.
type Plan struct {
	Declared    source.Source
	History     source.Source // nil when the project names no repository
	Annotations source.Source

	Manifest   *manifest.Manifest // nil when no manifest was found or it could not be read
	Connection string             // scm connection the history source was built from
	Roots      []string           // annotation roots, resolved against the project dir

	// Failures found while building, reported with the run's own failures.
	Failures []Failure
}

// Failure records a source that could not produce its set.
type Failure struct {
	Source string `json:"source"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error"`
}

// Outcome is the result of one run.
type Outcome struct {
	RunID      string            `json:"run_id"`
	Started    time.Time         `json:"started"`
	Duration   time.Duration     `json:"duration"`
	Manifest   string            `json:"manifest,omitempty"`
	Connection string            `json:"connection,omitempty"`
	Result     *reconcile.Result `json:"result"`
	Failures   []Failure         `json:"failures,omitempty"`

	Declared    *author.Set `json:"-"`
	History     *author.Set `json:"-"`
	Annotations *author.Set `json:"-"`
}

// Build turns configuration into a Plan. It fails only on configuration
// errors, such as an explicit manifest that cannot be read. A detected
// manifest that cannot be read becomes a declared-source failure instead.
func Build(cfg *config.Config, log *zap.SugaredLogger) (*Plan, error) {
	log = logger.OrNop(log)
	plan := &Plan{}

	m, failure, err := loadManifest(cfg, log)
	if err != nil {
		return nil, err
	}
	plan.Manifest = m
	if failure != nil {
		plan.Failures = append(plan.Failures, *failure)
	}

	developers := append([]source.Developer(nil), cfg.Developers...)
	if m != nil {
		developers = append(developers, m.Developers...)
	}
	plan.Declared = &source.Declared{Developers: developers}

	plan.Connection = cfg.SCM.Connection
	if plan.Connection == "" && m != nil {
		plan.Connection = m.Connection
	}
	plan.History = historySource(cfg, plan.Connection, log)

	tag, err := cfg.TagPattern()
	if err != nil {
		return nil, err
	}
	for _, root := range cfg.Sources.Roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(cfg.ProjectDir, root)
		}
		plan.Roots = append(plan.Roots, root)
	}
	plan.Annotations = source.AnnotationRoots(cfg.Sources.Include, tag, logger.ComponentLogger("source.annotations"), plan.Roots...)

	return plan, nil
}

func loadManifest(cfg *config.Config, log *zap.SugaredLogger) (*manifest.Manifest, *Failure, error) {
	path := cfg.Manifest
	explicit := path != ""
	if !explicit {
		detected, err := manifest.Detect(cfg.ProjectDir)
		if err != nil {
			log.Infow("No manifest found, declared authors come from configuration only",
				logger.FieldRoot, cfg.ProjectDir)
			return nil, nil, nil
		}
		path = detected
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectDir, path)
	}

	m, err := manifest.Load(path)
	if err != nil {
		if explicit {
			return nil, nil, errors.Wrap(err, "failed to load manifest")
		}
		err = errors.RetrievalFailure(err, "failed to load manifest")
		declared := new(source.Declared).Name()
		log.Warnw("Author source failed, continuing without it",
			logger.FieldSource, declared,
			logger.FieldManifest, path,
			logger.FieldError, err,
		)
		return nil, &Failure{Source: declared, Kind: errors.KindRetrieval.String(), Error: err.Error()}, nil
	}
	log.Debugw("Loaded manifest",
		logger.FieldManifest, path,
		logger.FieldCount, len(m.Developers),
	)
	return m, nil, nil
}

// historySource selects the adapter for the connection's scm kind.
func historySource(cfg *config.Config, connection string, log *zap.SugaredLogger) source.Source {
	if connection == "" {
		log.Infow("No scm connection configured, history will be empty")
		return nil
	}

	conn, err := scm.Parse(connection)
	if err != nil {
		log.Warnw("Ignoring unusable scm connection",
			"connection", connection,
			logger.FieldError, err,
		)
		return nil
	}

	switch conn.Kind {
	case scm.KindGit:
		url, err := scm.NormalizeRemote(conn.URL)
		if err != nil {
			log.Debugw("Using repository location as given", logger.FieldRepository, conn.URL, logger.FieldError, err)
			url = conn.URL
		}
		return &source.Git{
			URL:     url,
			WorkDir: cfg.SCM.WorkDir,
			From:    cfg.SCM.From,
			To:      cfg.SCM.To,
			Logger:  logger.ComponentLogger("source.git"),
		}
	case scm.KindSubversion:
		return &source.Subversion{
			URL:  conn.URL,
			Path: cfg.SVN.Path,
			Options: source.Options{
				Start: cfg.SVN.Start,
				End:   cfg.SVN.End,
				Limit: cfg.SVN.Limit,
			},
			ExtraArgs: cfg.SVN.Args,
			Logger:    logger.ComponentLogger("source.svn"),
		}
	default:
		return nil
	}
}

// Run executes the plan's sources concurrently and reconciles their sets.
func Run(ctx context.Context, plan *Plan, log *zap.SugaredLogger) *Outcome {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log = logger.OrNop(log).With(logger.FieldRunID, runID)

	out := &Outcome{
		RunID:      runID,
		Started:    time.Now(),
		Connection: plan.Connection,
	}
	if plan.Manifest != nil {
		out.Manifest = plan.Manifest.Path
	}

	var (
		failures [3]*Failure
		wg       sync.WaitGroup
	)
	sources := [3]source.Source{plan.Declared, plan.History, plan.Annotations}
	sets := [3]**author.Set{&out.Declared, &out.History, &out.Annotations}
	// Each goroutine writes only its own slot.
	for i := range sources {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			*sets[i], failures[i] = collectOne(ctx, sources[i], log)
		}(i)
	}
	wg.Wait()

	out.Failures = append(out.Failures, plan.Failures...)
	for _, f := range failures {
		if f != nil {
			out.Failures = append(out.Failures, *f)
		}
	}

	out.Result = reconcile.Reconcile(out.Declared, out.History, out.Annotations)
	out.Duration = time.Since(out.Started)

	log.Infow("Reconciliation complete",
		"declared", out.Declared.Len(),
		"history", out.History.Len(),
		"annotations", out.Annotations.Len(),
		"divergent", len(out.Result.Divergence),
		logger.FieldDurationMS, out.Duration.Milliseconds(),
	)
	return out
}

// collectOne runs src, degrading a failure to an empty set and a warning.
func collectOne(ctx context.Context, src source.Source, log *zap.SugaredLogger) (*author.Set, *Failure) {
	if src == nil {
		return author.NewSet(), nil
	}

	start := time.Now()
	set, err := src.Authors(ctx)
	if err != nil {
		f := &Failure{Source: src.Name(), Error: err.Error()}
		if kind, ok := errors.KindOf(err); ok {
			f.Kind = kind.String()
		}
		log.Warnw("Author source failed, continuing without it",
			logger.FieldSource, src.Name(),
			"kind", f.Kind,
			logger.FieldError, err,
		)
		return author.NewSet(), f
	}

	log.Debugw("Collected authors",
		logger.FieldSource, src.Name(),
		logger.FieldCount, set.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return set, nil
}
