package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/teranos/authorship/collect"
	"github.com/teranos/authorship/config"
	"github.com/teranos/authorship/logger"
	"github.com/teranos/authorship/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the report and re-run it when inputs change",
		Long: `Run the report, then watch the manifest, the config files and the source
roots. Each settled burst of changes reloads the configuration and re-runs the
report. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := runReport(ctx, cmd, cfg)
			if err != nil {
				return err
			}

			explicit, _ := cmd.Flags().GetString("config")
			opts := watchOptions(cfg, out, explicit)

			w, err := watch.New(opts, func(ctx context.Context, changed []string) error {
				config.Reset()
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				_, err = runReport(ctx, cmd, cfg)
				return err
			})
			if err != nil {
				return err
			}

			logger.Infow("Watching for changes",
				"files", opts.Files,
				"trees", opts.Trees,
			)
			return w.Run(ctx)
		},
	}
	addReportFlags(cmd.Flags())
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// watchOptions lists what a report depends on: the manifest, the config
// files and the annotation roots that exist.
func watchOptions(cfg *config.Config, out *collect.Outcome, explicitConfig string) watch.Options {
	opts := watch.Options{
		Debounce:    cfg.Watch.Debounce(),
		MinInterval: cfg.Watch.MinInterval(),
		Logger:      logger.ComponentLogger("watch"),
	}

	if out.Manifest != "" {
		opts.Files = append(opts.Files, out.Manifest)
	}
	if project := config.FindProjectConfig(); project != "" {
		opts.Files = append(opts.Files, project)
	} else {
		opts.Files = append(opts.Files, filepath.Join(cfg.ProjectDir, config.ProjectConfigName))
	}
	if explicitConfig != "" {
		opts.Files = append(opts.Files, explicitConfig)
	}

	for _, root := range cfg.Sources.Roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(cfg.ProjectDir, root)
		}
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			abs, err := filepath.Abs(root)
			if err != nil {
				continue
			}
			opts.Trees = append(opts.Trees, abs)
		}
	}
	opts.Match = includeMatcher(opts.Trees, cfg.Sources.Include)
	return opts
}

// includeMatcher accepts paths whose location below one of roots matches an
// include glob.
func includeMatcher(roots, include []string) func(string) bool {
	return func(path string) bool {
		for _, root := range roots {
			rel, err := filepath.Rel(root, path)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				continue
			}
			rel = filepath.ToSlash(rel)
			for _, pattern := range include {
				if ok, _ := doublestar.Match(pattern, rel); ok {
					return true
				}
			}
		}
		return false
	}
}
