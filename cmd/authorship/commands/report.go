package commands

import (
	"context"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/authorship/collect"
	"github.com/teranos/authorship/config"
	"github.com/teranos/authorship/display"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/logger"
	"github.com/teranos/authorship/report"
)

// reportFlags maps report flags to configuration keys.
var reportFlags = map[string]string{
	"project-dir": "project_dir",
	"manifest":    "manifest",
	"connection":  "scm.connection",
	"work-dir":    "scm.work_dir",
	"from":        "scm.from",
	"to":          "scm.to",
	"src":         "sources.roots",
	"include":     "sources.include",
	"format":      "report.format",
	"out":         "report.output",
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report authors missing from the declared list",
		Long: `Collect declared, history and annotation authors and print the divergence
table followed by the three author listings.

A source that cannot be read (unreachable repository, missing svn binary,
unreadable source root) is reported as a warning and treated as empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			_, err = runReport(cmd.Context(), cmd, cfg)
			return err
		},
	}
	addReportFlags(cmd.Flags())
	return cmd
}

func addReportFlags(f *pflag.FlagSet) {
	f.String("project-dir", "", "Directory searched for the manifest and source roots")
	f.String("manifest", "", "Manifest to read declared authors from (detected when empty)")
	f.String("connection", "", "SCM connection, e.g. scm:git:https://host/repo.git or scm:svn:https://host/svn/trunk")
	f.String("work-dir", "", "Directory under which remote repositories are cloned")
	f.String("from", "", "Git revision to walk history from")
	f.String("to", "", "Git revision whose history is excluded")
	f.StringSlice("src", nil, "Source root scanned for @author annotations (repeatable)")
	f.StringSlice("include", nil, "Glob of files scanned under each source root (repeatable)")
	f.StringP("format", "f", "", "Report format: text, json or html")
	f.StringP("out", "o", "", "Write the report to a file instead of stdout")
}

// loadConfig binds the command's flags to viper, loads and validates the
// configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.GetViper()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	for name, key := range reportFlags {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errors.Wrapf(err, "failed to bind flag --%s", name)
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if display.ShouldOutputJSON(cmd) {
		cfg.Report.Format = config.FormatJSON
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runReport collects, reconciles and renders once.
func runReport(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*collect.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	plan, err := collect.Build(cfg, logger.ComponentLogger("collect"))
	if err != nil {
		return nil, err
	}
	out := collect.Run(ctx, plan, logger.ComponentLogger("collect"))

	if err := writeReport(cmd.OutOrStdout(), cfg, out); err != nil {
		return nil, err
	}
	return out, nil
}

func writeReport(stdout io.Writer, cfg *config.Config, out *collect.Outcome) error {
	if cfg.Report.Output == "" {
		return report.Render(stdout, cfg.Report.Format, out)
	}

	f, err := os.Create(cfg.Report.Output)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", cfg.Report.Output)
	}
	if cfg.Report.Format == config.FormatText || cfg.Report.Format == "" {
		pterm.DisableColor()
		defer pterm.EnableColor()
	}
	if err := report.Render(f, cfg.Report.Format, out); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to write %s", cfg.Report.Output)
	}

	logger.Infow("Report written",
		logger.FieldFile, cfg.Report.Output,
		logger.FieldRunID, out.RunID,
	)
	return nil
}
