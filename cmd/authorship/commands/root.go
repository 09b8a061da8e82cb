// Package commands implements the authorship command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/authorship/config"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/logger"
)

// NewRootCmd builds the authorship command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "authorship",
		Short: "Reconcile declared authors with history and source annotations",
		Long: `authorship compares the authors a project declares (pom.xml, Cargo.toml,
package.json, pyproject.toml, CITATION.cff or authorship.toml) with the people
found in its version control history and in @author source annotations.

Every author seen in history or annotations but missing from the declared list
is reported as a divergence.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (AUTHORSHIP_* prefix)
3. --config file
4. Project config (authorship.toml, searched upward)
5. User config (~/.authorship/config.toml)
6. Default values

Examples:
  authorship report                          # Report for the current directory
  authorship report --format html --out a.html
  authorship report --connection scm:git:https://github.com/org/repo.git
  authorship parse "Jane Doe <jane@example.com>"
  authorship init                            # Write a starter authorship.toml
  authorship watch                           # Re-run the report on changes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			jsonLogs, _ := cmd.Flags().GetBool("log-json")
			if err := logger.Initialize(jsonLogs, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}

			configPath, _ := cmd.Flags().GetString("config")
			config.SetConfigFile(configPath)
			config.Reset()
			return nil
		},
	}

	root.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv)")
	root.PersistentFlags().Bool("json", false, "Output results as JSON")
	root.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	root.PersistentFlags().String("config", "", "Config file with highest file precedence")

	root.AddCommand(
		newReportCmd(),
		newParseCmd(),
		newInitCmd(),
		newWatchCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}
