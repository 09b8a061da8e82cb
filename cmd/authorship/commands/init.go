package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/authorship/config"
	"github.com/teranos/authorship/manifest"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter authorship.toml",
		Long: `Write authorship.toml with the default settings into dir (the current
directory by default). When a manifest is found there, its file name and scm
connection are recorded in the file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")

			cfg := config.Defaults()
			if path, err := manifest.Detect(dir); err == nil {
				if m, err := manifest.Load(path); err == nil {
					cfg.Manifest = filepath.Base(path)
					cfg.SCM.Connection = m.Connection
				} else {
					pterm.Warning.Printf("Ignoring unreadable manifest %s: %v\n", path, err)
				}
			}

			path := filepath.Join(dir, config.ProjectConfigName)
			if err := config.WriteFile(path, cfg, force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("Wrote %s", path))
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing authorship.toml (kept as .back1)")
	return cmd
}
