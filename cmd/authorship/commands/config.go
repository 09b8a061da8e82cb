package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/authorship/config"
	"github.com/teranos/authorship/display"
	"github.com/teranos/authorship/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show every setting and where it came from",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	show.Flags().String("format", "table", "Output format: table, json, yaml, toml")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprint("Configuration is valid"))
			return nil
		},
	}

	cmd.AddCommand(show, validate)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}
	w := cmd.OutOrStdout()

	switch format {
	case "json":
		intro, err := config.Introspect()
		if err != nil {
			return err
		}
		return display.OutputJSON(w, intro)

	case "yaml", "toml":
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		var data []byte
		if format == "yaml" {
			data, err = yaml.Marshal(cfg)
		} else {
			data, err = toml.Marshal(cfg)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to marshal config to %s", format)
		}
		fmt.Fprintf(w, "# authorship configuration\n%s", data)
		return nil

	case "table":
		intro, err := config.Introspect()
		if err != nil {
			return err
		}
		if len(intro.Files) == 0 {
			fmt.Fprintln(w, pterm.Info.Sprint("No config files found, using defaults"))
		} else {
			for _, f := range intro.Files {
				fmt.Fprintln(w, pterm.Info.Sprintf("Loaded %s", f))
			}
		}
		data := pterm.TableData{{"Key", "Value", "Source"}}
		for _, s := range intro.Settings {
			source := string(s.Source)
			if s.SourcePath != "" {
				source += " (" + s.SourcePath + ")"
			}
			data = append(data, []string{s.Key, fmt.Sprint(s.Value), source})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return errors.Wrap(err, "failed to render table")
		}
		fmt.Fprintln(w, table)
		return nil

	default:
		return errors.WithHint(
			errors.Newf("unsupported format: %s", format),
			"supported formats: table, json, yaml, toml",
		)
	}
}
