package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/logger"
	"github.com/teranos/authorship/source"
)

const templateHeader = `# authorship configuration
#
# Values here override ~/.authorship/config.toml.
# AUTHORSHIP_* environment variables (AUTHORSHIP_SCM_CONNECTION, ...) override both.

`

// fileLayout mirrors Config with toml tags, for writing authorship.toml.
type fileLayout struct {
	Manifest   string             `toml:"manifest"`
	ProjectDir string             `toml:"project_dir"`
	Developers []source.Developer `toml:"developers,omitempty"`
	SCM        struct {
		Connection string `toml:"connection"`
		WorkDir    string `toml:"work_dir"`
		From       string `toml:"from"`
		To         string `toml:"to"`
	} `toml:"scm"`
	SVN struct {
		Path  string `toml:"path"`
		Start string `toml:"start"`
		End   string `toml:"end"`
		Limit int    `toml:"limit"`
		Args  string `toml:"args"`
	} `toml:"svn"`
	Sources struct {
		Roots      []string `toml:"roots"`
		Include    []string `toml:"include"`
		TagPattern string   `toml:"tag_pattern"`
	} `toml:"sources"`
	Report struct {
		Format string `toml:"format"`
		Output string `toml:"output"`
	} `toml:"report"`
	Watch struct {
		DebounceMS    int `toml:"debounce_ms"`
		MinIntervalMS int `toml:"min_interval_ms"`
	} `toml:"watch"`
}

// Defaults returns a Config holding only built-in defaults.
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}

// Marshal renders cfg as an authorship.toml document.
func Marshal(cfg *Config) ([]byte, error) {
	var f fileLayout
	f.Manifest = cfg.Manifest
	f.ProjectDir = cfg.ProjectDir
	f.Developers = cfg.Developers
	f.SCM.Connection = cfg.SCM.Connection
	f.SCM.WorkDir = cfg.SCM.WorkDir
	f.SCM.From = cfg.SCM.From
	f.SCM.To = cfg.SCM.To
	f.SVN.Path = cfg.SVN.Path
	f.SVN.Start = cfg.SVN.Start
	f.SVN.End = cfg.SVN.End
	f.SVN.Limit = cfg.SVN.Limit
	f.SVN.Args = cfg.SVN.Args
	f.Sources.Roots = cfg.Sources.Roots
	f.Sources.Include = cfg.Sources.Include
	f.Sources.TagPattern = cfg.Sources.TagPattern
	f.Report.Format = cfg.Report.Format
	f.Report.Output = cfg.Report.Output
	f.Watch.DebounceMS = cfg.Watch.DebounceMS
	f.Watch.MinIntervalMS = cfg.Watch.MinIntervalMS

	body, err := toml.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	buf.Write(body)
	return buf.Bytes(), nil
}

// WriteFile writes cfg to path. An existing file is only replaced when force
// is set, after rotating it into .back1/.back2/.back3.
func WriteFile(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return errors.WithHint(
				errors.Newf("%s already exists", path),
				"pass --force to overwrite it (the old file is kept as .back1)",
			)
		}
		if err := createBackup(path); err != nil {
			return errors.Wrap(err, "failed to create backup")
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before overwriting
func createBackup(configPath string) error {
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	// Delete oldest backup if exists
	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old backup", logger.FieldFile, back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// IsBackupFile reports whether path is one of the rotated backups.
func IsBackupFile(path string) bool {
	for _, suffix := range []string{".back1", ".back2", ".back3"} {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
