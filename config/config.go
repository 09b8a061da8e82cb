// Package config loads authorship settings from authorship.toml files and
// AUTHORSHIP_* environment variables using viper.
//
// Precedence, lowest to highest: built-in defaults, ~/.authorship/config.toml,
// the project authorship.toml (found by walking up from the working directory),
// an explicit --config file, environment variables, command line flags.
package config

import (
	"time"

	"github.com/teranos/authorship/source"
)

// Config is the complete authorship configuration.
type Config struct {
	Manifest   string             `mapstructure:"manifest"`    // explicit manifest path; detected in ProjectDir when empty
	ProjectDir string             `mapstructure:"project_dir"` // directory searched for the manifest
	Developers []source.Developer `mapstructure:"developers"`  // declared in addition to the manifest's developers

	SCM     SCMConfig     `mapstructure:"scm"`
	SVN     SVNConfig     `mapstructure:"svn"`
	Sources SourcesConfig `mapstructure:"sources"`
	Report  ReportConfig  `mapstructure:"report"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// SCMConfig selects the history source.
type SCMConfig struct {
	Connection string `mapstructure:"connection"` // scm:git:<url> or scm:svn:<url>; taken from the manifest when empty
	WorkDir    string `mapstructure:"work_dir"`   // clones go into a fresh subdirectory; the system temp dir when empty
	From       string `mapstructure:"from"`       // git revision to walk from
	To         string `mapstructure:"to"`         // git revision whose history is excluded
}

// SVNConfig bounds the Subversion log.
type SVNConfig struct {
	Path  string `mapstructure:"path"`
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
	Limit int    `mapstructure:"limit"` // 0 = unbounded
	Args  string `mapstructure:"args"`  // extra svn arguments, shell quoted
}

// SourcesConfig selects the files scanned for author annotations.
type SourcesConfig struct {
	Roots      []string `mapstructure:"roots"`
	Include    []string `mapstructure:"include"`
	TagPattern string   `mapstructure:"tag_pattern"`
}

// ReportConfig controls rendering.
type ReportConfig struct {
	Format string `mapstructure:"format"` // text, json or html
	Output string `mapstructure:"output"` // file path; stdout when empty
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceMS    int `mapstructure:"debounce_ms"`
	MinIntervalMS int `mapstructure:"min_interval_ms"` // minimum time between two runs
}

// Debounce returns DebounceMS as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// MinInterval returns MinIntervalMS as a duration.
func (w WatchConfig) MinInterval() time.Duration {
	return time.Duration(w.MinIntervalMS) * time.Millisecond
}

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Formats lists the accepted report formats.
var Formats = []string{FormatText, FormatJSON, FormatHTML}

// File names and permissions.
const (
	ProjectConfigName = "authorship.toml"
	UserConfigDir     = ".authorship"
	UserConfigName    = "config.toml"
	EnvPrefix         = "AUTHORSHIP"

	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
