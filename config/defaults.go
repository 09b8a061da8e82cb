package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/authorship/source"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("manifest", "")
	v.SetDefault("project_dir", ".")
	v.SetDefault("developers", []map[string]interface{}{})

	// History
	v.SetDefault("scm.connection", "")
	v.SetDefault("scm.work_dir", "")
	v.SetDefault("scm.from", "HEAD")
	v.SetDefault("scm.to", "")

	v.SetDefault("svn.path", "")
	v.SetDefault("svn.start", "0")
	v.SetDefault("svn.end", "HEAD")
	v.SetDefault("svn.limit", 0) // unbounded
	v.SetDefault("svn.args", "")

	// Annotations
	v.SetDefault("sources.roots", []string{"src/main/java"})
	v.SetDefault("sources.include", source.DefaultInclude)
	v.SetDefault("sources.tag_pattern", source.DefaultTagPattern)

	// Output
	v.SetDefault("report.format", FormatText)
	v.SetDefault("report.output", "")

	// Watch mode
	v.SetDefault("watch.debounce_ms", 500)
	v.SetDefault("watch.min_interval_ms", 2000)
}
