package config

import (
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kballard/go-shellquote"

	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/scm"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Report.Format) {
		return errors.WithHintf(
			errors.Newf("report.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Report.Format),
			"set report.format in %s or pass --format", ProjectConfigName,
		)
	}

	if c.SCM.Connection != "" {
		if _, err := scm.Parse(c.SCM.Connection); err != nil {
			return errors.Wrap(err, "scm.connection")
		}
	}

	// 0 = unbounded, negative = invalid
	if c.SVN.Limit < 0 {
		return errors.Newf("svn.limit must be >= 0, got %d", c.SVN.Limit)
	}
	if c.SVN.Args != "" {
		if _, err := shellquote.Split(c.SVN.Args); err != nil {
			return errors.Wrapf(err, "svn.args %q", c.SVN.Args)
		}
	}

	if _, err := c.TagPattern(); err != nil {
		return err
	}
	for _, pattern := range c.Sources.Include {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Newf("sources.include contains an invalid glob %q", pattern)
		}
	}

	// 0 = no debounce / no rate limit, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	if c.Watch.MinIntervalMS < 0 {
		return errors.Newf("watch.min_interval_ms must be >= 0, got %d", c.Watch.MinIntervalMS)
	}

	return nil
}

// TagPattern compiles sources.tag_pattern. An empty pattern yields nil, which
// selects the default javadoc tag.
func (c *Config) TagPattern() (*regexp.Regexp, error) {
	if c.Sources.TagPattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.Sources.TagPattern)
	if err != nil {
		return nil, errors.Wrapf(err, "sources.tag_pattern %q does not compile", c.Sources.TagPattern)
	}
	if re.NumSubexp() < 1 {
		return nil, errors.WithHint(
			errors.Newf("sources.tag_pattern %q has no capture group", c.Sources.TagPattern),
			"wrap the author text in parentheses, e.g. @author\\s+(.*)",
		)
	}
	return re, nil
}
