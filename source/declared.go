package source

import (
	"context"
	"regexp"

	"github.com/teranos/authorship/author"
	"github.com/teranos/authorship/internal/validate"
)

// Developer is one entry of a project's declared developer list.
type Developer struct {
	ID    string `mapstructure:"id" toml:"id,omitempty" json:"id,omitempty"`
	Name  string `mapstructure:"name" toml:"name,omitempty" json:"name,omitempty"`
	Email string `mapstructure:"email" toml:"email,omitempty" json:"email,omitempty"`
	URL   string `mapstructure:"url" toml:"url,omitempty" json:"url,omitempty"`
}

// Declared turns a declared developer list into author records.
type Declared struct {
	Developers []Developer
}

// Name identifies the source in reports and logs.
func (d *Declared) Name() string { return "declared" }

// Authors never fails. Emails that are not valid addresses are de-obfuscated
// and kept as rewritten, without a second validation.
func (d *Declared) Authors(ctx context.Context) (*author.Set, error) {
	set := author.NewSet()
	for _, dev := range d.Developers {
		email := dev.Email
		if email != "" && !validate.IsEmail(email) {
			email = DeobfuscateEmail(email)
		}
		set.Add(author.Author{
			ID:    dev.ID,
			Name:  dev.Name,
			Email: email,
			URL:   dev.URL,
		})
	}
	return set, nil
}

var (
	spacedAt     = regexp.MustCompile(`(?i)\s+AT`)
	underscoreAt = regexp.MustCompile(`(?i)_AT_`)
	spacedDot    = regexp.MustCompile(`(?i)\s+DOT`)
	underscoreDt = regexp.MustCompile(`(?i)_DOT_`)
	whitespace   = regexp.MustCompile(`\s`)
)

// DeobfuscateEmail rewrites spam-proofed addresses such as
// "jane AT example DOT org" or "jane_at_example_dot_org" into
// "jane@example.org". The rules apply in a fixed order and all whitespace is
// removed at the end.
func DeobfuscateEmail(email string) string {
	email = spacedAt.ReplaceAllString(email, "@")
	email = underscoreAt.ReplaceAllString(email, "@")
	email = spacedDot.ReplaceAllString(email, ".")
	email = underscoreDt.ReplaceAllString(email, ".")
	return whitespace.ReplaceAllString(email, "")
}
