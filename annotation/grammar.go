// Package annotation turns the free text of an author annotation
// ("@author Jane Doe <jane@example.com>") into an author record.
//
// People write these tags in many informal styles, so the text is matched
// against an ordered list of productions and the first match wins:
//
//  1. email only           jane@example.com
//  2. name - email|url     Jane Doe - http://jane.dev
//  3. name (email|url)     Jane Doe (jane@example.com)
//  4. name <email|url>     Jane Doe <jane@example.com>
//
// Anything else becomes a bare name. The order is significant: a text such as
// "Jane - Doe <jane@example.com>" is claimed by production 2 before 4 is tried.
package annotation

import (
	"regexp"
	"strings"

	"github.com/teranos/authorship/author"
	"github.com/teranos/authorship/internal/validate"
)

// production recognises one annotation style. ok is false when the text is
// not in that style.
type production struct {
	name  string
	match func(text string) (a author.Author, ok bool)
}

var (
	// The leading group is greedy, so each pattern splits at the last delimiter.
	nameDashPattern    = regexp.MustCompile(`^(.*)\s?-\s?(.*)$`)
	nameParenPattern   = regexp.MustCompile(`^(.*)\s?\(\s?(.*)\s?\)\s?$`)
	nameBracketPattern = regexp.MustCompile(`^(.*)\s?<\s?(.*)\s?>\s?$`)
)

// productions are tried in order. The bare-name fallback is not
// in this list: Parse applies it only after every production declined.
var productions = []production{
	{name: "email", match: emailOnly},
	{name: "name-dash", match: nameAndToken(nameDashPattern)},
	{name: "name-paren", match: nameAndToken(nameParenPattern)},
	{name: "name-bracket", match: nameAndToken(nameBracketPattern)},
}

// Parse converts one annotation value into an author. It never fails; text
// that fits no production yields {Name: trimmed text}. Blank text yields an
// invalid record, which callers must drop.
func Parse(text string) author.Author {
	a, _ := ParseWithProduction(text)
	return a
}

// ParseWithProduction is Parse that also names the production that matched
// ("email", "name-dash", "name-paren", "name-bracket" or "name").
func ParseWithProduction(text string) (author.Author, string) {
	text = strings.TrimSpace(text)
	for _, p := range productions {
		if a, ok := p.match(text); ok {
			return a, p.name
		}
	}
	return author.Author{Name: text}, "name"
}

func emailOnly(text string) (author.Author, bool) {
	if !validate.IsEmail(text) {
		return author.Author{}, false
	}
	return author.Author{Email: text}, true
}

// nameAndToken builds a production for "name <delimiter> token" styles. The
// token becomes the email or URL when it validates as one, and is dropped
// otherwise.
func nameAndToken(pattern *regexp.Regexp) func(string) (author.Author, bool) {
	return func(text string) (author.Author, bool) {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			return author.Author{}, false
		}
		a := author.Author{Name: strings.TrimSpace(m[1])}
		token := strings.TrimSpace(m[2])
		switch {
		case validate.IsEmail(token):
			a.Email = token
		case validate.IsURL(token):
			a.URL = token
		}
		return a, true
	}
}
