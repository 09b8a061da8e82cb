// Package author defines the identity record exchanged by every author source
// and the two notions of "same author" used on it.
//
// Equal is strict: all four fields must be identical. It deduplicates records
// inside one source, so many commits by one person collapse into one record.
//
// Matches is loose: any shared non-empty id, name or email is enough. It decides
// whether records from different sources denote the same person.
//
// The empty string means "absent" for every field.
package author

import "strings"

// Author is one observed contributor identity. All fields are optional.
type Author struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// IsValid reports whether at least one field is present.
// Invalid records must never enter a Set.
func (a Author) IsValid() bool {
	return a.ID != "" || a.Name != "" || a.Email != "" || a.URL != ""
}

// Equal is the strict, all-fields identity used for deduplication within one source.
func Equal(a, b Author) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Email == b.Email &&
		a.URL == b.URL
}

// Matches is the loose cross-source test: true when both records carry the
// same non-empty id, name or email. URL is never compared.
func Matches(a, b Author) bool {
	if a.ID != "" && a.ID == b.ID {
		return true
	}
	if a.Name != "" && a.Name == b.Name {
		return true
	}
	return a.Email != "" && a.Email == b.Email
}

// Description renders the record as "id=<id>, name=<name>, email=<email>",
// substituting "<empty>" for blank fields.
func (a Author) Description() string {
	var b strings.Builder
	b.WriteString("id=")
	b.WriteString(orEmpty(a.ID))
	b.WriteString(", name=")
	b.WriteString(orEmpty(a.Name))
	b.WriteString(", email=")
	b.WriteString(orEmpty(a.Email))
	return b.String()
}

func (a Author) String() string {
	return "<" + a.ID + ", " + a.Name + ", " + a.Email + ", " + a.URL + ">"
}

func orEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "<empty>"
	}
	return s
}
