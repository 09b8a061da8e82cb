package manifest

import (
	"encoding/json"
	"strings"

	"github.com/teranos/authorship/source"
)

// PackageJSON holds the author-relevant part of package.json.
type PackageJSON struct {
	Name         string        `json:"name"`
	Author       *npmPerson    `json:"author"`
	Contributors []npmPerson   `json:"contributors"`
	Maintainers  []npmPerson   `json:"maintainers"`
	Repository   npmRepository `json:"repository"`
}

// npmPerson accepts both the "Name <email> (url)" string form and the object form.
type npmPerson source.Developer

func (p *npmPerson) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = npmPerson(parseNPMPerson(s))
		return nil
	}

	var o struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		URL   string `json:"url"`
		Web   string `json:"web"`
	}
	if err := json.Unmarshal(b, &o); err != nil {
		return err
	}
	url := o.URL
	if url == "" {
		url = o.Web
	}
	*p = npmPerson(clean(source.Developer{Name: o.Name, Email: o.Email, URL: url}))
	return nil
}

func parseNPMPerson(s string) source.Developer {
	d, _ := developerFromText(s)
	return d
}

// npmRepository accepts "owner/repo", "github:owner/repo", a URL, or {"type","url"}.
type npmRepository string

func (r *npmRepository) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = npmRepository(expandNPMRepository(s))
		return nil
	}
	var o struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(b, &o); err != nil {
		return err
	}
	if o.Type != "" && o.Type != "git" {
		return nil
	}
	*r = npmRepository(expandNPMRepository(o.URL))
	return nil
}

func expandNPMRepository(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "github:"):
		return "github.com/" + strings.TrimPrefix(s, "github:")
	case strings.HasPrefix(s, "gitlab:"):
		return "gitlab.com/" + strings.TrimPrefix(s, "gitlab:")
	case strings.HasPrefix(s, "bitbucket:"):
		return "bitbucket.org/" + strings.TrimPrefix(s, "bitbucket:")
	case !strings.Contains(s, ":") && strings.Count(s, "/") == 1:
		return "github.com/" + s
	default:
		return s
	}
}

func parseNPM(data []byte) (*Manifest, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	m := &Manifest{Connection: gitConnection(string(pkg.Repository))}
	var people []npmPerson
	if pkg.Author != nil {
		people = append(people, *pkg.Author)
	}
	people = append(people, pkg.Contributors...)
	people = append(people, pkg.Maintainers...)
	for _, p := range people {
		if dev := source.Developer(p); !empty(dev) {
			m.Developers = append(m.Developers, dev)
		}
	}
	return m, nil
}
