package manifest

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/authorship/source"
)

// Citation holds the author-relevant part of a CITATION.cff file.
type Citation struct {
	Authors        []cffPerson `yaml:"authors"`
	RepositoryCode string      `yaml:"repository-code"`
}

type cffPerson struct {
	GivenNames   string `yaml:"given-names"`
	NameParticle string `yaml:"name-particle"`
	FamilyNames  string `yaml:"family-names"`
	NameSuffix   string `yaml:"name-suffix"`
	Name         string `yaml:"name"` // entity authors
	Alias        string `yaml:"alias"`
	Email        string `yaml:"email"`
	Website      string `yaml:"website"`
	Orcid        string `yaml:"orcid"`
}

func (p cffPerson) fullName() string {
	var parts []string
	for _, s := range []string{p.GivenNames, p.NameParticle, p.FamilyNames} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	name := strings.Join(parts, " ")
	if suffix := strings.TrimSpace(p.NameSuffix); suffix != "" && name != "" {
		name += ", " + suffix
	}
	if name == "" {
		name = p.Name
	}
	return name
}

func parseCitation(data []byte) (*Manifest, error) {
	var c Citation
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	m := &Manifest{Connection: gitConnection(c.RepositoryCode)}
	for _, p := range c.Authors {
		url := p.Website
		if url == "" {
			url = p.Orcid
		}
		dev := clean(source.Developer{ID: p.Alias, Name: p.fullName(), Email: p.Email, URL: url})
		if !empty(dev) {
			m.Developers = append(m.Developers, dev)
		}
	}
	return m, nil
}
