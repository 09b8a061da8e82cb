package manifest

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/teranos/authorship/source"
)

type pomProject struct {
	XMLName    xml.Name       `xml:"project"`
	Developers []pomDeveloper `xml:"developers>developer"`
	SCM        struct {
		Connection          string `xml:"connection"`
		DeveloperConnection string `xml:"developerConnection"`
	} `xml:"scm"`
}

type pomDeveloper struct {
	ID    string `xml:"id"`
	Name  string `xml:"name"`
	Email string `xml:"email"`
	URL   string `xml:"url"`
}

func parsePOM(data []byte) (*Manifest, error) {
	var p pomProject
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}

	m := &Manifest{}
	for _, d := range p.Developers {
		dev := clean(source.Developer(d))
		if !empty(dev) {
			m.Developers = append(m.Developers, dev)
		}
	}

	m.Connection = strings.TrimSpace(p.SCM.Connection)
	if m.Connection == "" {
		m.Connection = strings.TrimSpace(p.SCM.DeveloperConnection)
	}
	return m, nil
}
