package manifest

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/authorship/source"
)

// CargoToml holds the author-relevant part of Cargo.toml.
type CargoToml struct {
	Package struct {
		Name       string   `toml:"name"`
		Authors    []string `toml:"authors"`
		Repository string   `toml:"repository"`
	} `toml:"package"`
}

func parseCargo(data []byte) (*Manifest, error) {
	var cargo CargoToml
	if _, err := toml.Decode(string(data), &cargo); err != nil {
		return nil, err
	}
	return &Manifest{
		Developers: developersFromText(cargo.Package.Authors),
		Connection: gitConnection(cargo.Package.Repository),
	}, nil
}

// PyProject holds the author-relevant part of pyproject.toml, covering both
// PEP 621 [project] tables and [tool.poetry].
type PyProject struct {
	Project struct {
		Authors     []pyPerson        `toml:"authors"`
		Maintainers []pyPerson        `toml:"maintainers"`
		URLs        map[string]string `toml:"urls"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Authors     []string `toml:"authors"`
			Maintainers []string `toml:"maintainers"`
			Repository  string   `toml:"repository"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

type pyPerson struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// repositoryURLKeys are the [project.urls] labels that name the source repository.
var repositoryURLKeys = []string{"repository", "source", "source code", "code"}

func parsePyProject(data []byte) (*Manifest, error) {
	var py PyProject
	if _, err := toml.Decode(string(data), &py); err != nil {
		return nil, err
	}

	m := &Manifest{}
	for _, p := range append(py.Project.Authors, py.Project.Maintainers...) {
		dev := clean(source.Developer{Name: p.Name, Email: p.Email})
		if !empty(dev) {
			m.Developers = append(m.Developers, dev)
		}
	}
	m.Developers = append(m.Developers, developersFromText(py.Tool.Poetry.Authors)...)
	m.Developers = append(m.Developers, developersFromText(py.Tool.Poetry.Maintainers)...)

	repository := py.Tool.Poetry.Repository
	for _, key := range repositoryURLKeys {
		if repository != "" {
			break
		}
		for label, url := range py.Project.URLs {
			if strings.EqualFold(label, key) {
				repository = url
				break
			}
		}
	}
	m.Connection = gitConnection(repository)
	return m, nil
}
