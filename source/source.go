// Package source provides the adapters that each produce one set of author
// identities: declared project metadata, in-source annotations, git history
// and Subversion history.
//
// Every adapter either returns a complete set or fails with an
// *errors.AuthorshipError. A partially populated set is never returned.
package source

import (
	"context"

	"github.com/teranos/authorship/author"
)

// Source produces the author identities found in one place.
type Source interface {
	// Name identifies the source in logs and reports.
	Name() string
	Authors(ctx context.Context) (*author.Set, error)
}
