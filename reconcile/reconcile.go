// Package reconcile compares the authors declared by a project with the
// authors found in its history and in its source annotations.
//
// Everything here is pure: the same three sets always produce the same rows.
package reconcile

import (
	"github.com/teranos/authorship/author"
)

// Labels used when rendering presence flags.
const (
	LabelPresent = "Yup"
	LabelAbsent  = "Nope"
)

// Row is one divergence: an author found in history or annotations that
// matches no declared author.
type Row struct {
	Seq           int           `json:"seq"`
	Author        author.Author `json:"author"`
	Description   string        `json:"description"`
	InHistory     bool          `json:"in_history"`
	InAnnotations bool          `json:"in_annotations"`
}

// HistoryLabel renders InHistory.
func (r Row) HistoryLabel() string { return label(r.InHistory) }

// AnnotationsLabel renders InAnnotations.
func (r Row) AnnotationsLabel() string { return label(r.InAnnotations) }

func label(present bool) string {
	if present {
		return LabelPresent
	}
	return LabelAbsent
}

// Divergence lists every history author, then every annotation author, that
// loosely matches no declared author. The two passes are not deduplicated
// against each other: an undeclared author found in both history and
// annotations yields two rows. Rows are numbered from 1 in emission order.
func Divergence(declared, history, annotations *author.Set) []Row {
	var rows []Row
	emit := func(a author.Author) {
		if declared.ContainsMatch(a) {
			return
		}
		rows = append(rows, Row{
			Seq:           len(rows) + 1,
			Author:        a,
			Description:   a.Description(),
			InHistory:     history.ContainsMatch(a),
			InAnnotations: annotations.ContainsMatch(a),
		})
	}

	for _, a := range history.All() {
		emit(a)
	}
	for _, a := range annotations.All() {
		emit(a)
	}
	return rows
}

// ListingRow is one author of a full listing. Absent fields are empty strings.
type ListingRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	URL   string `json:"url"`
}

// Listing projects a set into rows, in insertion order.
func Listing(set *author.Set) []ListingRow {
	all := set.All()
	rows := make([]ListingRow, 0, len(all))
	for _, a := range all {
		rows = append(rows, ListingRow{ID: a.ID, Name: a.Name, Email: a.Email, URL: a.URL})
	}
	return rows
}

// Result is the complete outcome of one reconciliation.
type Result struct {
	Declared    []ListingRow `json:"declared"`
	History     []ListingRow `json:"history"`
	Annotations []ListingRow `json:"annotations"`
	Divergence  []Row        `json:"divergence"`
}

// Reconcile builds the three listings and the divergence rows.
func Reconcile(declared, history, annotations *author.Set) *Result {
	return &Result{
		Declared:    Listing(declared),
		History:     Listing(history),
		Annotations: Listing(annotations),
		Divergence:  Divergence(declared, history, annotations),
	}
}

// Diverged reports whether any author is missing from the declared set.
func (r *Result) Diverged() bool {
	return len(r.Divergence) > 0
}
