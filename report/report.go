// Package report renders a reconciliation outcome as terminal text, JSON or
// a standalone HTML page.
package report

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/authorship/collect"
	"github.com/teranos/authorship/config"
	"github.com/teranos/authorship/display"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/reconcile"
)

// Section titles and column headings shared by the text and HTML renderers.
const (
	TitleDivergence  = "Authors divergence"
	TitleDeclared    = "Declared authors"
	TitleHistory     = "History authors"
	TitleAnnotations = "Annotation authors"

	ColumnSeq           = "#"
	ColumnAuthor        = "Author"
	ColumnInHistory     = "Present in SCM?"
	ColumnInAnnotations = "Present in sources?"
)

var listingColumns = []string{"ID", "Name", "Email", "URL"}

// Render writes out in the given format.
func Render(w io.Writer, format string, out *collect.Outcome) error {
	switch format {
	case config.FormatText, "":
		return Text(w, out)
	case config.FormatJSON:
		return JSON(w, out)
	case config.FormatHTML:
		return HTML(w, out)
	default:
		return errors.NewInvalidRequestError("unknown report format %q", format)
	}
}

// JSON writes the outcome as indented JSON.
func JSON(w io.Writer, out *collect.Outcome) error {
	return display.OutputJSON(w, out)
}

// Text writes pterm sections and tables.
func Text(w io.Writer, out *collect.Outcome) error {
	r := out.Result
	if r == nil {
		r = &reconcile.Result{}
	}

	fmt.Fprint(w, pterm.DefaultSection.Sprint(TitleDivergence))
	if len(r.Divergence) == 0 {
		fmt.Fprintln(w, pterm.Success.Sprint("Every author found in history and annotations is declared."))
	} else {
		data := pterm.TableData{{ColumnSeq, ColumnAuthor, ColumnInHistory, ColumnInAnnotations}}
		for _, row := range r.Divergence {
			data = append(data, []string{
				fmt.Sprint(row.Seq),
				row.Description,
				colorLabel(row.HistoryLabel()),
				colorLabel(row.AnnotationsLabel()),
			})
		}
		if err := writeTable(w, data); err != nil {
			return err
		}
	}

	listings := []struct {
		title string
		rows  []reconcile.ListingRow
		empty string
	}{
		{TitleDeclared, r.Declared, "No authors found in declared metadata."},
		{TitleHistory, r.History, "No authors found in history."},
		{TitleAnnotations, r.Annotations, "No authors found in source annotations."},
	}
	for _, l := range listings {
		fmt.Fprint(w, pterm.DefaultSection.Sprint(l.title))
		if len(l.rows) == 0 {
			fmt.Fprintln(w, pterm.Info.Sprint(l.empty))
			continue
		}
		data := pterm.TableData{listingColumns}
		for _, row := range l.rows {
			data = append(data, []string{row.ID, row.Name, row.Email, row.URL})
		}
		if err := writeTable(w, data); err != nil {
			return err
		}
	}

	if len(out.Failures) > 0 {
		fmt.Fprintln(w)
		for _, f := range out.Failures {
			fmt.Fprintln(w, pterm.Warning.Sprintf("%s source failed: %s", f.Source, f.Error))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, pterm.Info.Sprintf("%d declared, %d in history, %d in annotations, %d divergent (run %s)",
		len(r.Declared), len(r.History), len(r.Annotations), len(r.Divergence), out.RunID))
	return nil
}

func writeTable(w io.Writer, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(w, s)
	return nil
}

func colorLabel(label string) string {
	if label == reconcile.LabelPresent {
		return pterm.Green(label)
	}
	return pterm.Red(label)
}
