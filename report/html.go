package report

import (
	"html/template"
	"io"
	"time"

	"github.com/teranos/authorship/collect"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/reconcile"
)

type htmlListing struct {
	Title string
	Rows  []reconcile.ListingRow
}

type htmlData struct {
	GeneratedAt string
	RunID       string
	Manifest    string
	Connection  string
	Columns     []string
	Divergence  []reconcile.Row
	Listings    []htmlListing
	Failures    []collect.Failure

	TitleDivergence     string
	ColumnSeq           string
	ColumnAuthor        string
	ColumnInHistory     string
	ColumnInAnnotations string
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Authorship report</title>
<style>
  body { font-family: sans-serif; margin: 2rem; color: #1f2937; }
  h1 { font-size: 1.5rem; }
  h2 { font-size: 1.15rem; margin-top: 2rem; border-bottom: 1px solid #e5e7eb; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: .35rem .6rem; border-bottom: 1px solid #f3f4f6; }
  th { background: #f9fafb; }
  .yup { color: #047857; font-weight: 600; }
  .nope { color: #b91c1c; font-weight: 600; }
  .meta { color: #6b7280; font-size: .85rem; }
  .warning { color: #92400e; }
</style>
</head>
<body>
<h1>Authorship report</h1>
<p class="meta">Generated {{.GeneratedAt}} &middot; run {{.RunID}}{{if .Manifest}} &middot; manifest {{.Manifest}}{{end}}{{if .Connection}} &middot; {{.Connection}}{{end}}</p>
{{range .Failures}}<p class="warning">{{.Source}} source failed: {{.Error}}</p>
{{end}}
<h2>{{.TitleDivergence}}</h2>
{{if .Divergence}}<table>
<tr><th>{{.ColumnSeq}}</th><th>{{.ColumnAuthor}}</th><th>{{.ColumnInHistory}}</th><th>{{.ColumnInAnnotations}}</th></tr>
{{range .Divergence}}<tr><td>{{.Seq}}</td><td>{{.Description}}</td><td class="{{labelClass .InHistory}}">{{.HistoryLabel}}</td><td class="{{labelClass .InAnnotations}}">{{.AnnotationsLabel}}</td></tr>
{{end}}</table>
{{else}}<p>Every author found in history and annotations is declared.</p>
{{end}}
{{$columns := .Columns}}{{range .Listings}}<h2>{{.Title}}</h2>
{{if .Rows}}<table>
<tr>{{range $columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{if .Email}}<a href="mailto:{{.Email}}">{{.Email}}</a>{{end}}</td><td>{{if .URL}}<a href="{{.URL}}">{{.URL}}</a>{{end}}</td></tr>
{{end}}</table>
{{else}}<p>No authors found.</p>
{{end}}{{end}}
</body>
</html>
`

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"labelClass": func(present bool) string {
		if present {
			return "yup"
		}
		return "nope"
	},
}).Parse(htmlTemplate))

// HTML writes a standalone HTML page.
func HTML(w io.Writer, out *collect.Outcome) error {
	r := out.Result
	if r == nil {
		r = &reconcile.Result{}
	}

	started := out.Started
	if started.IsZero() {
		started = time.Now()
	}

	data := htmlData{
		GeneratedAt: started.UTC().Format(time.RFC1123),
		RunID:       out.RunID,
		Manifest:    out.Manifest,
		Connection:  out.Connection,
		Columns:     listingColumns,
		Divergence:  r.Divergence,
		Listings: []htmlListing{
			{Title: TitleDeclared, Rows: r.Declared},
			{Title: TitleHistory, Rows: r.History},
			{Title: TitleAnnotations, Rows: r.Annotations},
		},
		Failures: out.Failures,

		TitleDivergence:     TitleDivergence,
		ColumnSeq:           ColumnSeq,
		ColumnAuthor:        ColumnAuthor,
		ColumnInHistory:     ColumnInHistory,
		ColumnInAnnotations: ColumnInAnnotations,
	}

	if err := htmlReport.Execute(w, data); err != nil {
		return errors.Wrap(err, "failed to render HTML report")
	}
	return nil
}
