package render

import (
	"bytes"
	"html/template"
	"io"

	"github.com/san-kum/lifecal/internal/timeline"
)

// Page is everything the HTML view shows.
type Page struct {
	Grid     timeline.Grid
	Scale    timeline.Scale
	Years    int
	Birthday string
	// Prompt shows the birthday form with Message above it.
	Prompt  bool
	Message string
	Theme   Theme
}

var funcs = template.FuncMap{
	"cell": func(p timeline.Phase, s timeline.Scale) string { return CellText(p, s) },
	"color": func(t Theme, p timeline.Phase) template.CSS {
		return template.CSS(string(t.Color(p)))
	},
	"scales": func() []timeline.Scale { return timeline.Scales },
	"phases": func() []timeline.Phase { return timeline.Phases },
}

var tableTmpl = template.Must(template.New("table").Funcs(funcs).Parse(
	`<table>{{range .Grid}}<tr data-year="{{.Year}}">{{range .Cells}}<td class="{{cell . $.Scale}}">{{cell . $.Scale}}</td>{{end}}</tr>{{end}}</table>`))

var pageTmpl = template.Must(template.Must(tableTmpl.Clone()).New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>lifecal</title>
<style>
body { font-family: sans-serif; background: #111; color: #eee; }
nav a, nav button { margin-right: .5em; }
table { border-collapse: separate; border-spacing: 1px; }
td { font-size: 0; width: 8px; height: 8px; padding: 0; }
td.d { width: 2px; }
td.m { width: 24px; }
{{range phases}}td.{{.}} { background: {{color $.Theme .}}; }
{{end}}</style>
</head>
<body>
<nav>
{{range scales}}<a id="{{.}}" href="/scale/{{.}}"{{if eq . $.Scale}} class="active"{{end}}>{{.Name}}</a>
{{end}}<form method="post" action="/death" style="display:inline"><button id="death" type="submit">death</button></form>
<span id="duration">{{.Years}}</span>
</nav>
<form id="birth" method="post" action="/birth">
{{if .Message}}<p>{{.Message}}</p>
{{end}}<input name="birthday" value="{{.Birthday}}" placeholder="YYYY-MM-DD"{{if .Prompt}} autofocus{{end}}>
<button type="submit">birth</button>
</form>
<div id="container">{{template "table" .}}</div>
</body>
</html>
`))

// Table writes the grid as a bare <table>.
func Table(w io.Writer, grid timeline.Grid, scale timeline.Scale) error {
	return tableTmpl.Execute(w, Page{Grid: grid, Scale: scale})
}

// TableString is Table into a string.
func TableString(grid timeline.Grid, scale timeline.Scale) (string, error) {
	var buf bytes.Buffer
	if err := Table(&buf, grid, scale); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HTML writes the full page.
func HTML(w io.Writer, p Page) error {
	if p.Theme.Name == "" {
		p.Theme = ThemeClassic
	}
	return pageTmpl.ExecuteTemplate(w, "page", p)
}
