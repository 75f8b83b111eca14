// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/storage"
)

var templateFuncs = template.FuncMap{
	"indicatorCSS": indicatorCSS,
	"when": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
	"short": func(id string) string {
		if len(id) > 8 {
			return id[:8]
		}
		return id
	},
}

var pages = template.Must(template.New("pages").Funcs(templateFuncs).Parse(pageTemplates))

// ReportOptions tune WriteReport.
type ReportOptions struct {
	Theme string

	// ImagePreview is a data URL of the analyzed photo, shown above the
	// sections. See ingest.ImageInput.PreviewDataURL.
	ImagePreview string
}

// WriteReport writes rec as a self-contained HTML page without links or
// audio players.
func WriteReport(w io.Writer, rec *storage.Record, opts ReportOptions) error {
	sections, renderErr := reportSections(analysis.NewHTMLRenderer(), rec, false)
	theme := opts.Theme
	if theme != "dark" {
		theme = "light"
	}
	data := map[string]any{
		"Theme":      theme,
		"Record":     rec,
		"Sections":   sections,
		"Standalone": true,
	}
	if strings.HasPrefix(opts.ImagePreview, "data:image/") {
		data["Preview"] = template.URL(opts.ImagePreview)
	}
	err := pages.ExecuteTemplate(w, "report", data)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return renderErr
}

// reportSections renders the sections of rec. Audio URLs point at the
// server's audio route when withAudio is set.
func reportSections(r *analysis.HTMLRenderer, rec *storage.Record, withAudio bool) ([]reportSection, error) {
	sections, err := analysis.NewPresenter(r).Present(rec.Analysis, true)
	view := make([]reportSection, 0, len(sections))
	for _, sec := range sections {
		rs := reportSection{
			Title: sec.Title,
			Slug:  sec.ID.Slug(),
			// Rendered output is sanitized by the HTML renderer.
			HTML: template.HTML(sec.Rendered),
		}
		if withAudio {
			rs.AudioURL = "/analyses/" + rec.ID + "/audio/" + sec.ID.Slug()
		}
		view = append(view, rs)
	}
	return view, err
}

func indicatorCSS() template.CSS {
	var b strings.Builder
	for _, s := range analysis.Severities {
		fmt.Fprintf(&b, ".indicator-%s{background:%s}\n", s.Color(), s.Hex())
	}
	return template.CSS(b.String())
}

const pageTemplates = `
{{define "head"}}<!DOCTYPE html>
<html lang="en" class="theme-{{.Theme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{template "title" .}}</title>
<style>
:root{--bg:#ffffff;--fg:#1f2937;--muted:#6b7280;--card:#f9fafb;--border:#e5e7eb;--accent:#2563eb}
.theme-dark{--bg:#111827;--fg:#e5e7eb;--muted:#9ca3af;--card:#1f2937;--border:#374151;--accent:#60a5fa}
body{background:var(--bg);color:var(--fg);font-family:system-ui,sans-serif;max-width:52rem;margin:2rem auto;padding:0 1rem;line-height:1.55}
a{color:var(--accent)}
header{display:flex;justify-content:space-between;align-items:baseline}
.muted{color:var(--muted);font-size:.9em}
section.card{background:var(--card);border:1px solid var(--border);border-radius:.5rem;padding:1rem 1.25rem;margin:1rem 0}
section.card h2{margin-top:0;display:flex;justify-content:space-between;align-items:center}
table{width:100%;border-collapse:collapse}
td,th{text-align:left;padding:.4rem;border-bottom:1px solid var(--border)}
img.preview{max-width:100%;max-height:24rem;border:1px solid var(--border);border-radius:.5rem}
.indicator{display:inline-block;width:.75em;height:.75em;border-radius:50%;margin-right:.35em;vertical-align:middle}
{{indicatorCSS}}
</style>
</head>
<body>{{end}}

{{define "foot"}}</body>
</html>{{end}}

{{define "index"}}{{template "head" .}}
<header>
<h1>LegalEase</h1>
<span class="muted">{{if eq .Theme "dark"}}<a href="/?theme=light">Light mode</a>{{else}}<a href="/?theme=dark">Dark mode</a>{{end}}</span>
</header>
{{if .Items}}
<table>
<tr><th>ID</th><th>Document</th><th>Language</th><th>Analyzed</th><th>Chat</th></tr>
{{range .Items}}<tr>
<td><a href="/analyses/{{.ID}}?theme={{$.Theme}}">{{short .ID}}</a></td>
<td>{{.Source}}</td>
<td>{{.Language}}</td>
<td>{{when .CreatedAt}}</td>
<td>{{.Turns}}</td>
</tr>{{end}}
</table>
{{else}}
<p class="muted">No analyses yet. Run <code>legalease analyze FILE</code> or use the terminal app.</p>
{{end}}
{{template "foot" .}}{{end}}

{{define "report"}}{{template "head" .}}
<header>
<h1>{{.Record.Source}}</h1>
{{if not .Standalone}}<span class="muted"><a href="/?theme={{.Theme}}">All analyses</a> ·
{{if eq .Theme "dark"}}<a href="?theme=light">Light mode</a>{{else}}<a href="?theme=dark">Dark mode</a>{{end}}</span>{{end}}
</header>
<p class="muted">{{.Record.Language}} · {{when .Record.CreatedAt}}</p>
{{with .Preview}}<figure><img class="preview" src="{{.}}" alt="Analyzed document"></figure>{{end}}
{{range .Sections}}
<section class="card" id="{{.Slug}}">
<h2>{{.Title}}{{if .AudioURL}} <audio controls preload="none" src="{{.AudioURL}}"></audio>{{end}}</h2>
{{.HTML}}
</section>
{{else}}
<p class="muted">This analysis has no content.</p>
{{end}}
{{template "foot" .}}{{end}}

{{define "title"}}{{if .Record}}{{.Record.Source}} · LegalEase{{else}}LegalEase{{end}}{{end}}
`
