// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/regdesk/pkg/types"
)

// Section is a titled block of sanitized HTML.
type Section struct {
	Title string
	HTML  template.HTML
}

// Document is a rendered artifact ready for terminal or HTML output.
type Document struct {
	Title    string
	Sections []Section
}

// CERDocument builds a Document from a CER, sanitizing every section.
// Empty sections are dropped; extra sections follow in name order.
func CERDocument(r types.CERReport) Document {
	title := r.Title
	if title == "" {
		title = "Clinical Evaluation Report"
	}
	doc := Document{Title: title}
	doc.add("Executive Summary", r.ExecutiveSummary)
	doc.add("Literature Analysis", r.LiteratureAnalysis)
	doc.add("Safety Analysis", r.SafetyAnalysis)
	doc.add("Conclusion", r.Conclusion)

	names := make([]string, 0, len(r.Sections))
	for name := range r.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.add(name, r.Sections[name])
	}
	return doc
}

// SanitizeCER returns a copy of r safe to print as JSON or YAML: every HTML
// field and section passes through Sanitize and the title is plain text.
func SanitizeCER(r types.CERReport) types.CERReport {
	r.Title = StripTags(r.Title)
	r.ExecutiveSummary = Sanitize(r.ExecutiveSummary)
	r.LiteratureAnalysis = Sanitize(r.LiteratureAnalysis)
	r.SafetyAnalysis = Sanitize(r.SafetyAnalysis)
	r.Conclusion = Sanitize(r.Conclusion)
	if r.Sections != nil {
		sections := make(map[string]string, len(r.Sections))
		for name, frag := range r.Sections {
			sections[StripTags(name)] = Sanitize(frag)
		}
		r.Sections = sections
	}
	return r
}

// SanitizeProtocol returns a copy of p with markup removed from every text
// field. Recommendations stay markdown.
func SanitizeProtocol(p types.OptimizedProtocol) types.OptimizedProtocol {
	p.Recommendations = StripTags(p.Recommendations)
	p.Summary = StripTags(p.Summary)
	if p.RiskFactors != nil {
		risks := make([]string, len(p.RiskFactors))
		for i, rf := range p.RiskFactors {
			risks[i] = StripTags(rf)
		}
		p.RiskFactors = risks
	}
	if p.MatchedCSRs != nil {
		csrs := make([]types.CSR, len(p.MatchedCSRs))
		for i, c := range p.MatchedCSRs {
			c.Title = StripTags(c.Title)
			c.Sponsor = StripTags(c.Sponsor)
			c.Indication = StripTags(c.Indication)
			csrs[i] = c
		}
		p.MatchedCSRs = csrs
	}
	return p
}

// ProtocolDocument builds a Document from an optimizer response. The
// recommendations are markdown.
func ProtocolDocument(p types.OptimizedProtocol) (Document, error) {
	doc := Document{Title: "Protocol Optimization"}
	if p.Summary != "" {
		doc.add("Summary", "<p>"+template.HTMLEscapeString(p.Summary)+"</p>")
	}
	recs, err := Markdown(p.Recommendations)
	if err != nil {
		return Document{}, fmt.Errorf("rendering recommendations: %w", err)
	}
	doc.add("Recommendations", recs)
	if len(p.RiskFactors) > 0 {
		var b strings.Builder
		b.WriteString("<ul>")
		for _, rf := range p.RiskFactors {
			b.WriteString("<li>" + template.HTMLEscapeString(rf) + "</li>")
		}
		b.WriteString("</ul>")
		doc.add("Risk Factors", b.String())
	}
	if len(p.MatchedCSRs) > 0 {
		var b strings.Builder
		b.WriteString("<ul>")
		for _, c := range p.MatchedCSRs {
			b.WriteString(fmt.Sprintf("<li>%s: %s (%s)</li>",
				template.HTMLEscapeString(c.ID), template.HTMLEscapeString(c.Title), template.HTMLEscapeString(c.Phase)))
		}
		b.WriteString("</ul>")
		doc.add("Similar CSRs", b.String())
	}
	return doc, nil
}

func (d *Document) add(title, fragment string) {
	clean := Sanitize(fragment)
	if strings.TrimSpace(clean) == "" {
		return
	}
	d.Sections = append(d.Sections, Section{Title: title, HTML: template.HTML(clean)})
}

// Text writes the document as plain text.
func (d Document) Text(w io.Writer) {
	fmt.Fprintln(w, d.Title)
	fmt.Fprintln(w, strings.Repeat("=", len(d.Title)))
	for _, s := range d.Sections {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Title)
		fmt.Fprintln(w, strings.Repeat("-", len(s.Title)))
		fmt.Fprintln(w, HTMLToText(string(s.HTML)))
	}
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; line-height: 1.5; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: .2rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}<section>
<h2>{{.Title}}</h2>
{{.HTML}}
</section>
{{end}}</body>
</html>
`))

// HTML writes the document as a standalone HTML page. Section bodies were
// sanitized when the document was built.
func (d Document) HTML(w io.Writer) error {
	return reportTmpl.Execute(w, d)
}
