// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/regdesk/pkg/types"
)

// Format selects structured output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts "", "table", "json" or "yaml".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// Structured writes v as indented JSON or YAML.
func Structured(w io.Writer, f Format, v any) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// Publications writes literature results. Selected PMIDs are marked with *.
func Publications(w io.Writer, pubs []types.Publication, selected func(string) bool) {
	if len(pubs) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-1s %-4s  %-10s  %-58s  %-20s  %-4s  %s\n",
		"", "Rank", "PMID", "Title", "Authors", "Year", "Journal")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, p := range pubs {
		mark := ""
		if selected != nil && selected(p.PMID) {
			mark = "*"
		}
		fmt.Fprintf(w, "%-1s %-4d  %-10s  %-58s  %-20s  %-4s  %s\n",
			mark, i+1, p.PMID, truncate(p.Title, 58), formatAuthors(p.Authors), p.Year, truncate(p.Journal, 24))
	}
	fmt.Fprintf(w, "\n%d results\n", len(pubs))
}

// Abstracts writes abstract records in the order given.
func Abstracts(w io.Writer, abstracts []types.Abstract) {
	for i, a := range abstracts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "PMID %s", a.PMID)
		if a.Title != "" {
			fmt.Fprintf(w, ": %s", a.Title)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, HTMLToText(a.Abstract))
	}
}

// AdverseEvents writes openFDA event aggregates.
func AdverseEvents(w io.Writer, events []types.AdverseEvent, selected func(string) bool) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No adverse events found.")
		return
	}
	fmt.Fprintf(w, "%-1s %-40s  %8s  %s\n", "", "Term", "Count", "Seriousness")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, e := range events {
		mark := ""
		if selected != nil && selected(e.Term) {
			mark = "*"
		}
		fmt.Fprintf(w, "%-1s %-40s  %8d  %s\n", mark, truncate(e.Term, 40), e.Count, e.Seriousness)
	}
}

// CSRs writes CSR library rows.
func CSRs(w io.Writer, csrs []types.CSR) {
	if len(csrs) == 0 {
		fmt.Fprintln(w, "No CSRs found.")
		return
	}
	fmt.Fprintf(w, "%-12s  %-48s  %-20s  %-9s  %-20s  %s\n",
		"ID", "Title", "Sponsor", "Phase", "Indication", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 124))
	for _, c := range csrs {
		fmt.Fprintf(w, "%-12s  %-48s  %-20s  %-9s  %-20s  %s\n",
			truncate(c.ID, 12), truncate(c.Title, 48), truncate(c.Sponsor, 20), c.Phase, truncate(c.Indication, 20), c.Status)
	}
}

// Reports writes report library rows.
func Reports(w io.Writer, reports []types.Report) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No reports found.")
		return
	}
	fmt.Fprintf(w, "%-12s  %-56s  %-16s  %s\n", "ID", "Title", "Type", "Created")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range reports {
		fmt.Fprintf(w, "%-12s  %-56s  %-16s  %s\n", truncate(r.ID, 12), truncate(r.Title, 56), r.Type, r.CreatedAt)
	}
}

// Endpoints writes endpoint suggestions.
func Endpoints(w io.Writer, eps []types.EndpointSuggestion, selected func(string) bool) {
	if len(eps) == 0 {
		fmt.Fprintln(w, "No endpoints recommended.")
		return
	}
	for i, e := range eps {
		mark := " "
		if selected != nil && selected(e.Name) {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %2d. %s", mark, i+1, e.Name)
		if e.Type != "" {
			fmt.Fprintf(w, " [%s]", e.Type)
		}
		fmt.Fprintln(w)
		if e.Rationale != "" {
			fmt.Fprintf(w, "      %s\n", e.Rationale)
		}
	}
}

// Site writes a startup checklist with its progress.
func Site(w io.Writer, site types.StartupSite) {
	done, total := site.Progress()
	fmt.Fprintf(w, "%s (%s): %d/%d complete\n", site.Name, site.ID, done, total)
	for _, it := range site.Items {
		box := "[ ]"
		if it.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s %-10s  %s", box, it.ID, it.Title)
		if it.Category != "" {
			fmt.Fprintf(w, " (%s)", it.Category)
		}
		fmt.Fprintln(w)
	}
}

// Languages writes the supported translation languages.
func Languages(w io.Writer, langs []types.Language) {
	for _, l := range langs {
		fmt.Fprintf(w, "%-8s  %s\n", l.Code, l.Name)
	}
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
