// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fakeapi

import (
	"fmt"
	"strings"

	"github.com/pdiddy/regdesk/pkg/types"
)

// dataset is the canned backend content. Reports and sites change as the
// fake serves requests; everything else is read-only.
type dataset struct {
	publications []types.Publication
	events       []types.AdverseEvent
	csrs         []types.CSR
	languages    []types.Language
	reports      map[string]types.CERReport
	sites        map[string]types.StartupSite
}

func newDataset() *dataset {
	return &dataset{
		publications: []types.Publication{
			{PMID: "111", Title: "Long-term safety of a leadless pacemaker", Authors: []string{"Reddy VY", "Exner DV"}, Journal: "N Engl J Med", Year: "2022",
				Abstract: "A multicenter cohort of 1,200 patients showed a 96% freedom from major complications at 12 months."},
			{PMID: "222", Title: "Pacemaker lead fracture rates: a registry analysis", Authors: []string{"Smith J"}, Journal: "Heart Rhythm", Year: "2021",
				Abstract: "Lead fracture occurred in 0.9% of implants over five years of follow-up."},
			{PMID: "333", Title: "Infection after cardiac device implantation", Authors: []string{"Garcia M", "Lee K", "Patel R"}, Journal: "Europace", Year: "2020",
				Abstract: "Device pocket infection was the leading cause of early reintervention."},
			{PMID: "444", Title: "Quality of life with dual-chamber pacemaker safety programming", Authors: []string{"Nguyen T"}, Journal: "JACC", Year: "2023",
				Abstract: "Safety programming improved quality-of-life scores without added adverse events."},
			{PMID: "555", Title: "Insulin pump usability in adolescents", Authors: []string{"Brown A"}, Journal: "Diabetes Care", Year: "2019",
				Abstract: "Usability scores were high and correlated with glycemic control."},
		},
		events: []types.AdverseEvent{
			{Term: "Device dislocation", Count: 42, Seriousness: "serious"},
			{Term: "Infection", Count: 31, Seriousness: "serious"},
			{Term: "Pain", Count: 18, Seriousness: "non-serious"},
		},
		csrs: []types.CSR{
			{ID: "CSR-001", Title: "Phase 3 study of drug X in heart failure", Sponsor: "Acme Pharma", Phase: "Phase 3", Indication: "heart failure", Status: "completed"},
			{ID: "CSR-002", Title: "Phase 2 dose finding in type 2 diabetes", Sponsor: "Beta Bio", Phase: "Phase 2", Indication: "diabetes", Status: "completed"},
			{ID: "CSR-003", Title: "Phase 2 study of drug Y in heart failure", Sponsor: "Acme Pharma", Phase: "Phase 2", Indication: "heart failure", Status: "terminated"},
			{ID: "CSR-004", Title: "Phase 1 safety of compound Z", Sponsor: "Gamma Therapeutics", Phase: "Phase 1", Indication: "oncology", Status: "completed"},
		},
		languages: []types.Language{
			{Code: "de", Name: "German"},
			{Code: "es", Name: "Spanish"},
			{Code: "fr", Name: "French"},
			{Code: "ja", Name: "Japanese"},
		},
		reports: make(map[string]types.CERReport),
		sites: map[string]types.StartupSite{
			"S1": {ID: "S1", Name: "Boston General", Items: []types.ChecklistItem{
				{ID: "irb", Title: "IRB approval", Category: "regulatory", Completed: true},
				{ID: "cta", Title: "Clinical trial agreement signed", Category: "legal"},
				{ID: "siv", Title: "Site initiation visit", Category: "operations"},
			}},
		},
	}
}

// searchPublications returns publications whose title or abstract contains
// any of the query's words.
func (d *dataset) searchPublications(q string) []types.Publication {
	words := strings.Fields(strings.ToLower(q))
	out := []types.Publication{}
	for _, p := range d.publications {
		hay := strings.ToLower(p.Title + " " + p.Abstract)
		for _, w := range words {
			if strings.Contains(hay, w) {
				p.Abstract = ""
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (d *dataset) publication(pmid string) (types.Publication, bool) {
	for _, p := range d.publications {
		if p.PMID == pmid {
			return p, true
		}
	}
	return types.Publication{}, false
}

func (d *dataset) csr(id string) (types.CSR, bool) {
	for _, c := range d.csrs {
		if c.ID == id {
			return c, true
		}
	}
	return types.CSR{}, false
}

func (d *dataset) filterCSRs(query, indication, phase, sponsor string) []types.CSR {
	out := []types.CSR{}
	for _, c := range d.csrs {
		if query != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(query)) {
			continue
		}
		if indication != "" && !strings.EqualFold(c.Indication, indication) {
			continue
		}
		if phase != "" && !strings.EqualFold(c.Phase, phase) {
			continue
		}
		if sponsor != "" && !strings.EqualFold(c.Sponsor, sponsor) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (d *dataset) optimize(indication, phase string, size int) types.OptimizedProtocol {
	if indication == "" {
		indication = "the target indication"
	}
	var matched []types.CSR
	for _, c := range d.csrs {
		if strings.EqualFold(c.Indication, indication) {
			matched = append(matched, c)
		}
	}
	return types.OptimizedProtocol{
		Summary: fmt.Sprintf("Reviewed a %d character protocol for %s %s.", size, indication, phase),
		Recommendations: "## Recommendations\n\n" +
			"1. Reduce screening visits from three to two.\n" +
			"2. Add a **patient-reported outcome** as a secondary endpoint.\n" +
			"3. Widen the eligibility age range to 18-80.\n",
		RiskFactors: []string{"Enrollment rate below benchmark", "High dropout after week 12"},
		MatchedCSRs: matched,
	}
}

func (d *dataset) endpoints(indication string) []types.EndpointSuggestion {
	return []types.EndpointSuggestion{
		{Name: "All-cause mortality", Type: "primary", Rationale: "Regulators accept it as a hard outcome in " + indication + "."},
		{Name: "Hospitalization rate", Type: "secondary", Rationale: "Captures morbidity at lower sample size."},
		{Name: "Quality of life score", Type: "exploratory", Rationale: "Supports patient-centric labeling claims."},
	}
}
