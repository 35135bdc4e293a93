// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the request and response shaped entities exchanged
// with the regulatory backend. None of them outlive the command that fetched
// them: results, selections, payloads and generated artifacts are held in
// memory only.
package types

import "strings"

// SearchQuery is a free-text query with optional filters.
type SearchQuery struct {
	// Text is the free-text query (e.g. "pacemaker safety").
	Text string `json:"query" yaml:"query"`

	// Indication narrows results to a therapeutic indication.
	Indication string `json:"indication,omitempty" yaml:"indication,omitempty"`

	// Phase narrows results to a trial phase (e.g. "Phase 2").
	Phase string `json:"phase,omitempty" yaml:"phase,omitempty"`

	// Keywords are extra terms combined with Text.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// IsEmpty reports whether the query contains no searchable terms. Filters
// alone do not make a query searchable.
func (q SearchQuery) IsEmpty() bool {
	if strings.TrimSpace(q.Text) != "" {
		return false
	}
	for _, kw := range q.Keywords {
		if strings.TrimSpace(kw) != "" {
			return false
		}
	}
	return true
}

// Terms joins Text and Keywords into the single string the search endpoints
// accept.
func (q SearchQuery) Terms() string {
	var parts []string
	if t := strings.TrimSpace(q.Text); t != "" {
		parts = append(parts, t)
	}
	for _, kw := range q.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			parts = append(parts, kw)
		}
	}
	return strings.Join(parts, " ")
}

// Publication is a PubMed literature record.
type Publication struct {
	PMID     string   `json:"pmid" yaml:"pmid"`
	Title    string   `json:"title" yaml:"title"`
	Authors  []string `json:"authors" yaml:"authors"`
	Journal  string   `json:"journal" yaml:"journal"`
	Year     string   `json:"year" yaml:"year"`
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// ItemID returns the PMID.
func (p Publication) ItemID() string { return p.PMID }

// Abstract is the detail record fetched for a selected PMID.
type Abstract struct {
	PMID     string `json:"pmid" yaml:"pmid"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Abstract string `json:"abstract" yaml:"abstract"`
}

// AdverseEvent is an openFDA adverse-event aggregate for a product.
type AdverseEvent struct {
	Term        string `json:"term" yaml:"term"`
	Count       int    `json:"count" yaml:"count"`
	Seriousness string `json:"seriousness,omitempty" yaml:"seriousness,omitempty"`
}

// ItemID returns the event term.
func (e AdverseEvent) ItemID() string { return e.Term }

// CSR is a Clinical Study Report record from the CSR library.
type CSR struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Sponsor    string `json:"sponsor" yaml:"sponsor"`
	Phase      string `json:"phase" yaml:"phase"`
	Indication string `json:"indication" yaml:"indication"`
	Status     string `json:"status" yaml:"status"`
}

// ItemID returns the CSR id.
func (c CSR) ItemID() string { return c.ID }

// Report is an entry in the report library (/api/reports).
type Report struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// ItemID returns the report id.
func (r Report) ItemID() string { return r.ID }

// EndpointSuggestion is one recommended trial endpoint.
type EndpointSuggestion struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Rationale string `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// ItemID returns the endpoint name.
func (e EndpointSuggestion) ItemID() string { return e.Name }
