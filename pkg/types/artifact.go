// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DeviceInfo holds the device metadata entered on the CER form.
type DeviceInfo struct {
	Name           string `json:"deviceName" yaml:"device_name"`
	Manufacturer   string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	IntendedUse    string `json:"intendedUse,omitempty" yaml:"intended_use,omitempty"`
	Classification string `json:"classification,omitempty" yaml:"classification,omitempty"`
}

// CERRequest is the payload submitted to /api/cer/generate-advanced. It is
// assembled fresh from the current selections on every submission.
type CERRequest struct {
	Device        DeviceInfo     `json:"device" yaml:"device"`
	Literature    []Publication  `json:"literature" yaml:"literature"`
	AdverseEvents []AdverseEvent `json:"adverseEvents" yaml:"adverse_events"`
}

// CERReport is the generated Clinical Evaluation Report. Section values are
// HTML fragments produced by the backend.
type CERReport struct {
	ID                 string            `json:"id" yaml:"id"`
	Title              string            `json:"title" yaml:"title"`
	ExecutiveSummary   string            `json:"executiveSummary" yaml:"executive_summary"`
	LiteratureAnalysis string            `json:"literatureAnalysis" yaml:"literature_analysis"`
	SafetyAnalysis     string            `json:"safetyAnalysis,omitempty" yaml:"safety_analysis,omitempty"`
	Conclusion         string            `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
	Sections           map[string]string `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// ProtocolOptimizeRequest is the payload for /api/protocol/optimize.
type ProtocolOptimizeRequest struct {
	Summary    string `json:"protocolSummary" yaml:"protocol_summary"`
	Indication string `json:"indication" yaml:"indication"`
	Phase      string `json:"phase,omitempty" yaml:"phase,omitempty"`
}

// OptimizedProtocol is the optimizer's response. Recommendations is markdown.
type OptimizedProtocol struct {
	Recommendations string   `json:"recommendations" yaml:"recommendations"`
	Summary         string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	RiskFactors     []string `json:"riskFactors,omitempty" yaml:"risk_factors,omitempty"`
	MatchedCSRs     []CSR    `json:"matchedCsrs,omitempty" yaml:"matched_csrs,omitempty"`
}

// EndpointRecommendRequest is the payload for /api/endpoint/recommend.
type EndpointRecommendRequest struct {
	Indication string `json:"indication" yaml:"indication"`
	Phase      string `json:"phase,omitempty" yaml:"phase,omitempty"`
	Count      int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// TranslationRequest is the payload for the /api/translation/* endpoints.
type TranslationRequest struct {
	Text       string `json:"text,omitempty" yaml:"text,omitempty"`
	CSRID      string `json:"csrId,omitempty" yaml:"csr_id,omitempty"`
	SourceLang string `json:"sourceLanguage,omitempty" yaml:"source_language,omitempty"`
	TargetLang string `json:"targetLanguage" yaml:"target_language"`
	Region     string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Translation is the translation engine's response.
type Translation struct {
	TranslatedText string   `json:"translatedText" yaml:"translated_text"`
	SourceLang     string   `json:"sourceLanguage,omitempty" yaml:"source_language,omitempty"`
	TargetLang     string   `json:"targetLanguage" yaml:"target_language"`
	Notes          []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Language is a supported translation language.
type Language struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// ChecklistItem is one site-startup task.
type ChecklistItem struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// ItemID returns the checklist item id.
func (c ChecklistItem) ItemID() string { return c.ID }

// StartupSite is a trial site with its startup checklist.
type StartupSite struct {
	ID    string          `json:"id" yaml:"id"`
	Name  string          `json:"name" yaml:"name"`
	Items []ChecklistItem `json:"items" yaml:"items"`
}

// Progress returns completed and total checklist counts.
func (s StartupSite) Progress() (done, total int) {
	for _, it := range s.Items {
		if it.Completed {
			done++
		}
	}
	return done, len(s.Items)
}
