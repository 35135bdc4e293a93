// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fakeapi

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pdiddy/regdesk/pkg/types"
)

func (s *Server) routes() {
	api := s.engine.Group("/api")

	api.GET("/pubmed/search", s.pubmedSearch)
	api.POST("/pubmed/abstracts", s.pubmedAbstracts)
	api.GET("/openfda/events", s.openFDAEvents)

	api.POST("/cer/generate-advanced", s.generateCER)
	api.GET("/cer/:id/download-pdf", s.downloadCER)

	api.POST("/protocol/optimize", s.optimizeProtocol)
	api.POST("/protocol/upload-and-optimize", s.uploadAndOptimize)
	api.POST("/endpoint/recommend", s.recommendEndpoints)

	api.GET("/translation/languages", s.languages)
	api.POST("/translation/:kind", s.translate)

	api.GET("/reports", s.reports)
	api.GET("/csr/list", s.csrList)
	api.GET("/csr/count", s.csrCount)

	api.GET("/startup/site/:id", s.startupSite)
	api.POST("/startup/item/:id/complete", s.completeItem)
}

func (s *Server) pubmedSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("query"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": s.data.searchPublications(q)})
}

func (s *Server) pubmedAbstracts(c *gin.Context) {
	var req struct {
		PMIDs []string `json:"pmids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.PMIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pmids are required"})
		return
	}
	out := make([]types.Abstract, 0, len(req.PMIDs))
	for _, id := range req.PMIDs {
		if p, ok := s.data.publication(id); ok {
			out = append(out, types.Abstract{PMID: p.PMID, Title: p.Title, Abstract: p.Abstract})
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) openFDAEvents(c *gin.Context) {
	drug := strings.TrimSpace(c.Query("drug"))
	if drug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "drug is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": s.data.events})
}

func (s *Server) generateCER(c *gin.Context) {
	var req types.CERRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if strings.TrimSpace(req.Device.Name) == "" || len(req.Literature) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device name and literature are required"})
		return
	}

	var lit strings.Builder
	lit.WriteString("<ul>")
	for _, p := range req.Literature {
		fmt.Fprintf(&lit, "<li>PMID %s: %s</li>", html.EscapeString(p.PMID), html.EscapeString(p.Title))
	}
	lit.WriteString("</ul>")

	var safety strings.Builder
	if len(req.AdverseEvents) > 0 {
		safety.WriteString("<ul>")
		for _, e := range req.AdverseEvents {
			fmt.Fprintf(&safety, "<li>%s (%d reports)</li>", html.EscapeString(e.Term), e.Count)
		}
		safety.WriteString("</ul>")
	}

	report := types.CERReport{
		ID:    uuid.NewString(),
		Title: "Clinical Evaluation Report: " + req.Device.Name,
		ExecutiveSummary: fmt.Sprintf("<p>The clinical evidence for <strong>%s</strong> comprises %d publication(s) and %d adverse event term(s).</p>",
			html.EscapeString(req.Device.Name), len(req.Literature), len(req.AdverseEvents)),
		LiteratureAnalysis: lit.String(),
		SafetyAnalysis:     safety.String(),
		Conclusion:         "<p>The benefit-risk profile is acceptable.</p>",
	}
	s.mu.Lock()
	s.data.reports[report.ID] = report
	s.mu.Unlock()

	c.JSON(http.StatusOK, report)
}

func (s *Server) downloadCER(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	report, ok := s.data.reports[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.4\n% "+report.Title+"\n"))
}

func (s *Server) optimizeProtocol(c *gin.Context) {
	var req types.ProtocolOptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Summary) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "protocolSummary is required"})
		return
	}
	c.JSON(http.StatusOK, s.data.optimize(req.Indication, req.Phase, len(req.Summary)))
}

func (s *Server) uploadAndOptimize(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer f.Close()
	n, _ := io.Copy(io.Discard, f)
	c.JSON(http.StatusOK, s.data.optimize(c.PostForm("indication"), c.PostForm("phase"), int(n)))
}

func (s *Server) recommendEndpoints(c *gin.Context) {
	var req types.EndpointRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Indication) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "indication is required"})
		return
	}
	eps := s.data.endpoints(req.Indication)
	if req.Count > 0 && req.Count < len(eps) {
		eps = eps[:req.Count]
	}
	c.JSON(http.StatusOK, gin.H{"results": eps})
}

func (s *Server) languages(c *gin.Context) {
	c.JSON(http.StatusOK, s.data.languages)
}

func (s *Server) translate(c *gin.Context) {
	kind := c.Param("kind")
	if kind != "text" && kind != "csr" && kind != "regulatory" {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown translation endpoint"})
		return
	}
	var req types.TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TargetLang == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetLanguage is required"})
		return
	}
	src := req.Text
	if kind == "csr" {
		csr, ok := s.data.csr(req.CSRID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "csr not found"})
			return
		}
		src = csr.Title
	}
	out := types.Translation{
		TranslatedText: fmt.Sprintf("[%s] %s", req.TargetLang, src),
		SourceLang:     "en",
		TargetLang:     req.TargetLang,
	}
	if kind == "regulatory" {
		region := req.Region
		if region == "" {
			region = "EU"
		}
		out.Notes = []string{"Terminology aligned with " + region + " regulatory glossary."}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) reports(c *gin.Context) {
	s.mu.Lock()
	out := make([]types.Report, 0, len(s.data.reports))
	for _, r := range s.data.reports {
		out = append(out, types.Report{ID: r.ID, Title: r.Title, Type: "cer"})
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) csrList(c *gin.Context) {
	res := s.data.filterCSRs(c.Query("query"), c.Query("indication"), c.Query("phase"), c.Query("sponsor"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	if offset > len(res) {
		offset = len(res)
	}
	res = res[offset:]
	if limit > 0 && limit < len(res) {
		res = res[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"items": res})
}

func (s *Server) csrCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": len(s.data.csrs)})
}

func (s *Server) startupSite(c *gin.Context) {
	s.mu.Lock()
	site, ok := s.data.sites[c.Param("id")]
	var cp types.StartupSite
	if ok {
		cp = site
		cp.Items = append([]types.ChecklistItem(nil), site.Items...)
	}
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "site not found"})
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (s *Server) completeItem(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, site := range s.data.sites {
		for i := range site.Items {
			if site.Items[i].ID == id {
				site.Items[i].Completed = true
				s.data.sites[sid] = site
				c.JSON(http.StatusOK, site.Items[i])
				return
			}
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
}
