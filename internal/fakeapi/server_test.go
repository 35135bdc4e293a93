// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fakeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/regdesk/pkg/types"
)

func serve(t *testing.T, s *Server, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPubMedSearchFiltersByTerms(t *testing.T) {
	s := New(nil)
	rec := serve(t, s, http.MethodGet, "/api/pubmed/search?query=pacemaker+safety", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Results []types.Publication `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	var ids []string
	for _, p := range out.Results {
		ids = append(ids, p.PMID)
		assert.Empty(t, p.Abstract, "search results carry no abstract")
	}
	assert.Equal(t, []string{"111", "222", "444"}, ids)

	rec = serve(t, s, http.MethodGet, "/api/pubmed/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAbstractsRecordsBody(t *testing.T) {
	s := New(nil)
	rec := serve(t, s, http.MethodPost, "/api/pubmed/abstracts", `{"pmids":["222","999"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []types.Abstract
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "222", out[0].PMID)

	calls := s.Calls("/api/pubmed/abstracts")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"pmids":["222","999"]}`, string(calls[0].Body))
}

func TestCERGenerateThenDownload(t *testing.T) {
	s := New(nil)
	rec := serve(t, s, http.MethodPost, "/api/cer/generate-advanced",
		`{"device":{"deviceName":"Pacer X"},"literature":[{"pmid":"111","title":"A <b>study</b>"}],"adverseEvents":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report types.CERReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.NotEmpty(t, report.ID)
	assert.Contains(t, report.LiteratureAnalysis, "A &lt;b&gt;study&lt;/b&gt;")

	rec = serve(t, s, http.MethodGet, "/api/cer/"+report.ID+"/download-pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = serve(t, s, http.MethodGet, "/api/cer/missing/download-pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, s, http.MethodGet, "/api/reports", "")
	var reports []types.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)
}

func TestCERRejectsIncompletePayload(t *testing.T) {
	s := New(nil)
	rec := serve(t, s, http.MethodPost, "/api/cer/generate-advanced", `{"device":{"deviceName":""},"literature":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFailInjection(t *testing.T) {
	s := New(nil)
	s.Fail("/api/startup/site/:id", http.StatusServiceUnavailable)
	rec := serve(t, s, http.MethodGet, "/api/startup/site/S1", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "injected failure")

	s.Fail("/api/startup/site/:id", 0)
	rec = serve(t, s, http.MethodGet, "/api/startup/site/S1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireToken(t *testing.T) {
	s := New(nil)
	s.RequireToken("secret")
	rec := serve(t, s, http.MethodGet, "/api/csr/count", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, s, http.MethodGet, "/api/csr/count", "", "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":4}`, rec.Body.String())

	s.Reset()
	rec = serve(t, s, http.MethodGet, "/api/csr/count", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, s.Calls(""), 1)
}

func TestDelayHonorsClientCancel(t *testing.T) {
	s := New(nil)
	s.Delay("/api/csr/count", time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/csr/count", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		s.Handler().ServeHTTP(rec, req)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("delayed handler ignored cancellation")
	}
}

func TestCompleteChecklistItem(t *testing.T) {
	s := New(nil)
	rec := serve(t, s, http.MethodPost, "/api/startup/item/cta/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, s, http.MethodGet, "/api/startup/site/S1", "")
	var site types.StartupSite
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))
	done, total := site.Progress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)

	rec = serve(t, s, http.MethodPost, "/api/startup/item/nope/complete", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := New(nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/pubmed/abstracts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
