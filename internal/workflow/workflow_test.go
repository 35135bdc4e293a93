// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/regdesk/internal/api"
	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/internal/fakeapi"
	"github.com/pdiddy/regdesk/internal/gateway"
	"github.com/pdiddy/regdesk/internal/notify"
	"github.com/pdiddy/regdesk/internal/submit"
	"github.com/pdiddy/regdesk/pkg/types"
)

func newBackend(t *testing.T) (*api.Client, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New(nil)
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)
	gw, err := gateway.New(types.GatewayConfig{BaseURL: ts.URL, MaxRateLimitRetries: -1}, gateway.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return api.New(gw), fake
}

func bodies(calls []fakeapi.Call) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, strings.TrimSpace(string(c.Body)))
	}
	return out
}

func TestCERSelectionPrefetchesExactlyNewIDs(t *testing.T) {
	b, fake := newBackend(t)
	w := NewCER(b, nil)
	ctx := context.Background()

	_, err := w.SearchLiterature(ctx, types.SearchQuery{Text: "pacemaker safety"})
	require.NoError(t, err)

	require.NoError(t, w.SelectPublications(ctx, "111", "222"))
	assert.Equal(t, []string{`{"pmids":["111","222"]}`}, bodies(fake.Calls("/api/pubmed/abstracts")))

	on, err := w.TogglePublication(ctx, "444")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{`{"pmids":["111","222"]}`, `{"pmids":["444"]}`}, bodies(fake.Calls("/api/pubmed/abstracts")))

	// Deselecting and reselecting a cached id makes no request.
	on, err = w.TogglePublication(ctx, "111")
	require.NoError(t, err)
	assert.False(t, on)
	on, err = w.TogglePublication(ctx, "111")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Len(t, fake.Calls("/api/pubmed/abstracts"), 2)

	assert.Equal(t, []string{"222", "444", "111"}, w.SelectedPMIDs())
}

func TestCERGenerateEnablement(t *testing.T) {
	b, fake := newBackend(t)
	w := NewCER(b, nil)
	ctx := context.Background()

	assert.False(t, w.CanGenerate())

	_, err := w.TogglePublication(ctx, "111")
	require.NoError(t, err)
	assert.False(t, w.CanGenerate(), "device name still empty")

	_, err = w.GenerateReport(ctx)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{FieldDeviceName}, ve.Fields)
	assert.Empty(t, fake.Calls("/api/cer/generate-advanced"))

	w.SetDevice(FieldDeviceName, "Pacer X")
	assert.True(t, w.CanGenerate())

	w.ClearPublications()
	assert.False(t, w.CanGenerate())
}

func TestCERBuildRequestCarriesSelections(t *testing.T) {
	b, _ := newBackend(t)
	w := NewCER(b, nil)
	ctx := context.Background()

	_, err := w.SearchLiterature(ctx, types.SearchQuery{Text: "pacemaker"})
	require.NoError(t, err)
	require.NoError(t, w.SelectPublications(ctx, "222"))

	// A later search must not drop what was already picked.
	_, err = w.SearchLiterature(ctx, types.SearchQuery{Text: "insulin"})
	require.NoError(t, err)

	_, err = w.SearchEvents(ctx, "Pacer X")
	require.NoError(t, err)
	assert.True(t, w.ToggleEvent("Infection"))

	w.SetDevice(FieldDeviceName, " Pacer X ")
	w.SetDevice(FieldManufacturer, "Acme")

	req := w.BuildRequest()
	assert.Equal(t, "Pacer X", req.Device.Name)
	assert.Equal(t, "Acme", req.Device.Manufacturer)
	require.Len(t, req.Literature, 1)
	assert.Equal(t, "222", req.Literature[0].PMID)
	assert.Contains(t, req.Literature[0].Title, "lead fracture")
	assert.Contains(t, req.Literature[0].Abstract, "0.9%")
	require.Len(t, req.AdverseEvents, 1)
	assert.Equal(t, types.AdverseEvent{Term: "Infection", Count: 31, Seriousness: "serious"}, req.AdverseEvents[0])
}

func TestCERFailedGenerateKeepsPreviousReport(t *testing.T) {
	b, fake := newBackend(t)
	inline := &notify.Inline{}
	w := NewCER(b, inline)
	ctx := context.Background()

	require.NoError(t, w.SelectPublications(ctx, "111"))
	w.SetDevice(FieldDeviceName, "Pacer X")

	first, err := w.GenerateReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, submit.Success, w.Generate.State())

	fake.Fail("/api/cer/generate-advanced", http.StatusBadGateway)
	_, err = w.GenerateReport(ctx)
	require.Error(t, err)
	assert.Equal(t, submit.Failure, w.Generate.State())

	kept, ok := w.Report()
	require.True(t, ok)
	assert.Equal(t, first, kept)

	errs := inline.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, apperr.KindServer, errs[0].Kind)

	// Resubmission from Failure is allowed.
	fake.Fail("/api/cer/generate-advanced", 0)
	second, err := w.GenerateReport(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

type gatedSearch struct {
	Backend
	started chan string
	release map[string]chan struct{}
}

func (g *gatedSearch) SearchPubMed(_ context.Context, q types.SearchQuery) ([]types.Publication, error) {
	g.started <- q.Text
	<-g.release[q.Text]
	return []types.Publication{{PMID: q.Text}}, nil
}

func TestCERStaleSearchNeverOverwrites(t *testing.T) {
	b, _ := newBackend(t)
	g := &gatedSearch{
		Backend: b,
		started: make(chan string, 2),
		release: map[string]chan struct{}{"old": make(chan struct{}), "new": make(chan struct{})},
	}
	inline := &notify.Inline{}
	w := NewCER(g, inline)
	ctx := context.Background()

	oldErr := make(chan error, 1)
	go func() {
		_, err := w.SearchLiterature(ctx, types.SearchQuery{Text: "old"})
		oldErr <- err
	}()
	require.Equal(t, "old", <-g.started)

	newErr := make(chan error, 1)
	go func() {
		_, err := w.SearchLiterature(ctx, types.SearchQuery{Text: "new"})
		newErr <- err
	}()
	require.Equal(t, "new", <-g.started)

	close(g.release["new"])
	require.NoError(t, <-newErr)
	close(g.release["old"])
	assert.True(t, errors.Is(<-oldErr, apperr.ErrStale))

	assert.Equal(t, []string{"new"}, w.Literature.IDs())
	assert.Empty(t, inline.Errors())
}

func TestProtocolOptimize(t *testing.T) {
	b, fake := newBackend(t)
	w := NewProtocol(b, nil)
	ctx := context.Background()

	w.Set(FieldProtocolSummary, "24 week randomized study")
	_, err := w.OptimizeSummary(ctx)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{FieldIndication}, ve.Fields)
	assert.Empty(t, fake.Calls(""))

	w.Set(FieldIndication, "heart failure")
	out, err := w.OptimizeSummary(ctx)
	require.NoError(t, err)
	assert.Len(t, out.MatchedCSRs, 2)
	assert.JSONEq(t, `{"protocolSummary":"24 week randomized study","indication":"heart failure"}`,
		string(fake.Calls("/api/protocol/optimize")[0].Body))

	up, err := w.UploadDocument(ctx, "protocol.txt", strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Contains(t, up.Summary, "3 character")
	assert.Contains(t, up.Summary, "heart failure")
}

func TestEndpointSuggestAndPick(t *testing.T) {
	b, _ := newBackend(t)
	w := NewEndpoint(b, nil)
	ctx := context.Background()

	w.Set(FieldIndication, "heart failure")
	w.Set(FieldCount, "x")
	_, err := w.Suggest(ctx)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	w.Set(FieldCount, "")
	eps, err := w.Suggest(ctx)
	require.NoError(t, err)
	require.Len(t, eps, 3)

	w.Toggle("Quality of life score")
	w.Toggle("All-cause mortality")
	var names []string
	for _, e := range w.Chosen() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Quality of life score", "All-cause mortality"}, names)

	_, err = w.Suggest(ctx)
	require.NoError(t, err)
	assert.Empty(t, w.Chosen())
}

func TestCSRLibrary(t *testing.T) {
	b, fake := newBackend(t)
	inline := &notify.Inline{}
	l := NewCSRLibrary(b, inline)
	ctx := context.Background()

	res, err := l.List(ctx, api.CSRFilter{Sponsor: "Acme Pharma"})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Len(t, l.Search.Results(), 2)

	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	fake.Fail("/api/csr/list", http.StatusInternalServerError)
	_, err = l.List(ctx, api.CSRFilter{})
	require.Error(t, err)
	assert.Len(t, l.Search.Results(), 2, "failed listing keeps previous results")
	assert.Len(t, inline.Errors(), 1)

	reports, err := l.Reports(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestStartupFailedCompletionLeavesSite(t *testing.T) {
	b, fake := newBackend(t)
	s := NewStartup(b, nil)
	ctx := context.Background()

	site, err := s.Load(ctx, "S1")
	require.NoError(t, err)
	before := s.Site()
	assert.Equal(t, site, before)

	fake.Fail("/api/startup/item/:id/complete", http.StatusInternalServerError)
	_, err = s.Complete(ctx, "cta")
	require.Error(t, err)
	assert.Equal(t, before, s.Site())

	fake.Fail("/api/startup/item/:id/complete", 0)
	item, err := s.Complete(ctx, "cta")
	require.NoError(t, err)
	assert.True(t, item.Completed)
	done, total := s.Site().Progress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)

	calls := len(fake.Calls(""))
	_, err = s.Complete(ctx, "nope")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Len(t, fake.Calls(""), calls)
}
