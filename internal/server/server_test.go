package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/portfolio/internal/portfolio"
	"github.com/spigell/portfolio/internal/resume"
)

type stubBuilder struct {
	page  *portfolio.Page
	err   error
	calls int
}

func (b *stubBuilder) Build(_ context.Context) (*portfolio.Page, error) {
	b.calls++
	return b.page, b.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, b Builder, logger *zap.Logger) http.Handler {
	t.Helper()

	s, err := New(Config{}, b, logger)
	require.NoError(t, err)
	return s.Handler()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPage(t *testing.T) {
	b := &stubBuilder{page: &portfolio.Page{
		Resume: &resume.Record{Name: "Jane Doe", Summary: "Engineer."},
	}}
	h := newTestServer(t, b, nil)

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", doc.Find(".hero h1").Text())
	assert.Equal(t, 1, doc.Find("#about").Length())

	get(h, "/")
	assert.Equal(t, 2, b.calls, "every request builds the page")
}

func TestResumeJSON(t *testing.T) {
	b := &stubBuilder{page: &portfolio.Page{
		Resume: &resume.Record{
			Name:       "Jane Doe",
			Experience: []resume.Job{{Header: "Engineer, Acme  2020 – Present", Bullets: []string{"Built X"}}},
		},
	}}

	rec := get(newTestServer(t, b, nil), "/resume.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var got resume.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Jane Doe", got.Name)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, []string{"Built X"}, got.Experience[0].Bullets)
}

func TestResumeJSONUnavailable(t *testing.T) {
	b := &stubBuilder{page: &portfolio.Page{ResumeError: portfolio.ResumeUnavailable}}

	rec := get(newTestServer(t, b, nil), "/resume.json")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), portfolio.ResumeUnavailable)
}

func TestBuildFailure(t *testing.T) {
	core, observed := observer.New(zapcore.ErrorLevel)
	b := &stubBuilder{err: errors.New("boom")}
	h := newTestServer(t, b, zap.New(core))

	for _, path := range []string{"/", "/resume.json"} {
		rec := get(h, path)
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)
		assert.Equal(t, buildFailed, strings.TrimSpace(rec.Body.String()), path)
	}
	assert.Equal(t, 2, observed.FilterMessage("building page").Len())
}

func TestHealthz(t *testing.T) {
	b := &stubBuilder{err: errors.New("not called")}

	rec := get(newTestServer(t, b, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Zero(t, b.calls)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(newTestServer(t, &stubBuilder{}, nil), "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, &stubBuilder{}, nil)

	rec := get(h, "/healthz")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(requestIDHeader))
}
