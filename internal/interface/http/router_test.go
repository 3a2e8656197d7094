package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanqian/faq-admin/internal/domain/auth"
	"github.com/yanqian/faq-admin/internal/domain/enhancer"
	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/domain/session"
	"github.com/yanqian/faq-admin/internal/infra/config"
	"github.com/yanqian/faq-admin/internal/infra/faqcache"
	"github.com/yanqian/faq-admin/internal/infra/faqfile"
	"github.com/yanqian/faq-admin/internal/infra/sessionstore"
)

const (
	jobQuestion = "How do I post a job?"
	jobAnswer   = "Open the Jobs tab and click New job."
)

func TestRouter_CreateAndDuplicate(t *testing.T) {
	server := newRouterUnderTest(t, false)

	rec := performRequest(server, http.MethodPost, "/api/v1/faqs", `{"question":"How do I post a job?","answer":"Open the Jobs tab and click New job.","category":"Job Posting","tags":["jobs"]}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created faq.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, faq.CategoryJobPosting, created.Category)
	require.Contains(t, created.ID, "faq-job_posting-how-do-i-post-")

	rec = performRequest(server, http.MethodPost, "/api/v1/faqs", `{"question":"how do i post a JOB?","answer":"Another answer that is long enough."}`, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, faq.CodeDuplicateQuestion, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_CreateValidatesMinimumLengths(t *testing.T) {
	server := newRouterUnderTest(t, false)

	rec := performRequest(server, http.MethodPost, "/api/v1/faqs", `{"question":"Why","answer":"Because we said so."}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, faq.CodeInvalidInput, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(server, http.MethodPost, "/api/v1/faqs", `{"question":"What is this?","answer":"Short"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_MinimumLengthsIgnorePadding(t *testing.T) {
	server := newRouterUnderTest(t, false)

	rec := performRequest(server, http.MethodPost, "/api/v1/faqs", `{"question":"    a","answer":"Because we said so."}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, faq.CodeInvalidInput, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(server, http.MethodPost, "/api/v1/faqs", `{"question":"What is this?","answer":"  short       "}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	created := createRecord(t, server, jobQuestion, jobAnswer)
	rec = performRequest(server, http.MethodPut, "/api/v1/faqs/"+created.ID, `{"question":"  Job  ","answer":"          x"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(server, http.MethodGet, "/api/v1/faqs/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), jobAnswer)
}

func TestRouter_ListGetUpdateDelete(t *testing.T) {
	server := newRouterUnderTest(t, false)
	created := createRecord(t, server, jobQuestion, jobAnswer)
	createRecord(t, server, "Where is the dashboard?", "It is the first screen after you log in.")

	rec := performRequest(server, http.MethodGet, "/api/v1/faqs?q=job", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		FAQs  []faq.Record `json:"faqs"`
		Total int          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Total)
	require.Equal(t, created.ID, listed.FAQs[0].ID)

	rec = performRequest(server, http.MethodGet, "/api/v1/faqs/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(server, http.MethodPut, "/api/v1/faqs/"+created.ID, `{"question":"How do I publish a job?","answer":"Open the Jobs tab and press Publish.","category":"job_posting"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated faq.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "How do I publish a job?", updated.Question)

	rec = performRequest(server, http.MethodDelete, "/api/v1/faqs/"+created.ID, "", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = performRequest(server, http.MethodDelete, "/api/v1/faqs/unknown-id", "", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = performRequest(server, http.MethodGet, "/api/v1/faqs/"+created.ID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, faq.CodeNotFound, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_ExportNamesFileByScope(t *testing.T) {
	server := newRouterUnderTest(t, false)
	createRecord(t, server, jobQuestion, jobAnswer)

	rec := performRequest(server, http.MethodGet, "/api/v1/faqs/export", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "hire_hub_enhanced_faqs.json")

	rec = performRequest(server, http.MethodGet, "/api/v1/faqs/export?category=dashboard", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "hire_hub_dashboard_faqs.json")
	require.Equal(t, "[]", rec.Body.String())

	rec = performRequest(server, http.MethodGet, "/api/v1/faqs/export?tags=jobs", "", nil)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "hire_hub_tagged_faqs.json")
}

func TestRouter_ExportCSV(t *testing.T) {
	server := newRouterUnderTest(t, false)
	createRecord(t, server, jobQuestion, jobAnswer)

	rec := performRequest(server, http.MethodGet, "/api/v1/faqs/export?format=csv", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "hire_hub_enhanced_faqs.csv")
	require.Equal(t, "1", rec.Header().Get("X-FAQ-Count"))
	require.True(t, strings.HasPrefix(rec.Body.String(), "id,category,question,answer,question_length,answer_length\n"))

	rec = performRequest(server, http.MethodGet, "/api/v1/faqs/export?format=pdf", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_BulkAndStats(t *testing.T) {
	server := newRouterUnderTest(t, false)
	createRecord(t, server, jobQuestion, jobAnswer)

	rec := performRequest(server, http.MethodPost, "/api/v1/faqs/bulk/tags", `{"tags":["hiring"]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"updated":1}`, rec.Body.String())

	rec = performRequest(server, http.MethodDelete, "/api/v1/faqs/bulk/tags/hiring", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"updated":1}`, rec.Body.String())

	rec = performRequest(server, http.MethodPost, "/api/v1/faqs/bulk/category", `{"target":"dashboard"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(server, http.MethodGet, "/api/v1/faqs/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats faq.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.Total)
	require.Equal(t, faq.CategoryDashboard, stats.TopCategory)
}

func TestRouter_MigrateLegacyPayload(t *testing.T) {
	server := newRouterUnderTest(t, false)

	rec := performRequest(server, http.MethodPost, "/api/v1/faqs/migrate", `[{"question":"How do I post a job?","answer":"Use the Jobs tab."},{"question":"How do I post a job?","answer":"dup"},{"question":"","answer":"no question"}]`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report faq.MigrationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, 3, report.Total)
	require.Equal(t, 1, report.Imported)
	require.Equal(t, 2, report.Skipped)

	rec = performRequest(server, http.MethodPost, "/api/v1/faqs/migrate", `{"not":"an array"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_EnhancerDegradesWithoutModel(t *testing.T) {
	server := newRouterUnderTest(t, false)

	rec := performRequest(server, http.MethodGet, "/api/v1/enhance/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"available":false`)

	rec = performRequest(server, http.MethodPost, "/api/v1/enhance/question", `{"question":"how post job"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out enhancer.TextResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.False(t, out.Available)
	require.Equal(t, "how post job", out.Text)

	rec = performRequest(server, http.MethodPost, "/api/v1/enhance/question", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SessionCookieCarriesEditingState(t *testing.T) {
	server := newRouterUnderTest(t, false)
	created := createRecord(t, server, jobQuestion, jobAnswer)

	rec := performRequest(server, http.MethodPut, "/api/v1/session/editing/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = performRequest(server, http.MethodGet, "/api/v1/session", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var view session.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, created.ID, view.EditingID)
	require.NotNil(t, view.Editing)

	rec = performRequest(server, http.MethodPost, "/api/v1/session/suggestions", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"available":false`)

	rec = performRequest(server, http.MethodPost, "/api/v1/session/suggestions/apply", "", cookies)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(server, http.MethodGet, "/api/v1/session", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Empty(t, view.EditingID)
}

func TestRouter_AuthRequiresBearerToken(t *testing.T) {
	server := newRouterUnderTest(t, true)

	rec := performRequest(server, http.MethodGet, "/api/v1/faqs", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(server, http.MethodPost, "/api/v1/auth/login", `{"username":"editor","password":"wrong"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(server, http.MethodPost, "/api/v1/auth/login", `{"username":"editor","password":"hunter22"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/faqs", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	out := httptest.NewRecorder()
	server.Handler.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)
}

func TestRouter_LoginDisabled(t *testing.T) {
	server := newRouterUnderTest(t, false)
	rec := performRequest(server, http.MethodPost, "/api/v1/auth/login", `{"username":"editor","password":"hunter22"}`, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RequestIDIsEchoed(t *testing.T) {
	server := newRouterUnderTest(t, false)

	rec := performRequest(server, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/faqs", nil)
	req.Header.Set(requestIDHeader, "trace-123")
	out := httptest.NewRecorder()
	server.Handler.ServeHTTP(out, req)
	require.Equal(t, "trace-123", out.Header().Get(requestIDHeader))
}

func createRecord(t *testing.T, server *http.Server, question, answer string) faq.Record {
	t.Helper()
	body, err := json.Marshal(faq.CreateRequest{Question: question, Answer: answer})
	require.NoError(t, err)
	rec := performRequest(server, http.MethodPost, "/api/v1/faqs", string(body), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var record faq.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	return record
}

func performRequest(server *http.Server, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, authEnabled bool) *http.Server {
	t.Helper()
	logger := newTestLogger()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Session: config.SessionConfig{
			Secret:     "router-test-secret",
			CookieName: "faq_admin_session",
			TTL:        time.Hour,
		},
	}

	store := faqfile.NewStore(faqfile.Config{Path: filepath.Join(t.TempDir(), "enhanced_faqs.json"), Purpose: "faq", Keep: 3}, nil, nil, logger)
	require.NoError(t, store.Load(context.Background()))
	cache := faqcache.NewMemoryStore()

	enhancerSvc := enhancer.NewService(enhancer.Config{}, nil, nil, store, cache, nil, nil, logger)
	faqSvc := faq.NewService(faq.Config{}, store, cache, enhancerSvc, nil, logger)
	sessionSvc := session.NewService(session.Config{}, sessionstore.NewMemoryStore(), faqSvc, enhancerSvc, logger)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	authSvc := auth.NewService(auth.Config{
		Enabled: authEnabled,
		Secret:  "router-test-secret-0123456789",
		Admins:  []auth.Admin{{Username: "editor", PasswordHash: string(hash)}},
	}, auth.NewStaticRepository([]auth.Admin{{Username: "editor", PasswordHash: string(hash)}}), logger)

	handler := NewHandler(cfg, faqSvc, enhancerSvc, sessionSvc, authSvc, logger)
	return NewRouter(cfg, handler, nil)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
