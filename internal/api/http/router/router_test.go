package router

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontext "github.com/dtroode/interview-assistant/internal/api/http/context"
	"github.com/dtroode/interview-assistant/internal/config"
	"github.com/dtroode/interview-assistant/internal/metrics"
	"github.com/dtroode/interview-assistant/internal/model"
	"github.com/dtroode/interview-assistant/internal/password"
	"github.com/dtroode/interview-assistant/internal/service"
	redisstore "github.com/dtroode/interview-assistant/internal/storage/redis"
	"github.com/dtroode/interview-assistant/internal/testutil"
	"github.com/dtroode/interview-assistant/internal/token"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   *testutil.MemStore
}

func newTestAPI(t *testing.T, storage model.Storage) *testAPI {
	t.Helper()

	mr := miniredis.RunT(t)
	revocations, err := redisstore.NewRevocationStore(context.Background(), config.Redis{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = revocations.Close() })

	lg := testutil.MakeNoopLogger()
	store := testutil.NewMemStore(testutil.DefaultQuestions()...)

	authService := service.NewAuth(store.Users(), password.NewHasher(4), token.NewJWT("router-secret", time.Hour), revocations, lg)
	interviewService := service.NewInterview(store.Sessions(), store.Questions(), store.Responses(), store.Feedback(), lg)
	reportService := service.NewReport(store.Sessions(), store.Feedback(), storage, lg)

	r := New(authService, interviewService, reportService, metrics.New(), apicontext.NewManager(), []string{"http://localhost:3000"}, lg)

	return &testAPI{t: t, handler: r.Register(), store: store}
}

func (a *testAPI) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(email string) string {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/auth/register", "", map[string]string{"email": email, "password": "pa55word"})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(a.t, rec, &resp)
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func (a *testAPI) startSession(bearer, role string) int64 {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/interview/start", bearer, map[string]string{"role": role})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		SessionID int64 `json:"session_id"`
	}
	decode(a.t, rec, &resp)
	return resp.SessionID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

type nextQuestion struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type answerResult struct {
	ResponseID int64 `json:"response_id"`
	Feedback   struct {
		Communication int      `json:"communication"`
		Correctness   int      `json:"correctness"`
		Completeness  int      `json:"completeness"`
		Overall       int      `json:"overall"`
		Suggestions   []string `json:"suggestions"`
	} `json:"feedback"`
}

func TestRouter_InterviewFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	bearer := api.register("flow@example.com")
	sessionID := api.startSession(bearer, "backend")

	rec := api.do(http.MethodGet, fmt.Sprintf("/interview/status?session_id=%d", sessionID), bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"session_id":%d,"status":"in_progress"}`, sessionID), rec.Body.String())

	rec = api.do(http.MethodGet, fmt.Sprintf("/question/next?session_id=%d", sessionID), bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var q nextQuestion
	decode(t, rec, &q)
	assert.Equal(t, int64(1), q.ID)

	rec = api.do(http.MethodPost, "/interview/answer", bearer, map[string]any{
		"session_id":  sessionID,
		"question_id": q.ID,
		"answer_text": "REST runs over HTTP. Each request is stateless and names a resource by URI.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var answer answerResult
	decode(t, rec, &answer)
	assert.Positive(t, answer.ResponseID)
	assert.Equal(t, 100, answer.Feedback.Correctness)
	assert.GreaterOrEqual(t, answer.Feedback.Overall, 0)
	assert.LessOrEqual(t, answer.Feedback.Overall, 100)
	assert.NotEmpty(t, answer.Feedback.Suggestions)

	rec = api.do(http.MethodGet, fmt.Sprintf("/report/session/%d", sessionID), bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		SessionID  int64   `json:"session_id"`
		AvgOverall float64 `json:"avg_overall"`
		Count      int     `json:"count"`
	}
	decode(t, rec, &report)
	assert.Equal(t, sessionID, report.SessionID)
	assert.Equal(t, 1, report.Count)
	assert.InDelta(t, float64(answer.Feedback.Overall), report.AvgOverall, 1e-9)

	rec = api.do(http.MethodGet, fmt.Sprintf("/feedback/%d", answer.ResponseID), bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var byResponse struct {
		Items []struct {
			ResponseID int64 `json:"response_id"`
			Overall    int   `json:"overall"`
		} `json:"items"`
	}
	decode(t, rec, &byResponse)
	require.Len(t, byResponse.Items, 1)
	assert.Equal(t, answer.ResponseID, byResponse.Items[0].ResponseID)
	assert.Equal(t, answer.Feedback.Overall, byResponse.Items[0].Overall)

	rec = api.do(http.MethodGet, "/report/my", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Items []struct {
			SessionID  int64    `json:"session_id"`
			Role       string   `json:"role"`
			AvgOverall *float64 `json:"avg_overall"`
		} `json:"items"`
	}
	decode(t, rec, &history)
	require.Len(t, history.Items, 1)
	assert.Equal(t, "backend", history.Items[0].Role)
	require.NotNil(t, history.Items[0].AvgOverall)
	assert.InDelta(t, float64(answer.Feedback.Overall), *history.Items[0].AvgOverall, 1e-9)

	// remaining backend questions: the ACID one, then exhaustion
	rec = api.do(http.MethodGet, fmt.Sprintf("/question/next?session_id=%d", sessionID), bearer, nil)
	decode(t, rec, &q)
	assert.Equal(t, int64(2), q.ID)

	rec = api.do(http.MethodPost, "/interview/answer", bearer, map[string]any{
		"session_id":  sessionID,
		"question_id": q.ID,
		"answer_text": "",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, fmt.Sprintf("/question/next?session_id=%d", sessionID), bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &q)
	assert.Equal(t, model.ExhaustedQuestionID, q.ID)
	assert.Equal(t, model.ExhaustedQuestionText, q.Text)

	rec = api.do(http.MethodGet, fmt.Sprintf("/feedback/session/%d", sessionID), bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &byResponse)
	assert.Len(t, byResponse.Items, 2)
}

func TestRouter_Auth(t *testing.T) {
	api := newTestAPI(t, nil)
	api.register("dup@example.com")

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
		wantMsg  string
	}{
		{
			name:     "duplicate email is a conflict",
			path:     "/auth/register",
			body:     map[string]string{"email": "DUP@example.com ", "password": "x"},
			wantCode: http.StatusConflict,
			wantMsg:  "email already registered",
		},
		{
			name:     "register without password",
			path:     "/auth/register",
			body:     map[string]string{"email": "new@example.com"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			path:     "/auth/register",
			body:     "{not json",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "wrong password",
			path:     "/auth/login",
			body:     map[string]string{"email": "dup@example.com", "password": "nope"},
			wantCode: http.StatusUnauthorized,
			wantMsg:  "invalid credentials",
		},
		{
			name:     "unknown email",
			path:     "/auth/login",
			body:     map[string]string{"email": "ghost@example.com", "password": "pa55word"},
			wantCode: http.StatusUnauthorized,
			wantMsg:  "invalid credentials",
		},
		{
			name:     "valid login",
			path:     "/auth/login",
			body:     map[string]string{"email": "dup@example.com", "password": "pa55word"},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantMsg != "" {
				assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tt.wantMsg), rec.Body.String())
			}
		})
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t, nil)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/auth/logout"},
		{http.MethodPost, "/interview/start"},
		{http.MethodPost, "/interview/answer"},
		{http.MethodGet, "/interview/status?session_id=1"},
		{http.MethodGet, "/question/next?session_id=1"},
		{http.MethodGet, "/feedback/1"},
		{http.MethodGet, "/feedback/session/1"},
		{http.MethodGet, "/report/session/1"},
		{http.MethodGet, "/report/my"},
		{http.MethodPost, "/report/session/1/archive"},
		{http.MethodGet, "/report/session/1/archive"},
	}

	for _, route := range routes {
		for _, bearer := range []string{"", "not-a-jwt"} {
			t.Run(route.method+" "+route.path+" "+bearer, func(t *testing.T) {
				rec := api.do(route.method, route.path, bearer, nil)
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				assert.JSONEq(t, `{"message":"unauthorized"}`, rec.Body.String())
			})
		}
	}
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t, nil)
	bearer := api.register("bye@example.com")

	rec := api.do(http.MethodGet, "/report/my", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/auth/logout", bearer, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/report/my", bearer, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CrossUserIsolation(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.register("alice@example.com")
	bob := api.register("bob@example.com")

	sessionID := api.startSession(alice, "")
	rec := api.do(http.MethodPost, "/interview/answer", alice, map[string]any{
		"session_id":  sessionID,
		"question_id": 1,
		"answer_text": "HTTP resources.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var answer answerResult
	decode(t, rec, &answer)

	rec = api.do(http.MethodGet, fmt.Sprintf("/interview/status?session_id=%d", sessionID), bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, fmt.Sprintf("/question/next?session_id=%d", sessionID), bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, "/interview/answer", bob, map[string]any{
		"session_id":  sessionID,
		"question_id": 1,
		"answer_text": "sneaky",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, api.store.ResponseCount(sessionID))

	rec = api.do(http.MethodGet, fmt.Sprintf("/feedback/%d", answer.ResponseID), bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = api.do(http.MethodGet, fmt.Sprintf("/feedback/session/%d", sessionID), bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = api.do(http.MethodGet, fmt.Sprintf("/report/session/%d", sessionID), bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"session_id":%d,"avg_overall":0,"avg_communication":0,"avg_correctness":0,"avg_completeness":0,"count":0}`, sessionID), rec.Body.String())

	rec = api.do(http.MethodGet, "/report/my", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestRouter_BadInput(t *testing.T) {
	api := newTestAPI(t, nil)
	bearer := api.register("bad@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{name: "status without session id", method: http.MethodGet, path: "/interview/status"},
		{name: "status with non-numeric id", method: http.MethodGet, path: "/interview/status?session_id=abc"},
		{name: "next with negative id", method: http.MethodGet, path: "/question/next?session_id=-3"},
		{name: "answer with malformed body", method: http.MethodPost, path: "/interview/answer", body: "{"},
		{name: "answer without ids", method: http.MethodPost, path: "/interview/answer", body: map[string]string{"answer_text": "hi"}},
		{name: "report with bad path id", method: http.MethodGet, path: "/report/session/zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, bearer, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_StartWithoutBody(t *testing.T) {
	api := newTestAPI(t, nil)
	bearer := api.register("nobody@example.com")

	rec := api.do(http.MethodPost, "/interview/start", bearer, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		SessionID int64 `json:"session_id"`
	}
	decode(t, rec, &resp)
	assert.Positive(t, resp.SessionID)
}

func TestRouter_Archive(t *testing.T) {
	storage := testutil.NewMemStorage()
	api := newTestAPI(t, storage)
	bearer := api.register("archive@example.com")
	sessionID := api.startSession(bearer, "backend")
	path := fmt.Sprintf("/report/session/%d/archive", sessionID)

	rec := api.do(http.MethodGet, path, bearer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, "/interview/answer", bearer, map[string]any{
		"session_id":  sessionID,
		"question_id": 1,
		"answer_text": "Stateless HTTP.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, path, bearer, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Key string `json:"key"`
	}
	decode(t, rec, &created)
	assert.True(t, strings.HasPrefix(created.Key, "reports/"))
	assert.True(t, strings.HasSuffix(created.Key, fmt.Sprintf("/%d.json", sessionID)))

	rec = api.do(http.MethodGet, path, bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var doc service.ArchiveDocument
	decode(t, rec, &doc)
	assert.Equal(t, sessionID, doc.SessionID)
	assert.Equal(t, 1, doc.Summary.Count)
	assert.Len(t, doc.Items, 1)

	other := api.register("other@example.com")
	rec = api.do(http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ArchiveDisabled(t *testing.T) {
	api := newTestAPI(t, nil)
	bearer := api.register("noarchive@example.com")
	sessionID := api.startSession(bearer, "")

	rec := api.do(http.MethodPost, fmt.Sprintf("/report/session/%d/archive", sessionID), bearer, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Healthy"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/_ping", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ping struct {
		Status string    `json:"status"`
		Time   time.Time `json:"time"`
	}
	decode(t, rec, &ping)
	assert.Equal(t, "ok", ping.Status)
	assert.False(t, ping.Time.IsZero())

	rec = api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `interview_assistant_http_requests_total{method="GET",route="/_ping",status="200"} 1`)

	rec = api.do(http.MethodGet, "/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	api := newTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/interview/start", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()

	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
