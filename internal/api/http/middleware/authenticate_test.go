package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apicontext "github.com/dtroode/interview-assistant/internal/api/http/context"
	"github.com/dtroode/interview-assistant/internal/model"
	"github.com/dtroode/interview-assistant/internal/testutil"
)

type resolverMock struct {
	mock.Mock
}

func (m *resolverMock) ResolveIdentity(ctx context.Context, path, authorization string) (model.Identity, bool) {
	args := m.Called(ctx, path, authorization)
	return args.Get(0).(model.Identity), args.Bool(1)
}

func TestAuthenticate_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		header       string
		identity     model.Identity
		resolved     bool
		wantIdentity bool
	}{
		{
			name:         "resolved identity is attached",
			header:       "Bearer good",
			identity:     model.Identity{UserID: 3, Email: "u@x.test"},
			resolved:     true,
			wantIdentity: true,
		},
		{
			name:         "unresolved request passes through",
			header:       "Bearer bad",
			resolved:     false,
			wantIdentity: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cm := apicontext.NewManager()
			resolver := &resolverMock{}
			resolver.On("ResolveIdentity", mock.Anything, "/interview/start", tt.header).Return(tt.identity, tt.resolved)

			auth := NewAuthenticate(resolver, cm, testutil.MakeNoopLogger())

			var gotIdentity model.Identity
			var gotOK bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotIdentity, gotOK = cm.GetIdentityFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/interview/start", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			auth.Resolve(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantIdentity, gotOK)
			if tt.wantIdentity {
				assert.Equal(t, tt.identity, gotIdentity)
			}
			resolver.AssertExpectations(t)
		})
	}
}

func TestAuthenticate_Require(t *testing.T) {
	t.Parallel()

	cm := apicontext.NewManager()
	auth := NewAuthenticate(&resolverMock{}, cm, testutil.MakeNoopLogger())

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects missing identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		auth.Require(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/my", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"unauthorized"}`, rec.Body.String())
		assert.False(t, called)
	})

	t.Run("passes identified request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/report/my", nil)
		req = req.WithContext(cm.SetIdentityToContext(req.Context(), model.Identity{UserID: 1}))
		rec := httptest.NewRecorder()

		auth.Require(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
}
