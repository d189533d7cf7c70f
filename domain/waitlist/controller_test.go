package waitlist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akeren/launch-waitlist/config/router"
	"github.com/akeren/launch-waitlist/internal/log"
	apperrors "github.com/akeren/launch-waitlist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWaitlistService struct {
	joinCalls int
	join      func(req *JoinWaitlistRequest) (*WaitlistEntryResponse, error)
	summary   func() (*WaitlistSummary, error)
	progress  func() (*LaunchProgress, error)
}

func (s *stubWaitlistService) Join(_ context.Context, req *JoinWaitlistRequest) (*WaitlistEntryResponse, error) {
	s.joinCalls++
	return s.join(req)
}

func (s *stubWaitlistService) GetSummary(context.Context) (*WaitlistSummary, error) {
	return s.summary()
}

func (s *stubWaitlistService) GetLaunchProgress(context.Context) (*LaunchProgress, error) {
	return s.progress()
}

func newControllerTestRouter(t *testing.T, service WaitlistService) *router.RouterService {
	t.Helper()

	rs := router.CreateRouterService(log.NewLoggerWithJSONOutput(), &router.RouterConfig{
		RequestTimeout: 5 * time.Second,
	})
	rs.MountController(NewWaitlistController(service))
	return rs
}

func serve(rs *router.RouterService, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJoinHandler_Created(t *testing.T) {
	service := &stubWaitlistService{
		join: func(req *JoinWaitlistRequest) (*WaitlistEntryResponse, error) {
			return &WaitlistEntryResponse{
				ID:        "id-1",
				Email:     req.Email,
				Status:    "pending",
				CreatedAt: "2025-06-01T12:00:00Z",
			}, nil
		},
	}
	rs := newControllerTestRouter(t, service)

	w := serve(rs, http.MethodPost, "/api/waitlist", `{"email":"a@example.com"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeMap(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, MessageJoined, body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", data["email"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "2025-06-01T12:00:00Z", data["created_at"])
}

func TestJoinHandler_InvalidEmailNeverReachesService(t *testing.T) {
	cases := map[string]string{
		"absent":     `{}`,
		"null":       `{"email":null}`,
		"empty":      `{"email":""}`,
		"number":     `{"email":42}`,
		"object":     `{"email":{"value":"a@example.com"}}`,
		"array body": `["a@example.com"]`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			service := &stubWaitlistService{}
			rs := newControllerTestRouter(t, service)

			w := serve(rs, http.MethodPost, "/api/waitlist", payload)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, MessageEmailRequired, decodeMap(t, w)["error"])
			assert.Zero(t, service.joinCalls)
		})
	}
}

func TestJoinHandler_MalformedBody(t *testing.T) {
	for _, payload := range []string{"", "not json", `{"email":`} {
		service := &stubWaitlistService{}
		rs := newControllerTestRouter(t, service)

		w := serve(rs, http.MethodPost, "/api/waitlist", payload)

		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
		assert.Equal(t, MessageInvalidBody, decodeMap(t, w)["error"], payload)
		assert.Zero(t, service.joinCalls)
	}
}

func TestJoinHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"duplicate", apperrors.NewConflictError(MessageEmailTaken, nil), http.StatusConflict, MessageEmailTaken},
		{"store failure", apperrors.NewDatabaseError(MessageRegisterFailed, errors.New("pq: connection reset")), http.StatusInternalServerError, MessageRegisterFailed},
		{"unexpected", errors.New("nil pointer somewhere"), http.StatusInternalServerError, MessageUnexpectedFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubWaitlistService{
				join: func(*JoinWaitlistRequest) (*WaitlistEntryResponse, error) { return nil, tc.err },
			}
			rs := newControllerTestRouter(t, service)

			w := serve(rs, http.MethodPost, "/api/waitlist", `{"email":"a@example.com"}`)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, map[string]any{"error": tc.message}, decodeMap(t, w))
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestSummaryHandler(t *testing.T) {
	service := &stubWaitlistService{
		summary: func() (*WaitlistSummary, error) {
			return &WaitlistSummary{
				Count:         2,
				RecentSignups: []RecentSignup{{Email: "b@example.com", Time: "just now"}, {Email: "a@example.com", Time: "5m ago"}},
			}, nil
		},
	}
	rs := newControllerTestRouter(t, service)

	w := serve(rs, http.MethodGet, "/api/waitlist", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"success": true,
		"count": 2,
		"recentSignups": [
			{"email": "b@example.com", "time": "just now"},
			{"email": "a@example.com", "time": "5m ago"}
		]
	}`, w.Body.String())
}

func TestSummaryHandler_Failure(t *testing.T) {
	service := &stubWaitlistService{
		summary: func() (*WaitlistSummary, error) {
			return nil, apperrors.NewDatabaseError(MessageCountFailed, nil)
		},
	}
	rs := newControllerTestRouter(t, service)

	w := serve(rs, http.MethodGet, "/api/waitlist", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to get user count"}`, w.Body.String())
}

func TestProgressHandler(t *testing.T) {
	service := &stubWaitlistService{
		progress: func() (*LaunchProgress, error) {
			progress := ComputeLaunchProgress(500, fixedNow, testSettings())
			return &progress, nil
		},
	}
	rs := newControllerTestRouter(t, service)

	w := serve(rs, http.MethodGet, "/api/waitlist/progress", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeMap(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["launchReady"])
	assert.Equal(t, float64(100), body["progress"])
	assert.Equal(t, float64(0), body["remaining"])
	assert.Equal(t, "2025-06-20T00:00:00Z", body["launchAt"])
}

func TestJoinHandler_RecordsSignupOutcomes(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "true")

	calls := 0
	service := &stubWaitlistService{
		join: func(req *JoinWaitlistRequest) (*WaitlistEntryResponse, error) {
			calls++
			if calls > 1 {
				return nil, apperrors.NewConflictError(MessageEmailTaken, nil)
			}
			return &WaitlistEntryResponse{Email: req.Email}, nil
		},
	}
	rs := newControllerTestRouter(t, service)

	serve(rs, http.MethodPost, "/api/waitlist", `{"email":"a@example.com"}`)
	serve(rs, http.MethodPost, "/api/waitlist", `{"email":"a@example.com"}`)
	serve(rs, http.MethodPost, "/api/waitlist", `{}`)

	body := serve(rs, http.MethodGet, "/metrics", "").Body.String()

	assert.Contains(t, body, `waitlist_signups_total{outcome="created"} 1`)
	assert.Contains(t, body, `waitlist_signups_total{outcome="duplicate"} 1`)
	assert.Contains(t, body, `waitlist_signups_total{outcome="invalid"} 1`)
}
