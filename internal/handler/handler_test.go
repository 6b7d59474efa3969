package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
	"github.com/Shivanand-hulikatti/activity-signup/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (http.Handler, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.Seed(context.Background(), repository.DefaultActivities()))

	h := NewActivityHandler(service.NewActivityService(repo), zap.NewNop())
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Use(Logger(zap.NewNop()))
	r.Get("/", RedirectToFrontend)
	r.Get("/health", HealthCheck)
	r.Mount("/activities", h.Routes())
	return r, repo
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func participants(t *testing.T, repo *repository.MemoryRepository, activity string) []string {
	t.Helper()
	all, err := repo.List(context.Background())
	require.NoError(t, err)
	a, ok := all.Get(activity)
	require.True(t, ok)
	return a.Participants
}

func TestGetActivities(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got := decode[model.ActivityCollection](t, rec)
	assert.Equal(t, repository.DefaultActivities().Names(), got.Names())

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for name, fields := range raw {
		for _, key := range []string{"description", "schedule", "max_participants", "participants"} {
			assert.Contains(t, fields, key, "activity %q", name)
		}
		assert.IsType(t, []any{}, fields["participants"])
	}
}

func TestSignupNewStudent(t *testing.T) {
	srv, repo := newTestServer(t)
	before := len(participants(t, repo, "Chess Club"))

	rec := do(t, srv, http.MethodPost, "/activities/Chess%20Club/signup?email=newstudent@mergington.edu")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Signed up newstudent@mergington.edu for Chess Club", decode[model.MessageResponse](t, rec).Message)

	after := participants(t, repo, "Chess Club")
	assert.Len(t, after, before+1)
	assert.Contains(t, after, "newstudent@mergington.edu")
}

func TestSignupDecodesEscapedEmail(t *testing.T) {
	srv, repo := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/activities/Chess%20Club/signup?email=a%40b.com")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, participants(t, repo, "Chess Club"), "a@b.com")
}

func TestSignupDuplicateStudent(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/activities/Chess%20Club/signup?email=michael@mergington.edu")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[model.ErrorResponse](t, rec).Detail, "already signed up")
}

func TestSignupNonexistentActivity(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/activities/Nonexistent%20Activity/signup?email=student@mergington.edu")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Activity not found", decode[model.ErrorResponse](t, rec).Detail)
}

func TestSignupMissingEmail(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/activities/Chess%20Club/signup")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email is required", decode[model.ErrorResponse](t, rec).Detail)
}

func TestSignupFillsActivityBeyondCapacity(t *testing.T) {
	srv, repo := newTestServer(t)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	debate, _ := all.Get("Debate Team")

	for i := 0; i < debate.MaxParticipants-len(debate.Participants); i++ {
		rec := do(t, srv, http.MethodPost, fmt.Sprintf("/activities/Debate%%20Team/signup?email=student%d@mergington.edu", i))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, srv, http.MethodPost, "/activities/Debate%20Team/signup?email=overflow@mergington.edu")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnregisterStudent(t *testing.T) {
	srv, repo := newTestServer(t)
	before := len(participants(t, repo, "Chess Club"))

	rec := do(t, srv, http.MethodPost, "/activities/Chess%20Club/unregister?email=michael@mergington.edu")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[model.MessageResponse](t, rec).Message, "Unregistered")

	after := participants(t, repo, "Chess Club")
	assert.Len(t, after, before-1)
	assert.NotContains(t, after, "michael@mergington.edu")
}

func TestUnregisterNonexistentStudent(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/activities/Chess%20Club/unregister?email=notregistered@mergington.edu")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[model.ErrorResponse](t, rec).Detail, "not registered")
}

func TestUnregisterFromNonexistentActivity(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/activities/Nonexistent%20Activity/unregister?email=student@mergington.edu")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[model.ErrorResponse](t, rec).Detail, "Activity not found")
}

func TestActivityNameWithEscapedSlash(t *testing.T) {
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.Seed(context.Background(), model.ActivityCollection{
		{Name: "Arts/Crafts", Activity: model.Activity{MaxParticipants: 2}},
	}))
	r := chi.NewRouter()
	r.Mount("/activities", NewActivityHandler(service.NewActivityService(repo), zap.NewNop()).Routes())

	rec := do(t, r, http.MethodPost, "/activities/Arts%2FCrafts/signup?email=a%40b.com")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a@b.com"}, participants(t, repo, "Arts/Crafts"))
}

func TestRootRedirects(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/static/index.html")
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/activities/Chess%20Club/signup", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
