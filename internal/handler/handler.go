// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/Shivanand-hulikatti/activity-signup/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
	"github.com/Shivanand-hulikatti/activity-signup/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FrontendPath is where GET / redirects to.
const FrontendPath = "/static/index.html"

// ActivityHandler holds the HTTP handlers of the activity API.
type ActivityHandler struct {
	svc *service.ActivityService
	log *zap.Logger
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: log.Named("api")}
}

// Routes returns the router to mount at /activities.
func (h *ActivityHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListActivities)
	r.Post("/{name}/signup", h.Signup)
	r.Post("/{name}/unregister", h.Unregister)
	return r
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

// activityName returns the {name} path parameter decoded. chi matches on
// RawPath when the request path holds escapes such as %2F.
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// ListActivities handles GET /activities
// Returns a JSON object mapping activity name to activity, in catalogue order.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.ListActivities(r.Context())
	if err != nil {
		h.log.Error("list activities failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

// Signup handles POST /activities/{name}/signup?email=
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email := r.URL.Query().Get("email")

	msg, err := h.svc.Signup(r.Context(), name, email)
	if err != nil {
		h.writeMutationError(w, "signup", name, err)
		return
	}
	metrics.TrackRosterChange("signup", "ok")
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

// Unregister handles POST /activities/{name}/unregister?email=
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email := r.URL.Query().Get("email")

	msg, err := h.svc.Unregister(r.Context(), name, email)
	if err != nil {
		h.writeMutationError(w, "unregister", name, err)
		return
	}
	metrics.TrackRosterChange("unregister", "ok")
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

func (h *ActivityHandler) writeMutationError(w http.ResponseWriter, op, activity string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		metrics.TrackRosterChange(op, "not_found")
		writeError(w, http.StatusNotFound, "Activity not found")
	case errors.Is(err, repository.ErrAlreadySignedUp):
		metrics.TrackRosterChange(op, "duplicate")
		writeError(w, http.StatusBadRequest, "Student is already signed up")
	case errors.Is(err, repository.ErrNotRegistered):
		metrics.TrackRosterChange(op, "not_registered")
		writeError(w, http.StatusBadRequest, "Student is not registered for this activity")
	case errors.Is(err, service.ErrEmailRequired):
		metrics.TrackRosterChange(op, "invalid")
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		metrics.TrackRosterChange(op, "error")
		h.log.Error(op+" failed", zap.String("activity", activity), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}

// ─── Misc ─────────────────────────────────────────────────────────────────────

// RedirectToFrontend handles GET /
func RedirectToFrontend(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, FrontendPath, http.StatusTemporaryRedirect)
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
