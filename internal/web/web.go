// Package web serves the server-rendered sign-up page. Each browser gets
// a view.Controller through a session cookie; form posts stand in for the
// page's submit and remove handlers.
package web

import (
	"bytes"
	"context"
	"net/http"

	"github.com/Shivanand-hulikatti/activity-signup/internal/view"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Base is the path the front-end is mounted under.
const Base = "/static"

const cookieName = "signup_session"

// Frontend holds the HTTP handlers of the sign-up page.
type Frontend struct {
	sessions *Sessions
	log      *zap.Logger
}

// NewFrontend constructs a Frontend.
func NewFrontend(sessions *Sessions, log *zap.Logger) *Frontend {
	return &Frontend{sessions: sessions, log: log.Named("web")}
}

// Routes returns the router to mount at Base.
func (f *Frontend) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", f.Index)
	r.Get("/index.html", f.Page)
	r.Get("/styles.css", f.Styles)
	r.Post("/signup", f.Signup)
	r.Post("/unregister", f.Unregister)
	return r
}

// Index handles GET /static/
func (f *Frontend) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, Base+"/index.html", http.StatusFound)
}

// Page handles GET /static/index.html
// Every page load refreshes the list before rendering.
func (f *Frontend) Page(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := f.controller(w, r)
	ctrl.Refresh(detach(r))
	f.render(w, ctrl)
}

// Signup handles POST /static/signup
func (f *Frontend) Signup(w http.ResponseWriter, r *http.Request) {
	ctrl, ctx := f.controller(w, r)
	ctrl.Signup(ctx, r.PostFormValue("email"), r.PostFormValue("activity"))
	f.render(w, ctrl)
}

// Unregister handles POST /static/unregister
func (f *Frontend) Unregister(w http.ResponseWriter, r *http.Request) {
	ctrl, ctx := f.controller(w, r)
	ctrl.RemoveParticipant(ctx, r.PostFormValue("activity"), r.PostFormValue("email"))
	f.render(w, ctrl)
}

// Styles handles GET /static/styles.css
func (f *Frontend) Styles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(view.Stylesheet())
}

// controller resolves the session cookie. A new session gets its first
// refresh here so a post from a fresh browser renders a full page.
func (f *Frontend) controller(w http.ResponseWriter, r *http.Request) (*view.Controller, context.Context) {
	var id string
	if c, err := r.Cookie(cookieName); err == nil {
		id = c.Value
	}

	ctrl, id, created := f.sessions.Get(id)
	ctx := detach(r)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     Base,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		if r.Method != http.MethodGet {
			ctrl.Refresh(ctx)
		}
	}
	return ctrl, ctx
}

func (f *Frontend) render(w http.ResponseWriter, ctrl *view.Controller) {
	var buf bytes.Buffer
	if err := view.RenderPage(&buf, Base, ctrl.State()); err != nil {
		f.log.Error("render page failed", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// detach keeps request values but drops cancellation: an action that was
// started runs to completion even if the browser goes away.
func detach(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
