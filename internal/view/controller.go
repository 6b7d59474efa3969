// Package view owns the state of the sign-up page: activity cards, the
// activity selector, the sign-up form and the transient notice. The
// Controller is the only writer of that state; every change goes through
// a round trip to the activity API followed by a full re-render.
package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Shivanand-hulikatti/activity-signup/internal/client"
	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"go.uber.org/zap"
)

// User-facing texts.
const (
	LoadingMessage    = "Loading activities..."
	LoadFailedMessage = "Failed to load activities. Please try again later."
	NoParticipants    = "No participants yet"
	FallbackError     = "An error occurred"
	SignupFailed      = "Failed to sign up. Please try again."
	UnregisterFailed  = "Failed to unregister. Please try again."
)

// API is the part of the activity API the controller needs.
type API interface {
	Activities(ctx context.Context) (model.ActivityCollection, error)
	Signup(ctx context.Context, activity, email string) (string, error)
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// Participant is one roster row. Activity is the enclosing card's name so
// the row's removal control carries the full (activity, email) pair.
type Participant struct {
	Email    string
	Avatar   string
	Activity string
}

// Card is one rendered activity.
type Card struct {
	Name         string
	Description  string
	Schedule     string
	SpotsLeft    int
	Participants []Participant
}

// Form holds the sign-up form field values.
type Form struct {
	Email    string
	Activity string
}

// State is a copy of everything the page shows.
type State struct {
	// ListMessage replaces the card list when non-empty.
	ListMessage string
	Cards       []Card
	Options     []string
	Form        Form
	Notice      NoticeState
}

// Controller keeps one browser's view in sync with the activity API.
// Network calls run without holding the lock, so overlapping actions
// resolve independently and the last response to arrive wins.
type Controller struct {
	api    API
	notice *Notice
	log    *zap.Logger

	mu          sync.Mutex
	listMessage string
	cards       []Card
	options     []string
	form        Form
}

// NewController returns a controller showing the loading placeholder.
func NewController(api API, notice *Notice, log *zap.Logger) *Controller {
	return &Controller{
		api:         api,
		notice:      notice,
		log:         log.Named("view"),
		listMessage: LoadingMessage,
	}
}

// Refresh fetches the collection and re-renders it. A failure replaces the
// list with a static message, drops the selector options and is logged; it
// is not retried.
func (c *Controller) Refresh(ctx context.Context) {
	activities, err := c.api.Activities(ctx)
	if err != nil {
		c.log.Error("fetch activities failed", zap.Error(err))
		c.mu.Lock()
		c.listMessage = LoadFailedMessage
		c.cards = nil
		c.options = nil
		c.mu.Unlock()
		return
	}
	c.Render(activities)
}

// Render replaces all derived state with snapshot: cards and selector
// options are cleared first, then rebuilt in the snapshot's order.
func (c *Controller) Render(snapshot model.ActivityCollection) {
	cards := make([]Card, 0, len(snapshot))
	options := make([]string, 0, len(snapshot))
	for _, a := range snapshot {
		cards = append(cards, buildCard(a))
		options = append(options, a.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.listMessage = ""
	c.cards = cards
	c.options = options
}

func buildCard(a model.NamedActivity) Card {
	card := Card{
		Name:        a.Name,
		Description: a.Description,
		Schedule:    a.Schedule,
		SpotsLeft:   a.SpotsLeft(),
	}
	for _, email := range a.Participants {
		card.Participants = append(card.Participants, Participant{
			Email:    email,
			Avatar:   Avatar(email),
			Activity: a.Name,
		})
	}
	return card
}

// Avatar is the first letter of email, upper-cased.
func Avatar(email string) string {
	r, size := utf8.DecodeRuneInString(email)
	if size == 0 {
		return ""
	}
	return strings.ToUpper(string(r))
}

// RemoveParticipant unregisters email from activity. Success refreshes the
// list and shows the server's message; failure shows the server's detail
// or a fallback and leaves the list as it is.
func (c *Controller) RemoveParticipant(ctx context.Context, activity, email string) {
	msg, err := c.api.Unregister(ctx, activity, email)
	if err != nil {
		c.log.Warn("unregister failed",
			zap.String("activity", activity),
			zap.String("email", email),
			zap.Error(err))
		c.notice.Show(KindError, failureText(err, UnregisterFailed))
		return
	}
	c.Refresh(ctx)
	c.notice.Show(KindSuccess, msg)
}

// Signup submits the form values. Success resets the form, refreshes the
// list and shows the server's message; failure keeps the form values.
func (c *Controller) Signup(ctx context.Context, email, activity string) {
	c.mu.Lock()
	c.form = Form{Email: email, Activity: activity}
	c.mu.Unlock()

	msg, err := c.api.Signup(ctx, activity, email)
	if err != nil {
		c.log.Warn("signup failed",
			zap.String("activity", activity),
			zap.String("email", email),
			zap.Error(err))
		c.notice.Show(KindError, failureText(err, SignupFailed))
		return
	}

	c.mu.Lock()
	c.form = Form{}
	c.mu.Unlock()
	c.Refresh(ctx)
	c.notice.Show(KindSuccess, msg)
}

// failureText is the server detail for API errors (or FallbackError when
// the server sent none) and transportText for everything else.
func failureText(err error, transportText string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return client.Detail(err, FallbackError)
	}
	return transportText
}

// State returns a copy of the current view.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	cards := make([]Card, len(c.cards))
	for i, card := range c.cards {
		card.Participants = append([]Participant(nil), card.Participants...)
		cards[i] = card
	}
	return State{
		ListMessage: c.listMessage,
		Cards:       cards,
		Options:     append([]string(nil), c.options...),
		Form:        c.form,
		Notice:      c.notice.State(),
	}
}
