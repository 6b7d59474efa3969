// Package service implements the sign-up rules between the HTTP handlers
// and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
)

// ErrEmailRequired is returned when a mutation carries no email.
var ErrEmailRequired = errors.New("email is required")

// ActivityService orchestrates activity operations.
type ActivityService struct {
	activities repository.ActivityRepository
}

// NewActivityService constructs an ActivityService.
func NewActivityService(activities repository.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities}
}

// ListActivities returns every activity in catalogue order.
func (s *ActivityService) ListActivities(ctx context.Context) (model.ActivityCollection, error) {
	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// Signup registers email for the named activity and returns the
// confirmation message. The email is stored as given; format checks are
// left to the caller's form controls.
func (s *ActivityService) Signup(ctx context.Context, activity, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	if err := s.activities.Signup(ctx, activity, email); err != nil {
		if isDomainError(err) {
			return "", err
		}
		return "", fmt.Errorf("sign up: %w", err)
	}
	return fmt.Sprintf("Signed up %s for %s", email, activity), nil
}

// Unregister removes email from the named activity and returns the
// confirmation message.
func (s *ActivityService) Unregister(ctx context.Context, activity, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	if err := s.activities.Unregister(ctx, activity, email); err != nil {
		if isDomainError(err) {
			return "", err
		}
		return "", fmt.Errorf("unregister: %w", err)
	}
	return fmt.Sprintf("Unregistered %s from %s", email, activity), nil
}

// Surface domain errors directly so handlers can set the correct status.
func isDomainError(err error) bool {
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrAlreadySignedUp) ||
		errors.Is(err, repository.ErrNotRegistered)
}
