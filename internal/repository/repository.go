// Package repository stores activities and their rosters. Three backends
// share the ActivityRepository contract: an in-process store, PostgreSQL
// (pgx) and Redis.
package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

// ErrNotFound is returned when the named activity does not exist.
var ErrNotFound = errors.New("activity not found")

// ErrAlreadySignedUp is returned when the same email signs up twice.
var ErrAlreadySignedUp = errors.New("student is already signed up")

// ErrNotRegistered is returned when unregistering an email that is not on
// the roster.
var ErrNotRegistered = errors.New("student is not registered for this activity")

// ActivityRepository is implemented by every store backend. Implementations
// are safe for concurrent use.
type ActivityRepository interface {
	// List returns every activity in insertion order.
	List(ctx context.Context) (model.ActivityCollection, error)
	// Signup appends email to the roster. Capacity is not enforced.
	Signup(ctx context.Context, activity, email string) error
	// Unregister removes email from the roster.
	Unregister(ctx context.Context, activity, email string) error
	// Seed inserts activities that do not exist yet; existing ones are
	// left untouched.
	Seed(ctx context.Context, activities model.ActivityCollection) error
}

// DefaultActivities is the catalogue the API starts with.
func DefaultActivities() model.ActivityCollection {
	return model.ActivityCollection{
		{Name: "Chess Club", Activity: model.Activity{
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		}},
		{Name: "Programming Class", Activity: model.Activity{
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		}},
		{Name: "Gym Class", Activity: model.Activity{
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		}},
		{Name: "Soccer Team", Activity: model.Activity{
			Description:     "Train and play matches against other schools",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 6:00 PM",
			MaxParticipants: 22,
			Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
		}},
		{Name: "Basketball Team", Activity: model.Activity{
			Description:     "Practice drills and compete in the regional league",
			Schedule:        "Wednesdays and Fridays, 3:30 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
		}},
		{Name: "Art Club", Activity: model.Activity{
			Description:     "Explore painting, drawing and sculpture",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
		}},
		{Name: "Drama Club", Activity: model.Activity{
			Description:     "Act, direct and produce school plays",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
		}},
		{Name: "Math Olympiad", Activity: model.Activity{
			Description:     "Solve challenging problems and prepare for competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
		}},
		{Name: "Debate Team", Activity: model.Activity{
			Description:     "Develop public speaking and argumentation skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"charlotte@mergington.edu"},
		}},
	}
}
