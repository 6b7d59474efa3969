package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/redis/go-redis/v9"
)

// Redis key layout:
//
//	activities                 list of activity names in insertion order
//	activity:{name}            hash: description, schedule, max_participants
//	participants:{name}        list of emails in signup order
//	participants:{name}:set    set of emails, used for atomic duplicate checks
const activitiesKey = "activities"

func activityKey(name string) string  { return "activity:" + name }
func rosterKey(name string) string    { return "participants:" + name }
func rosterSetKey(name string) string { return "participants:" + name + ":set" }

// RedisRepository stores activities in Redis.
type RedisRepository struct {
	rdb *redis.Client
}

// NewRedisRepository constructs a RedisRepository.
func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func (r *RedisRepository) List(ctx context.Context) (model.ActivityCollection, error) {
	names, err := r.rdb.LRange(ctx, activitiesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	out := make(model.ActivityCollection, 0, len(names))
	for _, name := range names {
		fields, err := r.rdb.HGetAll(ctx, activityKey(name)).Result()
		if err != nil {
			return nil, fmt.Errorf("get activity %q: %w", name, err)
		}
		maxParticipants, err := strconv.Atoi(fields["max_participants"])
		if err != nil {
			return nil, fmt.Errorf("activity %q: bad max_participants: %w", name, err)
		}
		roster, err := r.rdb.LRange(ctx, rosterKey(name), 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("list participants of %q: %w", name, err)
		}
		out = append(out, model.NamedActivity{
			Name: name,
			Activity: model.Activity{
				Description:     fields["description"],
				Schedule:        fields["schedule"],
				MaxParticipants: maxParticipants,
				Participants:    roster,
			},
		})
	}
	return out, nil
}

// Signup relies on SADD returning 0 for an existing member, so two racing
// signups of the same email cannot both succeed. If the roster append
// fails the set member is removed again.
func (r *RedisRepository) Signup(ctx context.Context, activity, email string) error {
	if err := r.exists(ctx, activity); err != nil {
		return err
	}

	added, err := r.rdb.SAdd(ctx, rosterSetKey(activity), email).Result()
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	if added == 0 {
		return ErrAlreadySignedUp
	}
	if err := r.rdb.RPush(ctx, rosterKey(activity), email).Err(); err != nil {
		if undoErr := r.rdb.SRem(context.WithoutCancel(ctx), rosterSetKey(activity), email).Err(); undoErr != nil {
			return fmt.Errorf("append participant: %w (undo: %v)", err, undoErr)
		}
		return fmt.Errorf("append participant: %w", err)
	}
	return nil
}

// Unregister puts the set member back if the roster removal fails.
func (r *RedisRepository) Unregister(ctx context.Context, activity, email string) error {
	if err := r.exists(ctx, activity); err != nil {
		return err
	}

	removed, err := r.rdb.SRem(ctx, rosterSetKey(activity), email).Result()
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	if removed == 0 {
		return ErrNotRegistered
	}
	if err := r.rdb.LRem(ctx, rosterKey(activity), 1, email).Err(); err != nil {
		if undoErr := r.rdb.SAdd(context.WithoutCancel(ctx), rosterSetKey(activity), email).Err(); undoErr != nil {
			return fmt.Errorf("remove participant from roster: %w (undo: %v)", err, undoErr)
		}
		return fmt.Errorf("remove participant from roster: %w", err)
	}
	return nil
}

// Seed uses HSETNX on max_participants as the "created" marker.
func (r *RedisRepository) Seed(ctx context.Context, activities model.ActivityCollection) error {
	for _, a := range activities {
		created, err := r.rdb.HSetNX(ctx, activityKey(a.Name), "max_participants", a.MaxParticipants).Result()
		if err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		if !created {
			continue
		}
		if err := r.rdb.HSet(ctx, activityKey(a.Name),
			"description", a.Description,
			"schedule", a.Schedule,
		).Err(); err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		if err := r.rdb.RPush(ctx, activitiesKey, a.Name).Err(); err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		for _, email := range a.Participants {
			if err := r.rdb.SAdd(ctx, rosterSetKey(a.Name), email).Err(); err != nil {
				return fmt.Errorf("seed participant %q: %w", email, err)
			}
			if err := r.rdb.RPush(ctx, rosterKey(a.Name), email).Err(); err != nil {
				return fmt.Errorf("seed participant %q: %w", email, err)
			}
		}
	}
	return nil
}

func (r *RedisRepository) exists(ctx context.Context, activity string) error {
	n, err := r.rdb.Exists(ctx, activityKey(activity)).Result()
	if err != nil {
		return fmt.Errorf("check activity: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
