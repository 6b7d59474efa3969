package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisList(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepository(db)

	mock.ExpectLRange("activities", 0, -1).SetVal([]string{"Chess Club", "Art Club"})
	mock.ExpectHGetAll("activity:Chess Club").SetVal(map[string]string{
		"description":      "Learn strategies",
		"schedule":         "Fridays",
		"max_participants": "12",
	})
	mock.ExpectLRange("participants:Chess Club", 0, -1).SetVal([]string{"michael@mergington.edu"})
	mock.ExpectHGetAll("activity:Art Club").SetVal(map[string]string{
		"description":      "Paint",
		"schedule":         "Thursdays",
		"max_participants": "3",
	})
	mock.ExpectLRange("participants:Art Club", 0, -1).SetVal([]string{})

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{"Chess Club", "Art Club"}, got.Names())
	chess, _ := got.Get("Chess Club")
	assert.Equal(t, 11, chess.SpotsLeft())
	art, _ := got.Get("Art Club")
	assert.Empty(t, art.Participants)
}

func TestRedisListBadCapacity(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepository(db)

	mock.ExpectLRange("activities", 0, -1).SetVal([]string{"Broken"})
	mock.ExpectHGetAll("activity:Broken").SetVal(map[string]string{"max_participants": "lots"})

	_, err := repo.List(context.Background())
	assert.Error(t, err)
}

func TestRedisSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("new participant", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewRedisRepository(db)

		mock.ExpectExists("activity:Chess Club").SetVal(1)
		mock.ExpectSAdd("participants:Chess Club:set", "a@b.com").SetVal(1)
		mock.ExpectRPush("participants:Chess Club", "a@b.com").SetVal(3)

		require.NoError(t, repo.Signup(ctx, "Chess Club", "a@b.com"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewRedisRepository(db)

		mock.ExpectExists("activity:Chess Club").SetVal(1)
		mock.ExpectSAdd("participants:Chess Club:set", "a@b.com").SetVal(0)

		assert.ErrorIs(t, repo.Signup(ctx, "Chess Club", "a@b.com"), ErrAlreadySignedUp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown activity", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewRedisRepository(db)

		mock.ExpectExists("activity:Nope").SetVal(0)

		assert.ErrorIs(t, repo.Signup(ctx, "Nope", "a@b.com"), ErrNotFound)
	})

	t.Run("redis failure", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewRedisRepository(db)

		mock.ExpectExists("activity:Chess Club").SetErr(errors.New("connection refused"))

		err := repo.Signup(ctx, "Chess Club", "a@b.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("roster append fails", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewRedisRepository(db)

		mock.ExpectExists("activity:Chess Club").SetVal(1)
		mock.ExpectSAdd("participants:Chess Club:set", "a@b.com").SetVal(1)
		mock.ExpectRPush("participants:Chess Club", "a@b.com").SetErr(errors.New("connection reset"))
		mock.ExpectSRem("participants:Chess Club:set", "a@b.com").SetVal(1)

		err := repo.Signup(ctx, "Chess Club", "a@b.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrAlreadySignedUp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisUnregister(t *testing.T) {
	ctx := context.Background()

	t.Run("registered", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewRedisRepository(db)

		mock.ExpectExists("activity:Art").SetVal(1)
		mock.ExpectSRem("participants:Art:set", "x@y.com").SetVal(1)
		mock.ExpectLRem("participants:Art", 1, "x@y.com").SetVal(1)

		require.NoError(t, repo.Unregister(ctx, "Art", "x@y.com"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not registered", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewRedisRepository(db)

		mock.ExpectExists("activity:Art").SetVal(1)
		mock.ExpectSRem("participants:Art:set", "x@y.com").SetVal(0)

		assert.ErrorIs(t, repo.Unregister(ctx, "Art", "x@y.com"), ErrNotRegistered)
	})

	t.Run("roster removal fails", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewRedisRepository(db)

		mock.ExpectExists("activity:Art").SetVal(1)
		mock.ExpectSRem("participants:Art:set", "x@y.com").SetVal(1)
		mock.ExpectLRem("participants:Art", 1, "x@y.com").SetErr(errors.New("connection reset"))
		mock.ExpectSAdd("participants:Art:set", "x@y.com").SetVal(1)

		err := repo.Unregister(ctx, "Art", "x@y.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotRegistered)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisSeedSkipsExisting(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepository(db)

	mock.ExpectHSetNX("activity:Chess Club", "max_participants", 12).SetVal(false)
	mock.ExpectHSetNX("activity:Art Club", "max_participants", 3).SetVal(true)
	mock.ExpectHSet("activity:Art Club", "description", "Paint", "schedule", "Thursdays").SetVal(2)
	mock.ExpectRPush("activities", "Art Club").SetVal(2)
	mock.ExpectSAdd("participants:Art Club:set", "x@y.com").SetVal(1)
	mock.ExpectRPush("participants:Art Club", "x@y.com").SetVal(1)

	err := repo.Seed(context.Background(), model.ActivityCollection{
		{Name: "Chess Club", Activity: model.Activity{MaxParticipants: 12}},
		{Name: "Art Club", Activity: model.Activity{
			Description:     "Paint",
			Schedule:        "Thursdays",
			MaxParticipants: 3,
			Participants:    []string{"x@y.com"},
		}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
