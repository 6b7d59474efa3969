package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpotsLeftIsNotClamped(t *testing.T) {
	a := Activity{MaxParticipants: 1, Participants: []string{"a@x.edu", "b@x.edu", "c@x.edu"}}
	assert.Equal(t, -2, a.SpotsLeft())

	empty := Activity{MaxParticipants: 12}
	assert.Equal(t, 12, empty.SpotsLeft())
}

func TestCollectionKeepsDocumentOrder(t *testing.T) {
	raw := `{
		"Zebra Club": {"description": "z", "schedule": "Mon", "max_participants": 2, "participants": []},
		"Art Club": {"description": "a", "schedule": "Tue", "max_participants": 3, "participants": ["x@y.com"]},
		"Math Club": {"description": "m", "schedule": "Wed", "max_participants": 4, "participants": []}
	}`

	var c ActivityCollection
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, []string{"Zebra Club", "Art Club", "Math Club"}, c.Names())

	art, ok := c.Get("Art Club")
	require.True(t, ok)
	assert.Equal(t, []string{"x@y.com"}, art.Participants)
	assert.True(t, art.HasParticipant("x@y.com"))

	out, err := json.Marshal(c)
	require.NoError(t, err)

	var again ActivityCollection
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, c, again)
}

func TestCollectionRepeatedKeyKeepsFirstPosition(t *testing.T) {
	raw := `{"A": {"max_participants": 1}, "B": {"max_participants": 2}, "A": {"max_participants": 9}}`

	var c ActivityCollection
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	require.Len(t, c, 2)
	assert.Equal(t, "A", c[0].Name)
	assert.Equal(t, 9, c[0].MaxParticipants)
}

func TestCollectionRejectsNonObject(t *testing.T) {
	var c ActivityCollection
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"A": 3}`), &c))
}

func TestEmptyCollectionMarshalsAsObject(t *testing.T) {
	out, err := json.Marshal(ActivityCollection{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}
