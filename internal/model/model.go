// Package model defines the core domain types for the activity sign-up system.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Activity is a scheduled extracurricular activity with a participant roster.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft returns the remaining capacity. It is not clamped: an
// over-subscribed activity reports a negative number.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// HasParticipant reports whether email is on the roster.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// NamedActivity pairs an activity with its unique name.
type NamedActivity struct {
	Name string
	Activity
}

// ActivityCollection maps activity names to activities while keeping the
// enumeration order of the source. On the wire it is a JSON object whose
// members appear in that order.
type ActivityCollection []NamedActivity

// Get returns the activity called name.
func (c ActivityCollection) Get(name string) (Activity, bool) {
	for _, a := range c {
		if a.Name == name {
			return a.Activity, true
		}
	}
	return Activity{}, false
}

// Names returns the activity names in enumeration order.
func (c ActivityCollection) Names() []string {
	names := make([]string, 0, len(c))
	for _, a := range c {
		names = append(names, a.Name)
	}
	return names
}

// MarshalJSON encodes the collection as an ordered JSON object.
func (c ActivityCollection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.Activity)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping member order. A repeated
// name keeps its first position and takes the last value.
func (c *ActivityCollection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("activity collection: expected JSON object, got %v", tok)
	}

	out := ActivityCollection{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("activity collection: unexpected key %v", tok)
		}
		var a Activity
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("activity %q: %w", name, err)
		}
		if i, seen := index[name]; seen {
			out[i].Activity = a
			continue
		}
		index[name] = len(out)
		out = append(out, NamedActivity{Name: name, Activity: a})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

// MessageResponse is the success envelope of the mutation endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
