package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSixID_StringRoundTrip(t *testing.T) {
	id := NewSixID()
	s := id.String()
	assert.Len(t, s, 10)

	parsed, err := ParseSixID(s)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestSixID_ParseLenient(t *testing.T) {
	id := NewSixID()
	s := id.String()

	// Lowercase and hyphens are accepted.
	parsed, err := ParseSixID(s[:5] + "-" + s[5:])
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestSixID_ParseInvalid(t *testing.T) {
	_, err := ParseSixID("short")
	assert.Error(t, err)

	_, err = ParseSixID("!!!!!!!!!!")
	assert.Error(t, err)
}

func TestSixID_ParseEmptyIsZero(t *testing.T) {
	parsed, err := ParseSixID("")
	require.NoError(t, err)
	assert.True(t, parsed.IsZero())
}

func TestSixID_IsZero(t *testing.T) {
	assert.True(t, SixID{}.IsZero())
	assert.False(t, NewSixID().IsZero())
}

func TestSixID_Uniqueness(t *testing.T) {
	seen := make(map[SixID]bool)
	for i := 0; i < 1000; i++ {
		id := NewSixID()
		assert.False(t, seen[id], "duplicate SixID generated")
		seen[id] = true
	}
}

func TestSixID_JSONRoundTrip(t *testing.T) {
	id := NewSixID()
	raw, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded SixID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded)
}
