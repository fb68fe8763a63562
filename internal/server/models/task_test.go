package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasks_CloneIsDeep(t *testing.T) {
	orig := Tasks{Tasks: []Task{{ID: 1, Summary: "a"}}, NextID: 2}
	c := orig.Clone()
	c.Tasks[0].Summary = "changed"

	assert.Equal(t, "a", orig.Tasks[0].Summary)
	assert.Equal(t, int32(2), c.NextID)
}

func TestTasks_CloneOfZeroEncodesEmptyArray(t *testing.T) {
	b, err := json.Marshal(Tasks{}.Clone())
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[],"next_id":0}`, string(b))
}

func TestSessionID_StringRoundTrip(t *testing.T) {
	id := SessionID(18446744073709551615)
	got, err := ParseSessionID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseSessionID("-1")
	assert.Error(t, err)
	_, err = ParseSessionID("abc")
	assert.Error(t, err)
}
