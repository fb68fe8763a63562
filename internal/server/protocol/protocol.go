// Package protocol is the JSON envelope spoken over the sync WebSocket.
//
// Every frame is {"action": <tag>, "payload": <Tasks>}. Clients send
// "tasks" to replace their list; the server pushes "new_tasks" snapshots.
// Decoding is strict about the payload: every field must be present and
// well typed, otherwise the frame is reported as common.ErrMalformedMessage.
// Unknown extra fields are ignored. Frames must be valid UTF-8 and summaries
// may not contain NUL, so every accepted list can be stored as text.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

const (
	ActionTasks    = "tasks"
	ActionNewTasks = "new_tasks"
)

type envelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type wireTask struct {
	ID      *int32  `json:"id"`
	Summary *string `json:"summary"`
}

type wireTasks struct {
	Tasks  *[]*wireTask `json:"tasks"`
	NextID *int32       `json:"next_id"`
}

// EncodeNewTasks builds the outbound snapshot frame.
func EncodeNewTasks(t models.Tasks) ([]byte, error) {
	return encode(ActionNewTasks, t)
}

// EncodeUpdate builds the inbound update frame; used by clients and tests.
func EncodeUpdate(t models.Tasks) ([]byte, error) {
	return encode(ActionTasks, t)
}

// DecodeUpdate parses a client update frame.
func DecodeUpdate(frame []byte) (models.Tasks, error) {
	return decode(frame, ActionTasks)
}

// DecodeNewTasks parses a server snapshot frame.
func DecodeNewTasks(frame []byte) (models.Tasks, error) {
	return decode(frame, ActionNewTasks)
}

func encode(action string, t models.Tasks) ([]byte, error) {
	payload, err := json.Marshal(t.Clone())
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Action: action, Payload: payload})
}

func decode(frame []byte, want string) (models.Tasks, error) {
	if !utf8.Valid(frame) {
		return models.Tasks{}, fmt.Errorf("%w: frame is not valid UTF-8", common.ErrMalformedMessage)
	}

	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return models.Tasks{}, fmt.Errorf("%w: %v", common.ErrMalformedMessage, err)
	}
	if env.Action != want {
		return models.Tasks{}, fmt.Errorf("%w: unexpected action %q", common.ErrMalformedMessage, env.Action)
	}
	if len(env.Payload) == 0 {
		return models.Tasks{}, fmt.Errorf("%w: missing payload", common.ErrMalformedMessage)
	}

	var w wireTasks
	if err := json.Unmarshal(env.Payload, &w); err != nil {
		return models.Tasks{}, fmt.Errorf("%w: %v", common.ErrMalformedMessage, err)
	}
	if w.Tasks == nil {
		return models.Tasks{}, fmt.Errorf("%w: missing field tasks", common.ErrMalformedMessage)
	}
	if w.NextID == nil {
		return models.Tasks{}, fmt.Errorf("%w: missing field next_id", common.ErrMalformedMessage)
	}

	out := models.Tasks{Tasks: make([]models.Task, 0, len(*w.Tasks)), NextID: *w.NextID}
	for i, task := range *w.Tasks {
		if task == nil || task.ID == nil || task.Summary == nil {
			return models.Tasks{}, fmt.Errorf("%w: incomplete task at index %d", common.ErrMalformedMessage, i)
		}
		if strings.ContainsRune(*task.Summary, 0) {
			return models.Tasks{}, fmt.Errorf("%w: NUL in summary at index %d", common.ErrMalformedMessage, i)
		}
		out.Tasks = append(out.Tasks, models.Task{ID: *task.ID, Summary: *task.Summary})
	}
	return out, nil
}
