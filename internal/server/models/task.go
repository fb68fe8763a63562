package models

// Task is one entry of a user's list. The id is allocated by the client.
type Task struct {
	ID      int32  `json:"id"`
	Summary string `json:"summary"`
}

// Tasks is the whole list of a user. NextID is client bookkeeping that the
// server stores and echoes without interpreting it.
type Tasks struct {
	Tasks  []Task `json:"tasks"`
	NextID int32  `json:"next_id"`
}

// Clone returns a deep copy whose Tasks slice is never nil, so an empty list
// serializes as [] rather than null.
func (t Tasks) Clone() Tasks {
	out := Tasks{Tasks: make([]Task, len(t.Tasks)), NextID: t.NextID}
	copy(out.Tasks, t.Tasks)
	return out
}
