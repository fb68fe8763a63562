package services

import "github.com/dmitrijs2005/tasksync/internal/server/models"

// AddTask appends a task with the next free id. The input is not modified.
func AddTask(t models.Tasks, summary string) models.Tasks {
	out := t.Clone()
	out.Tasks = append(out.Tasks, models.Task{ID: out.NextID, Summary: summary})
	out.NextID++
	return out
}

// RemoveTask drops the task with the given id. The boolean reports whether
// such a task existed.
func RemoveTask(t models.Tasks, id int32) (models.Tasks, bool) {
	out := t.Clone()
	for i, task := range out.Tasks {
		if task.ID == id {
			out.Tasks = append(out.Tasks[:i], out.Tasks[i+1:]...)
			return out, true
		}
	}
	return out, false
}
