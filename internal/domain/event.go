package domain

const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// TaskEvent describes a committed change to one of a user's tasks.
type TaskEvent struct {
	Type string `json:"type"`
	Task Task   `json:"task"`
}
