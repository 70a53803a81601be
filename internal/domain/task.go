package domain

import "time"

const (
	// StatusPending is the status every new task starts in.
	StatusPending = "pending"
	StatusDone    = "done"
)

type Task struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"-"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Status      string     `db:"status" json:"status"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID int64) bool {
	return t.UserID == userID
}

// TaskSummary is the reduced view handed to the assistant.
type TaskSummary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}
