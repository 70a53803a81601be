package domain

import "time"

// AuditLog records a security or data-changing action taken by a user.
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"userId"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"createdAt"`
}

const (
	AuditCategoryAuth  = "auth"
	AuditCategoryTask  = "task"
	AuditCategoryBoard = "board"
)

const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"

	AuditActionTaskCreate = "task_create"
	AuditActionTaskUpdate = "task_update"
	AuditActionTaskDelete = "task_delete"

	AuditActionBoardCreate = "board_create"
)
