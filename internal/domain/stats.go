package domain

// Stats is the admin overview of the installation.
type Stats struct {
	TotalUsers    int64            `json:"totalUsers"`
	TotalTasks    int64            `json:"totalTasks"`
	TotalBoards   int64            `json:"totalBoards"`
	TasksToday    int64            `json:"tasksToday"`
	TasksByStatus map[string]int64 `json:"tasksByStatus"`
	OverdueTasks  int64            `json:"overdueTasks"`
}
