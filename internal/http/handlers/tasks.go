package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"assist_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// dueDateLayouts are tried in order; the zone-less forms are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
}

type updateTaskRequest struct {
	Status  *string `json:"status"`
	DueDate *string `json:"dueDate"`
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	s := strings.TrimSpace(*raw)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, &service.ValidationError{Field: "dueDate", Message: "must be an ISO-8601 date or date-time"}
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, newBadRequestError(errInvalidTaskID.Error()))
		return 0, false
	}
	return id, true
}

func (h *Handler) ListTasks(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) CreateTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), p, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		// a missing or foreign task outranks a malformed body
		if _, gerr := h.tasks.Get(c.Request.Context(), p, id); gerr != nil {
			err = gerr
		}
		writeError(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), p, id, service.UpdateTaskInput{
		Status:  req.Status,
		DueDate: due,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), p, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
