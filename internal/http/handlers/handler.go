package handlers

import (
	"net/http"

	"assist_backend/internal/domain"
	"assist_backend/internal/http/middleware"
	"assist_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth      *service.AuthService
	Tasks     *service.TaskService
	Boards    *service.BoardService
	Assistant *service.AssistantService
	Admin     *service.AdminService
	Audit     *service.AuditService
}

type Handler struct {
	auth      *service.AuthService
	tasks     *service.TaskService
	boards    *service.BoardService
	assistant *service.AssistantService
	admin     *service.AdminService
	audit     *service.AuditService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		auth:      s.Auth,
		tasks:     s.Tasks,
		boards:    s.Boards,
		assistant: s.Assistant,
		admin:     s.Admin,
		audit:     s.Audit,
	}
}

// principal returns the caller resolved by middleware.JWT, aborting with 401 when absent.
func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return domain.Principal{}, false
	}
	return p, true
}
