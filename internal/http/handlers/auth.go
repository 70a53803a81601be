package handlers

import (
	"net/http"

	"assist_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.LogRegister(ctx, user.ID, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.LogLogin(ctx, user.ID, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}
