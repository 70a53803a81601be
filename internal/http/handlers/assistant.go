package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type assistantRequest struct {
	Message string `json:"message"`
}

// Assistant accepts an empty body; the message is currently ignored.
func (h *Handler) Assistant(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req assistantRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, newBadRequestError(errInvalidRequestBody.Error()))
			return
		}
	}

	reply, err := h.assistant.Handle(c.Request.Context(), p, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
