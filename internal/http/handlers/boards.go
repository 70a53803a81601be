package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createBoardRequest struct {
	Name string `json:"name"`
}

func (h *Handler) ListBoards(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	boards, err := h.boards.List(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (h *Handler) CreateBoard(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	board, err := h.boards.Create(c.Request.Context(), p, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}
