package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AdminAudit lists recent audit entries, filtered by ?category= or ?userId=.
func (h *Handler) AdminAudit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	var userID int64
	if v := c.Query("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			abort(c, newBadRequestError("invalid userId"))
			return
		}
		userID = id
	}

	logs, err := h.admin.AuditTrail(c.Request.Context(), c.Query("category"), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.admin.GetStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
