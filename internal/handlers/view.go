package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusReset   = "reset"
	statusCleared = "cleared"
	statusRemoved = "removed"

	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, feed_healthy"
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       statusOK,
		"feed_healthy": h.services.View.Snapshot().FeedHealthy,
	})
}

// @Summary      Current twin view
// @Description  Visible twins and highlight keys derived from the active run and display mode.
// @Tags         twins
// @Produce      json
// @Success      200  {object}  service.ViewSnapshot
// @Router       /api/v1/twins [get]
func (h *Handler) getTwins(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.View.Snapshot())
}

// Request DTO for switching the view.
type viewRequest struct {
	Mode        string `json:"mode,omitempty"`        // all | filtered
	ActiveRunID string `json:"activeRunId,omitempty"` // run to filter/highlight by
}

// @Summary      Set view mode or active run
// @Tags         view
// @Accept       json
// @Produce      json
// @Param        body  body  viewRequest  true  "View payload"
// @Success      200   {object}  service.ViewSnapshot
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/view [post]
func (h *Handler) setView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if req.ActiveRunID != "" {
		if err := h.services.View.Select(req.ActiveRunID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Mode != "" {
		if err := h.services.View.SetMode(req.Mode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, h.services.View.Snapshot())
}

// @Summary      Reset view
// @Description  Shows the whole fleet again and clears the active run.
// @Tags         view
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/view [delete]
func (h *Handler) resetView(c *gin.Context) {
	h.services.View.Reset()
	c.JSON(http.StatusOK, gin.H{"status": statusReset})
}
