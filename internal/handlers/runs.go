package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List runs
// @Description  Newest-first run log (autopilot, procurement and error entries).
// @Tags         runs
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, runs"
// @Router       /api/v1/runs [get]
func (h *Handler) listRuns(c *gin.Context) {
	runs := h.services.RunLog.List()
	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// @Summary      Remove a run
// @Tags         runs
// @Produce      json
// @Param        id   path      string  true  "Run id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/runs/{id} [delete]
func (h *Handler) removeRun(c *gin.Context) {
	id := c.Param("id")
	if !h.services.RunLog.Remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRemoved})
}

// @Summary      Clear all runs
// @Description  Empties the run log and resets the view.
// @Tags         runs
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/runs [delete]
func (h *Handler) clearRuns(c *gin.Context) {
	h.services.RunLog.Clear()
	c.JSON(http.StatusOK, gin.H{"status": statusCleared})
}
