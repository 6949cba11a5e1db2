package handlers

import (
	"errors"
	"net/http"

	"fleet_console/internal/models"
	"fleet_console/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errAutopilotFailed   = "autopilot dispatch failed"
	errExplainFailed     = "autopilot explain failed"
	errProcurementFailed = "provider recommendation failed"
)

// @Summary      Dispatch an autopilot fleet scan
// @Description  Body fields override the default scan parameters; an empty body runs the standard scan. The resulting run becomes the active map filter.
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        body  body   models.AutopilotParams  false  "Scan parameters"
// @Success      200   {object}  map[string]interface{}  "run"
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/autopilot [post]
func (h *Handler) runAutopilot(c *gin.Context) {
	params := models.DefaultAutopilotParams()
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
	}

	entry, err := h.services.Autopilot.Dispatch(c.Request.Context(), params)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, errAutopilotFailed, "autopilot_dispatch_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": entry})
}

// Request DTO for explaining a run.
type explainRequest struct {
	RunID string `json:"runId,omitempty"` // empty resolves the most recent dispatch
	TopK  int    `json:"topK,omitempty"`
}

// @Summary      Explain an autopilot run
// @Description  Attaches the generated explanation to the run's log entry. With no runId the most recently dispatched run is used.
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        body  body   explainRequest  false  "Explain payload"
// @Success      200   {object}  map[string]interface{}  "status, run"
// @Failure      400   {object}  map[string]string
// @Failure      412   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/autopilot/explain [post]
func (h *Handler) explainAutopilot(c *gin.Context) {
	var req explainRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
	}

	entry, err := h.services.Autopilot.Explain(c.Request.Context(), req.RunID, req.TopK)
	if err != nil {
		// Precondition failures surface inline; no backend call was made
		// and no entry was recorded.
		if errors.Is(err, service.ErrNothingToExplain) {
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errExplainFailed, "autopilot_explain_failed", err)
		return
	}
	if entry.ID == "" {
		// Target run was deleted while the request was in flight.
		c.JSON(http.StatusOK, gin.H{"status": "discarded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "run": entry})
}

// @Summary      Recommend an operations provider
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        body  body   models.ProcurementParams  true  "Recommendation parameters"
// @Success      200   {object}  map[string]interface{}  "run"
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/procurement/recommend [post]
func (h *Handler) recommendProvider(c *gin.Context) {
	var params models.ProcurementParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	entry, err := h.services.Procurement.Recommend(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, service.ErrNoProviders) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errProcurementFailed, "procurement_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": entry})
}
