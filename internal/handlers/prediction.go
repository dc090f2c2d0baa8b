package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yungbote/pantrypilot-backend/internal/pkg/errors"
	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/services"
)

type PredictionHandler struct {
	log           *logger.Logger
	predictionSvc services.PurchasePredictionService
}

func NewPredictionHandler(log *logger.Logger, predictionSvc services.PurchasePredictionService) *PredictionHandler {
	return &PredictionHandler{
		log:           log.With("handler", "PredictionHandler"),
		predictionSvc: predictionSvc,
	}
}

// GET /api/predictions?urgency_threshold=&limit=
// Items the caller likely needs soon, most urgent first.
func (h *PredictionHandler) GetPredictions(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, http.StatusForbidden, "forbidden", err)
		return
	}

	threshold := 0.0
	if raw := c.Query("urgency_threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_threshold", err)
			return
		}
	}
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be a positive integer"))
			return
		}
	}

	predictions := h.predictionSvc.GetPredictedPurchases(c.Request.Context(), userID, threshold, limit)
	RespondOK(c, gin.H{"predictions": predictions})
}

// GET /api/predictions/summary
func (h *PredictionHandler) GetShoppingSummary(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, http.StatusForbidden, "forbidden", err)
		return
	}
	RespondOK(c, h.predictionSvc.GetShoppingSummary(c.Request.Context(), userID))
}

// GET /api/predictions/item?name=
func (h *PredictionHandler) GetItemPrediction(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, http.StatusForbidden, "forbidden", err)
		return
	}

	itemName := c.Query("name")
	if itemName == "" {
		RespondError(c, http.StatusBadRequest, "missing_name", fmt.Errorf("query parameter 'name' required"))
		return
	}

	detail, err := h.predictionSvc.GetItemPrediction(c.Request.Context(), userID, itemName)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	if detail == nil {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("%w: no analytics for %s yet", apperrors.ErrNotFound, itemName))
		return
	}
	RespondOK(c, detail)
}
