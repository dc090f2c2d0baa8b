package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/yungbote/pantrypilot-backend/internal/pkg/errors"
	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/requestdata"
	"github.com/yungbote/pantrypilot-backend/internal/services"
)

type PurchaseHandler struct {
	log         *logger.Logger
	purchaseSvc services.PurchaseService
}

func NewPurchaseHandler(log *logger.Logger, purchaseSvc services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		log:         log.With("handler", "PurchaseHandler"),
		purchaseSvc: purchaseSvc,
	}
}

func callerID(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: user id not set in request data", apperrors.ErrUnauthorized)
	}
	return rd.UserID, nil
}

type recordPurchasesRequest struct {
	Purchases []services.PurchaseInput `json:"purchases" binding:"required,min=1,dive"`
}

// POST /api/purchases
// Records one shopping trip (one or more items) and refreshes the affected
// analytics rows before responding.
func (h *PurchaseHandler) RecordPurchases(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, http.StatusForbidden, "forbidden", err)
		return
	}

	var req recordPurchasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	created, err := h.purchaseSvc.RecordPurchases(c.Request.Context(), userID, req.Purchases)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "record_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"purchases": created})
}

// GET /api/purchases?item=
func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, http.StatusForbidden, "forbidden", err)
		return
	}

	records, err := h.purchaseSvc.GetPurchases(c.Request.Context(), userID, c.Query("item"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	RespondOK(c, gin.H{"purchases": records})
}
