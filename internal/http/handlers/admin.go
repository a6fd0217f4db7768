package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"webnovel/internal/domain"
	"webnovel/internal/logger"
	"webnovel/internal/service"

	"github.com/gin-gonic/gin"
)

type AdjustBalanceRequest struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AdminAdjustBalance applies an administrative balance change. It requires
// the adjust_balance capability and always writes an adjustment ledger entry,
// so admin edits never break ledger reconciliation.
func (h *Handler) AdminAdjustBalance(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	admin, err := h.UserRepo.GetByID(ctx, adminID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if !domain.HasCapability(admin.Role, domain.CapAdjustBalance) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	newBalance, err := h.Balance.AdjustBalance(ctx, targetID, req.Delta, req.Reason, adminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "adjustment would make balance negative"})
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "delta must be non-zero"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "adjustment failed"})
		}
		return
	}

	logger.Info("admin balance adjustment",
		"admin_id", adminID, "user_id", targetID, "delta", req.Delta, "reason", req.Reason)

	c.JSON(http.StatusOK, gin.H{"user_id": targetID, "coin_balance": newBalance})
}
