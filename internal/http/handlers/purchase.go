package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"webnovel/internal/service"

	"github.com/gin-gonic/gin"
)

// PurchaseChapter unlocks a paid chapter for the authenticated user
func (h *Handler) PurchaseChapter(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	chapterID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	result, err := h.Purchase.PurchaseChapter(c.Request.Context(), userID, chapterID)
	if err != nil {
		status, body := purchaseErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"chapter_id":   result.ChapterID,
		"coins_spent":  result.CoinsSpent,
		"coin_balance": result.NewBalance,
	})
}

// MyPurchases returns the authenticated user's entitlements
func (h *Handler) MyPurchases(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	purchases, err := h.Purchase.GetPurchases(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

// purchaseErrorResponse maps purchase failures to distinct statuses. Every
// failure kind gets its own status so clients can tell "already own it" from
// "just bought it" and "cannot afford it".
func purchaseErrorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, service.ErrChapterNotFound):
		return http.StatusNotFound, gin.H{"error": "chapter not found"}
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, gin.H{"error": "user not found"}
	case errors.Is(err, service.ErrChapterFree):
		return http.StatusBadRequest, gin.H{"error": "chapter is free to read"}
	case errors.Is(err, service.ErrAlreadyPurchased):
		return http.StatusConflict, gin.H{"error": "chapter already purchased"}
	case errors.Is(err, service.ErrInsufficientBalance):
		body := gin.H{"error": "insufficient balance"}
		var ib *service.InsufficientBalanceError
		if errors.As(err, &ib) {
			body["required"] = ib.Required
			body["available"] = ib.Available
		}
		return http.StatusPaymentRequired, body
	default:
		return http.StatusInternalServerError, gin.H{"error": "purchase failed"}
	}
}
