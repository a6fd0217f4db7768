package handlers

import (
	"errors"
	"net/http"

	"webnovel/internal/service"

	"github.com/gin-gonic/gin"
)

// CoinPackagesList returns the purchasable coin bundles
func (h *Handler) CoinPackagesList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": service.CoinPackages()})
}

type CreateOrderRequest struct {
	AmountUSD float64 `json:"amount_usd" binding:"required,gt=0"`
}

// CreateCoinOrder opens a processor order for a coin package
func (h *Handler) CreateCoinOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	order, err := h.Payments.CreateOrder(c.Request.Context(), userID, req.AmountUSD)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

type CaptureOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// CaptureCoinOrder captures an order and credits the converted coins
func (h *Handler) CaptureCoinOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CaptureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	payment, err := h.Payments.CaptureAndCredit(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment not completed"})
		case errors.Is(err, service.ErrPaymentAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"error": "payment already processed"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "capture failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// MyPayments returns the authenticated user's payment history
func (h *Handler) MyPayments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	paymentsList, err := h.Payments.GetPayments(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": paymentsList})
}
