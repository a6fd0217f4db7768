package handlers

import (
	"net/http"
	"testing"

	"webnovel/internal/service"
)

func TestPurchaseErrorResponse(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"chapter not found", service.ErrChapterNotFound, http.StatusNotFound},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"already free", service.ErrChapterFree, http.StatusBadRequest},
		{"already purchased", service.ErrAlreadyPurchased, http.StatusConflict},
		{"insufficient balance", service.ErrInsufficientBalance, http.StatusPaymentRequired},
		{"store failure", http.ErrServerClosed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := purchaseErrorResponse(tc.err)
			if status != tc.want {
				t.Errorf("status = %d, want %d", status, tc.want)
			}
		})
	}
}

func TestPurchaseErrorResponse_InsufficientBalanceDetails(t *testing.T) {
	status, body := purchaseErrorResponse(&service.InsufficientBalanceError{Required: 50, Available: 10})
	if status != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", status)
	}
	if body["required"] != int64(50) || body["available"] != int64(10) {
		t.Errorf("body = %v, want required=50 available=10", body)
	}
}
