package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["currency"] != "USD" {
			t.Errorf("expected USD, got %v", body["currency"])
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Order{ID: "ord_1", Status: StatusCreated})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	order, err := c.CreateOrder(context.Background(), 9.99, map[string]string{"user_id": "1"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "ord_1" || order.Status != StatusCreated {
		t.Errorf("unexpected order %+v", order)
	}
}

func TestCaptureOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders/ord_1/capture" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(CaptureResult{
			ExternalID:     "pay_9",
			Status:         StatusCompleted,
			CapturedAmount: 49.99,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	result, err := c.CaptureOrder(context.Background(), "ord_1")
	if err != nil {
		t.Fatalf("CaptureOrder: %v", err)
	}
	if result.Status != StatusCompleted || result.CapturedAmount != 49.99 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestCaptureOrder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"order not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.CaptureOrder(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for API failure")
	}
}
