package service

import (
	"context"
	"errors"
	"testing"

	"webnovel/internal/payments"
)

type fakeProcessor struct {
	capture *payments.CaptureResult
	err     error
}

func (f *fakeProcessor) CreateOrder(ctx context.Context, amountUSD float64, metadata map[string]string) (*payments.Order, error) {
	return &payments.Order{ID: "ord_fake", Status: payments.StatusCreated}, nil
}

func (f *fakeProcessor) CaptureOrder(ctx context.Context, orderID string) (*payments.CaptureResult, error) {
	return f.capture, f.err
}

func TestCaptureAndCredit_NotCompleted(t *testing.T) {
	// the status check happens before any store access, so no pool is needed
	svc := NewPaymentService(nil, &fakeProcessor{
		capture: &payments.CaptureResult{ExternalID: "pay_1", Status: payments.StatusDeclined},
	})

	_, err := svc.CaptureAndCredit(context.Background(), 1, "ord_1")
	if !errors.Is(err, ErrPaymentNotCompleted) {
		t.Fatalf("expected ErrPaymentNotCompleted, got %v", err)
	}
}

func TestCaptureAndCredit_ProcessorError(t *testing.T) {
	procErr := errors.New("network down")
	svc := NewPaymentService(nil, &fakeProcessor{err: procErr})

	_, err := svc.CaptureAndCredit(context.Background(), 1, "ord_1")
	if !errors.Is(err, procErr) {
		t.Fatalf("expected processor error, got %v", err)
	}
}

func TestCreateOrder_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewPaymentService(nil, &fakeProcessor{})

	if _, err := svc.CreateOrder(context.Background(), 1, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
