package service

import (
	"context"
	"errors"
	"testing"

	"sochow/pkg/models"
)

func TestAttachReceiptNoPendingOrder(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{}, nil)

	_, _, err := svc.AttachReceipt(context.Background(), "chat-1", "Ada", "receipts/abc.jpg")
	if !errors.Is(err, models.ErrNoPendingOrder) {
		t.Fatalf("got %v, want ErrNoPendingOrder", err)
	}
}

func TestAttachReceiptToLatestPendingOrder(t *testing.T) {
	store := newFakeStore()
	rice := store.addMenuItem("White Rice & Chicken Curry Sauce", 9000, true)
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "chat-1", "Ada", rice.ID); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.BeginCheckout(ctx, "chat-1", "Ada"); err != nil {
		t.Fatalf("BeginCheckout: %v", err)
	}
	if _, err := svc.HandleMessage(ctx, "chat-1", "Ada", "addr"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	reply, err := svc.HandleMessage(ctx, "chat-1", "Ada", "phone")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	staffBefore := len(notifier.staff)

	receipt, order, err := svc.AttachReceipt(ctx, "chat-1", "Ada", "receipts/abc.jpg")
	if err != nil {
		t.Fatalf("AttachReceipt: %v", err)
	}
	if order.Number != reply.Order.Number {
		t.Errorf("attached to %q, want %q", order.Number, reply.Order.Number)
	}
	if receipt.ImageRef != "receipts/abc.jpg" {
		t.Errorf("image ref = %q", receipt.ImageRef)
	}
	if receipt.AdminVerified {
		t.Error("new receipt must start unverified")
	}

	if len(notifier.staff) != staffBefore+1 {
		t.Fatalf("staff notifications = %d, want %d", len(notifier.staff), staffBefore+1)
	}
	alert := notifier.staff[len(notifier.staff)-1]
	if alert.ImageRef != "receipts/abc.jpg" {
		t.Errorf("staff alert image = %q", alert.ImageRef)
	}
}
