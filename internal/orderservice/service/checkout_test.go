package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"sochow/pkg/models"
)

func TestBeginCheckoutEmptyCart(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{}, nil)

	_, err := svc.BeginCheckout(context.Background(), "chat-1", "Ada")
	if !errors.Is(err, models.ErrEmptyCart) {
		t.Fatalf("got %v, want ErrEmptyCart", err)
	}
}

func TestCheckoutFlow(t *testing.T) {
	store := newFakeStore()
	rice := store.addMenuItem("White Rice & Chicken Curry Sauce", 9000, true)
	platter := store.addMenuItem("Breakfast Platter", 6000, true)
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, nil)
	ctx := context.Background()

	for _, id := range []int64{rice.ID, rice.ID, platter.ID} {
		if _, err := svc.AddItem(ctx, "chat-1", "Ada", id); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	reply, err := svc.BeginCheckout(ctx, "chat-1", "Ada")
	if err != nil {
		t.Fatalf("BeginCheckout: %v", err)
	}
	if !reply.Consumed || reply.Prompt != promptAddress {
		t.Fatalf("got %+v, want address prompt", reply)
	}

	reply, err = svc.HandleMessage(ctx, "chat-1", "Ada", "12 Marina Road, Lagos")
	if err != nil {
		t.Fatalf("HandleMessage(address): %v", err)
	}
	if !reply.Consumed || reply.Prompt != promptPhone {
		t.Fatalf("got %+v, want phone prompt", reply)
	}

	reply, err = svc.HandleMessage(ctx, "chat-1", "Ada", "+2348012345678")
	if err != nil {
		t.Fatalf("HandleMessage(phone): %v", err)
	}
	if reply.Order == nil {
		t.Fatal("expected an order summary")
	}

	order := reply.Order
	if !strings.HasPrefix(order.Number, "SOCHOW-") || !strings.HasSuffix(order.Number, "-0001") {
		t.Errorf("order number = %q", order.Number)
	}
	if order.TotalNaira != 24000 {
		t.Errorf("total = %d, want 24000", order.TotalNaira)
	}
	if order.DeliveryAddress != "12 Marina Road, Lagos" {
		t.Errorf("address = %q", order.DeliveryAddress)
	}
	if order.ContactNumber != "+2348012345678" {
		t.Errorf("phone = %q", order.ContactNumber)
	}
	if order.Payment.Bank != "First Bank" || order.Payment.Account != "1234567890" {
		t.Errorf("payment details = %+v", order.Payment)
	}
	if len(order.Lines) != 2 {
		t.Errorf("got %d lines, want 2", len(order.Lines))
	}

	if len(notifier.staff) != 1 {
		t.Fatalf("staff notifications = %d, want 1", len(notifier.staff))
	}
	if notifier.staff[0].OrderNumber != order.Number {
		t.Errorf("staff notification for %q, want %q", notifier.staff[0].OrderNumber, order.Number)
	}

	// The conversation is over: further messages are not consumed.
	reply, err = svc.HandleMessage(ctx, "chat-1", "Ada", "thanks!")
	if err != nil {
		t.Fatalf("HandleMessage after checkout: %v", err)
	}
	if reply.Consumed {
		t.Error("message consumed after checkout completed")
	}

	// The cart was checked out; the next cart starts empty.
	view, err := svc.ViewCart(ctx, "chat-1", "Ada")
	if err != nil {
		t.Fatalf("ViewCart: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Errorf("new cart has %d lines, want 0", len(view.Lines))
	}
}

func TestCheckoutTotalFrozenAtOrderTime(t *testing.T) {
	store := newFakeStore()
	rice := store.addMenuItem("White Rice & Chicken Curry Sauce", 9000, true)
	svc := newTestService(store, &fakeNotifier{}, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "chat-1", "Ada", rice.ID); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.BeginCheckout(ctx, "chat-1", "Ada"); err != nil {
		t.Fatalf("BeginCheckout: %v", err)
	}
	if _, err := svc.HandleMessage(ctx, "chat-1", "Ada", "addr"); err != nil {
		t.Fatalf("HandleMessage(address): %v", err)
	}

	// A price hike mid-checkout does not change the already-priced line.
	rice.PriceNaira = 99000
	store.menu[rice.ID] = rice

	reply, err := svc.HandleMessage(ctx, "chat-1", "Ada", "phone")
	if err != nil {
		t.Fatalf("HandleMessage(phone): %v", err)
	}
	if reply.Order.TotalNaira != 9000 {
		t.Errorf("total = %d, want 9000", reply.Order.TotalNaira)
	}
}

func TestHandleMessageWithoutSession(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{}, nil)

	reply, err := svc.HandleMessage(context.Background(), "chat-1", "Ada", "hello")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.Consumed {
		t.Error("message consumed with no checkout in progress")
	}
}

func TestReBeginCheckoutResetsToAddressStep(t *testing.T) {
	store := newFakeStore()
	rice := store.addMenuItem("White Rice & Chicken Curry Sauce", 9000, true)
	svc := newTestService(store, &fakeNotifier{}, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "chat-1", "Ada", rice.ID); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.BeginCheckout(ctx, "chat-1", "Ada"); err != nil {
		t.Fatalf("BeginCheckout: %v", err)
	}
	if _, err := svc.HandleMessage(ctx, "chat-1", "Ada", "old address"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	reply, err := svc.BeginCheckout(ctx, "chat-1", "Ada")
	if err != nil {
		t.Fatalf("BeginCheckout again: %v", err)
	}
	if reply.Prompt != promptAddress {
		t.Errorf("prompt = %q, want the address prompt again", reply.Prompt)
	}
}

func TestTrackOrdersReturnsNewestFirst(t *testing.T) {
	store := newFakeStore()
	rice := store.addMenuItem("White Rice & Chicken Curry Sauce", 9000, true)
	svc := newTestService(store, &fakeNotifier{}, nil)
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
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
		numbers = append(numbers, reply.Order.Number)
	}

	// Same-day orders share the date bucket and take consecutive sequence
	// numbers.
	for i, number := range numbers {
		if want := fmt.Sprintf("-%04d", i+1); !strings.HasSuffix(number, want) {
			t.Errorf("order %d number = %q, want suffix %q", i, number, want)
		}
		if number[:len("SOCHOW-20060102")] != numbers[0][:len("SOCHOW-20060102")] {
			t.Errorf("order %d number = %q, date differs from %q", i, number, numbers[0])
		}
	}

	orders, err := svc.TrackOrders(ctx, "chat-1", "Ada")
	if err != nil {
		t.Fatalf("TrackOrders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("got %d orders, want 3", len(orders))
	}
	if orders[0].Number != numbers[2] {
		t.Errorf("first order = %q, want newest %q", orders[0].Number, numbers[2])
	}
}
