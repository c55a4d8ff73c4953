package service

import (
	"errors"
	"testing"

	"github.com/bakery-next/internal/constants"
)

func TestParseOrderStatus(t *testing.T) {
	cases := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "pending", want: constants.OrderStatusPending},
		{raw: " Delivered ", want: constants.OrderStatusDelivered},
		{raw: "canceled", want: constants.OrderStatusCancelled},
		{raw: "2", want: constants.OrderStatusShipped},
		{raw: "5", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "paid", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseOrderStatus(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrOrderStatusInvalid) {
				t.Fatalf("%q: expected ErrOrderStatusInvalid, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: want %d got %d err=%v", tc.raw, tc.want, got, err)
		}
	}
}

func TestCheckOrderTransition(t *testing.T) {
	if err := checkOrderTransition(constants.OrderStatusPending, constants.OrderStatusDelivered); err != nil {
		t.Fatalf("forward jump should be allowed: %v", err)
	}
	if err := checkOrderTransition(constants.OrderStatusDelivered, constants.OrderStatusProcessing); err != nil {
		t.Fatalf("backward move should be allowed: %v", err)
	}
	if err := checkOrderTransition(constants.OrderStatusCancelled, constants.OrderStatusPending); !errors.Is(err, ErrOrderAlreadyCancelled) {
		t.Fatalf("expected ErrOrderAlreadyCancelled, got %v", err)
	}
	if !affectsMembership(constants.OrderStatusDelivered, constants.OrderStatusCancelled) {
		t.Fatalf("leaving delivered must affect membership")
	}
	if affectsMembership(constants.OrderStatusPending, constants.OrderStatusShipped) {
		t.Fatalf("non delivered transition must not affect membership")
	}
}
