package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bakery-next/internal/models"
)

func TestCartStoreLocalRoundTrip(t *testing.T) {
	store := NewCartStore(time.Minute)
	ctx := context.Background()

	empty, err := store.Load(ctx, "token-a")
	if err != nil {
		t.Fatalf("load empty cart failed: %v", err)
	}
	if len(empty.Items) != 0 || empty.Token != "token-a" {
		t.Fatalf("unexpected empty cart: %+v", empty)
	}

	empty.Items = append(empty.Items, CartItem{ProductID: 1, Name: "Croissant", Qty: 2, Price: models.NewMoney(35000)})
	empty.CouponCode = "SWEET10"
	if err := store.Save(ctx, empty); err != nil {
		t.Fatalf("save cart failed: %v", err)
	}

	loaded, err := store.Load(ctx, "token-a")
	if err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.CouponCode != "SWEET10" {
		t.Fatalf("unexpected cart: %+v", loaded)
	}
	loaded.Items[0].Qty = 99
	again, _ := store.Load(ctx, "token-a")
	if again.Items[0].Qty != 2 {
		t.Fatalf("stored cart must not alias caller copy")
	}

	other, _ := store.Load(ctx, "token-b")
	if len(other.Items) != 0 {
		t.Fatalf("carts must be isolated per token")
	}

	if err := store.Delete(ctx, "token-a"); err != nil {
		t.Fatalf("delete cart failed: %v", err)
	}
	gone, _ := store.Load(ctx, "token-a")
	if len(gone.Items) != 0 {
		t.Fatalf("deleted cart should be empty")
	}
}

func TestCartStoreLocalExpiry(t *testing.T) {
	store := NewCartStore(time.Millisecond)
	ctx := context.Background()
	state := &CartState{Token: "short", Items: []CartItem{{ProductID: 1, Qty: 1}}}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save cart failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	loaded, _ := store.Load(ctx, "short")
	if len(loaded.Items) != 0 {
		t.Fatalf("expired cart should be empty")
	}
}

func TestCartStoreWithLockSerializesMutations(t *testing.T) {
	store := NewCartStore(time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithLock(ctx, "shared", func() error {
				state, err := store.Load(ctx, "shared")
				if err != nil {
					return err
				}
				if len(state.Items) == 0 {
					state.Items = append(state.Items, CartItem{ProductID: 1})
				}
				state.Items[0].Qty++
				return store.Save(ctx, state)
			})
		}()
	}
	wg.Wait()

	state, _ := store.Load(ctx, "shared")
	if state.Items[0].Qty != 20 {
		t.Fatalf("qty want 20 got %d", state.Items[0].Qty)
	}
}

func TestCartStoreLocalLocksAreReleased(t *testing.T) {
	store := NewCartStore(time.Minute)
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		token := fmt.Sprintf("once-%d", i)
		if err := store.WithLock(ctx, token, func() error { return nil }); err != nil {
			t.Fatalf("with lock failed: %v", err)
		}
	}
	store.mu.Lock()
	retained := len(store.locks)
	store.mu.Unlock()
	if retained != 0 {
		t.Fatalf("locks retained after one-shot sessions: %d", retained)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithLock(ctx, "busy", func() error {
				time.Sleep(time.Millisecond)
				return nil
			})
		}()
	}
	wg.Wait()
	store.mu.Lock()
	retained = len(store.locks)
	store.mu.Unlock()
	if retained != 0 {
		t.Fatalf("contended lock should be released, got %d", retained)
	}
}

func TestCartStoreSaveSweepsExpiredEntries(t *testing.T) {
	store := NewCartStore(time.Millisecond)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		state := &CartState{Token: fmt.Sprintf("old-%d", i), Items: []CartItem{{ProductID: 1, Qty: 1}}}
		if err := store.Save(ctx, state); err != nil {
			t.Fatalf("save cart failed: %v", err)
		}
	}
	time.Sleep(5 * time.Millisecond)

	store.mu.Lock()
	store.lastSweep = time.Time{}
	store.mu.Unlock()
	if err := store.Save(ctx, &CartState{Token: "fresh"}); err != nil {
		t.Fatalf("save cart failed: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.local) != 1 {
		t.Fatalf("expired carts should be swept, left %d", len(store.local))
	}
	if _, ok := store.local["fresh"]; !ok {
		t.Fatalf("fresh cart should be kept")
	}
}
