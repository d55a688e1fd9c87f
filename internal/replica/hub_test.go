package replica

import "testing"

func TestHubDeliversToInterestedSubscribers(t *testing.T) {
	h := NewHub()
	products, cancelP := h.Subscribe("products")
	defer cancelP()
	all, cancelAll := h.Subscribe()
	defer cancelAll()

	h.Publish(Change{Table: "orders"})

	select {
	case <-products:
		t.Fatalf("products subscriber woke for orders change")
	default:
	}
	select {
	case c := <-all:
		if c.Table != "orders" {
			t.Fatalf("table = %q, want orders", c.Table)
		}
	default:
		t.Fatalf("catch-all subscriber missed change")
	}
}

func TestHubCoalescesWakeups(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("products")
	defer cancel()

	h.Publish(Change{Table: "products"})
	h.Publish(Change{Table: "products"})
	h.Publish(Change{Table: "products"})

	<-ch
	select {
	case <-ch:
		t.Fatalf("expected coalesced single wakeup")
	default:
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("products")
	cancel()
	cancel() // idempotent

	h.Publish(Change{Table: "products"})
	select {
	case <-ch:
		t.Fatalf("cancelled subscriber still receiving")
	default:
	}
}
