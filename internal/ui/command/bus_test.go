package command

import (
	"errors"
	"testing"

	"github.com/atomicstack/layerstack/internal/promise"
	"github.com/atomicstack/layerstack/internal/window"
)

func TestCollectReturnsSettledInOrder(t *testing.T) {
	bus := New()
	first := promise.New[window.Window]()
	second := promise.New[window.Window]()
	all := promise.New[struct{}]()
	bus.Track(Request{ID: "1", Kind: "open", Type: "map"}, first)
	bus.Track(Request{ID: "2", Kind: "close", Type: "map"}, second)
	bus.TrackAll(Request{ID: "3", Kind: "close-all"}, all)

	if got := bus.Collect(); len(got) != 0 {
		t.Fatalf("expected nothing settled, got %#v", got)
	}

	boom := errors.New("boom")
	second.Reject(boom)
	all.Resolve(struct{}{})
	got := bus.Collect()
	if len(got) != 2 {
		t.Fatalf("expected two results, got %d", len(got))
	}
	if got[0].ID != "2" || !errors.Is(got[0].Err, boom) {
		t.Fatalf("unexpected first result %#v", got[0])
	}
	if got[1].Label() != "close-all" || got[1].Err != nil {
		t.Fatalf("unexpected second result %#v", got[1])
	}
	if bus.Pending() != 1 {
		t.Fatalf("expected one pending request, got %d", bus.Pending())
	}

	first.Resolve(nil)
	got = bus.Collect()
	if len(got) != 1 || got[0].Label() != "open(map)" {
		t.Fatalf("unexpected final results %#v", got)
	}
	if bus.Pending() != 0 {
		t.Fatalf("expected no pending requests, got %d", bus.Pending())
	}
}
