package render

import "testing"

func TestRegistry_SetGet(t *testing.T) {
	t.Parallel()
	r := NewRegistry("stat-total", "stat-amount")

	if !r.Set("stat-total", "200") {
		t.Fatal("Set on registered surface reported false")
	}
	if text, ok := r.Get("stat-total"); !ok || text != "200" {
		t.Errorf("Get(stat-total) = %q, %v", text, ok)
	}
}

func TestRegistry_SetMissingSurface(t *testing.T) {
	t.Parallel()
	r := NewRegistry("stat-total")

	if r.Set("stat-fraud", "3") {
		t.Error("Set on unregistered surface reported true")
	}
	if _, ok := r.Get("stat-fraud"); ok {
		t.Error("Get on unregistered surface reported ok")
	}
}

func TestRegistry_LastWriteWins(t *testing.T) {
	t.Parallel()
	r := NewRegistry("stat-rate")
	r.Set("stat-rate", "1.00%")
	r.Set("stat-rate", "2.00%")

	if text, _ := r.Get("stat-rate"); text != "2.00%" {
		t.Errorf("expected last write to win, got %q", text)
	}
}

func TestRegistry_RegisterRemove(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Register("stat-total")
	if !r.Set("stat-total", "1") {
		t.Fatal("Set after Register reported false")
	}

	r.Remove("stat-total")
	if r.Set("stat-total", "2") {
		t.Error("Set after Remove reported true")
	}

	snap := r.Snapshot()
	if len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %v", snap)
	}
}
