package keeper

import (
	"testing"

	"github.com/openalpha/casino-core/x/accounting/types"
)

func TestPendingWithdrawalsOldestFirstOrdering(t *testing.T) {
	p := newPendingWithdrawals()
	p.insert(types.PendingWithdrawal{Principal: "carol", CreatedAtNs: 30})
	p.insert(types.PendingWithdrawal{Principal: "alice", CreatedAtNs: 10})
	p.insert(types.PendingWithdrawal{Principal: "bob", CreatedAtNs: 20})

	ordered := p.oldestFirst(0, 10)
	if len(ordered) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ordered))
	}
	want := []types.Principal{"alice", "bob", "carol"}
	for i, w := range ordered {
		if w.Principal != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], w.Principal)
		}
	}
}

func TestPendingWithdrawalsRemove(t *testing.T) {
	p := newPendingWithdrawals()
	p.insert(types.PendingWithdrawal{Principal: "alice", CreatedAtNs: 10, Amount: 500})

	if p.count() != 1 {
		t.Fatalf("expected 1 pending entry, got %d", p.count())
	}
	p.remove("alice")
	if p.count() != 0 {
		t.Errorf("expected 0 pending entries after remove, got %d", p.count())
	}
	if p.total() != 0 {
		t.Errorf("expected total 0 after remove, got %d", p.total())
	}
}
