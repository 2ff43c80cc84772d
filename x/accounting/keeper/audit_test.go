package keeper

import (
	"testing"

	"github.com/openalpha/casino-core/x/accounting/types"
)

type recordingSubscriber struct {
	entries []types.AuditEntry
}

func (r *recordingSubscriber) Publish(e types.AuditEntry) {
	r.entries = append(r.entries, e)
}

func TestAuditLogPrunesOldestBeyondMax(t *testing.T) {
	log := newAuditLog(3)
	for i := 0; i < 5; i++ {
		log.append(int64(i), types.AuditEvent{Kind: types.EventSystemInfo})
	}

	if log.size() != 3 {
		t.Fatalf("expected bounded size 3, got %d", log.size())
	}

	page := log.page(0, 10)
	if len(page) != 3 {
		t.Fatalf("expected 3 entries on the page, got %d", len(page))
	}
	if page[0].Seq != 2 {
		t.Errorf("expected the oldest surviving entry to be seq 2, got %d", page[0].Seq)
	}
	if page[len(page)-1].Seq != 4 {
		t.Errorf("expected the newest entry to be seq 4, got %d", page[len(page)-1].Seq)
	}
}

func TestAuditLogNotifiesSubscriber(t *testing.T) {
	log := newAuditLog(10)
	sub := &recordingSubscriber{}
	log.setSubscriber(sub)

	log.append(1, types.AuditEvent{Kind: types.EventSystemInfo, Principal: "alice"})

	if len(sub.entries) != 1 {
		t.Fatalf("expected subscriber to receive 1 entry, got %d", len(sub.entries))
	}
	if sub.entries[0].Event.Principal != "alice" {
		t.Errorf("expected the published entry to carry the original event payload")
	}
}
