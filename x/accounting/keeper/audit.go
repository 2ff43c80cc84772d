package keeper

import (
	"sync"

	"github.com/google/btree"
	"github.com/openalpha/casino-core/x/accounting/types"
)

const auditBtreeDegree = 32

// auditItem wraps an AuditEntry for ordering by its monotonic sequence
// number, the same btree.Item wrapper pattern the teacher uses to order
// order-book price levels.
type auditItem struct {
	entry types.AuditEntry
}

func (a auditItem) Less(other btree.Item) bool {
	return a.entry.Seq < other.(auditItem).entry.Seq
}

// AuditSubscriber receives every appended entry; the admin websocket feed
// is the only production subscriber, but the interface keeps audit.go
// decoupled from api/websocket.
type AuditSubscriber interface {
	Publish(types.AuditEntry)
}

// auditLog is a bounded, counter-keyed append-only ring. Oldest entries are
// pruned once size exceeds MaxEntries, matching spec.md §4.7.
type auditLog struct {
	mu         sync.Mutex
	tree       *btree.BTree
	nextSeq    uint64
	maxEntries int
	subscriber AuditSubscriber
}

func newAuditLog(maxEntries int) *auditLog {
	return &auditLog{
		tree:       btree.New(auditBtreeDegree),
		maxEntries: maxEntries,
	}
}

func (l *auditLog) setSubscriber(s AuditSubscriber) {
	l.mu.Lock()
	l.subscriber = s
	l.mu.Unlock()
}

func (l *auditLog) append(tsNs int64, event types.AuditEvent) types.AuditEntry {
	l.mu.Lock()
	entry := types.AuditEntry{Seq: l.nextSeq, TimestampNs: tsNs, Event: event}
	l.nextSeq++
	l.tree.ReplaceOrInsert(auditItem{entry})
	for l.tree.Len() > l.maxEntries {
		oldest := l.tree.Min()
		if oldest == nil {
			break
		}
		l.tree.Delete(oldest)
	}
	sub := l.subscriber
	l.mu.Unlock()

	if sub != nil {
		sub.Publish(entry)
	}
	return entry
}

func (l *auditLog) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Len()
}

// page returns up to limit entries starting at offset, oldest first.
func (l *auditLog) page(offset, limit int) []types.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.AuditEntry, 0, limit)
	idx := 0
	l.tree.Ascend(func(i btree.Item) bool {
		if idx >= offset && len(out) < limit {
			out = append(out, i.(auditItem).entry)
		}
		idx++
		return len(out) < limit || idx < offset
	})
	return out
}

// sumAbandoned totals the Amount of every WithdrawalAbandoned entry, the
// only available source of truth for orphaned funds absent an on-chain
// reconciliation oracle.
func (l *auditLog) sumAbandoned() (types.Amount, []types.UserBalanceEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total types.Amount
	var entries []types.UserBalanceEntry
	l.tree.Ascend(func(i btree.Item) bool {
		e := i.(auditItem).entry
		if e.Event.Kind == types.EventWithdrawalAbandoned {
			total += e.Event.Amount
			entries = append(entries, types.UserBalanceEntry{Principal: e.Event.Principal, Balance: e.Event.Amount})
		}
		return true
	})
	return total, entries
}
