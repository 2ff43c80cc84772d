package keeper

import (
	"sync"

	"github.com/huandu/skiplist"
	"github.com/openalpha/casino-core/x/accounting/types"
)

// pendingKey orders the skiplist index by (createdAtNs, principal) so the
// admin "oldest pending withdrawals first" query and the expiry sweep can
// walk it in ascending age order in O(log n) per step.
type pendingKey struct {
	createdAtNs int64
	principal   types.Principal
}

type pendingKeyComparator struct{}

func (pendingKeyComparator) Compare(lhs, rhs interface{}) int {
	l := lhs.(pendingKey)
	r := rhs.(pendingKey)
	if l.createdAtNs != r.createdAtNs {
		if l.createdAtNs < r.createdAtNs {
			return -1
		}
		return 1
	}
	if l.principal == r.principal {
		return 0
	}
	if l.principal < r.principal {
		return -1
	}
	return 1
}

func (pendingKeyComparator) CalcScore(key interface{}) float64 {
	return float64(key.(pendingKey).createdAtNs)
}

// pendingWithdrawals is the one-slot-per-principal pending withdrawal
// store. byPrincipal gives O(1) lookup for the common case (does this
// caller have a pending withdrawal); byAge is a skiplist ordered by
// CreatedAtNs for admin pagination and the expiry sweep.
type pendingWithdrawals struct {
	mu          sync.Mutex
	byPrincipal map[types.Principal]types.PendingWithdrawal
	byAge       *skiplist.SkipList
}

func newPendingWithdrawals() *pendingWithdrawals {
	return &pendingWithdrawals{
		byPrincipal: make(map[types.Principal]types.PendingWithdrawal),
		byAge:       skiplist.New(pendingKeyComparator{}),
	}
}

func (p *pendingWithdrawals) get(principal types.Principal) (types.PendingWithdrawal, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.byPrincipal[principal]
	return w, ok
}

func (p *pendingWithdrawals) insert(w types.PendingWithdrawal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byPrincipal[w.Principal] = w
	p.byAge.Set(pendingKey{createdAtNs: w.CreatedAtNs, principal: w.Principal}, w)
}

func (p *pendingWithdrawals) remove(principal types.Principal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.byPrincipal[principal]
	if !ok {
		return
	}
	delete(p.byPrincipal, principal)
	p.byAge.Remove(pendingKey{createdAtNs: w.CreatedAtNs, principal: w.Principal})
}

func (p *pendingWithdrawals) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byPrincipal)
}

// oldestFirst returns up to limit pending withdrawals ordered by age,
// oldest (smallest CreatedAtNs) first.
func (p *pendingWithdrawals) oldestFirst(offset, limit int) []types.PendingWithdrawal {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.PendingWithdrawal, 0, limit)
	idx := 0
	for elem := p.byAge.Front(); elem != nil; elem = elem.Next() {
		if idx >= offset && len(out) < limit {
			out = append(out, elem.Value.(types.PendingWithdrawal))
		}
		idx++
		if len(out) >= limit {
			break
		}
	}
	return out
}

// total sums the Amount of every pending withdrawal, used by the solvency
// equation (liabilities include funds already debited but not yet landed).
func (p *pendingWithdrawals) total() types.Amount {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sum types.Amount
	for _, w := range p.byPrincipal {
		sum += w.Amount
	}
	return sum
}
