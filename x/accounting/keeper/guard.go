package keeper

import (
	"sync"

	"github.com/openalpha/casino-core/x/accounting/types"
)

// Guard prevents concurrent operations from the same principal. It is held
// across the await point of an outbound ledger call — unlike Keeper.mu,
// which only ever protects a single in-memory mutation — so a suspended
// withdrawal blocks that principal's next operation without blocking any
// other principal's settlement or deposit.
type Guard struct {
	mu      sync.Mutex
	pending map[types.Principal]struct{}
}

// NewGuard returns an empty guard.
func NewGuard() *Guard {
	return &Guard{pending: make(map[types.Principal]struct{})}
}

// GuardHandle releases its principal's slot exactly once, however the
// caller's scope is exited (return, panic, or explicit Release call).
type GuardHandle struct {
	guard     *Guard
	principal types.Principal
	once      sync.Once
}

// Acquire inserts principal into the pending set, or fails with
// ErrOperationInProgress if it is already present.
func (g *Guard) Acquire(p types.Principal) (*GuardHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[p]; busy {
		return nil, types.ErrOperationInProgress.Wrapf("principal %s", p)
	}
	g.pending[p] = struct{}{}
	return &GuardHandle{guard: g, principal: p}, nil
}

// Release removes the handle's principal from the pending set. Safe to call
// more than once and safe to defer immediately after Acquire succeeds.
func (h *GuardHandle) Release() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.guard.mu.Lock()
		delete(h.guard.pending, h.principal)
		h.guard.mu.Unlock()
	})
}

// ForceRelease is the admin-only recovery escape hatch for a guard that
// failed to release (e.g. process crash mid-operation on a deployment that
// lacks this library's defer-based guarantee). Returns true if a guard was
// actually held.
func (g *Guard) ForceRelease(p types.Principal) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[p]; !busy {
		return false
	}
	delete(g.pending, p)
	return true
}

// HasActiveGuard reports whether principal currently holds the guard.
func (g *Guard) HasActiveGuard(p types.Principal) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.pending[p]
	return busy
}
