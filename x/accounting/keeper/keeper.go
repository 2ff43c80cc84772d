package keeper

import (
	"sync"

	"cosmossdk.io/log"
	"github.com/openalpha/casino-core/x/accounting/types"
)

// ParentFeePolicy decides what happens to an LP withdrawal fee when the
// configured parent principal cannot accept an internal credit (because it
// currently holds its own pending withdrawal). Modelled as a strategy
// callback per the Open Question in spec.md §9 rather than hard-coded
// anonymous-principal semantics.
type ParentFeePolicy interface {
	// CreditFallback is invoked when the fee cannot be credited to the
	// parent; it returns the amount to add back to the pool reserve
	// (normally the whole fee, so LPs get the benefit) and a reason string
	// for the audit trail.
	CreditFallback(fee types.Amount) (types.Amount, string)
}

// returnToReservePolicy is the production ParentFeePolicy: a fee that can't
// be credited to the parent is returned in full to the reserve.
type returnToReservePolicy struct{}

func (returnToReservePolicy) CreditFallback(fee types.Amount) (types.Amount, string) {
	return fee, "parent has a pending withdrawal"
}

// Keeper is the single owner of every shared map the specification
// describes (§3, §5 "Shared-resource policy"). All mutation goes through
// its methods; Keeper.mu serializes pure in-memory mutation the way the
// IC's single-threaded scheduler would, while Guard additionally serializes
// a principal's own operations across the await point of a ledger call.
type Keeper struct {
	mu sync.Mutex

	cfg    types.Config
	logger log.Logger
	ledger types.Ledger
	clock  types.Clock

	guard       *Guard
	balances    map[types.Principal]types.Amount
	pool        types.PoolState
	lpShares    map[types.Principal]uint64
	totalShares uint64
	pending     *pendingWithdrawals
	audit       *auditLog

	dailyAccum      types.DailyAccumulator
	dailySnapshots  []types.DailySnapshot

	feePolicy ParentFeePolicy
}

// New constructs a Keeper. Passing a nil ParentFeePolicy selects the
// production return-to-reserve policy.
func New(cfg types.Config, ledger types.Ledger, clock types.Clock, logger log.Logger, feePolicy ParentFeePolicy) *Keeper {
	if feePolicy == nil {
		feePolicy = returnToReservePolicy{}
	}
	return &Keeper{
		cfg:      cfg,
		logger:   logger.With("module", "x/accounting"),
		ledger:   ledger,
		clock:    clock,
		guard:    NewGuard(),
		balances: make(map[types.Principal]types.Amount),
		lpShares: make(map[types.Principal]uint64),
		pending:  newPendingWithdrawals(),
		audit:    newAuditLog(cfg.MaxAuditEntries),
		feePolicy: feePolicy,
	}
}

// Logger returns the module logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// Config returns the effective configuration.
func (k *Keeper) Config() types.Config {
	return k.cfg
}

// SetAuditSubscriber wires an observer (the admin websocket feed in
// production) that receives every audit entry as it is appended.
func (k *Keeper) SetAuditSubscriber(s AuditSubscriber) {
	k.audit.setSubscriber(s)
}

// logAudit appends an entry using the keeper's clock for the timestamp.
func (k *Keeper) logAudit(event types.AuditEvent) types.AuditEntry {
	return k.audit.append(k.clock.NowNs(), event)
}

// ForceReleaseGuard is the admin recovery escape hatch (spec.md §4.1).
// Every call is audited regardless of outcome.
func (k *Keeper) ForceReleaseGuard(p types.Principal) bool {
	released := k.guard.ForceRelease(p)
	k.logAudit(types.AuditEvent{
		Kind:      types.EventSystemInfo,
		Principal: p,
		Message:   "admin force-released operation guard",
	})
	return released
}
