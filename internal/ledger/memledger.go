package ledger

import (
	"fmt"
	"sort"

	"github.com/tickclear/tickclear/internal/domain"
)

type account struct {
	allowNegative bool
	balances      map[uint64]int64 // asset id → balance
}

type scheduled struct {
	obligationID uint64
	tx           Transaction
	at           domain.Tick
}

// MemLedger is an in-memory Ledger used by tests and the demo binary. It
// enforces the full conservation contract: postings in a transaction must
// net to zero per asset, and non-negative accounts reject any transaction
// that would overdraw them. Not safe for concurrent use; the clearing
// engine is single-threaded and callers serialize externally.
type MemLedger struct {
	accounts       map[uint64]*account
	nextTxID       uint64
	nextObligation uint64
	pending        []scheduled // sorted by (at, obligation id)
	applied        []Transaction
}

// NewMemLedger creates an empty in-memory ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{
		accounts: make(map[uint64]*account),
	}
}

// NextTransactionID allocates the next transaction identifier, starting at 1.
func (l *MemLedger) NextTransactionID() uint64 {
	l.nextTxID++
	return l.nextTxID
}

// NextObligationID allocates the next obligation identifier, starting at 1.
func (l *MemLedger) NextObligationID() uint64 {
	l.nextObligation++
	return l.nextObligation
}

// CreateAccount registers an account. Re-creating an existing account is
// rejected with domain.ErrDuplicateID.
func (l *MemLedger) CreateAccount(accountID uint64, allowNegative bool) error {
	if accountID == 0 {
		return domain.ErrInvalidArgument
	}
	if _, ok := l.accounts[accountID]; ok {
		return fmt.Errorf("account %d: %w", accountID, domain.ErrDuplicateID)
	}
	l.accounts[accountID] = &account{
		allowNegative: allowNegative,
		balances:      make(map[uint64]int64),
	}
	return nil
}

// Balance reads a single (account, asset) balance. Unknown accounts and
// assets read as zero.
func (l *MemLedger) Balance(accountID, assetID uint64) int64 {
	acct, ok := l.accounts[accountID]
	if !ok {
		return 0
	}
	return acct.balances[assetID]
}

// Apply posts a transaction atomically. Validation happens in two passes:
// first every posting is checked (account exists, per-asset zero net,
// non-negative accounts stay non-negative), then all postings are applied.
// A failed transaction leaves every balance untouched.
func (l *MemLedger) Apply(tx Transaction, now domain.Tick) error {
	if len(tx.Postings) == 0 {
		return domain.ErrInvalidArgument
	}

	// Pass 1: conservation per asset.
	net := make(map[uint64]int64)
	for _, p := range tx.Postings {
		net[p.AssetID] += p.Amount
	}
	for assetID, n := range net {
		if n != 0 {
			return fmt.Errorf("tx %d: asset %d nets to %d: %w", tx.ID, assetID, n, domain.ErrInvalidArgument)
		}
	}

	// Pass 2: per-posting permission. Running balances are tracked so that
	// two postings against the same (account, asset) in one transaction are
	// judged on their combined effect order.
	type key struct{ acct, asset uint64 }
	running := make(map[key]int64)
	for _, p := range tx.Postings {
		acct, ok := l.accounts[p.AccountID]
		if !ok {
			return fmt.Errorf("tx %d: account %d: %w", tx.ID, p.AccountID, domain.ErrNotFound)
		}
		k := key{p.AccountID, p.AssetID}
		if _, seen := running[k]; !seen {
			running[k] = acct.balances[p.AssetID]
		}
		running[k] += p.Amount
		if running[k] < 0 && !acct.allowNegative {
			return fmt.Errorf("tx %d: account %d asset %d would go to %d: %w", tx.ID, p.AccountID, p.AssetID, running[k], domain.ErrInsufficient)
		}
	}

	// Pass 3: apply.
	for _, p := range tx.Postings {
		l.accounts[p.AccountID].balances[p.AssetID] += p.Amount
	}
	l.applied = append(l.applied, tx)
	return nil
}

// Schedule registers a transaction against an obligation for future
// application. The pending queue stays sorted by (tick, obligation id) so
// ApplyDue drains deterministically.
func (l *MemLedger) Schedule(obligationID uint64, tx Transaction, at domain.Tick) error {
	if obligationID == 0 {
		return domain.ErrInvalidArgument
	}
	s := scheduled{obligationID: obligationID, tx: tx, at: at}
	idx := sort.Search(len(l.pending), func(i int) bool {
		if l.pending[i].at != s.at {
			return l.pending[i].at > s.at
		}
		return l.pending[i].obligationID > s.obligationID
	})
	l.pending = append(l.pending, scheduled{})
	copy(l.pending[idx+1:], l.pending[idx:])
	l.pending[idx] = s
	return nil
}

// ApplyDue applies every scheduled transaction whose tick is at or before
// now, in (tick, obligation id) order. The first failure stops the drain
// and leaves later entries pending.
func (l *MemLedger) ApplyDue(now domain.Tick) error {
	for len(l.pending) > 0 && l.pending[0].at <= now {
		s := l.pending[0]
		if err := l.Apply(s.tx, now); err != nil {
			return err
		}
		l.pending = l.pending[1:]
	}
	return nil
}

// AppliedCount returns the number of transactions applied so far. Useful
// for testing.
func (l *MemLedger) AppliedCount() int {
	return len(l.applied)
}
