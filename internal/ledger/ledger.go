// Package ledger defines the double-entry ledger surface consumed by the
// clearing subsystem, together with an in-memory implementation of that
// surface. The production ledger is an external collaborator; the engine
// depends only on the Ledger interface.
package ledger

import "github.com/tickclear/tickclear/internal/domain"

// Posting is one (account, asset, signed amount) leg of a transaction.
type Posting struct {
	AccountID uint64
	AssetID   uint64
	Amount    int64
}

// Transaction is an ordered sequence of postings applied atomically at a
// logical tick. Postings must net to zero per asset — that is the ledger's
// conservation contract, and the reason settlement is expressed as whole
// transactions rather than independent postings.
type Transaction struct {
	ID       uint64
	Postings []Posting
}

// Ledger is the account/balance/transaction engine the settlement bridge
// posts into. Apply succeeds only if every posting is individually
// permitted: an account without the negative-balance allowance must not be
// driven below zero by any posting.
type Ledger interface {
	// NextTransactionID allocates a fresh transaction identifier.
	NextTransactionID() uint64

	// NextObligationID allocates a fresh obligation identifier.
	NextObligationID() uint64

	// Apply posts a transaction atomically at the given tick. Either every
	// posting lands or none do.
	Apply(tx Transaction, now domain.Tick) error

	// CreateAccount registers an account. Accounts created with
	// allowNegative may carry negative balances (mint/counterparty roles).
	CreateAccount(accountID uint64, allowNegative bool) error

	// Balance reads a single (account, asset) balance.
	Balance(accountID, assetID uint64) int64

	// Schedule registers a transaction against an obligation to be applied
	// at a future tick.
	Schedule(obligationID uint64, tx Transaction, at domain.Tick) error
}
