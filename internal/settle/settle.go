// Package settle converts batches of trades into balanced double-entry
// ledger transactions. It borrows trades only for the duration of one call
// and owns no state of its own.
package settle

import (
	"fmt"

	"github.com/tickclear/tickclear/internal/domain"
	"github.com/tickclear/tickclear/internal/ledger"
)

// Trades posts one balanced transaction per trade: exactly four postings
// moving the buyer's outgoing quote, the seller's incoming quote, the
// seller's outgoing base, and the buyer's incoming base as one atomic
// unit. Each trade draws a fresh transaction identifier from the ledger.
//
// Application is fail-fast: the first trade the ledger rejects aborts the
// batch and is reported as domain.ErrInsufficient. Trades applied before
// the failure remain applied — the ledger's atomicity covers a single
// transaction, not the batch.
func Trades(l ledger.Ledger, trades []*domain.Trade, now domain.Tick) error {
	if l == nil {
		return domain.ErrInvalidArgument
	}
	for _, t := range trades {
		if t == nil {
			return domain.ErrInvalidArgument
		}
		// Zero or negative legs are an engine defect, not a ledger error.
		if t.QuantityBase <= 0 || t.QuantityQuote <= 0 {
			return fmt.Errorf("trade %d: non-positive leg (base=%d quote=%d): %w",
				t.TradeID, t.QuantityBase, t.QuantityQuote, domain.ErrInvalidArgument)
		}

		tx := ledger.Transaction{
			ID: l.NextTransactionID(),
			Postings: []ledger.Posting{
				{AccountID: t.BuyAccountID, AssetID: t.QuoteAsset, Amount: -t.QuantityQuote},
				{AccountID: t.SellAccountID, AssetID: t.QuoteAsset, Amount: t.QuantityQuote},
				{AccountID: t.SellAccountID, AssetID: t.BaseAsset, Amount: -t.QuantityBase},
				{AccountID: t.BuyAccountID, AssetID: t.BaseAsset, Amount: t.QuantityBase},
			},
		}
		if err := l.Apply(tx, now); err != nil {
			return fmt.Errorf("settling trade %d: %w: %w", t.TradeID, domain.ErrInsufficient, err)
		}
	}
	return nil
}
