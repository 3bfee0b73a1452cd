package ledger

import (
	"errors"
	"testing"

	"github.com/tickclear/tickclear/internal/domain"
)

func newTestLedger(t *testing.T) *MemLedger {
	t.Helper()
	l := NewMemLedger()
	// Account 1 is the mint/counterparty: it may go negative.
	if err := l.CreateAccount(1, true); err != nil {
		t.Fatalf("create mint: %v", err)
	}
	if err := l.CreateAccount(2, false); err != nil {
		t.Fatalf("create account 2: %v", err)
	}
	if err := l.CreateAccount(3, false); err != nil {
		t.Fatalf("create account 3: %v", err)
	}
	return l
}

// mint moves amount of asset from the negative-allowed account 1 to dst.
func mint(t *testing.T, l *MemLedger, dst, asset uint64, amount int64) {
	t.Helper()
	tx := Transaction{
		ID: l.NextTransactionID(),
		Postings: []Posting{
			{AccountID: 1, AssetID: asset, Amount: -amount},
			{AccountID: dst, AssetID: asset, Amount: amount},
		},
	}
	if err := l.Apply(tx, 1); err != nil {
		t.Fatalf("mint: %v", err)
	}
}

func TestApply_MovesBalances(t *testing.T) {
	l := newTestLedger(t)
	mint(t, l, 2, 50, 1000)

	if got := l.Balance(2, 50); got != 1000 {
		t.Errorf("account 2 asset 50 = %d, want 1000", got)
	}
	if got := l.Balance(1, 50); got != -1000 {
		t.Errorf("mint asset 50 = %d, want -1000", got)
	}
}

func TestApply_RejectsUnbalanced(t *testing.T) {
	l := newTestLedger(t)
	tx := Transaction{
		ID: l.NextTransactionID(),
		Postings: []Posting{
			{AccountID: 1, AssetID: 50, Amount: -10},
			{AccountID: 2, AssetID: 50, Amount: 11},
		},
	}
	if err := l.Apply(tx, 1); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
	if got := l.Balance(2, 50); got != 0 {
		t.Errorf("failed tx mutated balance: %d", got)
	}
}

func TestApply_RejectsOverdraw(t *testing.T) {
	l := newTestLedger(t)
	mint(t, l, 2, 50, 100)

	tx := Transaction{
		ID: l.NextTransactionID(),
		Postings: []Posting{
			{AccountID: 2, AssetID: 50, Amount: -150},
			{AccountID: 3, AssetID: 50, Amount: 150},
		},
	}
	if err := l.Apply(tx, 2); !errors.Is(err, domain.ErrInsufficient) {
		t.Errorf("got %v, want ErrInsufficient", err)
	}
	// Atomic: nothing moved.
	if l.Balance(2, 50) != 100 || l.Balance(3, 50) != 0 {
		t.Errorf("failed tx partially applied: %d / %d", l.Balance(2, 50), l.Balance(3, 50))
	}
}

func TestApply_UnknownAccount(t *testing.T) {
	l := newTestLedger(t)
	tx := Transaction{
		ID: l.NextTransactionID(),
		Postings: []Posting{
			{AccountID: 99, AssetID: 50, Amount: -10},
			{AccountID: 2, AssetID: 50, Amount: 10},
		},
	}
	if err := l.Apply(tx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCreateAccount_Duplicate(t *testing.T) {
	l := newTestLedger(t)
	if err := l.CreateAccount(2, false); !errors.Is(err, domain.ErrDuplicateID) {
		t.Errorf("got %v, want ErrDuplicateID", err)
	}
}

func TestIdentifierAllocation(t *testing.T) {
	l := NewMemLedger()
	if a, b := l.NextTransactionID(), l.NextTransactionID(); a != 1 || b != 2 {
		t.Errorf("transaction ids = %d, %d; want 1, 2", a, b)
	}
	if a, b := l.NextObligationID(), l.NextObligationID(); a != 1 || b != 2 {
		t.Errorf("obligation ids = %d, %d; want 1, 2", a, b)
	}
}

func TestSchedule_AppliesInTickOrder(t *testing.T) {
	l := newTestLedger(t)
	mint(t, l, 2, 50, 100)

	move := func(amount int64) Transaction {
		return Transaction{
			ID: l.NextTransactionID(),
			Postings: []Posting{
				{AccountID: 2, AssetID: 50, Amount: -amount},
				{AccountID: 3, AssetID: 50, Amount: amount},
			},
		}
	}
	if err := l.Schedule(l.NextObligationID(), move(30), 10); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := l.Schedule(l.NextObligationID(), move(20), 5); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if err := l.ApplyDue(7); err != nil {
		t.Fatalf("apply due: %v", err)
	}
	if got := l.Balance(3, 50); got != 20 {
		t.Errorf("after tick 7: account 3 = %d, want 20 (only the tick-5 obligation)", got)
	}

	if err := l.ApplyDue(10); err != nil {
		t.Fatalf("apply due: %v", err)
	}
	if got := l.Balance(3, 50); got != 50 {
		t.Errorf("after tick 10: account 3 = %d, want 50", got)
	}
}
