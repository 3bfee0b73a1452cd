// Package service wraps the clearing engine for the ops surface. The
// engine itself is single-threaded by contract; the service owns the one
// mutex that serializes all access from concurrent HTTP handlers.
package service

import (
	"sync"

	"github.com/tickclear/tickclear/internal/domain"
	"github.com/tickclear/tickclear/internal/engine"
	"github.com/tickclear/tickclear/internal/ledger"
)

// MarketService serializes access to a Registry and its ledger.
type MarketService struct {
	mu       sync.Mutex
	registry *engine.Registry
	ledger   ledger.Ledger
}

// NewMarketService creates a MarketService around an existing registry and
// ledger.
func NewMarketService(registry *engine.Registry, l ledger.Ledger) *MarketService {
	return &MarketService{
		registry: registry,
		ledger:   l,
	}
}

// Register validates and registers a market, returning its id hash.
func (s *MarketService) Register(cfg *domain.MarketConfig) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Register(cfg)
}

// List enumerates market configurations in the registry's deterministic
// order.
func (s *MarketService) List() []domain.MarketConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Markets()
}

// Get returns the configuration for one market.
func (s *MarketService) Get(marketID string) (domain.MarketConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Get(marketID)
}

// Depth returns aggregated book levels for one market.
func (s *MarketService) Depth(marketID string, n int) (bids, asks []engine.PriceLevel, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Depth(marketID, n)
}

// NextDue reports when one market next needs clearing.
func (s *MarketService) NextDue(marketID string) (domain.Tick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.NextDueTick(marketID)
}

// NextGlobalDue reports the earliest due tick across all markets.
func (s *MarketService) NextGlobalDue() (domain.Tick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.NextGlobalDue()
}

// ClearAndSettle clears one market at the given tick and immediately
// settles the resulting trades against the service's ledger. The clear
// result is returned even when settlement fails so the caller can see
// which trades were produced.
func (s *MarketService) ClearAndSettle(marketID string, now domain.Tick) (*engine.ClearResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.registry.Clear(marketID, now)
	if err != nil {
		return res, err
	}
	if len(res.Trades) > 0 {
		if err := s.registry.SettleTrades(s.ledger, res.Trades, now); err != nil {
			return res, err
		}
	}
	return res, nil
}

// LastError exposes the registry's advisory diagnostic string.
func (s *MarketService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.LastError()
}
