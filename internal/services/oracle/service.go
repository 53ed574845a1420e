// Package oracle supplies crypto exchange rates. Prices come from a
// layered chain: primary source, secondary source, last-known cache
// even if expired, and finally static defaults. All upstream calls
// have bounded timeouts and a minimum inter-request spacing.
package oracle

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"cryptopay/internal/models"
	"cryptopay/internal/repositories/cache"
)

// ErrPriceUnavailable is returned when no price exists for a symbol
// through the entire fallback chain.
var ErrPriceUnavailable = errors.New("price unavailable")

const priceCacheKey = "oracle:prices"

// Service exposes the read-only price feed.
type Service interface {
	GetPrice(ctx context.Context, symbol string) (models.CryptoPrice, error)
	GetPrices(ctx context.Context) ([]models.CryptoPrice, error)
}

// Config tunes caching and upstream pacing.
type Config struct {
	CacheTTL    time.Duration // validity window for a fetched snapshot
	MinInterval time.Duration // minimum spacing between upstream requests
}

type service struct {
	sources []Source
	cache   *cache.Service // optional shared cache, may be nil
	cfg     Config

	mu          sync.Mutex
	snapshot    []models.CryptoPrice
	fetchedAt   time.Time
	lastAttempt time.Time
}

// NewService builds an oracle over the given sources, tried in order.
func NewService(sources []Source, sharedCache *cache.Service, cfg Config) Service {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = 2 * time.Second
	}
	return &service{
		sources: sources,
		cache:   sharedCache,
		cfg:     cfg,
	}
}

func (s *service) GetPrice(ctx context.Context, symbol string) (models.CryptoPrice, error) {
	prices, err := s.GetPrices(ctx)
	if err != nil {
		return models.CryptoPrice{}, err
	}
	for _, p := range prices {
		if p.Symbol == symbol {
			return p, nil
		}
	}
	return models.CryptoPrice{}, ErrPriceUnavailable
}

func (s *service) GetPrices(ctx context.Context) ([]models.CryptoPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.snapshot != nil && now.Sub(s.fetchedAt) < s.cfg.CacheTTL {
		return s.snapshot, nil
	}

	// Shared cache may hold a snapshot fetched by another instance.
	if s.cache != nil {
		var cached []models.CryptoPrice
		if ok, err := s.cache.GetJSON(ctx, priceCacheKey, &cached); err == nil && ok && len(cached) > 0 {
			s.snapshot = cached
			s.fetchedAt = now
			return cached, nil
		}
	}

	// Pace upstream requests: inside the spacing window, serve the
	// stale snapshot rather than hammering the source.
	if s.snapshot != nil && now.Sub(s.lastAttempt) < s.cfg.MinInterval {
		return s.snapshot, nil
	}
	s.lastAttempt = now

	for _, src := range s.sources {
		prices, err := src.Fetch(ctx)
		if err != nil {
			log.Printf("oracle: %s fetch failed: %v", src.Name(), err)
			continue
		}
		if len(prices) == 0 {
			continue
		}
		s.snapshot = prices
		s.fetchedAt = time.Now()
		if s.cache != nil {
			if err := s.cache.SetJSONWithTTL(ctx, priceCacheKey, prices, s.cfg.CacheTTL); err != nil {
				log.Printf("oracle: failed to share snapshot: %v", err)
			}
		}
		return prices, nil
	}

	// Every source failed: an expired snapshot beats no data.
	if s.snapshot != nil {
		log.Printf("oracle: all sources failed, serving expired snapshot")
		return s.snapshot, nil
	}

	log.Printf("oracle: all sources failed, serving static defaults")
	s.snapshot = FallbackPrices()
	s.fetchedAt = time.Now()
	return s.snapshot, nil
}
