package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/jay6909/qkart-backend/internal/repository"
	"github.com/sony/gobreaker/v2"
)

// BreakerCatalog fronts a Catalog with a circuit breaker so a struggling
// product store fails fast instead of stalling every cart mutation.
type BreakerCatalog struct {
	next Catalog
	cb   *gobreaker.CircuitBreaker[*domain.Product]
}

func NewBreakerCatalog(next Catalog) *BreakerCatalog {
	settings := gobreaker.Settings{
		Name:        "product-catalog",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &BreakerCatalog{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*domain.Product](settings),
	}
}

func (b *BreakerCatalog) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := b.cb.Execute(func() (*domain.Product, error) {
		p, errFind := b.next.FindByID(ctx, productID)
		if errors.Is(errFind, repository.ErrProductNotFound) {
			// A missing product is an answer, not a store failure; it must
			// not count toward tripping the breaker.
			return nil, nil
		}
		return p, errFind
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}
