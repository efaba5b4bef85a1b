package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/jay6909/qkart-backend/internal/repository"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	product *domain.Product
	err     error
	calls   int
}

func (s *stubCatalog) FindByID(context.Context, string) (*domain.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func TestBreakerCatalog_PassThrough(t *testing.T) {
	stub := &stubCatalog{product: &domain.Product{ID: "p1", Cost: 100}}
	sut := NewBreakerCatalog(stub)

	product, err := sut.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
}

func TestBreakerCatalog_NotFound_DoesNotTrip(t *testing.T) {
	stub := &stubCatalog{err: repository.ErrProductNotFound}
	sut := NewBreakerCatalog(stub)

	for i := 0; i < 10; i++ {
		_, err := sut.FindByID(context.Background(), "missing")
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	}

	// Every call reached the underlying catalog; nothing was short-circuited.
	assert.Equal(t, 10, stub.calls)
}

func TestBreakerCatalog_TripsOnStoreFailures(t *testing.T) {
	stub := &stubCatalog{err: errors.New("connection refused")}
	sut := NewBreakerCatalog(stub)

	for i := 0; i < 5; i++ {
		_, err := sut.FindByID(context.Background(), "p1")
		require.Error(t, err)
	}

	_, err := sut.FindByID(context.Background(), "p1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, stub.calls)
}
