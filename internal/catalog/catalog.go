package catalog

import (
	"context"

	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/jay6909/qkart-backend/internal/repository"
)

// Catalog is the read-only product lookup the cart service depends on.
type Catalog interface {
	FindByID(ctx context.Context, productID string) (*domain.Product, error)
}

type storeCatalog struct {
	products repository.ProductRepository
}

// NewStoreCatalog serves lookups straight from the product store.
func NewStoreCatalog(products repository.ProductRepository) Catalog {
	return &storeCatalog{products: products}
}

func (c *storeCatalog) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	return c.products.FindByID(ctx, productID)
}
