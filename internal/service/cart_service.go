package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jay6909/qkart-backend/internal/cache"
	"github.com/jay6909/qkart-backend/internal/catalog"
	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/jay6909/qkart-backend/internal/events"
	"github.com/jay6909/qkart-backend/internal/repository"
	"golang.org/x/sync/singleflight"
)

// maxSaveRetries bounds re-reads after a version conflict on save.
const maxSaveRetries = 3

type CartService struct {
	carts     repository.CartRepository
	users     repository.UserRepository
	catalog   catalog.Catalog
	cache     cache.CartCache
	tx        repository.TxRunner
	publisher events.Publisher
	sfg       singleflight.Group // Prevents cache stampede
}

func NewCartService(
	carts repository.CartRepository,
	users repository.UserRepository,
	cat catalog.Catalog,
	cartCache cache.CartCache,
	tx repository.TxRunner,
	publisher events.Publisher,
) *CartService {
	return &CartService{
		carts:     carts,
		users:     users,
		catalog:   cat,
		cache:     cartCache,
		tx:        tx,
		publisher: publisher,
	}
}

// GetCartByUser returns the user's cart, serving reads through the cache.
func (s *CartService) GetCartByUser(ctx context.Context, user *domain.User) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(user.Email, func() (interface{}, error) {
		cart, errCache := s.cache.Get(ctx, user.Email)
		if errCache == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(errCache, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", errCache) // log cache error but continue
		}

		cart, errGet := s.carts.FindByUser(ctx, user.Email)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrCartNotFound) {
				return nil, notFound(MsgNoCart)
			}
			return nil, internalError(MsgNoCart, errGet)
		}

		// Fill the cache before returning. A detached write could land
		// after a concurrent mutation's invalidation and pin a stale
		// cart until expiry.
		if errSet := s.cache.Set(ctx, user.Email, cart); errSet != nil {
			log.Printf("cache set error: %v", errSet)
		}

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddProductToCart adds a catalog product to the cart, creating the cart
// lazily on first use. The product is snapshotted onto the item so later
// catalog price changes do not reprice the line.
func (s *CartService) AddProductToCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, invalidRequest(MsgInvalidQuantity)
	}

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		cart, errFind := s.carts.FindByUser(ctx, user.Email)
		if errFind != nil {
			if !errors.Is(errFind, repository.ErrCartNotFound) {
				return nil, internalError(MsgAddProductFailed, errFind)
			}
			cart, errFind = s.carts.Create(ctx, user.Email)
			if errFind != nil {
				log.Printf("error while creating the cart: %v", errFind)
				return nil, internalError(MsgCartCreationFailed, errFind)
			}
		}

		product, errProduct := s.catalog.FindByID(ctx, productID)
		if errProduct != nil {
			if errors.Is(errProduct, repository.ErrProductNotFound) {
				return nil, invalidRequest(MsgProductMissing)
			}
			return nil, internalError(MsgAddProductFailed, errProduct)
		}

		if _, exists := cart.ItemIndex()[productID]; exists {
			return nil, invalidRequest(MsgProductAlreadyAdded)
		}

		cart.Items = append(cart.Items, domain.CartItem{
			Product:  *product,
			Quantity: quantity,
			AddedAt:  time.Now(),
		})

		errSave := s.carts.Save(ctx, cart)
		if errors.Is(errSave, repository.ErrVersionConflict) {
			continue // lost a race, retry against a fresh read
		}
		if errSave != nil {
			log.Printf("error while saving the cart: %v", errSave)
			return nil, internalError(MsgAddProductFailed, errSave)
		}

		s.invalidateCache(user.Email)
		return cart, nil
	}

	return nil, internalError(MsgAddProductFailed, repository.ErrVersionConflict)
}

// UpdateProductInCart overwrites the quantity of a product already in the cart.
func (s *CartService) UpdateProductInCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, invalidRequest(MsgInvalidQuantity)
	}

	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, invalidRequest(MsgProductMissing)
		}
		return nil, internalError("Updating product failed", err)
	}

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		cart, errFind := s.carts.FindByUser(ctx, user.Email)
		if errFind != nil {
			if errors.Is(errFind, repository.ErrCartNotFound) {
				return nil, invalidRequest(MsgNoCartUseCreate)
			}
			return nil, internalError("Updating product failed", errFind)
		}

		pos, exists := cart.ItemIndex()[productID]
		if !exists {
			return nil, invalidRequest(MsgProductNotInCart)
		}
		cart.Items[pos].Quantity = quantity

		errSave := s.carts.Save(ctx, cart)
		if errors.Is(errSave, repository.ErrVersionConflict) {
			continue
		}
		if errSave != nil {
			log.Printf("error while updating the cart: %v", errSave)
			return nil, internalError("Updating product failed", errSave)
		}

		s.invalidateCache(user.Email)
		return cart, nil
	}

	return nil, internalError("Updating product failed", repository.ErrVersionConflict)
}

// DeleteProductFromCart removes one product's item from the cart. A persist
// failure is surfaced to the caller; a delete must never silently fail.
func (s *CartService) DeleteProductFromCart(ctx context.Context, user *domain.User, productID string) error {
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		cart, errFind := s.carts.FindByUser(ctx, user.Email)
		if errFind != nil {
			if errors.Is(errFind, repository.ErrCartNotFound) {
				return invalidRequest(MsgNoCart)
			}
			return internalError("Deleting product failed", errFind)
		}

		pos, exists := cart.ItemIndex()[productID]
		if !exists {
			return invalidRequest(MsgProductNotInCart)
		}
		cart.Items = append(cart.Items[:pos], cart.Items[pos+1:]...)

		errSave := s.carts.Save(ctx, cart)
		if errors.Is(errSave, repository.ErrVersionConflict) {
			continue
		}
		if errSave != nil {
			log.Printf("error while deleting item from the cart: %v", errSave)
			return internalError("Deleting product failed", errSave)
		}

		s.invalidateCache(user.Email)
		return nil
	}

	return internalError("Deleting product failed", repository.ErrVersionConflict)
}

func (s *CartService) invalidateCache(email string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, email); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
