package repository

import (
	"context"
	"errors"

	"github.com/jay6909/qkart-backend/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	// ErrVersionConflict is returned when a cart save loses a race against a
	// concurrent write; callers re-read and retry.
	ErrVersionConflict = errors.New("cart was modified concurrently")
	// ErrInsufficientFunds is the store-level guard against debiting a
	// wallet below zero, even under concurrent debits.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	FindByUser(ctx context.Context, email string) (*domain.Cart, error)
	Create(ctx context.Context, email string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

// UserRepository separates profile writes from wallet movement: Save never
// touches the balance, and DebitWallet is a conditional decrement so a
// concurrent profile save cannot resurrect spent funds.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	DebitWallet(ctx context.Context, email string, amount float64) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, productID string) (*domain.Product, error)
}

// TxRunner scopes a function to a single transaction: commit when fn
// returns nil, roll everything back otherwise. Repository calls made with
// the context passed to fn join the transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
