package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/jay6909/qkart-backend/internal/events"
	"github.com/jay6909/qkart-backend/internal/repository"
)

// Checkout debits the user's wallet by the cart total and empties the cart.
// With a transactional store both writes commit or roll back together. When
// the runner cannot provide a real transaction, a debit failure after the
// cart write is compensated by re-saving the prior cart items, so the store
// never ends up with an emptied cart and an undebited wallet. The in-memory
// user and cart are only mutated on success, so a retry is safe.
func (s *CartService) Checkout(ctx context.Context, user *domain.User) error {
	cart, err := s.carts.FindByUser(ctx, user.Email)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return notFound(MsgNoCart)
		}
		return internalError("Checkout failed", err)
	}

	if len(cart.Items) == 0 {
		return invalidRequest(MsgEmptyCart)
	}

	if !user.HasSetNonDefaultAddress() {
		return invalidRequest(MsgAddressNotSet)
	}

	// Snapshot prices only; the catalog is not consulted here.
	cartCost := cart.TotalCost()
	if cartCost > user.WalletMoney {
		return invalidRequest(MsgInsufficientBalance)
	}

	event := checkoutEvent(user.Email, cart, cartCost)

	prevItems := cart.Items
	prevVersion := cart.Version
	cart.Items = []domain.CartItem{}

	cartSaved := false
	errTx := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if errSave := s.carts.Save(txCtx, cart); errSave != nil {
			return errSave
		}
		cartSaved = true
		return s.users.DebitWallet(txCtx, user.Email, cartCost)
	})
	if errTx != nil {
		cart.Items = prevItems
		if cartSaved {
			s.restoreCart(ctx, cart, prevVersion)
		} else {
			cart.Version = prevVersion
		}
		if errors.Is(errTx, repository.ErrInsufficientFunds) {
			// The conditional debit caught a concurrent spend that the
			// pre-check could not see.
			return invalidRequest(MsgInsufficientBalance)
		}
		log.Printf("checkout failed for %s: %v", user.Email, errTx)
		return internalError("Checkout failed", errTx)
	}

	user.WalletMoney -= cartCost
	s.invalidateCache(user.Email)

	if errPub := s.publisher.PublishCheckoutCompleted(ctx, event); errPub != nil {
		// Best effort: the checkout has committed, only the notification failed.
		log.Printf("failed to publish checkout event for %s: %v", user.Email, errPub)
	}

	return nil
}

// restoreCart compensates a cart write whose sibling debit failed. With a
// transactional store the abort has already restored the document and this
// save lands on a version conflict, which is the expected no-op.
func (s *CartService) restoreCart(ctx context.Context, cart *domain.Cart, prevVersion int64) {
	errSave := s.carts.Save(ctx, cart)
	switch {
	case errSave == nil:
	case errors.Is(errSave, repository.ErrVersionConflict):
		cart.Version = prevVersion
	default:
		log.Printf("failed to restore cart for %s after checkout failure: %v", cart.Email, errSave)
	}
	s.invalidateCache(cart.Email)
}

func checkoutEvent(email string, cart *domain.Cart, total float64) events.CheckoutCompletedEvent {
	items := make([]events.EventItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = events.EventItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Cost,
		}
	}

	return events.CheckoutCompletedEvent{
		CheckoutID:  uuid.NewString(),
		Email:       email,
		Items:       items,
		TotalAmount: total,
	}
}
