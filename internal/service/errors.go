package service

import (
	"errors"
	"fmt"
)

// Kind classifies service failures for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidRequest
)

// Stable, user-facing messages for every business-rule violation.
const (
	MsgNoCart              = "User does not have a cart"
	MsgNoCartUseCreate     = "User does not have a cart. Use POST to create cart and add a product"
	MsgCartCreationFailed  = "User Cart Creation Failed"
	MsgProductMissing      = "Product doesn't exist in database"
	MsgProductAlreadyAdded = "Product already in cart. Use the cart sidebar to update or remove product from cart"
	MsgProductNotInCart    = "Product not in cart"
	MsgAddProductFailed    = "Adding product failed"
	MsgEmptyCart           = "Empty cart"
	MsgAddressNotSet       = "Address not set"
	MsgAddressTooShort     = "Address should be of length 20 or more"
	MsgInvalidQuantity     = "Quantity must be a positive integer"
	MsgInsufficientBalance = "Wallet balance is not sufficient"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func notFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func invalidRequest(message string) error {
	return &Error{Kind: KindInvalidRequest, Message: message}
}

func internalError(message string, cause error) error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf extracts the failure kind; unknown errors map to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the stable message for service errors and a generic one
// otherwise, so internal details never leak to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
