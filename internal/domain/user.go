package domain

// DefaultAddress is the placeholder set on registration. Checkout requires
// the user to have replaced it with a real delivery address.
const DefaultAddress = "ADDRESS_NOT_SET"

// MinAddressLength is the shortest address accepted when setting one.
const MinAddressLength = 20

type User struct {
	ID          string  `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string  `bson:"name" json:"name"`
	Email       string  `bson:"email" json:"email"`
	Address     string  `bson:"address" json:"address"`
	WalletMoney float64 `bson:"wallet_money" json:"wallet_money"`
}

// HasSetNonDefaultAddress reports whether the user configured a delivery
// address, a checkout precondition.
func (u *User) HasSetNonDefaultAddress() bool {
	return u.Address != "" && u.Address != DefaultAddress
}
