package domain

import "time"

type Cart struct {
	ID    string     `bson:"_id,omitempty" json:"id,omitempty"`
	Email string     `bson:"email" json:"email"`
	Items []CartItem `bson:"cart_items" json:"cart_items"`
	// Version guards saves against concurrent lost updates; the repository
	// bumps it on every successful write.
	Version   int64     `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CartItem pairs a product snapshot with a quantity. The snapshot keeps the
// cost observed at add-time, so later catalog changes do not reprice the line.
type CartItem struct {
	Product  Product   `bson:"product" json:"product"`
	Quantity int       `bson:"quantity" json:"quantity"`
	AddedAt  time.Time `bson:"added_at" json:"added_at"`
}

// ItemIndex maps product id to the item's position in Items. Membership
// checks and in-place updates go through it so no two items ever share a
// product id.
func (c *Cart) ItemIndex() map[string]int {
	idx := make(map[string]int, len(c.Items))
	for i, item := range c.Items {
		idx[item.Product.ID] = i
	}
	return idx
}

// TotalCost sums cost x quantity over the snapshot prices.
func (c *Cart) TotalCost() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Product.Cost * float64(item.Quantity)
	}
	return total
}
