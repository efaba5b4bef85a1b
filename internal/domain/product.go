package domain

// Product is owned by the catalog and immutable from this service's
// perspective. Cart items carry a copy taken at add-time.
type Product struct {
	ID       string  `bson:"_id,omitempty" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Category string  `bson:"category" json:"category"`
	Cost     float64 `bson:"cost" json:"cost"`
	Rating   float64 `bson:"rating" json:"rating"`
	ImageURL string  `bson:"image" json:"image"`
}
