package models

// Product is the resolved metadata for a scanned EAN. A product is a value:
// re-resolving an EAN produces a new Product, it is never mutated in place.
type Product struct {
	EAN   string  `bson:"ean" json:"ean"`
	Name  string  `bson:"name" json:"name"`
	Brand *string `bson:"brand" json:"brand"`
	Extra *string `bson:"extra" json:"extra"`
}
