// Package pantry contains the inventory-side domain model: stock items
// as received from the inventory feed and the name normalizer used to
// compare them against recipe ingredients.
package pantry

// Item represents a single inventory entry from the stock feed.
// RawName is kept exactly as received; every comparison works on the
// derived NormalizedName so the original is never rewritten.
type Item struct {
	RawName        string
	NormalizedName string
	Quantity       float64
	Unit           string
}

// NewItem creates an inventory item, deriving the normalized name
func NewItem(rawName string, quantity float64, unit string) Item {
	return Item{
		RawName:        rawName,
		NormalizedName: Normalize(rawName),
		Quantity:       quantity,
		Unit:           unit,
	}
}

// NewItems converts a batch of raw names into items with zero quantity
// metadata, used for inventory overrides supplied on a request.
func NewItems(rawNames []string) []Item {
	items := make([]Item, 0, len(rawNames))
	for _, name := range rawNames {
		items = append(items, NewItem(name, 0, ""))
	}
	return items
}
