package models

// Restaurant is the reference record consumed from the catalog. DeliveryFee
// and EstimatedDeliveryMinutes are nil when the restaurant has no policy of
// its own and the platform defaults apply.
type Restaurant struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	OwnerID                  string `json:"owner_id"`
	IsOpen                   bool   `json:"is_open"`
	DeliveryFee              *int64 `json:"delivery_fee,omitempty"`
	EstimatedDeliveryMinutes *int   `json:"estimated_delivery_minutes,omitempty"`
	TotalOrders              int64  `json:"total_orders"`
}

// CatalogItem is a menu entry with its canonical price and the add-ons it
// offers. Client-supplied prices are never trusted; every order line and
// every selected add-on is repriced from this record.
type CatalogItem struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	Price        int64   `json:"price"`
	IsAvailable  bool    `json:"is_available"`
	Addons       []Addon `json:"addons,omitempty"`
}

// Addon returns the canonical add-on with the given id, if the item offers it
func (ci *CatalogItem) Addon(addonID string) (Addon, bool) {
	for _, a := range ci.Addons {
		if a.ID == addonID {
			return a, true
		}
	}
	return Addon{}, false
}
