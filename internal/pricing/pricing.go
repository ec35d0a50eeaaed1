// Package pricing computes the authoritative money breakdown of an order.
// All arithmetic is in integer minor currency units; the tax is floored so
// repeated pricing of the same input always lands on the same total.
package pricing

import (
	"quickbites/internal/apperr"
	"quickbites/internal/config"
	"quickbites/internal/models"
)

// Calculator prices resolved line items under the platform's fixed policy
type Calculator struct {
	cfg config.PricingConfig
}

// New creates a calculator with the given policy
func New(cfg config.PricingConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Price reprices the given lines against the canonical catalog records and
// the restaurant's delivery policy. Cached cart prices are ignored: each
// line is rebuilt from the catalog item it references, and every selected
// add-on is rebuilt from the add-ons that item actually offers. Returns the
// frozen line snapshots and the itemized summary.
//
// Fails with a pricing error when a line references an item missing from
// catalogItems, flagged unavailable, or carrying an add-on the item does
// not offer.
func (c *Calculator) Price(lines []models.LineItem, catalogItems map[string]models.CatalogItem, restaurant *models.Restaurant) ([]models.LineItem, models.OrderSummary, error) {
	priced := make([]models.LineItem, 0, len(lines))
	var subtotal int64

	for _, line := range lines {
		item, ok := catalogItems[line.ItemID]
		if !ok {
			return nil, models.OrderSummary{}, apperr.Newf(apperr.KindPricing, apperr.CodeItemNotFound,
				"item %s is not on this restaurant's menu", line.ItemID)
		}
		if !item.IsAvailable {
			return nil, models.OrderSummary{}, apperr.Newf(apperr.KindPricing, apperr.CodeItemUnavailable,
				"item %q is currently unavailable", item.Name)
		}

		addons, err := resolveAddons(line, &item)
		if err != nil {
			return nil, models.OrderSummary{}, err
		}

		frozen := line
		frozen.Name = item.Name
		frozen.UnitPrice = item.Price
		frozen.Customizations.SelectedAddons = addons
		frozen.LineTotal = frozen.ComputeLineTotal()
		priced = append(priced, frozen)

		subtotal += frozen.LineTotal
	}

	fee := c.DeliveryFee(restaurant)
	tax := subtotal * int64(c.cfg.TaxRateBasisPoints) / 10000

	summary := models.OrderSummary{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal + fee + tax,
	}
	return priced, summary, nil
}

// resolveAddons swaps each selected add-on for the canonical one the catalog
// item offers. Prices cached on the line never survive.
func resolveAddons(line models.LineItem, item *models.CatalogItem) ([]models.Addon, error) {
	if len(line.Customizations.SelectedAddons) == 0 {
		return line.Customizations.SelectedAddons, nil
	}

	addons := make([]models.Addon, 0, len(line.Customizations.SelectedAddons))
	for _, selected := range line.Customizations.SelectedAddons {
		canonical, ok := item.Addon(selected.ID)
		if !ok {
			return nil, apperr.Newf(apperr.KindPricing, apperr.CodeAddonNotFound,
				"add-on %s is not offered for item %q", selected.ID, item.Name)
		}
		addons = append(addons, canonical)
	}
	return addons, nil
}

// DeliveryFee returns the restaurant's fee, or the platform default when the
// record carries none.
func (c *Calculator) DeliveryFee(restaurant *models.Restaurant) int64 {
	if restaurant != nil && restaurant.DeliveryFee != nil {
		return *restaurant.DeliveryFee
	}
	return c.cfg.DefaultDeliveryFee
}

// EstimatedMinutes returns the restaurant's delivery ETA, or the platform
// default when the record carries none.
func (c *Calculator) EstimatedMinutes(restaurant *models.Restaurant) int {
	if restaurant != nil && restaurant.EstimatedDeliveryMinutes != nil {
		return *restaurant.EstimatedDeliveryMinutes
	}
	return c.cfg.DefaultDeliveryMinutes
}
