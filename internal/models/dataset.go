package models

import "time"

// Dataset holds all loaded tables. It is built once at startup and treated as
// immutable from then on; every report is a pure function of the dataset and
// a date range.
type Dataset struct {
	Orders       *OrderSet
	Customers    *CustomerSet
	Items        *OrderItemSet
	Payments     *OrderPaymentSet
	Reviews      *OrderReviewSet
	Products     *ProductSet
	Translations *CategoryTranslationSet
	Geolocation  *GeolocationSet
	Sellers      *SellerSet
}

// MinDate returns the earliest order purchase date in the dataset
func (d *Dataset) MinDate() time.Time {
	return d.Orders.MinPurchaseDate()
}

// MaxDate returns the latest order purchase date in the dataset
func (d *Dataset) MaxDate() time.Time {
	return d.Orders.MaxPurchaseDate()
}
