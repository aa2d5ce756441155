package models

import "time"

// OrderItem represents one line item of an order. ItemID is the 1-based
// sequence of the item within its order, so counting ItemID values counts
// items sold.
type OrderItem struct {
	OrderID           string    `json:"order_id"`
	ItemID            int       `json:"order_item_id"`
	ProductID         string    `json:"product_id"`
	SellerID          string    `json:"seller_id"`
	ShippingLimitDate time.Time `json:"shipping_limit_date"`
	Price             float64   `json:"price"`
	FreightValue      float64   `json:"freight_value"`
}

// OrderItemSet wraps a slice of order items with filtering/aggregation methods
type OrderItemSet struct {
	Items []OrderItem
}

// NewOrderItemSet creates a new OrderItemSet from a slice
func NewOrderItemSet(items []OrderItem) *OrderItemSet {
	return &OrderItemSet{Items: items}
}

// Len returns the number of items
func (is *OrderItemSet) Len() int {
	return len(is.Items)
}

// FilterByOrders returns the items whose order id appears in the given set of
// orders, preserving item order. This is the inner-join step against an
// already filtered order table.
func (is *OrderItemSet) FilterByOrders(orders map[string]Order) *OrderItemSet {
	result := &OrderItemSet{}
	for _, it := range is.Items {
		if _, ok := orders[it.OrderID]; ok {
			result.Items = append(result.Items, it)
		}
	}
	return result
}

// SumPrice returns the sum of item prices
func (is *OrderItemSet) SumPrice() float64 {
	var sum float64
	for _, it := range is.Items {
		sum += it.Price
	}
	return sum
}
