package models

// OrderPayment represents one payment record for an order. Orders can carry
// several (installments, vouchers combined with cards).
type OrderPayment struct {
	OrderID      string  `json:"order_id"`
	Sequential   int     `json:"payment_sequential"`
	Type         string  `json:"payment_type"`
	Installments int     `json:"payment_installments"`
	Value        float64 `json:"payment_value"`
}

// OrderPaymentSet wraps a slice of payments with filtering methods
type OrderPaymentSet struct {
	Payments []OrderPayment
}

// NewOrderPaymentSet creates a new OrderPaymentSet from a slice
func NewOrderPaymentSet(payments []OrderPayment) *OrderPaymentSet {
	return &OrderPaymentSet{Payments: payments}
}

// Len returns the number of payment records
func (ps *OrderPaymentSet) Len() int {
	return len(ps.Payments)
}

// FilterByOrders returns the payments whose order id appears in the given set
// of orders, preserving record order.
func (ps *OrderPaymentSet) FilterByOrders(orders map[string]Order) *OrderPaymentSet {
	result := &OrderPaymentSet{}
	for _, p := range ps.Payments {
		if _, ok := orders[p.OrderID]; ok {
			result.Payments = append(result.Payments, p)
		}
	}
	return result
}
