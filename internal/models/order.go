package models

import "time"

// Order statuses we care about. The dataset carries more (shipped, invoiced,
// processing, ...) but only cancellation changes any report.
const StatusCancelled = "cancelled"

// Order represents a single order header row.
// Timestamp fields use the zero time.Time as null: the loader could not parse
// the source value, and the row is excluded from any filter on that column.
type Order struct {
	ID                    string    `json:"order_id"`
	CustomerID            string    `json:"customer_id"`
	Status                string    `json:"order_status"`
	PurchaseTimestamp     time.Time `json:"order_purchase_timestamp"`
	ApprovedAt            time.Time `json:"order_approved_at"`
	DeliveredCustomerDate time.Time `json:"order_delivered_customer_date"`
}

// OrderSet wraps a slice of orders with filtering/lookup methods
type OrderSet struct {
	Orders []Order
}

// NewOrderSet creates a new OrderSet from a slice
func NewOrderSet(orders []Order) *OrderSet {
	return &OrderSet{Orders: orders}
}

// Len returns the number of orders
func (os *OrderSet) Len() int {
	return len(os.Orders)
}

// FilterByPurchaseRange returns orders whose purchase timestamp falls within
// the date range (inclusive). Orders with a null purchase timestamp are excluded.
func (os *OrderSet) FilterByPurchaseRange(start, end time.Time) *OrderSet {
	result := &OrderSet{}
	startDay, endDay := DayBounds(start, end)
	for _, o := range os.Orders {
		if o.PurchaseTimestamp.IsZero() {
			continue
		}
		if !o.PurchaseTimestamp.Before(startDay) && !o.PurchaseTimestamp.After(endDay) {
			result.Orders = append(result.Orders, o)
		}
	}
	return result
}

// FilterByApprovedRange returns orders whose approval timestamp falls within
// the date range (inclusive). Orders that were never approved (null) are excluded.
func (os *OrderSet) FilterByApprovedRange(start, end time.Time) *OrderSet {
	result := &OrderSet{}
	startDay, endDay := DayBounds(start, end)
	for _, o := range os.Orders {
		if o.ApprovedAt.IsZero() {
			continue
		}
		if !o.ApprovedAt.Before(startDay) && !o.ApprovedAt.After(endDay) {
			result.Orders = append(result.Orders, o)
		}
	}
	return result
}

// ExcludeStatus returns orders whose status differs from the given status
func (os *OrderSet) ExcludeStatus(status string) *OrderSet {
	result := &OrderSet{}
	for _, o := range os.Orders {
		if o.Status != status {
			result.Orders = append(result.Orders, o)
		}
	}
	return result
}

// ByID returns a lookup map keyed by order id
func (os *OrderSet) ByID() map[string]Order {
	byID := make(map[string]Order, len(os.Orders))
	for _, o := range os.Orders {
		byID[o.ID] = o
	}
	return byID
}

// MinPurchaseDate returns the earliest non-null purchase timestamp
func (os *OrderSet) MinPurchaseDate() time.Time {
	var minDate time.Time
	for _, o := range os.Orders {
		if o.PurchaseTimestamp.IsZero() {
			continue
		}
		if minDate.IsZero() || o.PurchaseTimestamp.Before(minDate) {
			minDate = o.PurchaseTimestamp
		}
	}
	return minDate
}

// MaxPurchaseDate returns the latest non-null purchase timestamp
func (os *OrderSet) MaxPurchaseDate() time.Time {
	var maxDate time.Time
	for _, o := range os.Orders {
		if o.PurchaseTimestamp.IsZero() {
			continue
		}
		if o.PurchaseTimestamp.After(maxDate) {
			maxDate = o.PurchaseTimestamp
		}
	}
	return maxDate
}

// DayBounds expands a date range to whole days: start at midnight, end just
// before the following midnight, so both endpoint days are fully included.
func DayBounds(start, end time.Time) (time.Time, time.Time) {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())
	return startDay, endDay
}
