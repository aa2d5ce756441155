package models

// Customer represents a single customer row
type Customer struct {
	ID            string `json:"customer_id"`
	UniqueID      string `json:"customer_unique_id"`
	ZipCodePrefix string `json:"customer_zip_code_prefix"`
	City          string `json:"customer_city"`
	State         string `json:"customer_state"`
}

// CustomerSet wraps a slice of customers with lookup methods
type CustomerSet struct {
	Customers []Customer
}

// NewCustomerSet creates a new CustomerSet from a slice
func NewCustomerSet(customers []Customer) *CustomerSet {
	return &CustomerSet{Customers: customers}
}

// Len returns the number of customers
func (cs *CustomerSet) Len() int {
	return len(cs.Customers)
}

// ByID returns a lookup map keyed by customer id
func (cs *CustomerSet) ByID() map[string]Customer {
	byID := make(map[string]Customer, len(cs.Customers))
	for _, c := range cs.Customers {
		byID[c.ID] = c
	}
	return byID
}
