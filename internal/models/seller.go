package models

// Seller represents a single seller row. Loaded for completeness of the
// dataset snapshot; no current report aggregates by seller.
type Seller struct {
	ID            string `json:"seller_id"`
	ZipCodePrefix string `json:"seller_zip_code_prefix"`
	City          string `json:"seller_city"`
	State         string `json:"seller_state"`
}

// SellerSet wraps a slice of sellers
type SellerSet struct {
	Sellers []Seller
}

// NewSellerSet creates a new SellerSet from a slice
func NewSellerSet(sellers []Seller) *SellerSet {
	return &SellerSet{Sellers: sellers}
}

// Len returns the number of sellers
func (ss *SellerSet) Len() int {
	return len(ss.Sellers)
}

// ByID returns a lookup map keyed by seller id
func (ss *SellerSet) ByID() map[string]Seller {
	byID := make(map[string]Seller, len(ss.Sellers))
	for _, s := range ss.Sellers {
		byID[s.ID] = s
	}
	return byID
}
