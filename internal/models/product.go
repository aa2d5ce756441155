package models

// UnknownCategory stands in for products whose category is missing from the
// source data.
const UnknownCategory = "Unknown"

// Product represents a single product row. Category may be empty in the
// source data; reports replace it with UnknownCategory.
type Product struct {
	ID       string `json:"product_id"`
	Category string `json:"product_category_name"`
}

// ProductSet wraps a slice of products with lookup methods
type ProductSet struct {
	Products []Product
}

// NewProductSet creates a new ProductSet from a slice
func NewProductSet(products []Product) *ProductSet {
	return &ProductSet{Products: products}
}

// Len returns the number of products
func (ps *ProductSet) Len() int {
	return len(ps.Products)
}

// ByID returns a lookup map keyed by product id
func (ps *ProductSet) ByID() map[string]Product {
	byID := make(map[string]Product, len(ps.Products))
	for _, p := range ps.Products {
		byID[p.ID] = p
	}
	return byID
}

// CategoryTranslation maps a raw category name to its display name
type CategoryTranslation struct {
	Category string `json:"product_category_name"`
	English  string `json:"product_category_name_english"`
}

// CategoryTranslationSet wraps the category translation table
type CategoryTranslationSet struct {
	Translations []CategoryTranslation
}

// NewCategoryTranslationSet creates a new CategoryTranslationSet from a slice
func NewCategoryTranslationSet(translations []CategoryTranslation) *CategoryTranslationSet {
	return &CategoryTranslationSet{Translations: translations}
}

// Len returns the number of translation rows
func (ts *CategoryTranslationSet) Len() int {
	return len(ts.Translations)
}

// Has reports whether the category appears in the translation table. The
// table acts as a validity filter: categories joined against it keep their
// raw name either way, only the recognized flag differs.
func (ts *CategoryTranslationSet) Has(category string) bool {
	for _, tr := range ts.Translations {
		if tr.Category == category {
			return true
		}
	}
	return false
}

// Lookup returns a membership map over raw category names
func (ts *CategoryTranslationSet) Lookup() map[string]bool {
	known := make(map[string]bool, len(ts.Translations))
	for _, tr := range ts.Translations {
		known[tr.Category] = true
	}
	return known
}
