// Package dataloader reads the e-commerce dataset snapshot from CSV files
// into typed in-memory tables. Schemas are fixed and known; a missing column
// or file fails the load, a malformed timestamp only nulls the field.
package dataloader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"shopdash/internal/models"
	"shopdash/internal/services/storage"
)

// Dataset file names, fixed by the upstream snapshot
const (
	CustomersFile           = "customers_dataset.csv"
	GeolocationFile         = "geolocation_dataset.csv"
	OrderItemsFile          = "order_items_dataset.csv"
	OrderPaymentsFile       = "order_payments_dataset.csv"
	OrderReviewsFile        = "order_reviews_dataset.csv"
	OrdersFile              = "orders_dataset.csv"
	CategoryTranslationFile = "product_category_name_translation.csv"
	ProductsFile            = "products_dataset.csv"
	SellersFile             = "sellers_dataset.csv"
)

// DataLoader handles loading of the dataset snapshot from CSV files
type DataLoader struct {
	DataDirectory string
	store         *storage.Storage
}

// New creates a new DataLoader
func New(dataDirectory string, store *storage.Storage) *DataLoader {
	return &DataLoader{
		DataDirectory: dataDirectory,
		store:         store,
	}
}

// table is a parsed CSV file with a validated column index
type table struct {
	name     string
	colIndex map[string]int
	rows     [][]string
}

// get returns the value of the named column for a row. Required columns are
// validated up front; optional ones (and short rows) fall back to "".
func (t *table) get(row []string, col string) string {
	idx, ok := t.colIndex[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// LoadDataset loads all dataset tables. Any structural problem (missing file,
// missing expected column) aborts the load; downstream code assumes the fixed
// schema and must never see a partially-typed table.
func (dl *DataLoader) LoadDataset() (*models.Dataset, error) {
	orders, err := dl.loadOrders()
	if err != nil {
		return nil, err
	}
	customers, err := dl.loadCustomers()
	if err != nil {
		return nil, err
	}
	items, err := dl.loadOrderItems()
	if err != nil {
		return nil, err
	}
	payments, err := dl.loadPayments()
	if err != nil {
		return nil, err
	}
	reviews, err := dl.loadReviews()
	if err != nil {
		return nil, err
	}
	products, err := dl.loadProducts()
	if err != nil {
		return nil, err
	}
	translations, err := dl.loadCategoryTranslations()
	if err != nil {
		return nil, err
	}
	geolocation, err := dl.loadGeolocation()
	if err != nil {
		return nil, err
	}
	sellers, err := dl.loadSellers()
	if err != nil {
		return nil, err
	}

	log.Printf("Dataset loaded: %d orders, %d customers, %d items, %d payments, %d reviews, %d products, %d geolocation samples, %d sellers",
		orders.Len(), customers.Len(), items.Len(), payments.Len(), reviews.Len(), products.Len(), geolocation.Len(), sellers.Len())

	return &models.Dataset{
		Orders:       orders,
		Customers:    customers,
		Items:        items,
		Payments:     payments,
		Reviews:      reviews,
		Products:     products,
		Translations: translations,
		Geolocation:  geolocation,
		Sellers:      sellers,
	}, nil
}

// readTable parses one CSV file and validates that every required column is
// present in its header.
func (dl *DataLoader) readTable(filename string, required []string) (*table, error) {
	path := filepath.Join(dl.DataDirectory, filename)

	file, err := dl.store.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header of %s: %w", filename, err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		col = strings.TrimSpace(col)
		if _, exists := colIndex[col]; !exists {
			colIndex[col] = i
		}
	}

	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%s: missing expected column %q", filename, col)
		}
	}

	var rows [][]string
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: %s: error reading line %d: %v", filename, lineNum+1, err)
			lineNum++
			continue
		}
		lineNum++
		rows = append(rows, record)
	}

	return &table{name: filename, colIndex: colIndex, rows: rows}, nil
}

func (dl *DataLoader) loadOrders() (*models.OrderSet, error) {
	t, err := dl.readTable(OrdersFile, []string{
		"order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_approved_at", "order_delivered_customer_date",
	})
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(t.rows))
	for _, row := range t.rows {
		orders = append(orders, models.Order{
			ID:                    t.get(row, "order_id"),
			CustomerID:            t.get(row, "customer_id"),
			Status:                t.get(row, "order_status"),
			PurchaseTimestamp:     parseTimestamp(t.get(row, "order_purchase_timestamp")),
			ApprovedAt:            parseTimestamp(t.get(row, "order_approved_at")),
			DeliveredCustomerDate: parseTimestamp(t.get(row, "order_delivered_customer_date")),
		})
	}
	return models.NewOrderSet(orders), nil
}

func (dl *DataLoader) loadCustomers() (*models.CustomerSet, error) {
	t, err := dl.readTable(CustomersFile, []string{
		"customer_id", "customer_unique_id", "customer_zip_code_prefix", "customer_city", "customer_state",
	})
	if err != nil {
		return nil, err
	}

	customers := make([]models.Customer, 0, len(t.rows))
	for _, row := range t.rows {
		customers = append(customers, models.Customer{
			ID:            t.get(row, "customer_id"),
			UniqueID:      t.get(row, "customer_unique_id"),
			ZipCodePrefix: t.get(row, "customer_zip_code_prefix"),
			City:          t.get(row, "customer_city"),
			State:         t.get(row, "customer_state"),
		})
	}
	return models.NewCustomerSet(customers), nil
}

func (dl *DataLoader) loadOrderItems() (*models.OrderItemSet, error) {
	t, err := dl.readTable(OrderItemsFile, []string{
		"order_id", "order_item_id", "product_id", "seller_id", "price", "freight_value",
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(t.rows))
	for _, row := range t.rows {
		items = append(items, models.OrderItem{
			OrderID:           t.get(row, "order_id"),
			ItemID:            parseInt(t.get(row, "order_item_id")),
			ProductID:         t.get(row, "product_id"),
			SellerID:          t.get(row, "seller_id"),
			ShippingLimitDate: parseTimestamp(t.get(row, "shipping_limit_date")),
			Price:             parseFloat(t.get(row, "price")),
			FreightValue:      parseFloat(t.get(row, "freight_value")),
		})
	}
	return models.NewOrderItemSet(items), nil
}

func (dl *DataLoader) loadPayments() (*models.OrderPaymentSet, error) {
	t, err := dl.readTable(OrderPaymentsFile, []string{
		"order_id", "payment_sequential", "payment_type", "payment_installments", "payment_value",
	})
	if err != nil {
		return nil, err
	}

	payments := make([]models.OrderPayment, 0, len(t.rows))
	for _, row := range t.rows {
		payments = append(payments, models.OrderPayment{
			OrderID:      t.get(row, "order_id"),
			Sequential:   parseInt(t.get(row, "payment_sequential")),
			Type:         t.get(row, "payment_type"),
			Installments: parseInt(t.get(row, "payment_installments")),
			Value:        parseFloat(t.get(row, "payment_value")),
		})
	}
	return models.NewOrderPaymentSet(payments), nil
}

func (dl *DataLoader) loadReviews() (*models.OrderReviewSet, error) {
	t, err := dl.readTable(OrderReviewsFile, []string{
		"review_id", "order_id", "review_score", "review_creation_date",
	})
	if err != nil {
		return nil, err
	}

	reviews := make([]models.OrderReview, 0, len(t.rows))
	for _, row := range t.rows {
		reviews = append(reviews, models.OrderReview{
			ReviewID:     t.get(row, "review_id"),
			OrderID:      t.get(row, "order_id"),
			Score:        parseInt(t.get(row, "review_score")),
			CreationDate: parseTimestamp(t.get(row, "review_creation_date")),
		})
	}
	return models.NewOrderReviewSet(reviews), nil
}

func (dl *DataLoader) loadProducts() (*models.ProductSet, error) {
	t, err := dl.readTable(ProductsFile, []string{
		"product_id", "product_category_name",
	})
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(t.rows))
	for _, row := range t.rows {
		products = append(products, models.Product{
			ID:       t.get(row, "product_id"),
			Category: t.get(row, "product_category_name"),
		})
	}
	return models.NewProductSet(products), nil
}

func (dl *DataLoader) loadCategoryTranslations() (*models.CategoryTranslationSet, error) {
	t, err := dl.readTable(CategoryTranslationFile, []string{
		"product_category_name", "product_category_name_english",
	})
	if err != nil {
		return nil, err
	}

	translations := make([]models.CategoryTranslation, 0, len(t.rows))
	for _, row := range t.rows {
		translations = append(translations, models.CategoryTranslation{
			Category: t.get(row, "product_category_name"),
			English:  t.get(row, "product_category_name_english"),
		})
	}
	return models.NewCategoryTranslationSet(translations), nil
}

func (dl *DataLoader) loadGeolocation() (*models.GeolocationSet, error) {
	t, err := dl.readTable(GeolocationFile, []string{
		"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng",
	})
	if err != nil {
		return nil, err
	}

	locations := make([]models.Geolocation, 0, len(t.rows))
	for _, row := range t.rows {
		locations = append(locations, models.Geolocation{
			ZipCodePrefix: t.get(row, "geolocation_zip_code_prefix"),
			Lat:           parseFloat(t.get(row, "geolocation_lat")),
			Lng:           parseFloat(t.get(row, "geolocation_lng")),
			City:          t.get(row, "geolocation_city"),
			State:         t.get(row, "geolocation_state"),
		})
	}
	return models.NewGeolocationSet(locations), nil
}

func (dl *DataLoader) loadSellers() (*models.SellerSet, error) {
	t, err := dl.readTable(SellersFile, []string{
		"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state",
	})
	if err != nil {
		return nil, err
	}

	sellers := make([]models.Seller, 0, len(t.rows))
	for _, row := range t.rows {
		sellers = append(sellers, models.Seller{
			ID:            t.get(row, "seller_id"),
			ZipCodePrefix: t.get(row, "seller_zip_code_prefix"),
			City:          t.get(row, "seller_city"),
			State:         t.get(row, "seller_state"),
		})
	}
	return models.NewSellerSet(sellers), nil
}

// parseTimestamp tries the snapshot's timestamp formats. An unparseable or
// empty value returns the zero time: the field is null and the row drops out
// of filters on that column, never out of the load.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

// parseFloat parses a currency or coordinate value, tolerating blanks
func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// parseInt parses an integer field, tolerating blanks
func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
