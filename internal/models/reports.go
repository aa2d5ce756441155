package models

import "time"

// ReportRange echoes the date range a report was computed for
type ReportRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewReportRange formats a date range for report output
func NewReportRange(start, end time.Time) ReportRange {
	return ReportRange{
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
	}
}

// DeliveryTimeReport holds the average delivery time KPI.
// HasData distinguishes "no deliverable orders in range" from an average of
// zero days. MeanDays carries the unrounded mean; AverageDays is the rounded
// value shown by the presentation layer.
type DeliveryTimeReport struct {
	HasData     bool        `json:"has_data"`
	AverageDays int         `json:"average_days"`
	MeanDays    float64     `json:"mean_days"`
	Orders      int         `json:"orders"`
	Range       ReportRange `json:"range"`
}

// RevenueSummary holds total revenue and items sold across the range.
// Cancelled orders are included here (unlike the daily series).
type RevenueSummary struct {
	HasData      bool        `json:"has_data"`
	TotalRevenue float64     `json:"total_revenue"`
	ItemsSold    int         `json:"items_sold"`
	Range        ReportRange `json:"range"`
}

// ReviewScoreReport holds the average review score KPI
type ReviewScoreReport struct {
	HasData      bool        `json:"has_data"`
	AverageScore float64     `json:"average_score"`
	Reviews      int         `json:"reviews"`
	Range        ReportRange `json:"range"`
}

// SummaryReport bundles the headline KPI metrics into one document
type SummaryReport struct {
	DeliveryTime *DeliveryTimeReport `json:"delivery_time"`
	Revenue      *RevenueSummary     `json:"revenue"`
	ReviewScore  *ReviewScoreReport  `json:"review_score"`
	Range        ReportRange         `json:"range"`
}

// DailyRevenuePoint is one day of the revenue series
type DailyRevenuePoint struct {
	Day          string  `json:"day"` // "2006-01-02"
	TotalRevenue float64 `json:"total_revenue"`
}

// DailyRevenueReport holds the per-day revenue series, ascending by day.
// Cancelled orders are excluded, and only approved orders contribute.
type DailyRevenueReport struct {
	HasData bool                `json:"has_data"`
	Days    []DailyRevenuePoint `json:"days"`
	Range   ReportRange         `json:"range"`
}

// PaymentMethodStat is one payment type's totals
type PaymentMethodStat struct {
	Type             string  `json:"payment_type"`
	TotalTransaction float64 `json:"total_transaction"`
	TotalUsed        int     `json:"total_used"`
}

// PaymentBreakdownReport holds per-payment-type totals, ascending by type name
type PaymentBreakdownReport struct {
	HasData bool                `json:"has_data"`
	Methods []PaymentMethodStat `json:"methods"`
	Range   ReportRange         `json:"range"`
}

// CategoryRevenue is one product category's aggregated sales
type CategoryRevenue struct {
	Category     string  `json:"category"`
	ItemsSold    int     `json:"total_items_sold"`
	TotalRevenue float64 `json:"total_revenue"`
	// Recognized reports whether the category appears in the translation
	// table; unmapped categories are retained, not dropped.
	Recognized bool `json:"recognized"`
}

// CategoryRankingReport holds the top-5 and bottom-5 categories by revenue.
// Both slices come from the same descending sort: Top is its head, Bottom its
// tail, so with ten or fewer categories the two overlap.
type CategoryRankingReport struct {
	HasData    bool              `json:"has_data"`
	Categories int               `json:"categories"`
	Top        []CategoryRevenue `json:"top"`
	Bottom     []CategoryRevenue `json:"bottom"`
	Range      ReportRange       `json:"range"`
}

// StateCategory is one (state, category) cell of the items-sold breakdown
type StateCategory struct {
	State     string `json:"customer_state"`
	Category  string `json:"category"`
	ItemsSold int    `json:"total_items_sold"`
}

// StateCategoryReport holds the full (state, category) breakdown plus the
// single best-selling category per state. Exactly one row per state appears
// in TopPerState; ties break toward the first category in sorted order.
type StateCategoryReport struct {
	HasData     bool            `json:"has_data"`
	Breakdown   []StateCategory `json:"breakdown"`
	TopPerState []StateCategory `json:"top_per_state"`
	Range       ReportRange     `json:"range"`
}

// ProductReviewScore is one product's mean review score with its category
type ProductReviewScore struct {
	ProductID    string  `json:"product_id"`
	Category     string  `json:"category"`
	AverageScore float64 `json:"average_review_score"`
}

// CategoryReviewReport holds per-product mean review scores labelled by
// category, ascending by product id
type CategoryReviewReport struct {
	HasData  bool                 `json:"has_data"`
	Products []ProductReviewScore `json:"products"`
	Range    ReportRange          `json:"range"`
}

// GeoOrderPoint is one plotted point of the geolocation scatter. An order
// produces one point per lat/lng sample recorded for its customer's zip
// prefix, so points outnumber orders when prefixes carry several samples.
type GeoOrderPoint struct {
	OrderID       string  `json:"order_id"`
	CustomerID    string  `json:"customer_id"`
	State         string  `json:"customer_state"`
	ZipCodePrefix string  `json:"zip_code_prefix"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
}

// GeolocationReport holds the geolocated order points for the range.
// Orders counts the filtered orders that matched a customer; len(Points) may
// exceed it due to the per-sample fan-out.
type GeolocationReport struct {
	HasData bool            `json:"has_data"`
	Orders  int             `json:"orders"`
	Points  []GeoOrderPoint `json:"points"`
	Range   ReportRange     `json:"range"`
}
