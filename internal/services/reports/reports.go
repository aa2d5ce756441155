// Package reports computes the dashboard report structures. Every method is a
// pure function of the loaded dataset and an inclusive date range: filter the
// relevant table by its timestamp column, join by key lookups, aggregate,
// rank. Empty inputs surface as an explicit no-data status, never as a mean
// over zero rows.
package reports

import (
	"math"
	"sort"
	"time"

	"shopdash/internal/models"
)

// Service provides report calculation over a loaded dataset
type Service struct{}

// New creates a new report service
func New() *Service {
	return &Service{}
}

// Summary bundles the headline KPI metrics for the range
func (s *Service) Summary(ds *models.Dataset, start, end time.Time) *models.SummaryReport {
	return &models.SummaryReport{
		DeliveryTime: s.AverageDeliveryTime(ds, start, end),
		Revenue:      s.RevenueSummary(ds, start, end),
		ReviewScore:  s.AverageReviewScore(ds, start, end),
		Range:        models.NewReportRange(start, end),
	}
}

// AverageDeliveryTime computes the mean delivery time in whole days over
// orders purchased in the range. Orders missing either the purchase or the
// delivery timestamp are excluded; an empty result is a no-data report.
func (s *Service) AverageDeliveryTime(ds *models.Dataset, start, end time.Time) *models.DeliveryTimeReport {
	report := &models.DeliveryTimeReport{Range: models.NewReportRange(start, end)}

	customers := ds.Customers.ByID()
	filtered := ds.Orders.FilterByPurchaseRange(start, end)

	var sum float64
	var count int
	for _, o := range filtered.Orders {
		if _, ok := customers[o.CustomerID]; !ok {
			continue
		}
		if o.DeliveredCustomerDate.IsZero() {
			continue
		}
		// Whole days, truncated: a 1.9-day delivery counts as 1 day
		days := int(o.DeliveredCustomerDate.Sub(o.PurchaseTimestamp) / (24 * time.Hour))
		sum += float64(days)
		count++
	}

	if count == 0 {
		return report
	}

	mean := sum / float64(count)
	report.HasData = true
	report.MeanDays = mean
	report.AverageDays = int(math.Round(mean))
	report.Orders = count
	return report
}

// RevenueSummary computes total revenue and items sold over orders purchased
// in the range. Cancelled orders are included here; only the daily series
// excludes them.
func (s *Service) RevenueSummary(ds *models.Dataset, start, end time.Time) *models.RevenueSummary {
	orders := ds.Orders.FilterByPurchaseRange(start, end).ByID()
	items := ds.Items.FilterByOrders(orders)

	return &models.RevenueSummary{
		HasData:      items.Len() > 0,
		TotalRevenue: items.SumPrice(),
		ItemsSold:    items.Len(),
		Range:        models.NewReportRange(start, end),
	}
}

// AverageReviewScore computes the mean review score over reviews created in
// the range. An empty result is a no-data report, never a zero score.
func (s *Service) AverageReviewScore(ds *models.Dataset, start, end time.Time) *models.ReviewScoreReport {
	report := &models.ReviewScoreReport{Range: models.NewReportRange(start, end)}

	filtered := ds.Reviews.FilterByCreationRange(start, end)
	if filtered.Len() == 0 {
		return report
	}

	report.HasData = true
	report.AverageScore = filtered.MeanScore()
	report.Reviews = filtered.Len()
	return report
}

// DailyRevenue computes the per-day revenue series over orders approved in
// the range, ascending by day. Cancelled orders are excluded, and orders
// never approved have a null timestamp and drop out of the filter.
func (s *Service) DailyRevenue(ds *models.Dataset, start, end time.Time) *models.DailyRevenueReport {
	report := &models.DailyRevenueReport{Range: models.NewReportRange(start, end)}

	orders := ds.Orders.ExcludeStatus(models.StatusCancelled).FilterByApprovedRange(start, end).ByID()

	totals := make(map[string]float64)
	for _, it := range ds.Items.Items {
		o, ok := orders[it.OrderID]
		if !ok {
			continue
		}
		day := o.ApprovedAt.Format("2006-01-02")
		totals[day] += it.Price
	}

	if len(totals) == 0 {
		return report
	}

	days := make([]string, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	sort.Strings(days)

	report.HasData = true
	for _, d := range days {
		report.Days = append(report.Days, models.DailyRevenuePoint{
			Day:          d,
			TotalRevenue: totals[d],
		})
	}
	return report
}

// PaymentBreakdown aggregates payment records of orders purchased in the
// range by payment type: transaction value summed, uses counted. Rows are
// ascending by payment type.
func (s *Service) PaymentBreakdown(ds *models.Dataset, start, end time.Time) *models.PaymentBreakdownReport {
	report := &models.PaymentBreakdownReport{Range: models.NewReportRange(start, end)}

	orders := ds.Orders.FilterByPurchaseRange(start, end).ByID()
	payments := ds.Payments.FilterByOrders(orders)

	type paymentAgg struct {
		total float64
		used  int
	}
	agg := make(map[string]*paymentAgg)
	for _, p := range payments.Payments {
		a := agg[p.Type]
		if a == nil {
			a = &paymentAgg{}
			agg[p.Type] = a
		}
		a.total += p.Value
		a.used++
	}

	if len(agg) == 0 {
		return report
	}

	types := make([]string, 0, len(agg))
	for t := range agg {
		types = append(types, t)
	}
	sort.Strings(types)

	report.HasData = true
	for _, t := range types {
		report.Methods = append(report.Methods, models.PaymentMethodStat{
			Type:             t,
			TotalTransaction: agg[t].total,
			TotalUsed:        agg[t].used,
		})
	}
	return report
}

// CategoryRevenueRanking aggregates item sales of orders purchased in the
// range by product category and ranks categories by revenue. Top is the head
// and Bottom the tail of the same descending sort, so their tie-break order
// matches; with ten or fewer categories the two overlap. Categories absent
// from the translation table are retained and flagged unrecognized; products
// without any category count under "Unknown".
func (s *Service) CategoryRevenueRanking(ds *models.Dataset, start, end time.Time) *models.CategoryRankingReport {
	report := &models.CategoryRankingReport{Range: models.NewReportRange(start, end)}

	orders := ds.Orders.FilterByPurchaseRange(start, end).ByID()
	items := ds.Items.FilterByOrders(orders)
	products := ds.Products.ByID()
	known := ds.Translations.Lookup()

	type categoryAgg struct {
		items   int
		revenue float64
	}
	agg := make(map[string]*categoryAgg)
	for _, it := range items.Items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		cat := p.Category
		if cat == "" {
			cat = models.UnknownCategory
		}
		a := agg[cat]
		if a == nil {
			a = &categoryAgg{}
			agg[cat] = a
		}
		a.items++
		a.revenue += it.Price
	}

	if len(agg) == 0 {
		return report
	}

	// Rows start in ascending category order so the descending stable sort
	// breaks revenue ties by category name.
	categories := make([]string, 0, len(agg))
	for c := range agg {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	rows := make([]models.CategoryRevenue, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, models.CategoryRevenue{
			Category:     c,
			ItemsSold:    agg[c].items,
			TotalRevenue: agg[c].revenue,
			Recognized:   known[c],
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalRevenue > rows[j].TotalRevenue
	})

	n := 5
	if len(rows) < n {
		n = len(rows)
	}

	report.HasData = true
	report.Categories = len(rows)
	report.Top = append([]models.CategoryRevenue(nil), rows[:n]...)
	report.Bottom = append([]models.CategoryRevenue(nil), rows[len(rows)-n:]...)
	return report
}

// StateCategoryBreakdown counts items sold per (customer state, category)
// over orders purchased in the range, and selects each state's best-selling
// category. Rows sort by state then category; the per-state pick takes the
// first row with the maximum count in that order.
func (s *Service) StateCategoryBreakdown(ds *models.Dataset, start, end time.Time) *models.StateCategoryReport {
	report := &models.StateCategoryReport{Range: models.NewReportRange(start, end)}

	orders := ds.Orders.FilterByPurchaseRange(start, end).ByID()
	customers := ds.Customers.ByID()
	products := ds.Products.ByID()

	counts := make(map[string]map[string]int)
	for _, it := range ds.Items.Items {
		o, ok := orders[it.OrderID]
		if !ok {
			continue
		}
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		c, ok := customers[o.CustomerID]
		if !ok {
			continue
		}
		cat := p.Category
		if cat == "" {
			cat = models.UnknownCategory
		}
		if counts[c.State] == nil {
			counts[c.State] = make(map[string]int)
		}
		counts[c.State][cat]++
	}

	if len(counts) == 0 {
		return report
	}

	states := make([]string, 0, len(counts))
	for st := range counts {
		states = append(states, st)
	}
	sort.Strings(states)

	report.HasData = true
	for _, st := range states {
		categories := make([]string, 0, len(counts[st]))
		for c := range counts[st] {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		best := models.StateCategory{State: st}
		for _, c := range categories {
			row := models.StateCategory{State: st, Category: c, ItemsSold: counts[st][c]}
			report.Breakdown = append(report.Breakdown, row)
			if row.ItemsSold > best.ItemsSold {
				best = row
			}
		}
		report.TopPerState = append(report.TopPerState, best)
	}
	return report
}

// ReviewScoreByCategory computes the mean review score per product over
// reviews created in the range, labelled by product category. Products
// without a category report as "Unknown". Rows sort ascending by product id.
func (s *Service) ReviewScoreByCategory(ds *models.Dataset, start, end time.Time) *models.CategoryReviewReport {
	report := &models.CategoryReviewReport{Range: models.NewReportRange(start, end)}

	reviews := ds.Reviews.FilterByCreationRange(start, end).ByOrderID()
	products := ds.Products.ByID()

	type scoreAgg struct {
		sum   int
		count int
	}
	agg := make(map[string]*scoreAgg)
	for _, it := range ds.Items.Items {
		for _, r := range reviews[it.OrderID] {
			a := agg[it.ProductID]
			if a == nil {
				a = &scoreAgg{}
				agg[it.ProductID] = a
			}
			a.sum += r.Score
			a.count++
		}
	}

	productIDs := make([]string, 0, len(agg))
	for id := range agg {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	for _, id := range productIDs {
		p, ok := products[id]
		if !ok {
			continue
		}
		cat := p.Category
		if cat == "" {
			cat = models.UnknownCategory
		}
		report.Products = append(report.Products, models.ProductReviewScore{
			ProductID:    id,
			Category:     cat,
			AverageScore: float64(agg[id].sum) / float64(agg[id].count),
		})
	}

	report.HasData = len(report.Products) > 0
	return report
}

// GeolocatedOrders maps orders purchased in the range to the lat/lng samples
// of their customer's zip prefix. One order yields one point per sample: the
// fan-out weights map density by sample count, and is kept on purpose. A
// zero-row join is an explicit empty report.
func (s *Service) GeolocatedOrders(ds *models.Dataset, start, end time.Time) *models.GeolocationReport {
	report := &models.GeolocationReport{Range: models.NewReportRange(start, end)}

	customers := ds.Customers.ByID()
	byPrefix := ds.Geolocation.ByZipPrefix()

	filtered := ds.Orders.FilterByPurchaseRange(start, end)
	for _, o := range filtered.Orders {
		c, ok := customers[o.CustomerID]
		if !ok {
			continue
		}
		report.Orders++
		for _, g := range byPrefix[c.ZipCodePrefix] {
			report.Points = append(report.Points, models.GeoOrderPoint{
				OrderID:       o.ID,
				CustomerID:    c.ID,
				State:         c.State,
				ZipCodePrefix: c.ZipCodePrefix,
				Lat:           g.Lat,
				Lng:           g.Lng,
			})
		}
	}

	report.HasData = len(report.Points) > 0
	return report
}
