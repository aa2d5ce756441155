package reports

import (
	"math"
	"testing"
	"time"

	"shopdash/internal/models"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", s, err)
	}
	return parsed
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed
}

// newTestDataset builds the same small dataset as testdata/: four orders in
// Sep-Oct 2016 (one cancelled, one undelivered), one later order with an
// unparseable approval timestamp, three products (one uncategorized), and a
// zip prefix with two geolocation samples.
func newTestDataset(t *testing.T) *models.Dataset {
	t.Helper()

	orders := []models.Order{
		{ID: "o1", CustomerID: "c1", Status: "delivered", PurchaseTimestamp: ts(t, "2016-09-18 10:00:00"), ApprovedAt: ts(t, "2016-09-20 09:00:00"), DeliveredCustomerDate: ts(t, "2016-09-28 10:00:00")},
		{ID: "o2", CustomerID: "c2", Status: "cancelled", PurchaseTimestamp: ts(t, "2016-09-19 11:00:00"), ApprovedAt: ts(t, "2016-09-20 12:00:00")},
		{ID: "o3", CustomerID: "c3", Status: "delivered", PurchaseTimestamp: ts(t, "2016-10-01 08:00:00"), ApprovedAt: ts(t, "2016-10-02 08:00:00"), DeliveredCustomerDate: ts(t, "2016-10-06 20:00:00")},
		{ID: "o4", CustomerID: "c4", Status: "shipped", PurchaseTimestamp: ts(t, "2016-10-10 09:30:00"), ApprovedAt: ts(t, "2016-10-11 10:00:00")},
		// Approval timestamp was unparseable in the source: null
		{ID: "o5", CustomerID: "c1", Status: "delivered", PurchaseTimestamp: ts(t, "2016-11-20 10:00:00"), DeliveredCustomerDate: ts(t, "2016-11-25 10:00:00")},
	}

	customers := []models.Customer{
		{ID: "c1", UniqueID: "u1", ZipCodePrefix: "01001", City: "sao paulo", State: "SP"},
		{ID: "c2", UniqueID: "u2", ZipCodePrefix: "20000", City: "rio de janeiro", State: "RJ"},
		{ID: "c3", UniqueID: "u3", ZipCodePrefix: "01001", City: "sao paulo", State: "SP"},
		{ID: "c4", UniqueID: "u4", ZipCodePrefix: "30000", City: "belo horizonte", State: "MG"},
	}

	items := []models.OrderItem{
		{OrderID: "o1", ItemID: 1, ProductID: "p1", SellerID: "s1", Price: 100},
		{OrderID: "o2", ItemID: 1, ProductID: "p2", SellerID: "s1", Price: 50},
		{OrderID: "o3", ItemID: 1, ProductID: "p1", SellerID: "s2", Price: 40},
		{OrderID: "o3", ItemID: 2, ProductID: "p2", SellerID: "s2", Price: 60},
		{OrderID: "o4", ItemID: 1, ProductID: "p3", SellerID: "s2", Price: 80},
		{OrderID: "o5", ItemID: 1, ProductID: "p1", SellerID: "s1", Price: 30},
	}

	payments := []models.OrderPayment{
		{OrderID: "o1", Sequential: 1, Type: "credit_card", Installments: 1, Value: 110},
		{OrderID: "o2", Sequential: 1, Type: "boleto", Installments: 1, Value: 55},
		{OrderID: "o3", Sequential: 1, Type: "credit_card", Installments: 2, Value: 104},
		{OrderID: "o3", Sequential: 2, Type: "voucher", Installments: 1, Value: 6},
		{OrderID: "o4", Sequential: 1, Type: "boleto", Installments: 1, Value: 88},
		{OrderID: "o5", Sequential: 1, Type: "credit_card", Installments: 1, Value: 33},
	}

	reviews := []models.OrderReview{
		{ReviewID: "r1", OrderID: "o1", Score: 5, CreationDate: ts(t, "2016-09-29 00:00:00")},
		{ReviewID: "r2", OrderID: "o3", Score: 4, CreationDate: ts(t, "2016-10-07 00:00:00")},
		{ReviewID: "r3", OrderID: "o4", Score: 2, CreationDate: ts(t, "2016-10-13 00:00:00")},
		// Creation date was unparseable in the source: null, excluded everywhere
		{ReviewID: "r4", OrderID: "o5", Score: 3},
	}

	products := []models.Product{
		{ID: "p1", Category: "electronics"},
		{ID: "p2", Category: "furniture"},
		{ID: "p3", Category: ""},
	}

	translations := []models.CategoryTranslation{
		{Category: "electronics", English: "electronics"},
	}

	geo := []models.Geolocation{
		{ZipCodePrefix: "01001", Lat: -23.55, Lng: -46.63, City: "sao paulo", State: "SP"},
		{ZipCodePrefix: "01001", Lat: -23.56, Lng: -46.64, City: "sao paulo", State: "SP"},
		{ZipCodePrefix: "20000", Lat: -22.90, Lng: -43.20, City: "rio de janeiro", State: "RJ"},
	}

	sellers := []models.Seller{
		{ID: "s1", ZipCodePrefix: "01001", City: "sao paulo", State: "SP"},
		{ID: "s2", ZipCodePrefix: "20000", City: "rio de janeiro", State: "RJ"},
	}

	return &models.Dataset{
		Orders:       models.NewOrderSet(orders),
		Customers:    models.NewCustomerSet(customers),
		Items:        models.NewOrderItemSet(items),
		Payments:     models.NewOrderPaymentSet(payments),
		Reviews:      models.NewOrderReviewSet(reviews),
		Products:     models.NewProductSet(products),
		Translations: models.NewCategoryTranslationSet(translations),
		Geolocation:  models.NewGeolocationSet(geo),
		Sellers:      models.NewSellerSet(sellers),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAverageDeliveryTime(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.AverageDeliveryTime(ds, day(t, "2016-09-15"), day(t, "2016-10-15"))

	if !rep.HasData {
		t.Fatal("expected data for range")
	}
	// o1: 10 whole days, o3: 5 days 12 hours -> 5. o2/o4 undelivered, o5 out of range.
	if rep.Orders != 2 {
		t.Errorf("Orders = %d, want 2", rep.Orders)
	}
	if !almostEqual(rep.MeanDays, 7.5) {
		t.Errorf("MeanDays = %v, want 7.5", rep.MeanDays)
	}
	if rep.AverageDays != 8 {
		t.Errorf("AverageDays = %d, want 8", rep.AverageDays)
	}
}

func TestAverageDeliveryTimeNoData(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.AverageDeliveryTime(ds, day(t, "2015-01-01"), day(t, "2015-12-31"))

	if rep.HasData {
		t.Error("expected no-data status for empty range")
	}
	if rep.AverageDays != 0 || rep.MeanDays != 0 {
		t.Errorf("no-data report should carry zero values, got %d / %v", rep.AverageDays, rep.MeanDays)
	}
}

func TestRevenueSummaryIncludesCancelled(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.RevenueSummary(ds, day(t, "2016-09-15"), day(t, "2016-10-15"))

	if !rep.HasData {
		t.Fatal("expected data for range")
	}
	// o1 100 + o2 50 (cancelled, still counted) + o3 100 + o4 80
	if !almostEqual(rep.TotalRevenue, 330) {
		t.Errorf("TotalRevenue = %v, want 330", rep.TotalRevenue)
	}
	if rep.ItemsSold != 5 {
		t.Errorf("ItemsSold = %d, want 5", rep.ItemsSold)
	}
}

func TestRevenueSummaryVsDailySeriesAsymmetry(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()
	start, end := day(t, "2016-09-15"), day(t, "2016-10-15")

	summary := svc.RevenueSummary(ds, start, end)
	daily := svc.DailyRevenue(ds, start, end)

	var dailyTotal float64
	for _, d := range daily.Days {
		dailyTotal += d.TotalRevenue
	}

	// The summary keeps cancelled orders, the daily series drops them. The
	// only cancelled order in range is o2 with a 50 item.
	const cancelledRevenue = 50
	if !almostEqual(summary.TotalRevenue, dailyTotal+cancelledRevenue) {
		t.Errorf("summary %v != daily %v + cancelled %v", summary.TotalRevenue, dailyTotal, cancelledRevenue)
	}
}

func TestAverageReviewScore(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.AverageReviewScore(ds, day(t, "2016-09-15"), day(t, "2016-10-15"))

	if !rep.HasData {
		t.Fatal("expected data for range")
	}
	if rep.Reviews != 3 {
		t.Errorf("Reviews = %d, want 3", rep.Reviews)
	}
	if !almostEqual(rep.AverageScore, 11.0/3.0) {
		t.Errorf("AverageScore = %v, want %v", rep.AverageScore, 11.0/3.0)
	}
}

func TestAverageReviewScoreNoData(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.AverageReviewScore(ds, day(t, "2015-01-01"), day(t, "2015-12-31"))

	if rep.HasData {
		t.Error("expected no-data status, not a zero score")
	}
}

func TestDailyRevenueExcludesCancelledOrder(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	// One order (100) and one cancelled order (50) were both approved on
	// 2016-09-20; only the first may appear.
	rep := svc.DailyRevenue(ds, day(t, "2016-09-15"), day(t, "2016-09-25"))

	if !rep.HasData {
		t.Fatal("expected data for range")
	}
	if len(rep.Days) != 1 {
		t.Fatalf("got %d days, want 1", len(rep.Days))
	}
	if rep.Days[0].Day != "2016-09-20" {
		t.Errorf("Day = %q, want 2016-09-20", rep.Days[0].Day)
	}
	if !almostEqual(rep.Days[0].TotalRevenue, 100) {
		t.Errorf("TotalRevenue = %v, want 100 (cancelled 50 excluded)", rep.Days[0].TotalRevenue)
	}
}

func TestDailyRevenueAscendingAndNullApprovalExcluded(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	// Wide range: o5 is purchased inside it but has a null approval
	// timestamp, so it never enters the series.
	rep := svc.DailyRevenue(ds, day(t, "2016-09-15"), day(t, "2016-11-30"))

	want := []struct {
		day     string
		revenue float64
	}{
		{"2016-09-20", 100},
		{"2016-10-02", 100},
		{"2016-10-11", 80},
	}

	if len(rep.Days) != len(want) {
		t.Fatalf("got %d days, want %d", len(rep.Days), len(want))
	}
	for i, w := range want {
		if rep.Days[i].Day != w.day || !almostEqual(rep.Days[i].TotalRevenue, w.revenue) {
			t.Errorf("Days[%d] = %+v, want %+v", i, rep.Days[i], w)
		}
	}
}

func TestPaymentBreakdown(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.PaymentBreakdown(ds, day(t, "2016-09-15"), day(t, "2016-10-15"))

	if !rep.HasData {
		t.Fatal("expected data for range")
	}

	want := []models.PaymentMethodStat{
		{Type: "boleto", TotalTransaction: 143, TotalUsed: 2},
		{Type: "credit_card", TotalTransaction: 214, TotalUsed: 2},
		{Type: "voucher", TotalTransaction: 6, TotalUsed: 1},
	}
	if len(rep.Methods) != len(want) {
		t.Fatalf("got %d methods, want %d", len(rep.Methods), len(want))
	}
	for i, w := range want {
		got := rep.Methods[i]
		if got.Type != w.Type || !almostEqual(got.TotalTransaction, w.TotalTransaction) || got.TotalUsed != w.TotalUsed {
			t.Errorf("Methods[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestCategoryRankingSmallSetOverlaps(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.CategoryRevenueRanking(ds, day(t, "2016-09-15"), day(t, "2016-10-15"))

	if !rep.HasData {
		t.Fatal("expected data for range")
	}
	if rep.Categories != 3 {
		t.Fatalf("Categories = %d, want 3", rep.Categories)
	}

	// With three categories, top and bottom are the same descending slice.
	wantOrder := []string{"electronics", "furniture", models.UnknownCategory}
	wantRevenue := []float64{140, 110, 80}
	for i, cat := range wantOrder {
		if rep.Top[i].Category != cat || !almostEqual(rep.Top[i].TotalRevenue, wantRevenue[i]) {
			t.Errorf("Top[%d] = %+v, want %s/%v", i, rep.Top[i], cat, wantRevenue[i])
		}
		if rep.Bottom[i].Category != cat {
			t.Errorf("Bottom[%d] = %q, want %q (same descending sort)", i, rep.Bottom[i].Category, cat)
		}
	}

	// Translation table acts as a validity flag, not a filter.
	if !rep.Top[0].Recognized {
		t.Error("electronics should be recognized by the translation table")
	}
	if rep.Top[1].Recognized {
		t.Error("furniture is not in the translation table")
	}
	if rep.Top[2].Recognized {
		t.Error("Unknown is not in the translation table")
	}
}

// rankingDataset builds one order per category so each category's revenue is
// exactly the item price given.
func rankingDataset(t *testing.T, revenues map[string]float64) *models.Dataset {
	t.Helper()

	var orders []models.Order
	var customers []models.Customer
	var items []models.OrderItem
	var products []models.Product

	for cat, rev := range revenues {
		oid := "ord-" + cat
		cid := "cus-" + cat
		pid := "prd-" + cat
		orders = append(orders, models.Order{
			ID: oid, CustomerID: cid, Status: "delivered",
			PurchaseTimestamp: ts(t, "2016-09-20 10:00:00"),
			ApprovedAt:        ts(t, "2016-09-21 10:00:00"),
		})
		customers = append(customers, models.Customer{ID: cid, ZipCodePrefix: "00000", State: "SP"})
		products = append(products, models.Product{ID: pid, Category: cat})
		items = append(items, models.OrderItem{OrderID: oid, ItemID: 1, ProductID: pid, Price: rev})
	}

	return &models.Dataset{
		Orders:       models.NewOrderSet(orders),
		Customers:    models.NewCustomerSet(customers),
		Items:        models.NewOrderItemSet(items),
		Payments:     models.NewOrderPaymentSet(nil),
		Reviews:      models.NewOrderReviewSet(nil),
		Products:     models.NewProductSet(products),
		Translations: models.NewCategoryTranslationSet(nil),
		Geolocation:  models.NewGeolocationSet(nil),
		Sellers:      models.NewSellerSet(nil),
	}
}

func TestCategoryRankingTopBottomDisjoint(t *testing.T) {
	revenues := map[string]float64{
		"cat01": 10, "cat02": 20, "cat03": 30, "cat04": 40,
		"cat05": 50, "cat06": 60, "cat07": 70, "cat08": 80,
		"cat09": 90, "cat10": 100, "cat11": 110, "cat12": 120,
	}
	ds := rankingDataset(t, revenues)
	svc := New()

	rep := svc.CategoryRevenueRanking(ds, day(t, "2016-09-01"), day(t, "2016-09-30"))

	if len(rep.Top) != 5 || len(rep.Bottom) != 5 {
		t.Fatalf("got %d top / %d bottom, want 5 / 5", len(rep.Top), len(rep.Bottom))
	}

	topSet := make(map[string]bool)
	for _, c := range rep.Top {
		topSet[c.Category] = true
	}
	for _, c := range rep.Bottom {
		if topSet[c.Category] {
			t.Errorf("category %q in both top and bottom with 12 distinct categories", c.Category)
		}
	}

	if rep.Top[0].Category != "cat12" {
		t.Errorf("Top[0] = %q, want cat12", rep.Top[0].Category)
	}
	if rep.Bottom[4].Category != "cat01" {
		t.Errorf("Bottom[4] = %q, want cat01 (tail of descending sort)", rep.Bottom[4].Category)
	}
}

func TestCategoryRankingTieBreak(t *testing.T) {
	// Equal revenues resolve by category name: the rows enter the sort in
	// ascending name order and the descending sort is stable.
	revenues := map[string]float64{
		"zeta": 50, "alpha": 50, "mid": 70,
	}
	ds := rankingDataset(t, revenues)
	svc := New()

	rep := svc.CategoryRevenueRanking(ds, day(t, "2016-09-01"), day(t, "2016-09-30"))

	want := []string{"mid", "alpha", "zeta"}
	for i, w := range want {
		if rep.Top[i].Category != w {
			t.Errorf("Top[%d] = %q, want %q", i, rep.Top[i].Category, w)
		}
	}
}

func TestStateCategoryBreakdown(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.StateCategoryBreakdown(ds, day(t, "2016-09-15"), day(t, "2016-10-15"))

	if !rep.HasData {
		t.Fatal("expected data for range")
	}

	wantBreakdown := []models.StateCategory{
		{State: "MG", Category: models.UnknownCategory, ItemsSold: 1},
		{State: "RJ", Category: "furniture", ItemsSold: 1},
		{State: "SP", Category: "electronics", ItemsSold: 2},
		{State: "SP", Category: "furniture", ItemsSold: 1},
	}
	if len(rep.Breakdown) != len(wantBreakdown) {
		t.Fatalf("got %d breakdown rows, want %d", len(rep.Breakdown), len(wantBreakdown))
	}
	for i, w := range wantBreakdown {
		if rep.Breakdown[i] != w {
			t.Errorf("Breakdown[%d] = %+v, want %+v", i, rep.Breakdown[i], w)
		}
	}

	wantTop := []models.StateCategory{
		{State: "MG", Category: models.UnknownCategory, ItemsSold: 1},
		{State: "RJ", Category: "furniture", ItemsSold: 1},
		{State: "SP", Category: "electronics", ItemsSold: 2},
	}
	if len(rep.TopPerState) != len(wantTop) {
		t.Fatalf("got %d top rows, want %d (exactly one per state)", len(rep.TopPerState), len(wantTop))
	}
	for i, w := range wantTop {
		if rep.TopPerState[i] != w {
			t.Errorf("TopPerState[%d] = %+v, want %+v", i, rep.TopPerState[i], w)
		}
	}

	// Dominance: the selected category's count is >= every other count for
	// the same state.
	for _, top := range rep.TopPerState {
		for _, row := range rep.Breakdown {
			if row.State == top.State && row.ItemsSold > top.ItemsSold {
				t.Errorf("state %s: selected %d items but %q has %d", top.State, top.ItemsSold, row.Category, row.ItemsSold)
			}
		}
	}
}

func TestStateTopCategoryTieBreak(t *testing.T) {
	// Two categories with equal counts in one state: the first category in
	// sorted order wins.
	ds := rankingDataset(t, map[string]float64{"beta": 10, "alpha": 10})
	svc := New()

	rep := svc.StateCategoryBreakdown(ds, day(t, "2016-09-01"), day(t, "2016-09-30"))

	if len(rep.TopPerState) != 1 {
		t.Fatalf("got %d top rows, want 1", len(rep.TopPerState))
	}
	if rep.TopPerState[0].Category != "alpha" {
		t.Errorf("tie should resolve to first sorted category, got %q", rep.TopPerState[0].Category)
	}
}

func TestReviewScoreByCategory(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.ReviewScoreByCategory(ds, day(t, "2016-09-15"), day(t, "2016-10-15"))

	if !rep.HasData {
		t.Fatal("expected data for range")
	}

	// p1 appears on o1 (score 5) and o3 (score 4); p2 on o3 (4); p3 on o4
	// (2). The o5 review has a null creation date and never contributes.
	want := []models.ProductReviewScore{
		{ProductID: "p1", Category: "electronics", AverageScore: 4.5},
		{ProductID: "p2", Category: "furniture", AverageScore: 4},
		{ProductID: "p3", Category: models.UnknownCategory, AverageScore: 2},
	}
	if len(rep.Products) != len(want) {
		t.Fatalf("got %d products, want %d", len(rep.Products), len(want))
	}
	for i, w := range want {
		got := rep.Products[i]
		if got.ProductID != w.ProductID || got.Category != w.Category || !almostEqual(got.AverageScore, w.AverageScore) {
			t.Errorf("Products[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestGeolocatedOrdersFanOut(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.GeolocatedOrders(ds, day(t, "2016-09-15"), day(t, "2016-10-15"))

	if !rep.HasData {
		t.Fatal("expected data for range")
	}
	if rep.Orders != 4 {
		t.Errorf("Orders = %d, want 4", rep.Orders)
	}
	// o1 and o3 share zip 01001 (two samples each), o2 has one sample, o4's
	// prefix has none: 2+1+2+0 points.
	if len(rep.Points) != 5 {
		t.Errorf("got %d points, want 5 (fan-out by sample count)", len(rep.Points))
	}
	if len(rep.Points) <= rep.Orders {
		t.Errorf("fan-out should let points (%d) exceed matched orders (%d)", len(rep.Points), rep.Orders)
	}
}

func TestGeolocatedOrdersEmptyJoin(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	rep := svc.GeolocatedOrders(ds, day(t, "2015-01-01"), day(t, "2015-12-31"))

	if rep.HasData {
		t.Error("expected explicit empty status for zero-row join")
	}
	if len(rep.Points) != 0 {
		t.Errorf("got %d points, want 0", len(rep.Points))
	}
}

func TestFullRangeFilterRoundTrip(t *testing.T) {
	ds := newTestDataset(t)

	// Filtering by the dataset's own min/max purchase dates must return
	// every order with a non-null purchase timestamp.
	filtered := ds.Orders.FilterByPurchaseRange(ds.MinDate(), ds.MaxDate())
	if filtered.Len() != ds.Orders.Len() {
		t.Errorf("round-trip filter kept %d of %d orders", filtered.Len(), ds.Orders.Len())
	}
}

func TestSummaryBundlesKPIs(t *testing.T) {
	ds := newTestDataset(t)
	svc := New()

	sum := svc.Summary(ds, day(t, "2016-09-15"), day(t, "2016-10-15"))

	if sum.DeliveryTime == nil || sum.Revenue == nil || sum.ReviewScore == nil {
		t.Fatal("summary must carry all three KPI reports")
	}
	if !sum.DeliveryTime.HasData || !sum.Revenue.HasData || !sum.ReviewScore.HasData {
		t.Error("all KPIs should have data for the range")
	}
	if sum.Range.Start != "2016-09-15" || sum.Range.End != "2016-10-15" {
		t.Errorf("Range = %+v, want 2016-09-15..2016-10-15", sum.Range)
	}
}
