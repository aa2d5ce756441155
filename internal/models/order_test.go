package models

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", s, err)
	}
	return parsed
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(mustTime(t, "2016-09-15 14:30:00"), mustTime(t, "2016-09-20 08:00:00"))

	if !start.Equal(mustTime(t, "2016-09-15 00:00:00")) {
		t.Errorf("start = %v, want midnight of 2016-09-15", start)
	}
	if !end.After(mustTime(t, "2016-09-20 23:59:59")) {
		t.Errorf("end = %v, should cover the whole of 2016-09-20", end)
	}
	if !end.Before(mustTime(t, "2016-09-21 00:00:00")) {
		t.Errorf("end = %v, should not reach 2016-09-21", end)
	}
}

func TestFilterByPurchaseRangeInclusive(t *testing.T) {
	set := NewOrderSet([]Order{
		{ID: "before", PurchaseTimestamp: mustTime(t, "2016-09-14 23:59:59")},
		{ID: "start-day-late", PurchaseTimestamp: mustTime(t, "2016-09-15 23:30:00")},
		{ID: "mid", PurchaseTimestamp: mustTime(t, "2016-09-17 12:00:00")},
		{ID: "end-day-late", PurchaseTimestamp: mustTime(t, "2016-09-20 23:30:00")},
		{ID: "after", PurchaseTimestamp: mustTime(t, "2016-09-21 00:00:01")},
		{ID: "null-purchase"},
	})

	got := set.FilterByPurchaseRange(mustDate(t, "2016-09-15"), mustDate(t, "2016-09-20"))

	want := map[string]bool{"start-day-late": true, "mid": true, "end-day-late": true}
	if got.Len() != len(want) {
		t.Fatalf("kept %d orders, want %d", got.Len(), len(want))
	}
	for _, o := range got.Orders {
		if !want[o.ID] {
			t.Errorf("order %q should not be in range", o.ID)
		}
	}
}

func TestFilterByApprovedRangeSkipsNull(t *testing.T) {
	set := NewOrderSet([]Order{
		{ID: "approved", ApprovedAt: mustTime(t, "2016-09-16 10:00:00")},
		{ID: "never-approved"},
	})

	got := set.FilterByApprovedRange(mustDate(t, "2016-09-01"), mustDate(t, "2016-09-30"))

	if got.Len() != 1 || got.Orders[0].ID != "approved" {
		t.Errorf("got %+v, want only the approved order", got.Orders)
	}
}

func TestExcludeStatus(t *testing.T) {
	set := NewOrderSet([]Order{
		{ID: "a", Status: "delivered"},
		{ID: "b", Status: StatusCancelled},
		{ID: "c", Status: "shipped"},
	})

	got := set.ExcludeStatus(StatusCancelled)

	if got.Len() != 2 {
		t.Fatalf("kept %d orders, want 2", got.Len())
	}
	for _, o := range got.Orders {
		if o.Status == StatusCancelled {
			t.Errorf("cancelled order %q survived the filter", o.ID)
		}
	}
}

func TestMinMaxPurchaseDateIgnoreNull(t *testing.T) {
	set := NewOrderSet([]Order{
		{ID: "a", PurchaseTimestamp: mustTime(t, "2016-10-01 08:00:00")},
		{ID: "b"},
		{ID: "c", PurchaseTimestamp: mustTime(t, "2016-09-18 10:00:00")},
	})

	if got := set.MinPurchaseDate(); !got.Equal(mustTime(t, "2016-09-18 10:00:00")) {
		t.Errorf("MinPurchaseDate = %v", got)
	}
	if got := set.MaxPurchaseDate(); !got.Equal(mustTime(t, "2016-10-01 08:00:00")) {
		t.Errorf("MaxPurchaseDate = %v", got)
	}
}

func TestReviewFilterAndMean(t *testing.T) {
	set := NewOrderReviewSet([]OrderReview{
		{ReviewID: "r1", OrderID: "o1", Score: 5, CreationDate: mustTime(t, "2016-09-29 00:00:00")},
		{ReviewID: "r2", OrderID: "o2", Score: 2, CreationDate: mustTime(t, "2016-10-07 00:00:00")},
		{ReviewID: "r3", OrderID: "o3", Score: 1}, // null creation date
	})

	got := set.FilterByCreationRange(mustDate(t, "2016-09-01"), mustDate(t, "2016-10-31"))

	if got.Len() != 2 {
		t.Fatalf("kept %d reviews, want 2", got.Len())
	}
	if mean := got.MeanScore(); mean != 3.5 {
		t.Errorf("MeanScore = %v, want 3.5", mean)
	}
}

func TestGeolocationByZipPrefix(t *testing.T) {
	set := NewGeolocationSet([]Geolocation{
		{ZipCodePrefix: "01001", Lat: -23.55, Lng: -46.63},
		{ZipCodePrefix: "01001", Lat: -23.56, Lng: -46.64},
		{ZipCodePrefix: "20000", Lat: -22.90, Lng: -43.20},
	})

	byPrefix := set.ByZipPrefix()

	if len(byPrefix["01001"]) != 2 {
		t.Errorf("prefix 01001 has %d samples, want 2", len(byPrefix["01001"]))
	}
	if len(byPrefix["20000"]) != 1 {
		t.Errorf("prefix 20000 has %d samples, want 1", len(byPrefix["20000"]))
	}
	if len(byPrefix["30000"]) != 0 {
		t.Errorf("unknown prefix should have no samples")
	}
}

func TestOrderItemFilterAndSum(t *testing.T) {
	items := NewOrderItemSet([]OrderItem{
		{OrderID: "o1", ItemID: 1, ProductID: "p1", Price: 100},
		{OrderID: "o2", ItemID: 1, ProductID: "p2", Price: 50},
		{OrderID: "o2", ItemID: 2, ProductID: "p1", Price: 25},
	})
	orders := map[string]Order{"o2": {ID: "o2"}}

	got := items.FilterByOrders(orders)

	if got.Len() != 2 {
		t.Fatalf("kept %d items, want 2", got.Len())
	}
	if sum := got.SumPrice(); sum != 75 {
		t.Errorf("SumPrice = %v, want 75", sum)
	}
}

func TestTranslationLookup(t *testing.T) {
	set := NewCategoryTranslationSet([]CategoryTranslation{
		{Category: "eletronicos", English: "electronics"},
	})

	known := set.Lookup()
	if !known["eletronicos"] {
		t.Error("mapped category should be recognized")
	}
	if known["moveis"] {
		t.Error("unmapped category should not be recognized")
	}
}
