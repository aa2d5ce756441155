// Package dashboard exposes the report service over HTTP. Each report is a
// JSON document; the tabular ones can also be downloaded as CSV. The
// presentation layer owns all rendering.
package dashboard

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopdash/internal/config"
	"shopdash/internal/models"
	"shopdash/internal/services/reports"
	"shopdash/internal/services/storage"
)

var (
	cfg     *config.Config
	store   *storage.Storage
	dataset *models.Dataset
	service *reports.Service
)

// Initialize sets up the dashboard package with required dependencies
func Initialize(c *config.Config, s *storage.Storage, ds *models.Dataset, svc *reports.Service) {
	cfg = c
	store = s
	dataset = ds
	service = svc
}

// RegisterRoutes registers all dashboard routes
func RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/summary", handleSummary)
	r.Get("/dashboard/range", handleRange)
	r.Get("/dashboard/reports/{reportType}", handleReport)
	r.Get("/dashboard/reports/{reportType}/export", handleReportExport)
	r.Post("/dashboard/snapshot", handleSnapshot)
}

// parseDateRange reads start/end query params, defaulting to the dataset's
// min/max order purchase dates. A malformed date is a caller error.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	start := dataset.MinDate()
	end := dataset.MaxDate()

	var err error
	if startStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", startStr)
		}
	}
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", endStr)
		}
	}
	return start, end, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func handleSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, service.Summary(dataset, start, end))
}

func handleRange(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"min_date": dataset.MinDate().Format("2006-01-02"),
		"max_date": dataset.MaxDate().Format("2006-01-02"),
	})
}

// computeReport dispatches a report type name to the service
func computeReport(reportType string, start, end time.Time) (interface{}, bool) {
	switch reportType {
	case "delivery-time":
		return service.AverageDeliveryTime(dataset, start, end), true
	case "revenue":
		return service.RevenueSummary(dataset, start, end), true
	case "review-score":
		return service.AverageReviewScore(dataset, start, end), true
	case "daily-revenue":
		return service.DailyRevenue(dataset, start, end), true
	case "payments":
		return service.PaymentBreakdown(dataset, start, end), true
	case "categories":
		return service.CategoryRevenueRanking(dataset, start, end), true
	case "states":
		return service.StateCategoryBreakdown(dataset, start, end), true
	case "category-reviews":
		return service.ReviewScoreByCategory(dataset, start, end), true
	case "geolocation":
		return service.GeolocatedOrders(dataset, start, end), true
	default:
		return nil, false
	}
}

func handleReport(w http.ResponseWriter, r *http.Request) {
	reportType := chi.URLParam(r, "reportType")

	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, ok := computeReport(reportType, start, end)
	if !ok {
		http.Error(w, "Unknown report type", http.StatusBadRequest)
		return
	}
	writeJSON(w, report)
}

func handleReportExport(w http.ResponseWriter, r *http.Request) {
	reportType := chi.URLParam(r, "reportType")

	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch reportType {
	case "daily-revenue":
		rep := service.DailyRevenue(dataset, start, end)
		writer.Write([]string{"Day", "Total Revenue"})
		for _, d := range rep.Days {
			writer.Write([]string{d.Day, fmt.Sprintf("%.2f", d.TotalRevenue)})
		}
	case "payments":
		rep := service.PaymentBreakdown(dataset, start, end)
		writer.Write([]string{"Payment Type", "Total Transaction", "Total Used"})
		for _, m := range rep.Methods {
			writer.Write([]string{m.Type, fmt.Sprintf("%.2f", m.TotalTransaction), strconv.Itoa(m.TotalUsed)})
		}
	case "categories":
		rep := service.CategoryRevenueRanking(dataset, start, end)
		writer.Write([]string{"Bucket", "Category", "Items Sold", "Total Revenue"})
		for _, c := range rep.Top {
			writer.Write([]string{"top", c.Category, strconv.Itoa(c.ItemsSold), fmt.Sprintf("%.2f", c.TotalRevenue)})
		}
		for _, c := range rep.Bottom {
			writer.Write([]string{"bottom", c.Category, strconv.Itoa(c.ItemsSold), fmt.Sprintf("%.2f", c.TotalRevenue)})
		}
	case "states":
		rep := service.StateCategoryBreakdown(dataset, start, end)
		writer.Write([]string{"State", "Category", "Items Sold"})
		for _, row := range rep.Breakdown {
			writer.Write([]string{row.State, row.Category, strconv.Itoa(row.ItemsSold)})
		}
	case "category-reviews":
		rep := service.ReviewScoreByCategory(dataset, start, end)
		writer.Write([]string{"Product", "Category", "Average Score"})
		for _, p := range rep.Products {
			writer.Write([]string{p.ProductID, p.Category, fmt.Sprintf("%.2f", p.AverageScore)})
		}
	case "geolocation":
		rep := service.GeolocatedOrders(dataset, start, end)
		writer.Write([]string{"Order", "State", "Zip Prefix", "Lat", "Lng"})
		for _, p := range rep.Points {
			writer.Write([]string{p.OrderID, p.State, p.ZipCodePrefix,
				strconv.FormatFloat(p.Lat, 'f', -1, 64), strconv.FormatFloat(p.Lng, 'f', -1, 64)})
		}
	default:
		http.Error(w, "Report type has no CSV export", http.StatusBadRequest)
		return
	}

	writer.Flush()

	filename := fmt.Sprintf("%s_%s_to_%s.csv", reportType, start.Format("2006-01-02"), end.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes())
}

// snapshotDocument is the persisted form of a full report run
type snapshotDocument struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Range     models.ReportRange     `json:"range"`
	Summary   *models.SummaryReport  `json:"summary"`
	Reports   map[string]interface{} `json:"reports"`
}

func handleSnapshot(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc := snapshotDocument{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Range:     models.NewReportRange(start, end),
		Summary:   service.Summary(dataset, start, end),
		Reports: map[string]interface{}{
			"daily-revenue":    service.DailyRevenue(dataset, start, end),
			"payments":         service.PaymentBreakdown(dataset, start, end),
			"categories":       service.CategoryRevenueRanking(dataset, start, end),
			"states":           service.StateCategoryBreakdown(dataset, start, end),
			"category-reviews": service.ReviewScoreByCategory(dataset, start, end),
			"geolocation":      service.GeolocatedOrders(dataset, start, end),
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	path := filepath.Join(cfg.SnapshotsDirectory, doc.ID+".json")
	if err := store.WriteFile(path, data, 0644); err != nil {
		log.Printf("Error writing snapshot %s: %v", doc.ID, err)
		http.Error(w, "Failed to write snapshot", http.StatusInternalServerError)
		return
	}

	log.Printf("Snapshot %s written for %s..%s", doc.ID, doc.Range.Start, doc.Range.End)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": doc.ID})
}
