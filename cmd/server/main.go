package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shopdash/internal/config"
	"shopdash/internal/handlers/dashboard"
	"shopdash/internal/services/dataloader"
	"shopdash/internal/services/reports"
	"shopdash/internal/services/storage"
)

func main() {
	cfg := config.Load()
	log.Printf("Starting shopdash on %s", cfg.ListenAddr)
	log.Printf("Dataset directory: %s", cfg.DataDirectory)

	if err := SetupDependencies(cfg); err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	r := SetupRouter()

	log.Printf("Server starting on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}

// SetupDependencies wires storage, loads the dataset once and initializes the
// handler packages. Split out of main so tests can drive the real stack.
func SetupDependencies(cfg *config.Config) error {
	store, err := storage.New(cfg.DataDirectory)
	if err != nil {
		return fmt.Errorf("failed to open dataset directory: %w", err)
	}

	if store.IsSealed() {
		if cfg.DataPassword == "" {
			return fmt.Errorf("dataset directory is sealed; set SHOPDASH_PASSWORD")
		}
		if err := store.Unlock(cfg.DataPassword); err != nil {
			return fmt.Errorf("failed to unlock dataset: %w", err)
		}
		log.Printf("Sealed dataset unlocked")
	}

	loader := dataloader.New(cfg.DataDirectory, store)
	dataset, err := loader.LoadDataset()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	dashboard.Initialize(cfg, store, dataset, reports.New())
	return nil
}

// SetupRouter builds the chi router with all routes registered
func SetupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard/summary", http.StatusTemporaryRedirect)
	})

	dashboard.RegisterRoutes(r)

	r.Get("/api/health", handleHealth)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
