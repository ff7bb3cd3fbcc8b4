package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"asin-scout/pkg/api"
	"asin-scout/pkg/config"
	"asin-scout/pkg/fetcher"
	"asin-scout/pkg/logger"
	"asin-scout/pkg/metrics"
	"asin-scout/pkg/models"
	"asin-scout/pkg/scrapers/amazon"

	scalargo "github.com/bdpiprava/scalar-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.MustLoad()

	logger.Init(os.Stdout, cfg.LogLevel)
	metrics.Init()

	opts := fetcher.Options{
		Marketplace: cfg.Marketplace,
		Timeout:     cfg.Timeout,
		MaxDelay:    cfg.MaxDelay,
		Proxies:     cfg.Proxies,
	}

	var pageFetcher fetcher.Fetcher
	switch cfg.FetchMode {
	case "browser":
		pageFetcher = fetcher.NewBrowser(opts)
	default:
		pageFetcher = fetcher.NewHTTP(opts)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /product/{asin}", api.BearerAuth(cfg.AccessToken, newProductHandler(pageFetcher)))
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /{$}", docsHandler)

	var handler http.Handler = mux
	handler = api.Metrics(handler)
	handler = api.Logging(handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      cfg.Timeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting server",
		"port", cfg.Port,
		"marketplace", cfg.Marketplace,
		"fetch_mode", cfg.FetchMode,
		"proxies", len(cfg.Proxies),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.Port, "error", err)
		os.Exit(1)
	}
}

// newProductHandler wires the fetch -> extract pipeline behind the
// product route. Every fetch failure maps to 404: the upstream does not
// let us tell a removed listing from a blocked request, and the API
// deliberately does not expose that distinction.
func newProductHandler(pageFetcher fetcher.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asin := r.PathValue("asin")

		start := time.Now()
		body, err := pageFetcher.Fetch(r.Context(), asin)
		if err != nil {
			if errors.Is(err, models.ErrProductNotFound) {
				slog.Warn("Product page not found", "asin", asin)
			} else {
				slog.Error("Failed to fetch product page", "asin", asin, "error", err)
			}
			metrics.ScrapesTotal.WithLabelValues("not_found").Inc()
			api.WriteNotFound(w, "Product not found or error occurred while scraping", r.URL.Path)
			return
		}

		product := amazon.Extract(body, asin)
		metrics.ScrapesTotal.WithLabelValues("success").Inc()
		metrics.ScrapeDuration.Observe(time.Since(start).Seconds())

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(product); err != nil {
			slog.Error("Failed to encode response", "asin", asin, "error", err)
		}
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// docsHandler serves Scalar API docs rendered from openapi.yaml.
func docsHandler(w http.ResponseWriter, _ *http.Request) {
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir("./"),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("Amazon Product Scraper API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}
