package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"deal-finder/config"
	"deal-finder/models"
	"deal-finder/report"
	"deal-finder/scraper"
	"deal-finder/scraper/brokers"
	"deal-finder/services"
	"deal-finder/storage"
	"deal-finder/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger().Error("Invalid configuration: %v", err)
		os.Exit(1)
	}
	logger := utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("=== Deal Finder starting ===")
	logger.Info("Config — price window: %s-%s | output: %s | analysis: %v | proxy: %v",
		services.FormatDollars(cfg.Criteria.MinPrice), services.FormatDollars(cfg.Criteria.MaxPrice),
		cfg.OutputDir, cfg.AnalysisEnabled(), cfg.ScraperAPIKey != "")

	var renderer *scraper.BrowserRenderer
	if cfg.BrowserRender && cfg.ScraperAPIKey == "" {
		renderer = scraper.NewBrowserRenderer(cfg.ChromeBin, logger)
	}
	fetcher := scraper.NewHTTPFetcher(cfg.ScraperAPIKey, time.Duration(cfg.FetchTimeoutSec)*time.Second, renderer, logger)

	sources := brokers.All(brokers.Deps{
		Fetcher:     fetcher,
		Pacer:       utils.NewPacerMs(cfg.RequestPauseMs),
		DetailPacer: utils.NewPacerMs(cfg.DetailPauseMs),
		Logger:      logger,
	})

	finder := services.NewFinder(sources, cfg.Criteria, logger)
	result := finder.Search(ctx)
	if renderer != nil {
		renderer.Close()
	}
	logger.Info("Scraped %d raw candidates, %d survived filtering", len(result.Raw), len(result.Listings))

	writeRawCSV(cfg.CSVOutputPath, result.Raw, logger)

	var rater services.Rater
	if cfg.AnalysisEnabled() {
		rater = services.NewLLMRater(services.NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.AnthropicModel), cfg.Criteria)
	}
	analyzer := services.NewAnalyzer(rater, utils.NewPacerMs(cfg.AnalysisPauseMs), logger)
	analyzer.AnalyzeAll(ctx, result.Listings)

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(result.Listings))

	hubPath, err := publish(cfg, result.Listings, logger)
	if err != nil {
		logger.Error("Report generation failed: %v", err)
		os.Exit(1)
	}

	if cfg.HistoryEnabled {
		recordHistory(ctx, cfg.DSN(), result.Listings, logger)
	}

	fmt.Printf("  Done. Report → %s | Raw CSV → %s\n\n", hubPath, cfg.CSVOutputPath)
}

// publish renders today's report, rotates the archive and rewrites the hub.
func publish(cfg *config.Config, listings []*models.Listing, logger *utils.Logger) (string, error) {
	date := time.Now().Format("2006-01-02")

	renderer, err := report.NewRenderer(cfg.Criteria)
	if err != nil {
		return "", err
	}
	fragment, err := renderer.Table(listings)
	if err != nil {
		return "", err
	}
	page, err := renderer.Standalone(date, fragment)
	if err != nil {
		return "", err
	}

	store := storage.NewReportStore(cfg.OutputDir, cfg.ReportsDir, cfg.ArchiveFile, cfg.HubFile, cfg.MaxReports, logger)
	datedPath, err := store.SaveDated(date, page)
	if err != nil {
		return "", err
	}
	logger.Info("Dated report: %s", datedPath)

	pursue, _, _ := services.CountRecommendations(listings)
	archive, err := store.UpdateArchive(models.ArchiveEntry{
		Date:        date,
		File:        store.ReportPath(date),
		DealCount:   len(listings),
		PursueCount: pursue,
	})
	if err != nil {
		return "", err
	}
	logger.Info("Archive: %d reports tracked", len(archive))

	hub, err := renderer.Hub(date, archive, listings, fragment)
	if err != nil {
		return "", err
	}
	return store.SaveHub(hub)
}

func writeRawCSV(path string, raw []*models.RawListing, logger *utils.Logger) {
	csvWriter, err := storage.NewCSVWriter(path)
	if err != nil {
		logger.Warn("Could not create raw CSV: %v", err)
		return
	}
	defer csvWriter.Close()

	if err := csvWriter.WriteRaw(raw); err != nil {
		logger.Warn("Raw CSV write failed: %v", err)
		return
	}
	logger.Info("Raw candidates saved to %s", path)
}

func recordHistory(ctx context.Context, dsn string, listings []*models.Listing, logger *utils.Logger) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pgWriter, err := storage.NewPostgresWriter(connectCtx, dsn)
	if err != nil {
		logger.Warn("History disabled for this run: %v", err)
		return
	}
	defer pgWriter.Close()

	if err := pgWriter.Write(ctx, listings); err != nil {
		logger.Warn("History write failed: %v", err)
		return
	}
	logger.Info("Recorded %d listings in PostgreSQL (table: deals)", len(listings))
}
