package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/orderdeck/orderdeck/internal/api"
	"github.com/orderdeck/orderdeck/internal/db"
	"github.com/orderdeck/orderdeck/internal/models"
	"github.com/orderdeck/orderdeck/internal/ui"
)

const (
	defaultDBPath   = "orderdeck.db"
	defaultPageSize = 10
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	apiURL := flag.String("api", "", "Base URL of the orders backend (env ORDERDECK_API_URL)")
	token := flag.String("token", "", "API bearer token (env ORDERDECK_TOKEN)")
	dbPath := flag.String("db", "", "Path to the local history database (env ORDERDECK_DB)")
	pageSize := flag.Int("page-size", defaultPageSize, "Orders per page")
	status := flag.String("status", "", "Initial status filter (skips the scope form)")
	payment := flag.String("payment", "", "Initial payment method filter")
	customer := flag.String("customer", "", "Initial customer ID filter")
	dateFrom := flag.String("from", "", "Initial from date (YYYY-MM-DD)")
	dateTo := flag.String("to", "", "Initial to date (YYYY-MM-DD)")
	flag.Parse()

	if *apiURL == "" {
		*apiURL = os.Getenv("ORDERDECK_API_URL")
	}
	if *apiURL == "" {
		fmt.Fprintln(os.Stderr, "error: no backend URL; pass -api or set ORDERDECK_API_URL")
		os.Exit(1)
	}
	if *token == "" {
		*token = os.Getenv("ORDERDECK_TOKEN")
	}
	if *dbPath == "" {
		*dbPath = os.Getenv("ORDERDECK_DB")
	}
	if *dbPath == "" {
		*dbPath = defaultDBPath
	}

	logger := newLogger()

	scope := models.OrderScope{
		Status:        *status,
		PaymentMethod: *payment,
		CustomerID:    *customer,
		DateFrom:      *dateFrom,
		DateTo:        *dateTo,
	}

	// With no filter flags, let the user pick the initial scope interactively
	if *status == "" && *payment == "" && *customer == "" && *dateFrom == "" && *dateTo == "" {
		var err error
		scope, err = ui.RunScopeForm(models.OrderScope{Status: "all"})
		if err != nil {
			fmt.Fprintf(os.Stderr, "scope form failed: %v\n", err)
			os.Exit(1)
		}
	}
	if scope.Status == "" {
		scope.Status = "all"
	}

	database, err := db.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open history database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()
	if err := database.PruneQueries(); err != nil {
		logger.Warn("history prune failed", "err", err)
	}

	cfg := ui.BrowserConfig{
		Client:       api.NewOrdersClient(*apiURL, *token, logger),
		Credits:      api.NewCreditsClient(*apiURL, *token, logger),
		History:      database,
		Logger:       logger,
		PageSize:     *pageSize,
		InitialScope: scope,
	}

	if err := ui.RunOrdersBrowser(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "orderdeck: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes structured logs to ORDERDECK_LOG when set. The TUI owns
// the terminal, so without a log file everything is discarded.
func newLogger() *log.Logger {
	if path := os.Getenv("ORDERDECK_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			return log.NewWithOptions(f, log.Options{ReportTimestamp: true})
		}
	}
	return log.New(io.Discard)
}
