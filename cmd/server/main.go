/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Warp Compliance Engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Seed the standard rule table when the store is empty
  4. Create API handler and scanner
  5. Configure HTTP router and optional scan scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port         HTTP server port (default: 8080)
  -db           SQLite database path (default: compliance.db)
                Use ":memory:" for an in-memory database
  -penalty      Penalty multiplier applied to exposure (default: 2.0)
  -parallelism  Concurrent worker evaluations per scan (default: GOMAXPROCS)
  -scan-every   Background scan interval; 0 disables the scheduler

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scan scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/compliance.db"

  # Run with in-memory database and treble damages
  ./server -db=":memory:" -penalty=3.0

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/api"
	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "compliance.db", "SQLite database path")
	penalty := flag.Float64("penalty", 2.0, "penalty multiplier applied to exposure")
	parallelism := flag.Int("parallelism", 0, "concurrent worker evaluations per scan (0 = GOMAXPROCS)")
	scanEvery := flag.Duration("scan-every", 6*time.Hour, "background scan interval (0 disables)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed the standard rule table on first run
	ctx := context.Background()
	if err := seedIfEmpty(ctx, store); err != nil {
		log.Fatalf("Failed to seed rule table: %v", err)
	}

	// Initialize handler and scanner
	handler := api.NewHandler(store)
	handler.Scanner.PenaltyMultiplier = decimal.NewFromFloat(*penalty)
	handler.Scanner.Parallelism = *parallelism

	// Create router
	router := api.NewRouter(handler)

	// Background scan scheduler
	var scheduler *api.ScanScheduler
	if *scanEvery > 0 {
		scheduler = api.NewScanScheduler(handler)
		scheduler.ScanInterval = *scanEvery
		scheduler.Start()
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second, // scans may outlive the default
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// seedIfEmpty loads the bundled standard rule table when the store has
// no regulatory records yet.
func seedIfEmpty(ctx context.Context, store *sqlite.Store) error {
	snap, err := store.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snap.Rates()) > 0 || len(snap.Rules()) > 0 {
		return nil
	}
	rates, rules := factory.StandardTable()
	log.Printf("Seeding standard rule table: %d rates, %d rules", len(rates), len(rules))
	return store.LoadRuleTable(ctx, rates, rules)
}
