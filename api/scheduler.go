/*
scheduler.go - Automated scan scheduler

PURPOSE:
  Periodically runs a full compliance scan so the score trend keeps
  moving without manual triggers, and logs the headline numbers.

DESIGN:
  - Runs a background goroutine with configurable scan interval
  - Each tick is one bounded-context scan pass
  - Per-worker failures surface as report diagnostics, never stop a tick

CONFIGURATION:
  - ScanInterval: How often to scan (default: 6 hours)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewScanScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunScan endpoint (manual trigger)
  - ../compliance/scan.go: Scanner
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// ScanScheduler runs periodic compliance scans.
type ScanScheduler struct {
	Handler      *Handler
	ScanInterval time.Duration
	Enabled      bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScanScheduler creates a new scheduler.
func NewScanScheduler(handler *Handler) *ScanScheduler {
	return &ScanScheduler{
		Handler:      handler,
		ScanInterval: 6 * time.Hour,
		Enabled:      true,
		stop:         make(chan bool),
	}
}

// Start begins the scheduler.
func (ss *ScanScheduler) Start() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if !ss.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ss.ticker = time.NewTicker(ss.ScanInterval)
	ss.wg.Add(1)

	go ss.run()

	log.Printf("[Scheduler] Started with scan interval: %v", ss.ScanInterval)
}

// Stop stops the scheduler.
func (ss *ScanScheduler) Stop() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.ticker != nil {
		ss.ticker.Stop()
		close(ss.stop)
		ss.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ss *ScanScheduler) run() {
	defer ss.wg.Done()

	// Run immediately on start
	ss.scan()

	for {
		select {
		case <-ss.ticker.C:
			ss.scan()
		case <-ss.stop:
			return
		}
	}
}

func (ss *ScanScheduler) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := ss.Handler.Scanner.Run(ctx)
	if err != nil {
		log.Printf("[Scheduler] Scan failed: %v", err)
		return
	}

	log.Printf("[Scheduler] Scan %s: score=%d violations=%d at-risk=%d diagnostics=%d",
		report.RunID, report.OverallScore, report.TotalViolations,
		report.EmployeesAtRisk, len(report.Diagnostics))
}
