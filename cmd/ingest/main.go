/*
main.go - Application entry point

PURPOSE:
  Runs one ingestion pass over a week's raw exports and, optionally, keeps
  serving the normalized results over HTTP for the dashboard.

STARTUP SEQUENCE:
  1. Load .env defaults (if present) and parse command-line flags
  2. Open the cumulative store (CSV snapshot or SQLite, by extension)
  3. Run the ingestion pipeline
  4. Without -serve: print the run report summary and exit
     With -serve: publish the result and serve until SIGINT/SIGTERM

COMMAND-LINE FLAGS:
  -absence        Raw absence export (CSV or XLSX)
  -absence-out    Daily fact table destination (default: daily_absence.csv)
  -timesheet      Raw timesheet export (CSV or XLSX)
  -cumulative     Cumulative store path; .db selects SQLite, anything else
                  is a CSV snapshot (default: blip_cumulative.csv)
  -no-append      Opt out of accumulation; write a fresh normalized
                  snapshot to -timesheet-out instead
  -timesheet-out  Snapshot destination for -no-append
  -serve          Keep serving results over HTTP after the run
  -port           HTTP port for -serve (default: 8080)
  -verbose        Debug-level logging

ENVIRONMENT (.env supported):
  INGEST_ABSENCE, INGEST_TIMESHEET, INGEST_CUMULATIVE provide defaults for
  the corresponding flags, so weekly runs only pass the fresh input paths.

EXIT CODES:
  0 all requested feeds completed
  1 at least one feed failed (the other's output is still written)

EXAMPLES:
  # Weekly run, both feeds, cumulative CSV next to the binary
  ./ingest -absence=week_12/absence.csv -timesheet=week_12/blip.xlsx

  # One-off timesheet normalization without touching the cumulative store
  ./ingest -timesheet=blip.csv -no-append -timesheet-out=blip_clean.csv

  # Run then serve the results to the dashboard
  ./ingest -absence=absence.csv -timesheet=blip.csv -serve -port=3000

SEE ALSO:
  - pipeline/run.go: feed orchestration
  - api/server.go: the -serve surface
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/warp/ingest-engine/api"
	"github.com/warp/ingest-engine/ingest"
	"github.com/warp/ingest-engine/pipeline"
	"github.com/warp/ingest-engine/store/csvfile"
	"github.com/warp/ingest-engine/store/sqlite"
	"github.com/warp/ingest-engine/timesheet"
)

func main() {
	// .env carries site defaults; flags always win.
	_ = godotenv.Load()

	absencePath := flag.String("absence", os.Getenv("INGEST_ABSENCE"), "raw absence export (CSV or XLSX)")
	absenceOut := flag.String("absence-out", "daily_absence.csv", "daily fact table output path")
	timesheetPath := flag.String("timesheet", os.Getenv("INGEST_TIMESHEET"), "raw timesheet export (CSV or XLSX)")
	cumulative := flag.String("cumulative", envOr("INGEST_CUMULATIVE", "blip_cumulative.csv"), "cumulative store path (.db = SQLite)")
	noAppend := flag.Bool("no-append", false, "write a fresh snapshot instead of merging into the cumulative store")
	timesheetOut := flag.String("timesheet-out", "blip_normalized.csv", "snapshot output path for -no-append")
	serve := flag.Bool("serve", false, "serve results over HTTP after the run")
	port := flag.Int("port", 8080, "HTTP port for -serve")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *absencePath == "" && *timesheetPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -absence and/or -timesheet")
		flag.Usage()
		os.Exit(1)
	}

	opts := pipeline.Options{
		AbsencePath:      *absencePath,
		AbsenceOutPath:   *absenceOut,
		TimesheetPath:    *timesheetPath,
		Append:           !*noAppend,
		TimesheetOutPath: *timesheetOut,
		Log:              log,
	}

	if *timesheetPath != "" && opts.Append {
		store, closeStore, err := openStore(*cumulative)
		if err != nil {
			log.Fatalf("failed to open cumulative store: %v", err)
		}
		defer closeStore()
		opts.Store = store
	}

	result, err := pipeline.Run(context.Background(), opts)
	if result != nil {
		printSummary(result.Report)
	}
	if err != nil {
		log.WithError(err).Error("ingestion run failed")
		os.Exit(1)
	}
	if !*serve {
		if result.Report.Failed() {
			os.Exit(1)
		}
		return
	}

	handler := api.NewHandler()
	handler.SetResult(result)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("serving ingestion results on http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown error: %v", err)
	}
}

// openStore picks the cumulative store backend by extension.
func openStore(path string) (timesheet.Store, func(), error) {
	if strings.HasSuffix(strings.ToLower(path), ".db") {
		s, err := sqlite.New(path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	return csvfile.New(path), func() {}, nil
}

func printSummary(report *ingest.RunReport) {
	fmt.Println("----------------------------------------")
	fmt.Printf("Run %s\n", report.RunID)
	printFeed(report.Absence)
	printFeed(report.Timesheet)
	fmt.Println("----------------------------------------")
}

func printFeed(f *ingest.FeedReport) {
	if f == nil {
		return
	}
	fmt.Printf("%-10s state=%s read=%d normalized=%d failed=%d",
		f.Feed, f.State, f.RowsRead, f.RowsNormalized, f.RowsFailed)
	if f.Feed == "absence" {
		fmt.Printf(" facts=%d", f.FactsExpanded)
	} else {
		fmt.Printf(" appended=%d deduplicated=%d", f.RowsMerged, f.RowsDeduplicated)
	}
	if f.OutputPath != "" {
		fmt.Printf(" -> %s", f.OutputPath)
	}
	fmt.Println()
	for _, s := range f.ErrorSamples {
		fmt.Printf("  row error: %s\n", s)
	}
	if f.Failure != "" {
		fmt.Printf("  FAILED: %s\n", f.Failure)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
