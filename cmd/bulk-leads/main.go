// Command bulk-leads pulls a large batch of property leads for one city
// straight from open data, optionally skip tracing owner phones, and writes
// the result to a CSV in the output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"roofleads_backend/internal/config"
	"roofleads_backend/internal/providers/opendata"
	"roofleads_backend/internal/providers/skiptrace"
	"roofleads_backend/platform/logger"
)

func main() {
	var (
		city       = flag.String("city", "", "city to search (required)")
		state      = flag.String("state", "TX", "state code")
		yearBefore = flag.Int("year-before", 0, "find properties built before this year (default from config)")
		limit      = flag.Int("limit", 100, "max properties to fetch, up to 1000")
		skipTrace  = flag.Bool("skip-trace", false, "skip trace owner phones for the oldest properties")
	)
	flag.Parse()

	if *city == "" {
		fmt.Fprintln(os.Stderr, "usage: bulk-leads -city austin [-state TX] [-year-before 2005] [-limit 500] [-skip-trace]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer := skiptrace.NewService(cfg, log)
	if *skipTrace && !tracer.Configured() {
		log.Warn("skip trace requested but no vendor configured; continuing without phones")
	}

	bulk := opendata.NewBulkSearcher(tracer, cfg.OutputDir, log)

	cutoff := *yearBefore
	if cutoff <= 0 {
		cutoff = cfg.DefaultYearThreshold
	}

	result := bulk.Search(ctx, opendata.BulkRequest{
		City:             *city,
		State:            *state,
		YearBefore:       cutoff,
		Limit:            *limit,
		SkipTraceEnabled: *skipTrace,
	})

	if !result.Success {
		fmt.Fprintln(os.Stderr, "bulk search failed:", result.Error)
		if result.Note != nil {
			fmt.Fprintln(os.Stderr, *result.Note)
		}
		os.Exit(1)
	}

	fmt.Printf("found %d properties in %s (%d with phones)\n", result.TotalFound, result.Location, result.WithPhones)
	if result.CSVPath != nil {
		fmt.Println("wrote", *result.CSVPath)
	}
}
