// Command stationlogger downloads new archive records from a console since
// the last run and appends them to a CSV data file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sievlla/vantageclient/internal/applog"
	"github.com/sievlla/vantageclient/internal/constants"
	"github.com/sievlla/vantageclient/pkg/serialio"
	"github.com/sievlla/vantageclient/pkg/vantage"
)

func main() {
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("stationlogger %s (%s/%s)\n", constants.Version, runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: stationlogger [--version] <configfile>")
		os.Exit(2)
	}

	cfg, err := loadConfig(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := applog.New(applog.Options{Level: level, LogFile: cfg.LogFile, CorrelationID: runID})
	defer logger.Sync()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatalw("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	collector, err := vantage.ParseRainCollector(cfg.RainCollector)
	if err != nil {
		logger.Fatalw("invalid rain collector", "error", err)
	}

	vcfg := vantage.DefaultConfig()
	vcfg.RainCollector = collector
	vcfg.AltitudeMeters = cfg.Altitude
	vcfg.WindDirUnit = vantage.WindDirDegrees

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	port, err := serialio.Open(serialio.Config{Name: cfg.Port, Baud: cfg.Baud})
	if err != nil {
		logger.Fatalw("opening serial port", "port", cfg.Port, "error", err)
	}
	defer port.Close()

	station := vantage.NewStation(port, vcfg, logger)
	if err := station.WakeUp(); err != nil {
		logger.Fatalw("waking station", "error", err)
	}

	since, err := readLastTimestamp(cfg.DataFile)
	if err != nil {
		logger.Fatalw("reading existing data file", "file", cfg.DataFile, "error", err)
	}
	logger.Infow("downloading archive", "station", cfg.StationName, "since", since)

	type dumpResult struct {
		records []vantage.Record
		err     error
	}
	resultCh := make(chan dumpResult, 1)
	go func() {
		records, err := station.GetArchiveData(since)
		resultCh <- dumpResult{records, err}
	}()

	select {
	case <-ctx.Done():
		logger.Warnw("interrupted, closing port to abort in-flight download")
		port.Close()
		<-resultCh
		os.Exit(130)
	case res := <-resultCh:
		if res.err != nil {
			logger.Fatalw("downloading archive", "error", res.err)
		}
		rows := make([]csvRow, len(res.records))
		for i, rec := range res.records {
			rows[i] = toCSVRow(rec, loc, vcfg.WindDirUnit)
		}
		if err := appendRecords(cfg.DataFile, rows); err != nil {
			logger.Fatalw("appending records", "file", cfg.DataFile, "error", err)
		}
		logger.Infow("archive download complete", "new_records", len(res.records))
	}
}
