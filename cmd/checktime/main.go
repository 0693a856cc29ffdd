// Command checktime reports or corrects a console's clock drift against
// local time.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sievlla/vantageclient/internal/applog"
	"github.com/sievlla/vantageclient/internal/constants"
	"github.com/sievlla/vantageclient/pkg/serialio"
	"github.com/sievlla/vantageclient/pkg/vantage"
	"go.uber.org/zap/zapcore"
)

func main() {
	baudrate := flag.Int("baudrate", serialio.DefaultBaud, "serial baud rate")
	check := flag.Bool("check", false, "print minutes of drift instead of station time")
	timezone := flag.String("timezone", "UTC", "time zone to label station time with, e.g. Etc/GMT-1")
	timedelta := flag.Int("timedelta", 1, "drift threshold in minutes before --settime corrects the clock")
	settime := flag.Bool("settime", false, "push current local time to the station if drift exceeds --timedelta")
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("checktime %s (%s/%s)\n", constants.Version, runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	portname := "/dev/ttyUSB0"
	if flag.NArg() > 0 {
		portname = flag.Arg(0)
	}

	level := zapcore.InfoLevel
	if *debug {
		level = zapcore.DebugLevel
	}
	logger := applog.New(applog.Options{Level: level})
	defer logger.Sync()

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		logger.Fatalw("invalid timezone", "timezone", *timezone, "error", err)
	}

	port, err := serialio.Open(serialio.Config{Name: portname, Baud: *baudrate})
	if err != nil {
		logger.Fatalw("opening serial port", "port", portname, "error", err)
	}
	defer port.Close()

	station := vantage.NewStation(port, vantage.DefaultConfig(), logger)
	if err := station.WakeUp(); err != nil {
		logger.Fatalw("waking station", "error", err)
	}

	stationTime, err := station.GetTime()
	if err != nil {
		logger.Fatalw("reading station time", "error", err)
	}
	// The console is zone-naive: its wall-clock fields are reattached to
	// --timezone rather than converted, per Station.GetTime's contract.
	localized := time.Date(stationTime.Year(), stationTime.Month(), stationTime.Day(),
		stationTime.Hour(), stationTime.Minute(), stationTime.Second(), 0, loc)
	now := time.Now().In(loc)
	driftMinutes := int(now.Sub(localized).Minutes())

	switch {
	case *check:
		fmt.Println(driftMinutes)
	case *settime:
		if abs(driftMinutes) <= *timedelta {
			fmt.Printf("drift %dm within threshold %dm, not adjusting\n", driftMinutes, *timedelta)
			return
		}
		newTime := time.Now().In(loc)
		if err := station.SetTime(newTime); err != nil {
			logger.Fatalw("setting station time", "error", err)
		}
		fmt.Println(newTime.Format("2006-01-02T15:04:05"))
	default:
		fmt.Println(localized.Format("2006-01-02T15:04:05"))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
