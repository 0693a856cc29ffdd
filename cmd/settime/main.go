// Command settime pushes an explicit date-time to a console.
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
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("settime %s (%s/%s)\n", constants.Version, runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: settime [--baudrate N] <portname> <newtime YYYY-MM-DDTHH:MM:SS>")
		os.Exit(2)
	}
	portname := flag.Arg(0)
	newTime, err := time.Parse("2006-01-02T15:04:05", flag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid newtime:", err)
		os.Exit(2)
	}

	level := zapcore.InfoLevel
	if *debug {
		level = zapcore.DebugLevel
	}
	logger := applog.New(applog.Options{Level: level})
	defer logger.Sync()

	port, err := serialio.Open(serialio.Config{Name: portname, Baud: *baudrate})
	if err != nil {
		logger.Fatalw("opening serial port", "port", portname, "error", err)
	}
	defer port.Close()

	station := vantage.NewStation(port, vantage.DefaultConfig(), logger)
	if err := station.WakeUp(); err != nil {
		logger.Fatalw("waking station", "error", err)
	}
	if err := station.SetTime(newTime); err != nil {
		logger.Fatalw("setting station time", "error", err)
	}
	fmt.Println(newTime.Format("2006-01-02T15:04:05"))
}
