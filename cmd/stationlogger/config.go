package main

import (
	"fmt"

	"github.com/sievlla/vantageclient/pkg/serialio"
	"github.com/sievlla/vantageclient/pkg/vantage"
	"gopkg.in/ini.v1"
)

var validBaudRates = map[int]bool{
	300: true, 600: true, 1200: true, 1800: true, 2400: true,
	4800: true, 9600: true, 19200: true,
}

type stationLoggerConfig struct {
	LogLevel      string
	StationName   string
	LogFile       string
	Timezone      string
	RainCollector string
	Altitude      float64

	Port string
	Baud int

	DataFile string
}

// loadConfig reads the station-logger's INI configuration: General for log
// and station settings, StationComm for the serial link, File for the CSV
// data path.
func loadConfig(path string) (stationLoggerConfig, error) {
	raw, err := ini.Load(path)
	if err != nil {
		return stationLoggerConfig{}, &vantage.ConfigError{Field: "configfile", Reason: err.Error()}
	}

	general := raw.Section("General")
	comm := raw.Section("StationComm")
	file := raw.Section("File")

	cfg := stationLoggerConfig{
		LogLevel:      general.Key("loglevel").MustString("INFO"),
		StationName:   general.Key("station").String(),
		LogFile:       general.Key("logfile").String(),
		Timezone:      general.Key("timezone").MustString("UTC"),
		RainCollector: general.Key("raincollector").MustString("RAIN_02MM"),
		Altitude:      general.Key("altitude").MustFloat64(0),
		Port:          comm.Key("port").String(),
		Baud:          comm.Key("baud").MustInt(serialio.DefaultBaud),
		DataFile:      file.Key("datafile").String(),
	}

	if cfg.Port == "" {
		return cfg, &vantage.ConfigError{Field: "StationComm.port", Reason: "required"}
	}
	if cfg.DataFile == "" {
		return cfg, &vantage.ConfigError{Field: "File.datafile", Reason: "required"}
	}
	if general.HasKey("altitude") {
		if _, err := general.Key("altitude").Float64(); err != nil {
			return cfg, &vantage.ConfigError{Field: "General.altitude", Reason: err.Error()}
		}
	}
	if !validBaudRates[cfg.Baud] {
		return cfg, &vantage.ConfigError{
			Field:  "StationComm.baud",
			Reason: fmt.Sprintf("must be one of 300, 600, 1200, 1800, 2400, 4800, 9600, 19200, got %d", cfg.Baud),
		}
	}
	switch cfg.LogLevel {
	case "ERROR", "WARNING", "INFO", "DEBUG":
	default:
		return cfg, &vantage.ConfigError{Field: "General.loglevel", Reason: "must be one of ERROR, WARNING, INFO, DEBUG"}
	}

	return cfg, nil
}
