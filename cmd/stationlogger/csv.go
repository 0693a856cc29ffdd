package main

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sievlla/vantageclient/pkg/vantage"
)

var csvHeader = []string{
	"DATE_TIME", "TEMP", "TEMPMIN", "TEMPMAX", "PRESS", "PRESSSEA", "HUM",
	"WIND_SPEED", "WIND_DIR", "WIND_GUST_SPEED", "WIND_GUST_DIR", "RAIN", "RAIN_RATE",
}

// csvRow is the on-disk shape of one persisted record. Every measurement
// column is a pre-formatted string ("NA" for absent) so the file matches
// the persisted format exactly without a custom gocsv marshaller per field.
type csvRow struct {
	DateTime      string `csv:"DATE_TIME"`
	Temp          string `csv:"TEMP"`
	TempMin       string `csv:"TEMPMIN"`
	TempMax       string `csv:"TEMPMAX"`
	Press         string `csv:"PRESS"`
	PressSea      string `csv:"PRESSSEA"`
	Hum           string `csv:"HUM"`
	WindSpeed     string `csv:"WIND_SPEED"`
	WindDir       string `csv:"WIND_DIR"`
	WindGustSpeed string `csv:"WIND_GUST_SPEED"`
	WindGustDir   string `csv:"WIND_GUST_DIR"`
	Rain          string `csv:"RAIN"`
	RainRate      string `csv:"RAIN_RATE"`
}

func formatOptional(o vantage.Optional[float64]) string {
	v, ok := o.Get()
	if !ok {
		return "NA"
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatWindDir(o vantage.Optional[vantage.WindDirection], unit vantage.WindDirUnit) string {
	d, ok := o.Get()
	if !ok {
		return "NA"
	}
	if unit == vantage.WindDirDegrees {
		return strconv.FormatFloat(d.Degrees, 'f', 1, 64)
	}
	return d.Name
}

func toCSVRow(rec vantage.Record, loc *time.Location, windDirUnit vantage.WindDirUnit) csvRow {
	local := rec.In(loc)
	return csvRow{
		DateTime:      local.Timestamp.Format("2006-01-02T15:04:05"),
		Temp:          formatOptional(rec.OutTemp),
		TempMin:       formatOptional(rec.LowOutTemp),
		TempMax:       formatOptional(rec.HiOutTemp),
		Press:         formatOptional(rec.Barometer),
		PressSea:      formatOptional(rec.BarometerSea),
		Hum:           formatOptional(rec.OutsideHumidity),
		WindSpeed:     formatOptional(rec.AvgWindSpeed),
		WindDir:       formatWindDir(rec.DirectionPrevWind, windDirUnit),
		WindGustSpeed: formatOptional(rec.HighWindSpeed),
		WindGustDir:   formatWindDir(rec.DirectionHiWind, windDirUnit),
		Rain:          formatOptional(rec.Rainfall),
		RainRate:      formatOptional(rec.HighRainRate),
	}
}

// readLastTimestamp returns the high-water mark from an existing data
// file, or the zero time if the file doesn't exist yet or has no rows.
func readLastTimestamp(path string) (time.Time, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	var rows []csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return time.Time{}, err
	}
	if len(rows) == 0 {
		return time.Time{}, nil
	}
	last := rows[len(rows)-1]
	return time.ParseInLocation("2006-01-02T15:04:05", last.DateTime, time.UTC)
}

// appendRecords writes rows to path, creating the file and its header line
// if it doesn't already exist.
func appendRecords(path string, rows []csvRow) error {
	needHeader := true
	if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if needHeader {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}
