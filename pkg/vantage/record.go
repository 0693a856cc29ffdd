package vantage

import "time"

// Record is one decoded 52-byte archive sample, already converted into the
// units the session was configured with. It is a plain value aggregate:
// once returned from the decoder it is never mutated.
type Record struct {
	Timestamp time.Time

	OutTemp           Optional[float64]
	HiOutTemp         Optional[float64]
	LowOutTemp        Optional[float64]
	InsideTemp        Optional[float64]
	OutsideHumidity   Optional[float64]
	InsideHumidity    Optional[float64]
	Barometer         Optional[float64]
	BarometerSea      Optional[float64]
	SolarRadiation    Optional[float64]
	AvgWindSpeed      Optional[float64]
	HighWindSpeed     Optional[float64]
	DirectionPrevWind Optional[WindDirection]
	DirectionHiWind   Optional[WindDirection]
	Rainfall          Optional[float64]
	HighRainRate      Optional[float64]
	NoWindSamples     Optional[int]
}

// In reattaches a time zone to a record's zone-naive timestamp, preserving
// the wall-clock fields the console reported rather than converting them.
// The console never knows its own zone (SPEC_FULL.md design note 5); this
// lets a caller who knows it attach it after the fact.
func (r Record) In(loc *time.Location) Record {
	t := r.Timestamp
	r.Timestamp = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	return r
}

// WindDirection is a decoded compass sector: Index is 0-15 (N..NNW),
// Degrees is Index*22.5, and Name is the two/three-letter compass label.
// Reported as Name or Degrees per Config.WindDirUnit.
type WindDirection struct {
	Index   int
	Name    string
	Degrees float64
}

var compassNames = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Sector builds the WindDirection for a 0-15 compass index, or reports ok
// =false for anything outside that range (index 16 and the archive's 255
// "no wind direction" sentinel included).
func Sector(index int) (WindDirection, bool) {
	if index < 0 || index > 15 {
		return WindDirection{}, false
	}
	return WindDirection{
		Index:   index,
		Name:    compassNames[index],
		Degrees: float64(index) * 22.5,
	}, true
}
