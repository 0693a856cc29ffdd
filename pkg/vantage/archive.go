package vantage

import (
	"encoding/binary"
	"time"
)

// recordSize is the width of one archive slot on the wire.
const recordSize = 52

// isValidSlot implements the validity predicate from SPEC_FULL.md 4.3: the
// packed date/time words must not be the 0xFFFF sentinel and must decode
// within range.
func isValidSlot(slot []byte) bool {
	date := binary.LittleEndian.Uint16(slot[0:2])
	tm := binary.LittleEndian.Uint16(slot[2:4])
	if date == 0xFFFF || tm == 0xFFFF {
		return false
	}
	if _, _, _, ok := DecodeDate(date); !ok {
		return false
	}
	if _, _, ok := DecodeTime(tm); !ok {
		return false
	}
	return true
}

// decodeRecord decodes one 52-byte archive slot into a Record, applying
// the session's configured units and sentinel-to-null mapping from
// SPEC_FULL.md's field table. The caller must have already confirmed the
// slot passes isValidSlot.
func decodeRecord(cfg Config, slot []byte) (Record, error) {
	if len(slot) != recordSize {
		return Record{}, &DecodeError{Field: "slot", Reason: "wrong length"}
	}

	date := binary.LittleEndian.Uint16(slot[0:2])
	tm := binary.LittleEndian.Uint16(slot[2:4])
	year, month, day, ok := DecodeDate(date)
	if !ok {
		return Record{}, &DecodeError{Field: "packed_date", Reason: "out of range"}
	}
	hour, minute, ok := DecodeTime(tm)
	if !ok {
		return Record{}, &DecodeError{Field: "packed_time", Reason: "out of range"}
	}

	outTempRaw := int16(binary.LittleEndian.Uint16(slot[4:6]))
	hiOutTempRaw := int16(binary.LittleEndian.Uint16(slot[6:8]))
	lowOutTempRaw := int16(binary.LittleEndian.Uint16(slot[8:10]))
	rainfallRaw := binary.LittleEndian.Uint16(slot[10:12])
	highRainRateRaw := binary.LittleEndian.Uint16(slot[12:14])
	barometerRaw := binary.LittleEndian.Uint16(slot[14:16])
	solarRaw := binary.LittleEndian.Uint16(slot[16:18])
	noWindSamplesRaw := binary.LittleEndian.Uint16(slot[18:20])
	insideTempRaw := int16(binary.LittleEndian.Uint16(slot[20:22]))
	insideHumidityRaw := slot[22]
	outsideHumidityRaw := slot[23]
	avgWindSpeedRaw := slot[24]
	highWindSpeedRaw := slot[25]
	directionHiWindRaw := slot[26]
	directionPrevWindRaw := slot[27]

	rec := Record{
		Timestamp:    time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC),
		Rainfall:     Some(cfg.rainClicks(rainfallRaw)),
		HighRainRate: Some(cfg.rainClicks(highRainRateRaw)),
	}

	if outTempRaw != 32767 {
		rec.OutTemp = Some(cfg.fahrenheitTenths(outTempRaw))
	}
	if hiOutTempRaw != -32768 {
		rec.HiOutTemp = Some(cfg.fahrenheitTenths(hiOutTempRaw))
	}
	if lowOutTempRaw != 32767 {
		rec.LowOutTemp = Some(cfg.fahrenheitTenths(lowOutTempRaw))
	}

	var barometer Optional[float64]
	if barometerRaw != 0 {
		barometer = Some(cfg.pressureThousandthsInHg(barometerRaw))
		rec.Barometer = barometer
	}

	if solarRaw != 32767 {
		rec.SolarRadiation = Some(float64(solarRaw))
	}
	if noWindSamplesRaw != 0 {
		rec.NoWindSamples = Some(int(noWindSamplesRaw))
	}

	var insideTempCelsius Optional[float64]
	if insideTempRaw != 32767 {
		rec.InsideTemp = Some(cfg.fahrenheitTenths(insideTempRaw))
		insideTempCelsius = Some(5.0 / 9.0 * (float64(insideTempRaw)/10.0 - 32))
	}

	if insideHumidityRaw != 255 {
		rec.InsideHumidity = Some(float64(insideHumidityRaw))
	}
	if outsideHumidityRaw != 255 {
		rec.OutsideHumidity = Some(float64(outsideHumidityRaw))
	}
	if avgWindSpeedRaw != 255 {
		rec.AvgWindSpeed = Some(cfg.windSpeedMPH(float64(avgWindSpeedRaw)))
	}
	if highWindSpeedRaw != 0 {
		rec.HighWindSpeed = Some(cfg.windSpeedMPH(float64(highWindSpeedRaw)))
	}
	if dir, ok := cfg.windDirection(directionHiWindRaw); ok && directionHiWindRaw != 255 {
		rec.DirectionHiWind = Some(dir)
	}
	if dir, ok := cfg.windDirection(directionPrevWindRaw); ok && directionPrevWindRaw != 255 {
		rec.DirectionPrevWind = Some(dir)
	}

	// Sea-level reduction is present iff both barometer and inside temp
	// are present (SPEC_FULL.md invariant 5), and always computed from
	// inside temp in Celsius regardless of the session's display unit.
	if bp, ok := barometer.Get(); ok {
		if it, ok := insideTempCelsius.Get(); ok {
			rec.BarometerSea = Some(SeaLevelPressure(bp, it, cfg.AltitudeMeters))
		}
	}

	return rec, nil
}
