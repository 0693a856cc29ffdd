package vantage

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

// buildSlot assembles one 52-byte archive record for tests, matching the
// field layout decodeRecord expects.
func buildSlot(t *testing.T, year, month, day, hour, minute int, outTemp, hiOutTemp, lowOutTemp int16,
	rainfall, highRainRate, barometer, solar, noWindSamples uint16, insideTemp int16,
	insideHumidity, outsideHumidity, avgWindSpeed, highWindSpeed, dirHi, dirPrev byte) []byte {
	t.Helper()
	slot := make([]byte, recordSize)
	binary.LittleEndian.PutUint16(slot[0:2], EncodeDate(year, month, day))
	binary.LittleEndian.PutUint16(slot[2:4], EncodeTime(hour, minute))
	binary.LittleEndian.PutUint16(slot[4:6], uint16(outTemp))
	binary.LittleEndian.PutUint16(slot[6:8], uint16(hiOutTemp))
	binary.LittleEndian.PutUint16(slot[8:10], uint16(lowOutTemp))
	binary.LittleEndian.PutUint16(slot[10:12], rainfall)
	binary.LittleEndian.PutUint16(slot[12:14], highRainRate)
	binary.LittleEndian.PutUint16(slot[14:16], barometer)
	binary.LittleEndian.PutUint16(slot[16:18], solar)
	binary.LittleEndian.PutUint16(slot[18:20], noWindSamples)
	binary.LittleEndian.PutUint16(slot[20:22], uint16(insideTemp))
	slot[22] = insideHumidity
	slot[23] = outsideHumidity
	slot[24] = avgWindSpeed
	slot[25] = highWindSpeed
	slot[26] = dirHi
	slot[27] = dirPrev
	return slot
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.TemperatureUnit = Fahrenheit
	cfg.PressureUnit = InchesOfMercury
	cfg.WindSpeedUnit = MilesPerHour
	cfg.RainUnit = Inches
	cfg.RainCollector = RainCollector001In
	cfg.AltitudeMeters = 0
	return cfg
}

func TestDecodeRecord_FullSlot(t *testing.T) {
	slot := buildSlot(t, 2022, 1, 1, 14, 30,
		215, 250, 200,
		3, 1, 30000, 500, 42, 720,
		45, 60, 5, 12, 4, 0)

	rec, err := decodeRecord(testConfig(), slot)
	if err != nil {
		t.Fatalf("decodeRecord: %v", err)
	}

	wantTime := time.Date(2022, 1, 1, 14, 30, 0, 0, time.UTC)
	if !rec.Timestamp.Equal(wantTime) {
		t.Fatalf("Timestamp = %v, want %v", rec.Timestamp, wantTime)
	}
	if v, ok := rec.OutTemp.Get(); !ok || v != 21.5 {
		t.Fatalf("OutTemp = (%v, %v), want 21.5", v, ok)
	}
	if v, ok := rec.HiOutTemp.Get(); !ok || v != 25.0 {
		t.Fatalf("HiOutTemp = (%v, %v), want 25.0", v, ok)
	}
	if v, ok := rec.LowOutTemp.Get(); !ok || v != 20.0 {
		t.Fatalf("LowOutTemp = (%v, %v), want 20.0", v, ok)
	}
	if v, ok := rec.Rainfall.Get(); !ok || math.Abs(v-0.03) > 1e-9 {
		t.Fatalf("Rainfall = (%v, %v), want 0.03", v, ok)
	}
	if v, ok := rec.HighRainRate.Get(); !ok || math.Abs(v-0.01) > 1e-9 {
		t.Fatalf("HighRainRate = (%v, %v), want 0.01", v, ok)
	}
	if v, ok := rec.Barometer.Get(); !ok || v != 30.0 {
		t.Fatalf("Barometer = (%v, %v), want 30.0", v, ok)
	}
	if v, ok := rec.SolarRadiation.Get(); !ok || v != 500.0 {
		t.Fatalf("SolarRadiation = (%v, %v), want 500.0", v, ok)
	}
	if v, ok := rec.NoWindSamples.Get(); !ok || v != 42 {
		t.Fatalf("NoWindSamples = (%v, %v), want 42", v, ok)
	}
	if v, ok := rec.InsideTemp.Get(); !ok || v != 72.0 {
		t.Fatalf("InsideTemp = (%v, %v), want 72.0", v, ok)
	}
	if v, ok := rec.InsideHumidity.Get(); !ok || v != 45 {
		t.Fatalf("InsideHumidity = (%v, %v), want 45", v, ok)
	}
	if v, ok := rec.OutsideHumidity.Get(); !ok || v != 60 {
		t.Fatalf("OutsideHumidity = (%v, %v), want 60", v, ok)
	}
	if v, ok := rec.AvgWindSpeed.Get(); !ok || v != 5 {
		t.Fatalf("AvgWindSpeed = (%v, %v), want 5", v, ok)
	}
	if v, ok := rec.HighWindSpeed.Get(); !ok || v != 12 {
		t.Fatalf("HighWindSpeed = (%v, %v), want 12", v, ok)
	}
	if dir, ok := rec.DirectionHiWind.Get(); !ok || dir.Name != "E" {
		t.Fatalf("DirectionHiWind = (%v, %v), want E", dir, ok)
	}
	if dir, ok := rec.DirectionPrevWind.Get(); !ok || dir.Name != "N" {
		t.Fatalf("DirectionPrevWind = (%v, %v), want N", dir, ok)
	}

	// Invariant 5: sea-level pressure present exactly when both barometer
	// and inside temperature are present, and with zero altitude it equals
	// the measured barometer reading.
	if v, ok := rec.BarometerSea.Get(); !ok || math.Abs(v-30.0) > 1e-6 {
		t.Fatalf("BarometerSea = (%v, %v), want 30.0", v, ok)
	}
}

func TestDecodeRecord_SentinelsBecomeAbsent(t *testing.T) {
	slot := buildSlot(t, 2022, 6, 15, 9, 0,
		32767, -32768, 32767,
		0, 0, 0, 32767, 0, 32767,
		255, 255, 255, 0, 255, 255)

	rec, err := decodeRecord(testConfig(), slot)
	if err != nil {
		t.Fatalf("decodeRecord: %v", err)
	}
	if rec.OutTemp.Valid() {
		t.Fatal("OutTemp sentinel 32767 should decode to absent")
	}
	if rec.HiOutTemp.Valid() {
		t.Fatal("HiOutTemp sentinel -32768 should decode to absent")
	}
	if rec.LowOutTemp.Valid() {
		t.Fatal("LowOutTemp sentinel 32767 should decode to absent")
	}
	if rec.Barometer.Valid() {
		t.Fatal("Barometer sentinel 0 should decode to absent")
	}
	if rec.BarometerSea.Valid() {
		t.Fatal("BarometerSea should be absent when Barometer is absent (invariant 5)")
	}
	if rec.SolarRadiation.Valid() {
		t.Fatal("SolarRadiation sentinel 32767 should decode to absent")
	}
	if rec.NoWindSamples.Valid() {
		t.Fatal("NoWindSamples sentinel 0 should decode to absent")
	}
	if rec.InsideTemp.Valid() {
		t.Fatal("InsideTemp sentinel 32767 should decode to absent")
	}
	if rec.InsideHumidity.Valid() {
		t.Fatal("InsideHumidity sentinel 255 should decode to absent")
	}
	if rec.OutsideHumidity.Valid() {
		t.Fatal("OutsideHumidity sentinel 255 should decode to absent")
	}
	if rec.AvgWindSpeed.Valid() {
		t.Fatal("AvgWindSpeed sentinel 255 should decode to absent")
	}
	if rec.HighWindSpeed.Valid() {
		t.Fatal("HighWindSpeed sentinel 0 should decode to absent")
	}
	if rec.DirectionHiWind.Valid() {
		t.Fatal("DirectionHiWind sentinel 255 should decode to absent")
	}
	if rec.DirectionPrevWind.Valid() {
		t.Fatal("DirectionPrevWind sentinel 255 should decode to absent")
	}
	// Rainfall and HighRainRate have no sentinel: zero clicks is a real
	// zero-value measurement, always present.
	if v, ok := rec.Rainfall.Get(); !ok || v != 0 {
		t.Fatalf("Rainfall with 0 clicks = (%v, %v), want (0, true)", v, ok)
	}
}

func TestIsValidSlot(t *testing.T) {
	good := buildSlot(t, 2022, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	if !isValidSlot(good) {
		t.Fatal("well-formed slot should be valid")
	}

	blank := make([]byte, recordSize)
	for i := range blank {
		blank[i] = 0xFF
	}
	if isValidSlot(blank) {
		t.Fatal("all-0xFF slot should be invalid")
	}
}

func TestDecodeRecord_WrongLength(t *testing.T) {
	if _, err := decodeRecord(DefaultConfig(), make([]byte, recordSize-1)); err == nil {
		t.Fatal("decodeRecord should reject a slot of the wrong length")
	}
}
