package vantage

import (
	"math"
	"testing"
)

func TestFahrenheitTenths(t *testing.T) {
	cfg := DefaultConfig() // Celsius
	if got := cfg.fahrenheitTenths(215); math.Abs(got-(-5.833333)) > 1e-4 {
		t.Fatalf("fahrenheitTenths(215) = %v, want ~-5.83C", got)
	}
	cfg.TemperatureUnit = Fahrenheit
	if got := cfg.fahrenheitTenths(215); got != 21.5 {
		t.Fatalf("fahrenheitTenths(215) in F = %v, want 21.5", got)
	}
}

func TestWindSpeedMPH(t *testing.T) {
	cfg := DefaultConfig() // m/s
	if got := cfg.windSpeedMPH(10); math.Abs(got-4.4704) > 1e-9 {
		t.Fatalf("windSpeedMPH(10) = %v, want 4.4704", got)
	}
	cfg.WindSpeedUnit = MilesPerHour
	if got := cfg.windSpeedMPH(10); got != 10 {
		t.Fatalf("windSpeedMPH(10) in mph = %v, want 10", got)
	}
}

func TestPressureThousandthsInHg(t *testing.T) {
	cfg := DefaultConfig() // hPa
	got := cfg.pressureThousandthsInHg(30000) // 30.000 inHg
	want := 30.0 * 33.86389
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("pressureThousandthsInHg(30000) = %v, want %v", got, want)
	}
	cfg.PressureUnit = InchesOfMercury
	if got := cfg.pressureThousandthsInHg(30000); got != 30.0 {
		t.Fatalf("pressureThousandthsInHg(30000) in inHg = %v, want 30.0", got)
	}
}

func TestRainClicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RainCollector = RainCollector02MM
	cfg.RainUnit = Millimeters
	if got := cfg.rainClicks(5); got != 1.0 {
		t.Fatalf("rainClicks(5) @0.2mm = %v, want 1.0", got)
	}
	cfg.RainUnit = Inches
	if got := cfg.rainClicks(5); math.Abs(got-1.0/25.45) > 1e-9 {
		t.Fatalf("rainClicks(5) @0.2mm in inches = %v, want %v", got, 1.0/25.45)
	}
}

func TestSeaLevelPressure_NaNPropagation(t *testing.T) {
	if got := SeaLevelPressure(math.NaN(), 20, 100); !math.IsNaN(got) {
		t.Fatalf("SeaLevelPressure with NaN pressure = %v, want NaN", got)
	}
}

func TestSeaLevelPressure_ZeroAltitudeIsIdentity(t *testing.T) {
	got := SeaLevelPressure(1013.25, 15, 0)
	if math.Abs(got-1013.25) > 1e-9 {
		t.Fatalf("SeaLevelPressure at sea level altitude = %v, want 1013.25 unchanged", got)
	}
}

func TestSeaLevelPressure_IncreasesWithAltitude(t *testing.T) {
	measured := 950.0
	reduced := SeaLevelPressure(measured, 15, 500)
	if reduced <= measured {
		t.Fatalf("SeaLevelPressure(%v at 500m) = %v, want something greater than the measured value", measured, reduced)
	}
}
