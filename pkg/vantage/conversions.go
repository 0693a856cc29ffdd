package vantage

import "math"

// Conversion constants for the barometric formula, copied from the
// upstream implementation this client is ported from. g0 is gravitational
// acceleration at 45 degrees latitude, rs is the universal gas constant,
// mAir is the molar mass of dry air.
const (
	g0   = 9.80665
	rs   = 8.31432
	mAir = 0.0289644

	// kelvinOffset intentionally reproduces the upstream library's
	// 273.75, not the physically correct 273.15, so that sea-level
	// pressure computed here stays bit-compatible with existing
	// archives. See SPEC_FULL.md open question 2.
	kelvinOffset = 273.75
)

// fahrenheitTenths converts a raw "degrees F times 10" reading to the
// session's configured temperature unit.
func (c Config) fahrenheitTenths(raw int16) float64 {
	degF := float64(raw) / 10.0
	if c.TemperatureUnit == Fahrenheit {
		return degF
	}
	return 5.0 / 9.0 * (degF - 32)
}

// windSpeedMPH converts a raw miles-per-hour reading to the session's
// configured wind speed unit.
func (c Config) windSpeedMPH(raw float64) float64 {
	if c.WindSpeedUnit == MilesPerHour {
		return raw
	}
	return raw * 0.44704
}

// pressureThousandthsInHg converts a raw "inches Hg times 1000" reading to
// the session's configured pressure unit.
func (c Config) pressureThousandthsInHg(raw uint16) float64 {
	inHg := float64(raw) / 1000.0
	if c.PressureUnit == InchesOfMercury {
		return inHg
	}
	return inHg * 33.86389
}

// rainClicks converts a raw tipping-bucket click count to the session's
// configured rainfall unit, using the collector size selected in Config.
func (c Config) rainClicks(clicks uint16) float64 {
	var perClick float64
	switch c.RainUnit {
	case Inches:
		switch c.RainCollector {
		case RainCollector001In:
			perClick = 0.01
		case RainCollector01MM:
			perClick = 0.1 / 25.45
		case RainCollector02MM:
			perClick = 0.2 / 25.45
		}
	default: // Millimeters
		switch c.RainCollector {
		case RainCollector001In:
			perClick = 0.01 * 25.45
		case RainCollector01MM:
			perClick = 0.1
		case RainCollector02MM:
			perClick = 0.2
		}
	}
	return float64(clicks) * perClick
}

// windDirection converts a raw 0-15 sector index into a WindDirection
// carrying both its name and its degrees, returning ok=false for anything
// outside that range. Config.WindDirUnit is not applied here.
func (c Config) windDirection(raw uint8) (WindDirection, bool) {
	return Sector(int(raw))
}

// SeaLevelPressure reduces a measured barometric pressure (in the
// session's configured pressure unit, already converted) to sea level
// using the barometric formula, given the inside temperature in Celsius
// and the station's configured altitude.
//
// The formula deliberately uses T+273.75 rather than the physically
// correct T+273.15; this reproduces the upstream library's behaviour for
// bit-compatibility with existing archives (see SPEC_FULL.md open
// question 2). If any input is NaN, the result is NaN.
func SeaLevelPressure(pressure, insideTempCelsius, altitudeMeters float64) float64 {
	deltaH := -altitudeMeters
	if math.IsNaN(pressure) || math.IsNaN(insideTempCelsius) || math.IsNaN(deltaH) {
		return math.NaN()
	}
	t := insideTempCelsius + kelvinOffset
	return pressure * math.Exp((-g0*mAir*deltaH)/(rs*t))
}
