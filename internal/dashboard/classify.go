package dashboard

// AQISeverity is one of the five ordinal air-quality classes. Boundaries are
// inclusive on the lower class: 50/100/150/200.
type AQISeverity int

const (
	AQIGood AQISeverity = iota
	AQIModerate
	AQIUnhealthySensitive
	AQIUnhealthy
	AQIHazardous
)

// ClassifyAQI maps any AQI value onto its severity class. Total over the
// integers: every value lands in exactly one class.
func ClassifyAQI(aqi int) AQISeverity {
	switch {
	case aqi <= 50:
		return AQIGood
	case aqi <= 100:
		return AQIModerate
	case aqi <= 150:
		return AQIUnhealthySensitive
	case aqi <= 200:
		return AQIUnhealthy
	default:
		return AQIHazardous
	}
}

// Label returns the badge text for the severity class.
func (s AQISeverity) Label() string {
	switch s {
	case AQIGood:
		return "Good"
	case AQIModerate:
		return "Moderate"
	case AQIUnhealthySensitive:
		return "Unhealthy (Sensitive)"
	case AQIUnhealthy:
		return "Unhealthy"
	default:
		return "Hazardous"
	}
}

// CSSClass returns the style class carried by the severity badge.
func (s AQISeverity) CSSClass() string {
	switch s {
	case AQIGood:
		return "good"
	case AQIModerate:
		return "moderate"
	case AQIUnhealthySensitive:
		return "unhealthy-sensitive"
	case AQIUnhealthy:
		return "unhealthy"
	default:
		return "hazardous"
	}
}

// RainLevel is one of the three ordinal rain-probability classes, with
// boundaries at 40 and 70 percent.
type RainLevel int

const (
	RainLow RainLevel = iota
	RainMedium
	RainHigh
)

// ClassifyRain maps a rain probability (percent) onto its level.
func ClassifyRain(probability float64) RainLevel {
	switch {
	case probability >= 70:
		return RainHigh
	case probability >= 40:
		return RainMedium
	default:
		return RainLow
	}
}

// Label returns the badge text for the rain level.
func (l RainLevel) Label() string {
	switch l {
	case RainHigh:
		return "High Rain"
	case RainMedium:
		return "Medium Rain"
	default:
		return "Low Rain"
	}
}

// CSSClass returns the style class carried by the rain badge.
func (l RainLevel) CSSClass() string {
	switch l {
	case RainHigh:
		return "high"
	case RainMedium:
		return "medium"
	default:
		return "low"
	}
}
