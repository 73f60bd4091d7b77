package hazard

// Color is the display token the dashboard uses for a severity tier.
type Color string

const (
	ColorGreen  Color = "green"
	ColorAmber  Color = "amber"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	// ColorGray is the fallback for anything unrecognized.
	ColorGray Color = "gray"
)

// ColorOf is total: any value outside the known tiers gets the neutral gray.
func ColorOf(level Severity) Color {
	switch level {
	case SeverityLow:
		return ColorGreen
	case SeverityMedium:
		return ColorAmber
	case SeverityHigh:
		return ColorOrange
	case SeverityCritical:
		return ColorRed
	default:
		return ColorGray
	}
}

// Hex returns the CSS hex code for a color token. These match the codes the
// detection backend embeds in its annotated previews.
func (c Color) Hex() string {
	switch c {
	case ColorGreen:
		return "#00FF00"
	case ColorAmber:
		return "#FFD700"
	case ColorOrange:
		return "#FF6B00"
	case ColorRed:
		return "#FF0000"
	default:
		return "#9E9E9E"
	}
}
