package hazard

import (
	"math"
	"strings"
)

// Severity tiers, ordered least to most dangerous.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Compare returns -1, 0, or 1 as a sorts before, equal to, or after b.
// Unrecognized severities sort below LOW.
func Compare(a, b Severity) int {
	ra, ok := severityRank[a]
	if !ok {
		ra = -1
	}
	rb, ok := severityRank[b]
	if !ok {
		rb = -1
	}
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// Classify maps a hazard score to its severity tier.
// Scores below zero (and NaN, which the backend should never send) are
// treated as zero.
func Classify(score float64) Severity {
	if math.IsNaN(score) || score < 0 {
		score = 0
	}
	switch {
	case score >= 75:
		return SeverityCritical
	case score >= 50:
		return SeverityHigh
	case score >= 25:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ParseSeverity parses a server-supplied level string. The backend sends
// upper-case values but older deployments were inconsistent about casing.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToUpper(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityHigh:
		return SeverityHigh, true
	case SeverityCritical:
		return SeverityCritical, true
	default:
		return "", false
	}
}
