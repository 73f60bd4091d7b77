package model

import (
	"time"

	"github.com/dumpersafety/dumperwatch/database/db"
	"github.com/dumpersafety/dumperwatch/hazard"
)

// HistoryEntry is one past detection shown on the dashboard's history panel.
type HistoryEntry struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"kind"`
	FileName     string          `json:"fileName"`
	TotalObjects int             `json:"totalObjects"`
	PeakScore    float64         `json:"peakScore"`
	PeakSeverity hazard.Severity `json:"peakSeverity"`
	DetectedAt   time.Time       `json:"detectedAt"`
}

func HistoryEntryFromDetectionRow(row db.DetectionRow) (*HistoryEntry, error) {
	kind, err := ParseKind(row.MediaKind)
	if err != nil {
		return nil, err
	}
	level, ok := hazard.ParseSeverity(row.HazardLevel)
	if !ok {
		level = hazard.Classify(row.PeakScore)
	}
	return &HistoryEntry{
		ID:           row.ID,
		Kind:         kind,
		FileName:     row.FileName,
		TotalObjects: row.TotalObjects,
		PeakScore:    row.PeakScore,
		PeakSeverity: level,
		DetectedAt:   row.DetectedAt,
	}, nil
}
