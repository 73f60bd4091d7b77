package db

import "time"

type DetectionRow struct {
	ID           string    `db:"id"`
	MediaKind    string    `db:"media_kind"`
	FileName     string    `db:"file_name"`
	TotalObjects int       `db:"total_objects"`
	PeakScore    float64   `db:"peak_score"`
	HazardLevel  string    `db:"hazard_level"`
	DetectedAt   time.Time `db:"detected_at"`
}
