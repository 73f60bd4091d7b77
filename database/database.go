package database

import (
	"context"
	"time"

	"github.com/dumpersafety/dumperwatch/database/db"
	"github.com/dumpersafety/dumperwatch/hazard"
	"github.com/dumpersafety/dumperwatch/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lucsky/cuid"
)

// Database is the optional detection history store. The dashboard works
// fine without one; nothing here sits on the detect path.
type Database struct {
	connString string
	pool       *pgxpool.Pool
}

func NewDatabase(connString string) *Database {
	return &Database{
		connString: connString,
	}
}

func (d *Database) Connect(ctx context.Context) error {
	var err error
	d.pool, err = pgxpool.New(ctx, d.connString)
	if err != nil {
		return err
	}
	return nil
}

func (d *Database) Disconnect() {
	d.pool.Close()
}

func (d *Database) AddDetection(ctx context.Context, kind model.Kind, fileName string, totalObjects int, peakScore float64, level hazard.Severity) error {
	// don't really care about the result, as long as this succeeds
	_, err := d.pool.Exec(ctx, `
	INSERT INTO detection_history (id, media_kind, file_name, total_objects, peak_score, hazard_level, detected_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cuid.New(),
		kind,
		fileName,
		totalObjects,
		peakScore,
		level,
		time.Now().UTC(), // the DB stores timezones and assumes UTC
	)
	if err != nil {
		return err
	}
	return nil
}

func (d *Database) RecentDetections(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	var raws []db.DetectionRow
	rows, err := d.pool.Query(ctx, `
	SELECT
		id,
		media_kind,
		file_name,
		total_objects,
		peak_score,
		hazard_level,
		detected_at
	FROM detection_history
	ORDER BY detected_at DESC
	LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	raws, err = pgx.CollectRows(rows, pgx.RowToStructByName[db.DetectionRow])
	if err != nil {
		return nil, err
	}

	for _, raw := range raws {
		entry, err := model.HistoryEntryFromDetectionRow(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return entries, nil
}

