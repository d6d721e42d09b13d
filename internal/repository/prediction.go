package repository

import (
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"jobguard/internal/models"
)

// PredictionStore persists accepted classifications and answers the
// aggregate queries behind the dashboard and history views. Records
// are append-only. Aggregates are always derived from the stored
// records on read, so they can never drift from the log across
// restarts.
type PredictionStore interface {
	// Append durably persists a new record, stamping CreatedAt and
	// filling ID. A failed write must surface as an error; a record the
	// caller believes saved is never silently dropped.
	Append(rec *models.PredictionRecord) error
	CountsByLabel() (models.LabelCounts, error)
	// LastRecord returns the most recently appended record, or nil
	// when the store is empty.
	LastRecord() (*models.PredictionRecord, error)
	// History returns every record, newest first.
	History() ([]*models.PredictionRecord, error)
	// DailyCounts returns one entry per calendar day with at least one
	// record, ascending by date. With exactly one distinct day a
	// zero-count entry for the preceding day is prepended so a
	// time-series chart always has two points.
	DailyCounts() ([]models.DailyCount, error)
	Close() error
}

type sqlPredictionStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSQLPredictionStore returns a PredictionStore over an open sqlite
// or postgres connection. Queries are written with '?' bindvars and
// rebound per driver.
func NewSQLPredictionStore(db *sqlx.DB, logger *zap.Logger) PredictionStore {
	return &sqlPredictionStore{db: db, logger: logger}
}

func (r *sqlPredictionStore) Append(rec *models.PredictionRecord) error {
	rec.CreatedAt = time.Now().UTC()
	query := r.db.Rebind(`INSERT INTO predictions (job_description, prediction, confidence, probability_fake, created_at)
	          VALUES (?, ?, ?, ?, ?) RETURNING id`)
	return r.db.QueryRowx(query, rec.JobDescription, rec.Prediction, rec.Confidence, rec.ProbabilityFake, rec.CreatedAt).Scan(&rec.ID)
}

func (r *sqlPredictionStore) CountsByLabel() (models.LabelCounts, error) {
	rows, err := r.db.Queryx(`SELECT prediction, COUNT(*) AS count FROM predictions GROUP BY prediction`)
	if err != nil {
		return models.LabelCounts{}, err
	}
	defer rows.Close()

	var counts models.LabelCounts
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return models.LabelCounts{}, err
		}
		switch label {
		case models.LabelFake:
			counts.Fake = n
		case models.LabelReal:
			counts.Real = n
		default:
			r.logger.Warn("Unexpected label in predictions table", zap.String("label", label))
		}
	}
	return counts, rows.Err()
}

func (r *sqlPredictionStore) LastRecord() (*models.PredictionRecord, error) {
	var rec models.PredictionRecord
	query := `SELECT id, job_description, prediction, confidence, probability_fake, created_at
	          FROM predictions ORDER BY id DESC LIMIT 1`
	err := r.db.Get(&rec, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqlPredictionStore) History() ([]*models.PredictionRecord, error) {
	records := []*models.PredictionRecord{}
	query := `SELECT id, job_description, prediction, confidence, probability_fake, created_at
	          FROM predictions ORDER BY id DESC`
	if err := r.db.Select(&records, query); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sqlPredictionStore) DailyCounts() ([]models.DailyCount, error) {
	var stamps []time.Time
	if err := r.db.Select(&stamps, `SELECT created_at FROM predictions`); err != nil {
		return nil, err
	}
	return dailyCountsOf(stamps), nil
}

func (r *sqlPredictionStore) Close() error {
	return r.db.Close()
}

// dailyCountsOf groups timestamps by calendar day (UTC), ascending.
// A single distinct day gets a synthetic zero-count predecessor
// prepended so charts always have at least two points.
func dailyCountsOf(stamps []time.Time) []models.DailyCount {
	byDay := make(map[string]int)
	for _, ts := range stamps {
		byDay[ts.UTC().Format("2006-01-02")]++
	}
	if len(byDay) == 0 {
		return []models.DailyCount{}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	counts := make([]models.DailyCount, 0, len(days)+1)
	if len(days) == 1 {
		only, _ := time.Parse("2006-01-02", days[0])
		prev := only.AddDate(0, 0, -1).Format("2006-01-02")
		counts = append(counts, models.DailyCount{Date: prev, Count: 0})
	}
	for _, day := range days {
		counts = append(counts, models.DailyCount{Date: day, Count: byDay[day]})
	}
	return counts
}
