package models

import "time"

// Labels produced by the classifier. Class 1 maps to LabelFake,
// class 0 to LabelReal.
const (
	LabelFake = "Fake Job"
	LabelReal = "Real Job"
)

// PredictionRecord represents one accepted classification stored in the
// 'predictions' table (or one row of the CSV log). Records are
// append-only; nothing in the application updates or deletes them.
type PredictionRecord struct {
	ID              int64     `db:"id" json:"id"`
	JobDescription  string    `db:"job_description" json:"job_description"`
	Prediction      string    `db:"prediction" json:"prediction"`
	Confidence      float64   `db:"confidence" json:"confidence"`
	ProbabilityFake float64   `db:"probability_fake" json:"probability_fake"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// LabelCounts holds the number of stored records per label.
type LabelCounts struct {
	Fake int `json:"fake"`
	Real int `json:"real"`
}

// Total returns the number of records across both labels.
func (c LabelCounts) Total() int { return c.Fake + c.Real }

// DailyCount is the number of records created on one calendar day,
// used by the dashboard time-series chart.
type DailyCount struct {
	Date  string `db:"day" json:"date"` // YYYY-MM-DD
	Count int    `db:"count" json:"count"`
}
