package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"jobguard/internal/models"
)

// timeLayout matches the log format of the original flat-file variant.
const timeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"timestamp", "job_description", "prediction", "confidence"}

// csvPredictionStore is the flat-file backend: an append-only quoted
// CSV log with a fixed header, re-parsed in full on every read. A
// mutex serialises appends so concurrent requests cannot interleave
// rows. Read failures (missing file, malformed rows) degrade to empty
// results; write failures always propagate.
//
// The file layout carries no probability_fake column, so records read
// back report it as zero. The relational backends keep the full record.
type csvPredictionStore struct {
	path   string
	mu     sync.Mutex
	nextID int64
	logger *zap.Logger
}

// NewCSVPredictionStore returns a PredictionStore appending to the CSV
// file at path. The file is created lazily on first append.
func NewCSVPredictionStore(path string, logger *zap.Logger) (PredictionStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	s := &csvPredictionStore{path: path, logger: logger}
	// Seed the ID sequence past any rows already in the log.
	s.nextID = int64(len(s.readAll()))
	return s, nil
}

func (s *csvPredictionStore) Append(rec *models.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	writeHeader := os.IsNotExist(err) || (err == nil && info.Size() == 0)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat prediction log: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open prediction log: %w", err)
	}
	defer f.Close()

	rec.CreatedAt = time.Now().UTC()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write log header: %w", err)
		}
	}
	row := []string{
		rec.CreatedAt.Format(timeLayout),
		rec.JobDescription,
		rec.Prediction,
		strconv.FormatFloat(rec.Confidence, 'f', 2, 64),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to append prediction: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush prediction log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync prediction log: %w", err)
	}

	s.nextID++
	rec.ID = s.nextID
	return nil
}

// readAll parses the whole log. Any read or parse problem degrades to
// the rows recovered so far; a torn or hand-edited line must not take
// down the history view.
func (s *csvPredictionStore) readAll() []*models.PredictionRecord {
	f, err := os.Open(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to open prediction log, treating as empty", zap.Error(err))
		}
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records []*models.PredictionRecord
	var id int64
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.logger.Warn("Malformed row in prediction log, skipping", zap.Error(err))
			continue
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == csvHeader[0] {
				continue
			}
		}
		if len(row) < 4 {
			s.logger.Warn("Short row in prediction log, skipping", zap.Int("fields", len(row)))
			continue
		}

		ts, err := time.Parse(timeLayout, row[0])
		if err != nil {
			s.logger.Warn("Bad timestamp in prediction log, skipping", zap.String("value", row[0]))
			continue
		}
		confidence, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			s.logger.Warn("Bad confidence in prediction log, skipping", zap.String("value", row[3]))
			continue
		}

		id++
		records = append(records, &models.PredictionRecord{
			ID:             id,
			JobDescription: row[1],
			Prediction:     row[2],
			Confidence:     confidence,
			CreatedAt:      ts,
		})
	}
	return records
}

func (s *csvPredictionStore) CountsByLabel() (models.LabelCounts, error) {
	var counts models.LabelCounts
	for _, rec := range s.readAll() {
		switch rec.Prediction {
		case models.LabelFake:
			counts.Fake++
		case models.LabelReal:
			counts.Real++
		}
	}
	return counts, nil
}

func (s *csvPredictionStore) LastRecord() (*models.PredictionRecord, error) {
	records := s.readAll()
	if len(records) == 0 {
		return nil, nil
	}
	return records[len(records)-1], nil
}

func (s *csvPredictionStore) History() ([]*models.PredictionRecord, error) {
	records := s.readAll()
	// The log is append-ordered; history reads newest first.
	out := make([]*models.PredictionRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	return out, nil
}

func (s *csvPredictionStore) DailyCounts() ([]models.DailyCount, error) {
	records := s.readAll()
	stamps := make([]time.Time, 0, len(records))
	for _, rec := range records {
		stamps = append(stamps, rec.CreatedAt)
	}
	return dailyCountsOf(stamps), nil
}

func (s *csvPredictionStore) Close() error { return nil }
