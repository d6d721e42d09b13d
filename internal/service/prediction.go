package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"jobguard/internal/classifier"
	"jobguard/internal/models"
	"jobguard/internal/repository"
	"jobguard/internal/validation"
)

// Notifier receives accepted fake-job verdicts. Implementations must
// not fail the request: delivery problems are theirs to log.
type Notifier interface {
	NotifyFakeJob(rec *models.PredictionRecord)
}

// Overview is the aggregate state behind the home view: durable
// counters plus the most recent record (nil when the store is empty).
type Overview struct {
	Counts models.LabelCounts
	Last   *models.PredictionRecord
}

// PredictionService runs the per-request pipeline: validate the
// submitted text, classify it, persist the outcome, and re-read the
// aggregates so the response reflects the new record.
type PredictionService struct {
	store    repository.PredictionStore
	clf      classifier.Classifier
	notifier Notifier
	logger   *zap.Logger
}

// NewPredictionService wires the pipeline. notifier may be nil.
func NewPredictionService(store repository.PredictionStore, clf classifier.Classifier, notifier Notifier, logger *zap.Logger) *PredictionService {
	return &PredictionService{store: store, clf: clf, notifier: notifier, logger: logger}
}

// Predict classifies rawText and appends the outcome to the store.
// A validation rejection (validation.IsRejection) produces no record
// and no other side effect. Storage failures propagate: a write the
// caller believes happened must never be dropped silently.
func (s *PredictionService) Predict(ctx context.Context, rawText string) (*models.PredictionRecord, error) {
	text := strings.TrimSpace(rawText)
	if err := validation.Validate(text); err != nil {
		return nil, err
	}

	result, err := s.clf.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	rec := &models.PredictionRecord{
		JobDescription:  text,
		Prediction:      result.Label,
		Confidence:      result.Confidence,
		ProbabilityFake: result.ProbabilityFake,
	}
	if err := s.store.Append(rec); err != nil {
		return nil, fmt.Errorf("failed to persist prediction: %w", err)
	}

	s.logger.Info("Prediction stored",
		zap.Int64("id", rec.ID),
		zap.String("label", rec.Prediction),
		zap.Float64("confidence", rec.Confidence))

	if s.notifier != nil && rec.Prediction == models.LabelFake {
		s.notifier.NotifyFakeJob(rec)
	}

	return rec, nil
}

// Overview returns the label counters and last prediction for the
// home view, both derived from the store.
func (s *PredictionService) Overview() (Overview, error) {
	counts, err := s.store.CountsByLabel()
	if err != nil {
		return Overview{}, fmt.Errorf("failed to read counters: %w", err)
	}
	last, err := s.store.LastRecord()
	if err != nil {
		return Overview{}, fmt.Errorf("failed to read last prediction: %w", err)
	}
	return Overview{Counts: counts, Last: last}, nil
}

// History returns every stored record, newest first.
func (s *PredictionService) History() ([]*models.PredictionRecord, error) {
	return s.store.History()
}

// DailyCounts returns the per-day record counts for charting.
func (s *PredictionService) DailyCounts() ([]models.DailyCount, error) {
	return s.store.DailyCounts()
}
