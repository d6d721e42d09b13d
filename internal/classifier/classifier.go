// Package classifier wraps the pre-trained fake-job model behind a
// single Classify call. Artifacts are loaded once at startup; a
// missing or incompatible artifact is a fatal error, never a
// per-request condition.
package classifier

import (
	"context"
	"math"

	"jobguard/internal/models"
)

// Result is the outcome of classifying one job description.
//
// Confidence and ProbabilityFake deliberately report different
// conventions: Confidence is the probability of the label actually
// returned (as a percentage, for the HTML views), ProbabilityFake is
// the raw positive-class probability (for the JSON API). Both derive
// from the same model output here so call sites never re-compute
// either.
type Result struct {
	// Label is models.LabelFake or models.LabelReal.
	Label string
	// Confidence is the probability of Label, in percent, rounded to
	// 2 decimal places. Always within [0, 100].
	Confidence float64
	// ProbabilityFake is the model's probability of the positive
	// ("Fake Job") class, rounded to 4 decimal places. Always within
	// [0, 1].
	ProbabilityFake float64
}

// Classifier produces a prediction for a job description. Inputs are
// assumed to have passed validation. Implementations must be safe for
// concurrent use; the loaded model is read-only after construction.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// resultFromProbability maps the positive-class probability to a
// Result. Class 1 ("Fake Job") is predicted when the probability is
// at least 0.5.
func resultFromProbability(probFake float64) Result {
	r := Result{ProbabilityFake: round(probFake, 4)}
	if probFake >= 0.5 {
		r.Label = models.LabelFake
		r.Confidence = round(probFake*100, 2)
	} else {
		r.Label = models.LabelReal
		r.Confidence = round((1-probFake)*100, 2)
	}
	return r
}

func round(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}
