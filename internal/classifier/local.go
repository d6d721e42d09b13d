package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// vectorizerArtifact is the exported TF-IDF vectorizer: a term
// vocabulary mapping tokens to feature indices and the matching idf
// weight per index.
type vectorizerArtifact struct {
	Lowercase  bool           `json:"lowercase"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// modelArtifact is the exported logistic-regression model over the
// vectorizer's feature space.
type modelArtifact struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// tokenPattern matches words of two or more word characters, the same
// tokenization the vectorizer was trained with.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Local runs inference in-process from a vectorizer and model
// artifact pair loaded at startup.
type Local struct {
	vec    vectorizerArtifact
	mdl    modelArtifact
	logger *zap.Logger
}

// NewLocal loads both artifacts and verifies they are compatible. Any
// failure here should abort startup: serving traffic without a usable
// model would turn every request into an error.
func NewLocal(vectorizerPath, modelPath string, logger *zap.Logger) (*Local, error) {
	var vec vectorizerArtifact
	if err := loadArtifact(vectorizerPath, &vec); err != nil {
		return nil, fmt.Errorf("failed to load vectorizer: %w", err)
	}

	var mdl modelArtifact
	if err := loadArtifact(modelPath, &mdl); err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	if len(vec.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer %s has an empty vocabulary", vectorizerPath)
	}
	if len(vec.IDF) != len(vec.Vocabulary) {
		return nil, fmt.Errorf("vectorizer %s is inconsistent: %d idf weights for %d terms",
			vectorizerPath, len(vec.IDF), len(vec.Vocabulary))
	}
	if len(mdl.Coefficients) != len(vec.Vocabulary) {
		return nil, fmt.Errorf("model %s is incompatible with vectorizer: %d coefficients for %d features",
			modelPath, len(mdl.Coefficients), len(vec.Vocabulary))
	}
	for term, idx := range vec.Vocabulary {
		if idx < 0 || idx >= len(vec.IDF) {
			return nil, fmt.Errorf("vectorizer %s maps term %q to out-of-range index %d", vectorizerPath, term, idx)
		}
	}

	logger.Info("Classifier artifacts loaded",
		zap.String("vectorizer", vectorizerPath),
		zap.String("model", modelPath),
		zap.Int("features", len(vec.Vocabulary)))

	return &Local{vec: vec, mdl: mdl, logger: logger}, nil
}

func loadArtifact(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Classify transforms the text into an L2-normalised TF-IDF vector
// and applies the logistic model. Deterministic: the same text always
// yields the same result.
func (l *Local) Classify(_ context.Context, text string) (Result, error) {
	if l.vec.Lowercase {
		text = strings.ToLower(text)
	}

	// Sparse term-frequency counts over vocabulary indices.
	tf := make(map[int]float64)
	for _, token := range tokenPattern.FindAllString(text, -1) {
		if idx, ok := l.vec.Vocabulary[token]; ok {
			tf[idx]++
		}
	}

	// tf-idf with L2 normalisation, then the dot product with the
	// model coefficients. Only non-zero features contribute.
	var norm float64
	for idx, count := range tf {
		w := count * l.vec.IDF[idx]
		tf[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)

	z := l.mdl.Intercept
	if norm > 0 {
		for idx, w := range tf {
			z += (w / norm) * l.mdl.Coefficients[idx]
		}
	}

	probFake := sigmoid(z)
	return resultFromProbability(probFake), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
