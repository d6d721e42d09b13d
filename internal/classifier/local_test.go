package classifier

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"jobguard/internal/models"
)

func writeJSON(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// testLocal builds a classifier over a four-term vocabulary where
// "scam" and "urgent" push towards the fake class and "engineer"
// pushes towards real.
func testLocal(t *testing.T) *Local {
	t.Helper()
	dir := t.TempDir()
	vecPath := writeJSON(t, dir, "vectorizer.json", vectorizerArtifact{
		Lowercase:  true,
		Vocabulary: map[string]int{"scam": 0, "urgent": 1, "engineer": 2, "salary": 3},
		IDF:        []float64{1, 1, 1, 1},
	})
	mdlPath := writeJSON(t, dir, "model.json", modelArtifact{
		Coefficients: []float64{6, 2, -6, 0},
		Intercept:    0,
	})

	c, err := NewLocal(vecPath, mdlPath, zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return c
}

func TestLocal_Classify_Labels(t *testing.T) {
	c := testLocal(t)
	ctx := context.Background()

	fake, err := c.Classify(ctx, "URGENT scam scam pay upfront")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if fake.Label != models.LabelFake {
		t.Errorf("Label = %q, want %q", fake.Label, models.LabelFake)
	}
	if fake.ProbabilityFake < 0.5 {
		t.Errorf("ProbabilityFake = %f, want >= 0.5", fake.ProbabilityFake)
	}

	real, err := c.Classify(ctx, "experienced software engineer position")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if real.Label != models.LabelReal {
		t.Errorf("Label = %q, want %q", real.Label, models.LabelReal)
	}
	if real.ProbabilityFake >= 0.5 {
		t.Errorf("ProbabilityFake = %f, want < 0.5", real.ProbabilityFake)
	}
}

func TestLocal_Classify_ConfidenceIsOfPredictedLabel(t *testing.T) {
	c := testLocal(t)

	res, err := c.Classify(context.Background(), "senior engineer role with salary listed")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Label != models.LabelReal {
		t.Fatalf("Label = %q, want %q", res.Label, models.LabelReal)
	}
	want := round((1-res.ProbabilityFake)*100, 2)
	// Confidence reports the predicted label's probability, so for a
	// "Real Job" verdict it moves opposite to ProbabilityFake.
	if diff := res.Confidence - want; diff > 0.02 || diff < -0.02 {
		t.Errorf("Confidence = %f, want about %f", res.Confidence, want)
	}
	if res.Confidence < 50 || res.Confidence > 100 {
		t.Errorf("Confidence = %f, want within [50, 100] for the predicted label", res.Confidence)
	}
}

func TestLocal_Classify_Deterministic(t *testing.T) {
	c := testLocal(t)
	ctx := context.Background()
	const text = "urgent engineer needed for salary negotiation"

	first, err := c.Classify(ctx, text)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := c.Classify(ctx, text)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if again != first {
			t.Fatalf("Classify not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestLocal_Classify_Bounds(t *testing.T) {
	c := testLocal(t)
	inputs := []string{
		"scam scam scam scam scam",
		"engineer engineer engineer engineer",
		"words the model has never seen anywhere",
		"",
	}
	for _, text := range inputs {
		res, err := c.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("Classify(%q): %v", text, err)
		}
		if res.Confidence < 0 || res.Confidence > 100 {
			t.Errorf("Classify(%q): Confidence = %f, want [0, 100]", text, res.Confidence)
		}
		if res.ProbabilityFake < 0 || res.ProbabilityFake > 1 {
			t.Errorf("Classify(%q): ProbabilityFake = %f, want [0, 1]", text, res.ProbabilityFake)
		}
		if res.Label != models.LabelFake && res.Label != models.LabelReal {
			t.Errorf("Classify(%q): unexpected label %q", text, res.Label)
		}
	}
}

func TestNewLocal_MissingArtifact(t *testing.T) {
	dir := t.TempDir()
	mdlPath := writeJSON(t, dir, "model.json", modelArtifact{Coefficients: []float64{1}})

	if _, err := NewLocal(filepath.Join(dir, "absent.json"), mdlPath, zap.NewNop()); err == nil {
		t.Fatal("NewLocal with missing vectorizer: want error, got nil")
	}
}

func TestNewLocal_IncompatibleArtifacts(t *testing.T) {
	dir := t.TempDir()
	vecPath := writeJSON(t, dir, "vectorizer.json", vectorizerArtifact{
		Vocabulary: map[string]int{"scam": 0, "urgent": 1},
		IDF:        []float64{1, 1},
	})

	// Coefficient count disagrees with the vocabulary size.
	mdlPath := writeJSON(t, dir, "model.json", modelArtifact{
		Coefficients: []float64{1, 2, 3},
	})
	if _, err := NewLocal(vecPath, mdlPath, zap.NewNop()); err == nil {
		t.Fatal("NewLocal with mismatched model: want error, got nil")
	}

	// idf count disagrees with the vocabulary size.
	badVec := writeJSON(t, dir, "vectorizer2.json", vectorizerArtifact{
		Vocabulary: map[string]int{"scam": 0, "urgent": 1},
		IDF:        []float64{1},
	})
	okMdl := writeJSON(t, dir, "model2.json", modelArtifact{Coefficients: []float64{1, 2}})
	if _, err := NewLocal(badVec, okMdl, zap.NewNop()); err == nil {
		t.Fatal("NewLocal with mismatched idf: want error, got nil")
	}
}

func TestNewLocal_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "vectorizer.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	mdlPath := writeJSON(t, dir, "model.json", modelArtifact{Coefficients: []float64{1}})

	if _, err := NewLocal(bad, mdlPath, zap.NewNop()); err == nil {
		t.Fatal("NewLocal with malformed vectorizer: want error, got nil")
	}
}
