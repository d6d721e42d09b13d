package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Remote is a client for an external inference service exposing the
// same vectorizer+model pair over HTTP.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

// ClassifyRequest represents a single classification request.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse represents the classification result returned by
// the inference service.
type ClassifyResponse struct {
	Label           string  `json:"label"`
	ProbabilityFake float64 `json:"probability_fake"`
}

// HealthResponse represents the inference service health check
// response.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Message     string `json:"message"`
}

// NewRemote creates a client for the inference service at baseURL.
func NewRemote(baseURL string) *Remote {
	return &Remote{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Classify sends the text to the inference service. The label and
// confidence are derived locally from the returned probability so
// both inference backends report identical conventions.
func (r *Remote) Classify(ctx context.Context, text string) (Result, error) {
	jsonData, err := json.Marshal(ClassifyRequest{Text: text})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/api/v1/classify", bytes.NewBuffer(jsonData))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("inference service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ClassifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.ProbabilityFake < 0 || result.ProbabilityFake > 1 {
		return Result{}, fmt.Errorf("inference service returned probability %f outside [0, 1]", result.ProbabilityFake)
	}

	return resultFromProbability(result.ProbabilityFake), nil
}

// HealthCheck verifies the inference service is up and has its model
// loaded. Called once at startup; a failure here must abort startup.
func (r *Remote) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("inference service returned status %d: %s", resp.StatusCode, string(body))
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !health.ModelLoaded {
		return fmt.Errorf("inference service is up but its model is not loaded: %s", health.Message)
	}

	return nil
}
