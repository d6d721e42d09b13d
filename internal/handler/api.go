package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobguard/internal/models"
	"jobguard/internal/service"
	"jobguard/internal/validation"
)

type APIHandler interface {
	Predict(c *gin.Context)
	Stats(c *gin.Context)
	History(c *gin.Context)
}

type apiHandler struct {
	predictions *service.PredictionService
	logger      *zap.Logger
}

func NewAPIHandler(predictions *service.PredictionService, logger *zap.Logger) APIHandler {
	return &apiHandler{predictions: predictions, logger: logger}
}

// PredictRequest is the JSON body of POST /api/predict.
type PredictRequest struct {
	Description string `json:"description"`
}

// PredictResponse reports the verdict. Unlike the HTML views, which
// show the confidence of the predicted label, probability_fake is the
// raw positive-class probability.
type PredictResponse struct {
	Prediction      string  `json:"prediction"`
	ProbabilityFake float64 `json:"probability_fake"`
}

// Predict handles POST /api/predict.
func (h *apiHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No job description provided"})
		return
	}

	rec, err := h.predictions.Predict(c.Request.Context(), req.Description)
	if err != nil {
		if validation.IsRejection(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Prediction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		Prediction:      rec.Prediction,
		ProbabilityFake: rec.ProbabilityFake,
	})
}

// StatsResponse aggregates the store for dashboard clients.
type StatsResponse struct {
	Fake  int                 `json:"fake"`
	Real  int                 `json:"real"`
	Total int                 `json:"total"`
	Daily []models.DailyCount `json:"daily"`
}

// Stats handles GET /api/stats.
func (h *apiHandler) Stats(c *gin.Context) {
	overview, err := h.predictions.Overview()
	if err != nil {
		h.logger.Error("Failed to load overview", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}
	daily, err := h.predictions.DailyCounts()
	if err != nil {
		h.logger.Error("Failed to load daily counts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Fake:  overview.Counts.Fake,
		Real:  overview.Counts.Real,
		Total: overview.Counts.Total(),
		Daily: daily,
	})
}

// History handles GET /api/history. An unreadable store degrades to
// an empty list rather than an error.
func (h *apiHandler) History(c *gin.Context) {
	records, err := h.predictions.History()
	if err != nil {
		h.logger.Error("Failed to load history", zap.Error(err))
		records = []*models.PredictionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
