package handler

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobguard/internal/models"
	"jobguard/internal/service"
	"jobguard/internal/validation"
)

type PageHandler interface {
	Home(c *gin.Context)
	Predict(c *gin.Context)
	History(c *gin.Context)
	Dashboard(c *gin.Context)
}

type pageHandler struct {
	predictions *service.PredictionService
	authEnabled bool
	logger      *zap.Logger
}

func NewPageHandler(predictions *service.PredictionService, authEnabled bool, logger *zap.Logger) PageHandler {
	return &pageHandler{predictions: predictions, authEnabled: authEnabled, logger: logger}
}

// homeData feeds index.html. Counters come from the store on every
// render; there is no in-memory aggregate to go stale.
type homeData struct {
	Error       string
	Fake        int
	Real        int
	Last        *models.PredictionRecord
	AuthEnabled bool
}

func (h *pageHandler) homeData(errMsg string) homeData {
	data := homeData{Error: errMsg, AuthEnabled: h.authEnabled}
	overview, err := h.predictions.Overview()
	if err != nil {
		// Reads degrade to an empty view rather than failing the page.
		h.logger.Error("Failed to load overview", zap.Error(err))
		return data
	}
	data.Fake = overview.Counts.Fake
	data.Real = overview.Counts.Real
	data.Last = overview.Last
	return data
}

// Home handles GET /
func (h *pageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.homeData(""))
}

// Predict handles POST /predict (form-encoded job_description).
func (h *pageHandler) Predict(c *gin.Context) {
	rec, err := h.predictions.Predict(c.Request.Context(), c.PostForm("job_description"))
	if err != nil {
		if validation.IsRejection(err) {
			// No record was created; re-render home with the reason
			// and unchanged counters.
			c.HTML(http.StatusOK, "index.html", h.homeData(err.Error()))
			return
		}
		h.logger.Error("Prediction failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "index.html", h.homeData("Prediction failed, please try again."))
		return
	}

	counts := models.LabelCounts{}
	if overview, err := h.predictions.Overview(); err == nil {
		counts = overview.Counts
	} else {
		h.logger.Error("Failed to re-read counters", zap.Error(err))
	}

	c.HTML(http.StatusOK, "result.html", gin.H{
		"Record": rec,
		"Fake":   counts.Fake,
		"Real":   counts.Real,
	})
}

// History handles GET /history. An empty or unreadable store renders
// an empty table, never an error page.
func (h *pageHandler) History(c *gin.Context) {
	records, err := h.predictions.History()
	if err != nil {
		h.logger.Error("Failed to load history", zap.Error(err))
		records = nil
	}
	c.HTML(http.StatusOK, "history.html", gin.H{"Records": records})
}

// Dashboard handles GET /admin_dashboard.
func (h *pageHandler) Dashboard(c *gin.Context) {
	overview, err := h.predictions.Overview()
	if err != nil {
		h.logger.Error("Failed to load overview", zap.Error(err))
	}
	daily, err := h.predictions.DailyCounts()
	if err != nil {
		h.logger.Error("Failed to load daily counts", zap.Error(err))
		daily = []models.DailyCount{}
	}

	dailyJSON, err := json.Marshal(daily)
	if err != nil {
		h.logger.Error("Failed to marshal daily counts", zap.Error(err))
		dailyJSON = []byte("[]")
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Fake":      overview.Counts.Fake,
		"Real":      overview.Counts.Real,
		"Total":     overview.Counts.Total(),
		"DailyJSON": template.JS(dailyJSON),
	})
}
