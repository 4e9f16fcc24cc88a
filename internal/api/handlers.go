package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propertyscout/internal/analyzer"
	"propertyscout/internal/database"
	"propertyscout/internal/geometry"
	"propertyscout/internal/gis"
	"propertyscout/internal/models"
	"propertyscout/internal/queue"
	"propertyscout/internal/report"
	"propertyscout/internal/telegram"
)

// Services are the components the HTTP handlers delegate to.
type Services struct {
	DB              *database.Database
	Engine          *analyzer.Engine
	Parcels         *gis.Client
	TelegramService *telegram.Service
	Queue           *queue.ComparableQueue
	ChecklistTarget models.ListingTarget
	MaxBatchSize    int
}

type Handler struct {
	db              *database.Database
	engine          *analyzer.Engine
	parcels         *gis.Client
	telegramService *telegram.Service
	queue           *queue.ComparableQueue
	target          models.ListingTarget
	maxBatchSize    int
	logger          *logrus.Logger
	now             func() time.Time
}

type AnalyzeRequest struct {
	Address      string    `json:"address" binding:"required"`
	TargetPrice  float64   `json:"target_price"`
	SquareFeet   int       `json:"square_feet" binding:"gte=0"`
	Units        int       `json:"units" binding:"gte=0"`
	AskingPrices []float64 `json:"asking_prices" binding:"required,min=1,dive,gt=0"`
}

type ScenarioResponse struct {
	RunID    string                     `json:"run_id,omitempty"`
	Analysis *models.InvestmentAnalysis `json:"analysis"`
	Notified bool                       `json:"notified"`
}

func NewHandler(s Services, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if s.ChecklistTarget == (models.ListingTarget{}) {
		s.ChecklistTarget = report.DefaultTarget()
	}
	if s.MaxBatchSize <= 0 {
		s.MaxBatchSize = 100
	}

	return &Handler{
		db:              s.DB,
		engine:          s.Engine,
		parcels:         s.Parcels,
		telegramService: s.TelegramService,
		queue:           s.Queue,
		target:          s.ChecklistTarget,
		maxBatchSize:    s.MaxBatchSize,
		logger:          logger,
		now:             time.Now,
	}
}

// Analyze scores the target at every requested asking price and stores each result.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetPrice := req.TargetPrice
	if targetPrice <= 0 {
		targetPrice = req.AskingPrices[0]
	}
	if err := report.CheckScenarios(req.AskingPrices); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target := models.NewTargetProperty(req.Address, targetPrice, req.SquareFeet, req.Units)

	// Every scenario is scored before anything is stored or sent.
	analyses := make([]*models.InvestmentAnalysis, 0, len(req.AskingPrices))
	for _, asking := range req.AskingPrices {
		analysis, err := h.engine.Analyze(c.Request.Context(), target, asking)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, analyzer.ErrInsufficientComparables) || errors.Is(err, analyzer.ErrInvalidAskingPrice) {
				status = http.StatusUnprocessableEntity
			}
			h.logger.WithError(err).WithField("address", req.Address).Error("Failed to analyze property")
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		analyses = append(analyses, analysis)
	}

	scenarios := make(map[string]ScenarioResponse, len(analyses))
	for _, analysis := range analyses {
		resp := ScenarioResponse{Analysis: analysis}
		if h.db != nil {
			record, err := h.db.SaveAnalysis(c.Request.Context(), analysis)
			if err != nil {
				h.logger.WithError(err).Error("Failed to save analysis")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save analysis"})
				return
			}
			resp.RunID = record.RunID
		}

		if h.telegramService != nil {
			sent, err := h.telegramService.NotifyAnalysis(c.Request.Context(), analysis)
			if err != nil {
				h.logger.WithError(err).Warn("Failed to send analysis notification")
			}
			resp.Notified = sent
		}

		scenarios[report.ScenarioKey(analysis.PriceAnalysis.AskingPrice)] = resp
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}

func (h *Handler) ListAnalyses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	records, err := h.db.ListAnalyses(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list analyses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	analysis, err := h.db.GetAnalysis(c.Request.Context(), c.Param("run_id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// LookupParcels searches city tax parcels by partial site address.
func (h *Handler) LookupParcels(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address query parameter is required"})
		return
	}

	parcels, err := h.parcels.LookupParcels(c.Request.Context(), address)
	if err != nil {
		h.logger.WithError(err).WithField("address", address).Error("Parcel lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if parcels == nil {
		parcels = []models.Parcel{}
	}

	c.JSON(http.StatusOK, gin.H{"count": len(parcels), "parcels": parcels})
}

func (h *Handler) ListComparables(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := models.ComparableFilter{
		PropertyTypes: c.QueryArray("type"),
		Limit:         limit,
	}

	records, err := h.db.ListComparables(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list comparables")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comparables"})
		return
	}

	comps := make([]models.Property, 0, len(records))
	for _, r := range records {
		comps = append(comps, r.ToProperty())
	}
	c.JSON(http.StatusOK, comps)
}

// ComparablesGeoJSON returns stored comparables as a GeoJSON feature collection.
func (h *Handler) ComparablesGeoJSON(c *gin.Context) {
	records, err := h.db.ListComparables(c.Request.Context(), models.ComparableFilter{PropertyTypes: c.QueryArray("type")})
	if err != nil {
		h.logger.WithError(err).Error("Failed to list comparables")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comparables"})
		return
	}

	comps := make([]models.Property, 0, len(records))
	for _, r := range records {
		comps = append(comps, r.ToProperty())
	}
	c.JSON(http.StatusOK, geometry.CompsFeatureCollection(nil, comps, h.now()))
}

// ImportComparables queues a batch of comparables for storage.
func (h *Handler) ImportComparables(c *gin.Context) {
	var comps []models.Property
	if err := c.ShouldBindJSON(&comps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(comps) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no comparables provided"})
		return
	}
	if len(comps) > h.maxBatchSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "batch exceeds maximum size of " + strconv.Itoa(h.maxBatchSize)})
		return
	}

	batch := make([]*models.Property, 0, len(comps))
	for i := range comps {
		if err := models.ValidateComparable(comps[i]); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "comparable " + strconv.Itoa(i) + ": " + err.Error()})
			return
		}
		batch = append(batch, &comps[i])
	}

	if err := h.queue.Push(batch); err != nil {
		h.logger.WithError(err).Warn("Failed to queue comparables")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"accepted": len(batch)})
}

// Checklist returns the due-diligence checklist with stored comparables.
func (h *Handler) Checklist(c *gin.Context) {
	records, err := h.db.ListComparables(c.Request.Context(), models.ComparableFilter{})
	if err != nil {
		h.logger.WithError(err).Error("Failed to list comparables")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comparables"})
		return
	}

	comps := make([]models.Property, 0, len(records))
	for _, r := range records {
		comps = append(comps, r.ToProperty())
	}
	c.JSON(http.StatusOK, report.GenerateChecklist(h.target, comps, h.now()))
}

func (h *Handler) Health(c *gin.Context) {
	count, err := h.db.CountComparables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "comparables": count})
}
