package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/importer"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/service"
)

type UsageHandler struct {
	usageService *service.UsageService
}

func NewUsageHandler(usageService *service.UsageService) *UsageHandler {
	return &UsageHandler{usageService: usageService}
}

type importRequest struct {
	CSVText     string                        `json:"csv_text"`
	PeriodStart string                        `json:"period_start"`
	PeriodEnd   string                        `json:"period_end"`
	Mapping     *importer.FieldMapping        `json:"mapping,omitempty"`
	Parameters  *domain.CalculationParameters `json:"parameters,omitempty"`
}

// ImportUsage runs the import pipeline on posted CSV text. Unusable CSV is
// not an error: the response carries an empty collection. Only an incomplete
// field mapping rejects the import.
func (h *UsageHandler) ImportUsage(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.usageService.Import(c.Request.Context(), service.ImportRequest{
		CSVText:     req.CSVText,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Mapping:     req.Mapping,
		Params:      req.Parameters,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Recalculate re-applies the period metrics with new parameters.
func (h *UsageHandler) Recalculate(c *gin.Context) {
	var params domain.CalculationParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid calculation parameters"})
		return
	}

	items, err := h.usageService.Recalculate(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type forecastRequest struct {
	Parameters *domain.CalculationParameters `json:"parameters,omitempty"`
}

// Forecast returns a purchase recommendation for every current item. The
// body may carry parameter overrides; an empty body uses the parameters of
// the last calculation pass.
func (h *UsageHandler) Forecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forecast parameters"})
		return
	}

	forecasts, err := h.usageService.Forecasts(req.Parameters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecasts": forecasts})
}

// GetItems returns the current collection filtered by query criteria.
func (h *UsageHandler) GetItems(c *gin.Context) {
	criteria := domain.FilterCriteria{
		Categories:   splitList(c.Query("categories")),
		CostCenters:  splitList(c.Query("cost_centers")),
		SearchTerm:   c.Query("search"),
		LowStockOnly: c.Query("low_stock_only") == "true",
	}

	items, err := h.usageService.Items(criteria)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// GetSummary returns collection totals, with the cost percentage computed
// against the sales_amount query parameter when present.
func (h *UsageHandler) GetSummary(c *gin.Context) {
	salesAmount, _ := strconv.ParseFloat(c.Query("sales_amount"), 64)

	summary, err := h.usageService.Summary(salesAmount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCategories returns usage cost aggregated per category.
func (h *UsageHandler) GetCategories(c *gin.Context) {
	categories, err := h.usageService.Categories()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetTopItems returns the costliest items by usage value.
func (h *UsageHandler) GetTopItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	top, err := h.usageService.TopItems(limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": top})
}

// ExportUsage streams the filtered collection as a CSV download. The filter
// query parameters match GetItems.
func (h *UsageHandler) ExportUsage(c *gin.Context) {
	criteria := domain.FilterCriteria{
		Categories:   splitList(c.Query("categories")),
		CostCenters:  splitList(c.Query("cost_centers")),
		SearchTerm:   c.Query("search"),
		LowStockOnly: c.Query("low_stock_only") == "true",
	}

	csvText, err := h.usageService.ExportCSV(criteria)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="stock_usage.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(csvText))
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// respondServiceError maps service and store errors onto the API's status
// taxonomy.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, importer.ErrMappingIncomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateRecord):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
