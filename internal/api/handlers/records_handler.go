package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/service"
)

type RecordsHandler struct {
	usageService *service.UsageService
}

func NewRecordsHandler(usageService *service.UsageService) *RecordsHandler {
	return &RecordsHandler{usageService: usageService}
}

// SaveRecord persists the current collection as a usage record.
func (h *RecordsHandler) SaveRecord(c *gin.Context) {
	id, err := h.usageService.SaveRecord(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListRecords returns summaries of every saved record, newest first.
func (h *RecordsHandler) ListRecords(c *gin.Context) {
	summaries, err := h.usageService.ListRecords(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list usage records")
		c.JSON(http.StatusBadGateway, gin.H{"error": "record store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": summaries})
}

// GetRecord loads a saved record and adopts it as the current collection.
func (h *RecordsHandler) GetRecord(c *gin.Context) {
	record, err := h.usageService.LoadRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteRecord removes a saved record.
func (h *RecordsHandler) DeleteRecord(c *gin.Context) {
	if err := h.usageService.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
