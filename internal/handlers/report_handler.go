package handlers

import (
	"net/http"
	"strconv"

	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/services/reporting"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *reporting.Service
}

func NewReportHandler(s *reporting.Service) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) DashboardSummary(c *gin.Context) {
	summary, err := h.service.Dashboard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) History(c *gin.Context) {
	partyType := c.Query("party_type")
	partyID := c.Query("party_id")
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if partyType == "" || partyID == "" || startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	id, err := strconv.ParseUint(partyID, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid party_id"})
		return
	}
	start, err := models.ParseDate(startDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}
	end, err := models.ParseDate(endDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	history, err := h.service.History(models.PartyType(partyType), uint(id), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
