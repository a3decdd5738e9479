package handlers

import (
	"net/http"
	"strconv"

	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/repository"
	"pan-basket-backend/internal/services/entries"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BasketEntryHandler struct {
	service *entries.Service
}

func NewBasketEntryHandler(s *entries.Service) *BasketEntryHandler {
	return &BasketEntryHandler{service: s}
}

func entryJSON(e *models.BasketEntry) gin.H {
	return gin.H{
		"id":               e.ID,
		"party_type":       e.PartyType,
		"party_id":         e.PartyID,
		"date":             e.Date.Format(models.DateFormat),
		"basket_count":     e.BasketCount,
		"price_per_basket": e.PricePerBasket,
		"total_price":      e.TotalPrice,
		"mark":             e.Mark,
	}
}

func (h *BasketEntryHandler) Add(c *gin.Context) {
	var payload struct {
		PartyType      models.PartyType `json:"party_type" binding:"required"`
		PartyID        uint             `json:"party_id" binding:"required"`
		Date           string           `json:"date" binding:"required"`
		BasketCount    int              `json:"basket_count" binding:"required"`
		PricePerBasket decimal.Decimal  `json:"price_per_basket" binding:"required"`
		Mark           string           `json:"mark"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.service.Create(entries.CreateInput{
		PartyType:      payload.PartyType,
		PartyID:        payload.PartyID,
		Date:           payload.Date,
		BasketCount:    payload.BasketCount,
		PricePerBasket: payload.PricePerBasket,
		Mark:           payload.Mark,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Basket entry added successfully",
		"entry":   entryJSON(entry),
	})
}

func (h *BasketEntryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	filter := repository.EntryFilter{
		PartyType: models.PartyType(c.Query("party_type")),
		Page:      page,
		PerPage:   perPage,
	}
	if idStr := c.Query("party_id"); idStr != "" {
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			filter.PartyID = uint(id)
		}
	}
	if dateStr := c.Query("date"); dateStr != "" {
		// A malformed date filter is ignored rather than rejected.
		if date, err := models.ParseDate(dateStr); err == nil {
			filter.Date = &date
		}
	}

	list, total, err := h.service.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]gin.H, 0, len(list))
	for i := range list {
		result = append(result, entryJSON(&list[i]))
	}

	pages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		pages++
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":  result,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"pages":    pages,
	})
}

func (h *BasketEntryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry ID"})
		return
	}

	var payload struct {
		PartyType      *models.PartyType `json:"party_type"`
		PartyID        *uint             `json:"party_id"`
		Date           *string           `json:"date"`
		BasketCount    *int              `json:"basket_count"`
		PricePerBasket *decimal.Decimal  `json:"price_per_basket"`
		TotalPrice     *decimal.Decimal  `json:"total_price"`
		Mark           *string           `json:"mark"`
		UpdateRelated  bool              `json:"update_related"`
		OriginalMark   string            `json:"original_mark"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	relatedUpdated, err := h.service.Update(uint(id), entries.UpdateInput{
		PartyType:      payload.PartyType,
		PartyID:        payload.PartyID,
		Date:           payload.Date,
		BasketCount:    payload.BasketCount,
		PricePerBasket: payload.PricePerBasket,
		TotalPrice:     payload.TotalPrice,
		Mark:           payload.Mark,
		UpdateRelated:  payload.UpdateRelated,
		OriginalMark:   payload.OriginalMark,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Basket entry updated successfully",
		"related_updated": relatedUpdated,
	})
}

func (h *BasketEntryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry ID"})
		return
	}
	if err := h.service.Delete(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Basket entry deleted successfully"})
}
