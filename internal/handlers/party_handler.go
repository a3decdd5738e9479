package handlers

import (
	"net/http"

	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

type PartyHandler struct {
	parties *repository.PartyRepository
}

func NewPartyHandler(parties *repository.PartyRepository) *PartyHandler {
	return &PartyHandler{parties: parties}
}

func (h *PartyHandler) ListWholesalers(c *gin.Context) {
	ws, err := h.parties.ListWholesalers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *PartyHandler) CreateWholesaler(c *gin.Context) {
	var payload struct {
		Name        string `json:"name" binding:"required"`
		ContactInfo string `json:"contact_info"`
		Mark        string `json:"mark"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	w := models.Wholesaler{
		Name:        payload.Name,
		ContactInfo: payload.ContactInfo,
		Mark:        payload.Mark,
	}
	if err := h.parties.CreateWholesaler(&w); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Wholesaler added", "wholesaler": w})
}

func (h *PartyHandler) ListPanShops(c *gin.Context) {
	ps, err := h.parties.ListPanShops()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *PartyHandler) CreatePanShop(c *gin.Context) {
	var payload struct {
		Name        string `json:"name" binding:"required"`
		ContactInfo string `json:"contact_info"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	p := models.PanShop{
		Name:        payload.Name,
		ContactInfo: payload.ContactInfo,
	}
	if err := h.parties.CreatePanShop(&p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Pan shop added successfully", "panshop": p})
}
