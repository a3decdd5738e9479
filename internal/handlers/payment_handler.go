package handlers

import (
	"net/http"
	"strconv"

	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/services/ledger"
	"pan-basket-backend/internal/services/payments"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	service *payments.Service
	ledger  *ledger.Service
}

func NewPaymentHandler(s *payments.Service, ledgerSvc *ledger.Service) *PaymentHandler {
	return &PaymentHandler{service: s, ledger: ledgerSvc}
}

func (h *PaymentHandler) Add(c *gin.Context) {
	var payload struct {
		PartyType   models.PartyType `json:"party_type" binding:"required"`
		PartyID     uint             `json:"party_id" binding:"required"`
		Amount      decimal.Decimal  `json:"amount" binding:"required"`
		Date        string           `json:"date" binding:"required"`
		Note        string           `json:"note"`
		PaymentMode string           `json:"payment_mode" binding:"required"`
		UPIAccount  string           `json:"upi_account"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.service.Create(payments.CreateInput{
		PartyType:   payload.PartyType,
		PartyID:     payload.PartyID,
		Amount:      payload.Amount,
		Date:        payload.Date,
		Note:        payload.Note,
		PaymentMode: payload.PaymentMode,
		UPIAccount:  payload.UPIAccount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Payment recorded successfully", "payment_id": payment.ID})
}

func (h *PaymentHandler) List(c *gin.Context) {
	partyType := models.PartyType(c.Query("party_type"))
	var partyID uint
	if idStr := c.Query("party_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid party_id"})
			return
		}
		partyID = uint(id)
	}

	views, err := h.service.List(partyType, partyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// WholesalerBalance reports the all-time position against one wholesaler.
// Unknown ids are reported with zeros and party_name "Unknown".
func (h *PaymentHandler) WholesalerBalance(c *gin.Context) {
	h.balance(c, models.PartyWholesaler, "total_paid")
}

func (h *PaymentHandler) PanShopBalance(c *gin.Context) {
	h.balance(c, models.PartyPanShop, "total_received")
}

func (h *PaymentHandler) balance(c *gin.Context, partyType models.PartyType, paidKey string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid party ID"})
		return
	}

	name, totals, err := h.ledger.BalanceFor(partyType, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"party_type":         partyType,
		"party_id":           uint(id),
		"party_name":         name,
		"total_basket_value": totals.TotalBasketValue,
		paidKey:              totals.TotalPaid,
		"balance":            totals.Balance,
	})
}

func (h *PaymentHandler) BalanceSummary(c *gin.Context) {
	partyType := models.PartyType(c.Query("party_type"))
	if !partyType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid party type"})
		return
	}

	summaries, err := h.ledger.SummaryAll(partyType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}
