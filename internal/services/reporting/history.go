package reporting

import (
	"time"

	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"

	"github.com/shopspring/decimal"
)

type HistoryBasket struct {
	Date           string          `json:"date"`
	BasketCount    int             `json:"basket_count"`
	PricePerBasket decimal.Decimal `json:"price_per_basket"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Mark           string          `json:"mark"`
}

type HistoryPayment struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	UPIAccount  string          `json:"upi_account"`
	Note        string          `json:"note"`
}

type HistorySummary struct {
	TotalBasketValue decimal.Decimal `json:"total_basket_value"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Balance          decimal.Decimal `json:"balance"`
}

type History struct {
	Baskets  []HistoryBasket  `json:"baskets"`
	Payments []HistoryPayment `json:"payments"`
	Summary  HistorySummary   `json:"summary"`
}

// History returns every ledger event for one party in the inclusive
// [start, end] range, plus totals scoped to that range. A range with no
// rows is an empty history with a zero summary, not an error.
func (s *Service) History(partyType models.PartyType, partyID uint, start, end time.Time) (*History, error) {
	if !partyType.Valid() {
		return nil, apperr.Validation("invalid party type %q", partyType)
	}
	start = models.DateOnly(start)
	end = models.DateOnly(end)

	entries, err := s.entries.InRange(partyType, partyID, start, end)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.InRange(partyType, partyID, start, end)
	if err != nil {
		return nil, err
	}

	history := &History{
		Baskets:  make([]HistoryBasket, 0, len(entries)),
		Payments: make([]HistoryPayment, 0, len(payments)),
	}

	totalBasket := decimal.Zero
	for _, entry := range entries {
		totalBasket = totalBasket.Add(entry.TotalPrice)
		history.Baskets = append(history.Baskets, HistoryBasket{
			Date:           entry.Date.Format(models.DateFormat),
			BasketCount:    entry.BasketCount,
			PricePerBasket: entry.PricePerBasket,
			TotalPrice:     entry.TotalPrice,
			Mark:           entry.Mark,
		})
	}

	totalPaid := decimal.Zero
	for _, payment := range payments {
		totalPaid = totalPaid.Add(payment.Amount)
		history.Payments = append(history.Payments, HistoryPayment{
			Date:        payment.Date.Format(models.DateFormat),
			Amount:      payment.Amount,
			PaymentMode: payment.PaymentMode,
			UPIAccount:  payment.UPIAccount,
			Note:        payment.Note,
		})
	}

	history.Summary = HistorySummary{
		TotalBasketValue: totalBasket,
		TotalPaid:        totalPaid,
		Balance:          totalBasket.Sub(totalPaid),
	}
	return history, nil
}
