package ledger

import (
	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// Service reduces basket entries and payments to the one derived quantity
// everything else reports on: balance = Σ total_price − Σ amount.
type Service struct {
	parties  *repository.PartyRepository
	entries  *repository.BasketEntryRepository
	payments *repository.PaymentRepository
}

func NewService(
	parties *repository.PartyRepository,
	entries *repository.BasketEntryRepository,
	payments *repository.PaymentRepository,
) *Service {
	return &Service{parties: parties, entries: entries, payments: payments}
}

type Totals struct {
	TotalBasketValue decimal.Decimal `json:"total_basket_value"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Balance          decimal.Decimal `json:"balance"`
}

// TotalsFor sums both sides of the ledger for one party. No rows means
// zero, not an error.
func (s *Service) TotalsFor(partyType models.PartyType, partyID uint) (Totals, error) {
	basketValue, err := s.entries.SumTotalPrice(partyType, partyID)
	if err != nil {
		return Totals{}, err
	}
	paid, err := s.payments.SumAmount(partyType, partyID)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		TotalBasketValue: basketValue,
		TotalPaid:        paid,
		Balance:          basketValue.Sub(paid),
	}, nil
}

// BalanceFor is the lenient read-side balance: an unknown party id still
// sums whatever rows carry it and reports the name as "Unknown". Orphaned
// references must not break balance reads.
func (s *Service) BalanceFor(partyType models.PartyType, partyID uint) (string, Totals, error) {
	if !partyType.Valid() {
		return "", Totals{}, apperr.Validation("invalid party type %q", partyType)
	}
	totals, err := s.TotalsFor(partyType, partyID)
	if err != nil {
		return "", Totals{}, err
	}
	return s.parties.PartyNameOrUnknown(partyType, partyID), totals, nil
}

type PartySummary struct {
	PartyID          uint             `json:"party_id"`
	PartyType        models.PartyType `json:"party_type"`
	PartyName        string           `json:"party_name"`
	TotalBasketValue decimal.Decimal  `json:"total_basket_value"`
	TotalPaid        decimal.Decimal  `json:"total_paid"`
	Balance          decimal.Decimal  `json:"balance"`
}

// SummaryAll computes totals for every party of a kind in one pass: the
// party list plus two grouped-sum queries, merged here. Round trips stay
// constant no matter how many parties exist.
func (s *Service) SummaryAll(partyType models.PartyType) ([]PartySummary, error) {
	if !partyType.Valid() {
		return nil, apperr.Validation("invalid party type %q", partyType)
	}

	basketTotals, err := s.entries.TotalsByParty(partyType)
	if err != nil {
		return nil, err
	}
	paidTotals, err := s.payments.TotalsByParty(partyType)
	if err != nil {
		return nil, err
	}

	var summaries []PartySummary
	appendParty := func(id uint, name string) {
		basket := basketTotals[id]
		paid := paidTotals[id]
		summaries = append(summaries, PartySummary{
			PartyID:          id,
			PartyType:        partyType,
			PartyName:        name,
			TotalBasketValue: basket,
			TotalPaid:        paid,
			Balance:          basket.Sub(paid),
		})
	}

	switch partyType {
	case models.PartyWholesaler:
		ws, err := s.parties.ListWholesalers()
		if err != nil {
			return nil, err
		}
		for _, w := range ws {
			appendParty(w.ID, w.Name)
		}
	case models.PartyPanShop:
		ps, err := s.parties.ListPanShops()
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			appendParty(p.ID, p.Name)
		}
	}
	return summaries, nil
}
