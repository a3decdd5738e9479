package payments

import (
	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type Service struct {
	parties  *repository.PartyRepository
	payments *repository.PaymentRepository
}

func NewService(parties *repository.PartyRepository, payments *repository.PaymentRepository) *Service {
	return &Service{parties: parties, payments: payments}
}

type CreateInput struct {
	PartyType   models.PartyType
	PartyID     uint
	Amount      decimal.Decimal
	Date        string
	Note        string
	PaymentMode string
	UPIAccount  string
}

func (s *Service) Create(in CreateInput) (*models.Payment, error) {
	if !in.PartyType.Valid() {
		return nil, apperr.Validation("invalid party type %q", in.PartyType)
	}
	if in.PaymentMode != models.PaymentModeCash && in.PaymentMode != models.PaymentModeUPI {
		return nil, apperr.Validation("payment_mode must be cash or upi")
	}
	if _, err := s.parties.PartyName(in.PartyType, in.PartyID); err != nil {
		return nil, err
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, apperr.Validation("invalid date format, use YYYY-MM-DD")
	}

	upiAccount := in.UPIAccount
	if in.PaymentMode != models.PaymentModeUPI {
		upiAccount = ""
	}

	payment := &models.Payment{
		PartyType:   in.PartyType,
		PartyID:     in.PartyID,
		Amount:      in.Amount,
		Date:        date,
		Note:        in.Note,
		PaymentMode: in.PaymentMode,
		UPIAccount:  upiAccount,
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// View is the list payload with the party name resolved; orphaned
// references show "Unknown" rather than failing the listing.
type View struct {
	ID          uint             `json:"id"`
	PartyType   models.PartyType `json:"party_type"`
	PartyID     uint             `json:"party_id"`
	PartyName   string           `json:"party_name"`
	Amount      decimal.Decimal  `json:"amount"`
	Date        string           `json:"date"`
	Note        string           `json:"note"`
	PaymentMode string           `json:"payment_mode"`
	UPIAccount  string           `json:"upi_account"`
}

func (s *Service) List(partyType models.PartyType, partyID uint) ([]View, error) {
	rows, err := s.payments.List(partyType, partyID)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(rows))
	for _, p := range rows {
		views = append(views, View{
			ID:          p.ID,
			PartyType:   p.PartyType,
			PartyID:     p.PartyID,
			PartyName:   s.parties.PartyNameOrUnknown(p.PartyType, p.PartyID),
			Amount:      p.Amount,
			Date:        p.Date.Format(models.DateFormat),
			Note:        p.Note,
			PaymentMode: p.PaymentMode,
			UPIAccount:  p.UPIAccount,
		})
	}
	return views, nil
}
