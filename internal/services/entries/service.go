package entries

import (
	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service owns basket-entry writes: party references are validated here,
// at write time, because the schema deliberately has no FK constraint.
type Service struct {
	parties *repository.PartyRepository
	entries *repository.BasketEntryRepository
	db      *gorm.DB
}

func NewService(parties *repository.PartyRepository, entries *repository.BasketEntryRepository) *Service {
	return &Service{parties: parties, entries: entries, db: entries.DB()}
}

type CreateInput struct {
	PartyType      models.PartyType
	PartyID        uint
	Date           string
	BasketCount    int
	PricePerBasket decimal.Decimal
	Mark           string
}

func (s *Service) Create(in CreateInput) (*models.BasketEntry, error) {
	if !in.PartyType.Valid() {
		return nil, apperr.Validation("invalid party type %q", in.PartyType)
	}
	if in.BasketCount <= 0 {
		return nil, apperr.Validation("basket_count must be positive")
	}
	if in.PricePerBasket.IsNegative() {
		return nil, apperr.Validation("price_per_basket must not be negative")
	}
	if _, err := s.parties.PartyName(in.PartyType, in.PartyID); err != nil {
		return nil, err
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, apperr.Validation("invalid date format, use YYYY-MM-DD")
	}

	entry := &models.BasketEntry{
		PartyType:      in.PartyType,
		PartyID:        in.PartyID,
		Date:           date,
		BasketCount:    in.BasketCount,
		PricePerBasket: in.PricePerBasket,
		TotalPrice:     in.PricePerBasket.Mul(decimal.NewFromInt(int64(in.BasketCount))),
		Mark:           in.Mark,
	}
	if err := s.entries.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateInput carries only the fields present in the request. TotalPrice
// can be set directly as an escape hatch; it is never recomputed from the
// other fields during an update.
type UpdateInput struct {
	PartyType      *models.PartyType
	PartyID        *uint
	Date           *string
	BasketCount    *int
	PricePerBasket *decimal.Decimal
	TotalPrice     *decimal.Decimal
	Mark           *string

	// UpdateRelated re-parents every entry sharing the mark onto the new
	// party. OriginalMark targets the group when the mark itself changes.
	UpdateRelated bool
	OriginalMark  string
}

func (s *Service) Update(id uint, in UpdateInput) (int64, error) {
	entry, err := s.entries.GetByID(id)
	if err != nil {
		return 0, err
	}

	if in.PartyType != nil && in.PartyID != nil {
		if !in.PartyType.Valid() {
			return 0, apperr.Validation("invalid party type %q", *in.PartyType)
		}
		if _, err := s.parties.PartyName(*in.PartyType, *in.PartyID); err != nil {
			return 0, err
		}
	}

	if in.PartyType != nil {
		entry.PartyType = *in.PartyType
	}
	if in.PartyID != nil {
		entry.PartyID = *in.PartyID
	}
	if in.Date != nil {
		date, err := models.ParseDate(*in.Date)
		if err != nil {
			return 0, apperr.Validation("invalid date format, use YYYY-MM-DD")
		}
		entry.Date = date
	}
	if in.BasketCount != nil {
		entry.BasketCount = *in.BasketCount
	}
	if in.PricePerBasket != nil {
		entry.PricePerBasket = *in.PricePerBasket
	}
	if in.TotalPrice != nil {
		entry.TotalPrice = *in.TotalPrice
	}
	if in.Mark != nil {
		entry.Mark = *in.Mark
	}

	var relatedUpdated int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		if in.UpdateRelated && entry.Mark != "" {
			originalMark := in.OriginalMark
			if originalMark == "" {
				originalMark = entry.Mark
			}
			var newPartyType models.PartyType
			var newPartyID uint
			if in.PartyType != nil {
				newPartyType = *in.PartyType
			}
			if in.PartyID != nil {
				newPartyID = *in.PartyID
			}
			newMark := ""
			if in.Mark != nil && *in.Mark != originalMark {
				newMark = *in.Mark
			}
			related := repository.NewBasketEntryRepository(tx)
			n, err := related.UpdateRelatedByMark(originalMark, id, newPartyType, newPartyID, newMark)
			if err != nil {
				return err
			}
			relatedUpdated = n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return relatedUpdated, nil
}

func (s *Service) Delete(id uint) error {
	if _, err := s.entries.GetByID(id); err != nil {
		return err
	}
	return s.entries.Delete(id)
}

func (s *Service) Get(id uint) (*models.BasketEntry, error) {
	return s.entries.GetByID(id)
}

func (s *Service) List(f repository.EntryFilter) ([]models.BasketEntry, int64, error) {
	return s.entries.List(f)
}
