package repository

import (
	"errors"

	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"

	"gorm.io/gorm"
)

type PartyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) *PartyRepository {
	return &PartyRepository{db: db}
}

// Expose DB for service wiring
func (r *PartyRepository) DB() *gorm.DB {
	return r.db
}

func (r *PartyRepository) CreateWholesaler(w *models.Wholesaler) error {
	return r.db.Create(w).Error
}

func (r *PartyRepository) CreatePanShop(p *models.PanShop) error {
	return r.db.Create(p).Error
}

func (r *PartyRepository) ListWholesalers() ([]models.Wholesaler, error) {
	var ws []models.Wholesaler
	err := r.db.Order("id ASC").Find(&ws).Error
	return ws, err
}

func (r *PartyRepository) ListPanShops() ([]models.PanShop, error) {
	var ps []models.PanShop
	err := r.db.Order("id ASC").Find(&ps).Error
	return ps, err
}

func (r *PartyRepository) GetWholesaler(id uint) (*models.Wholesaler, error) {
	var w models.Wholesaler
	if err := r.db.First(&w, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("wholesaler with ID %d not found", id)
		}
		return nil, err
	}
	return &w, nil
}

func (r *PartyRepository) GetPanShop(id uint) (*models.PanShop, error) {
	var p models.PanShop
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("pan shop with ID %d not found", id)
		}
		return nil, err
	}
	return &p, nil
}

// FindWholesalerByMark resolves a bulk-import mark to a wholesaler. Marks
// are not unique; the lowest ID wins.
func (r *PartyRepository) FindWholesalerByMark(mark string) (*models.Wholesaler, error) {
	var w models.Wholesaler
	err := r.db.Where("mark = ?", mark).Order("id ASC").First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("wholesaler with mark %q not found", mark)
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// PartyName is the single dispatch point for (party_type, party_id)
// lookups. Callers creating entries or payments use it to reject
// references to parties that do not exist.
func (r *PartyRepository) PartyName(partyType models.PartyType, partyID uint) (string, error) {
	switch partyType {
	case models.PartyWholesaler:
		w, err := r.GetWholesaler(partyID)
		if err != nil {
			return "", err
		}
		return w.Name, nil
	case models.PartyPanShop:
		p, err := r.GetPanShop(partyID)
		if err != nil {
			return "", err
		}
		return p.Name, nil
	default:
		return "", apperr.Validation("invalid party type %q", partyType)
	}
}

// PartyNameOrUnknown is the lenient read-side variant: orphaned references
// resolve to "Unknown" instead of failing.
func (r *PartyRepository) PartyNameOrUnknown(partyType models.PartyType, partyID uint) string {
	name, err := r.PartyName(partyType, partyID)
	if err != nil {
		return "Unknown"
	}
	return name
}
