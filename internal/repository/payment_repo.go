package repository

import (
	"time"

	"pan-basket-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) DB() *gorm.DB {
	return r.db
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

// List returns payments newest first, optionally filtered by party.
func (r *PaymentRepository) List(partyType models.PartyType, partyID uint) ([]models.Payment, error) {
	query := r.db.Model(&models.Payment{})
	if partyType != "" {
		query = query.Where("party_type = ?", partyType)
	}
	if partyID != 0 {
		query = query.Where("party_id = ?", partyID)
	}
	var payments []models.Payment
	err := query.Order("date DESC").Order("id DESC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) InRange(partyType models.PartyType, partyID uint, start, end time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.
		Where("party_type = ? AND party_id = ?", partyType, partyID).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").Order("id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) SumAmount(partyType models.PartyType, partyID uint) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("party_type = ? AND party_id = ?", partyType, partyID).
		Scan(&row).Error
	return row.Total, err
}

func (r *PaymentRepository) SumAmountAll() (decimal.Decimal, error) {
	var row sumRow
	err := r.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Scan(&row).Error
	return row.Total, err
}

func (r *PaymentRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Payment{}).Count(&n).Error
	return n, err
}

func (r *PaymentRepository) TotalsByParty(partyType models.PartyType) (map[uint]decimal.Decimal, error) {
	var rows []PartySum
	err := r.db.Model(&models.Payment{}).
		Select("party_id, COALESCE(SUM(amount), 0) as total").
		Where("party_type = ?", partyType).
		Group("party_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[uint]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.PartyID] = row.Total
	}
	return totals, nil
}

type DailyAmount struct {
	Date  time.Time
	Total decimal.Decimal
}

// DailyTotals groups payment amounts by date for one party kind, newest
// first. Month truncation happens in the reporting layer so the query
// stays portable between postgres and the sqlite test store.
func (r *PaymentRepository) DailyTotals(partyType models.PartyType) ([]DailyAmount, error) {
	var rows []DailyAmount
	err := r.db.Model(&models.Payment{}).
		Select("date, COALESCE(SUM(amount), 0) as total").
		Where("party_type = ?", partyType).
		Group("date").
		Order("date DESC").
		Scan(&rows).Error
	return rows, err
}
