package repository

import (
	"errors"
	"time"

	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BasketEntryRepository struct {
	db *gorm.DB
}

func NewBasketEntryRepository(db *gorm.DB) *BasketEntryRepository {
	return &BasketEntryRepository{db: db}
}

func (r *BasketEntryRepository) DB() *gorm.DB {
	return r.db
}

func (r *BasketEntryRepository) Create(entry *models.BasketEntry) error {
	return r.db.Create(entry).Error
}

func (r *BasketEntryRepository) GetByID(id uint) (*models.BasketEntry, error) {
	var entry models.BasketEntry
	if err := r.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("basket entry with ID %d not found", id)
		}
		return nil, err
	}
	return &entry, nil
}

func (r *BasketEntryRepository) Save(entry *models.BasketEntry) error {
	return r.db.Save(entry).Error
}

func (r *BasketEntryRepository) Delete(id uint) error {
	return r.db.Delete(&models.BasketEntry{}, id).Error
}

type EntryFilter struct {
	PartyType models.PartyType
	PartyID   uint
	Date      *time.Time
	Page      int
	PerPage   int
}

// List returns one page of entries plus the unpaginated total, newest first.
func (r *BasketEntryRepository) List(f EntryFilter) ([]models.BasketEntry, int64, error) {
	query := r.db.Model(&models.BasketEntry{})
	if f.PartyType != "" {
		query = query.Where("party_type = ?", f.PartyType)
	}
	if f.PartyID != 0 {
		query = query.Where("party_id = ?", f.PartyID)
	}
	if f.Date != nil {
		query = query.Where("date = ?", *f.Date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.BasketEntry
	err := query.
		Order("date DESC").Order("id DESC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&entries).Error
	return entries, total, err
}

func (r *BasketEntryRepository) InRange(partyType models.PartyType, partyID uint, start, end time.Time) ([]models.BasketEntry, error) {
	var entries []models.BasketEntry
	err := r.db.
		Where("party_type = ? AND party_id = ?", partyType, partyID).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").Order("id ASC").
		Find(&entries).Error
	return entries, err
}

type sumRow struct {
	Total decimal.Decimal
}

func (r *BasketEntryRepository) SumTotalPrice(partyType models.PartyType, partyID uint) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.Model(&models.BasketEntry{}).
		Select("COALESCE(SUM(total_price), 0) as total").
		Where("party_type = ? AND party_id = ?", partyType, partyID).
		Scan(&row).Error
	return row.Total, err
}

func (r *BasketEntryRepository) SumTotalPriceAll() (decimal.Decimal, error) {
	var row sumRow
	err := r.db.Model(&models.BasketEntry{}).
		Select("COALESCE(SUM(total_price), 0) as total").
		Scan(&row).Error
	return row.Total, err
}

func (r *BasketEntryRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.BasketEntry{}).Count(&n).Error
	return n, err
}

type PartySum struct {
	PartyID uint
	Total   decimal.Decimal
}

// TotalsByParty sums total_price per party in one query, for summary
// listings across every party of a kind.
func (r *BasketEntryRepository) TotalsByParty(partyType models.PartyType) (map[uint]decimal.Decimal, error) {
	var rows []PartySum
	err := r.db.Model(&models.BasketEntry{}).
		Select("party_id, COALESCE(SUM(total_price), 0) as total").
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

type DailyBaskets struct {
	Date    time.Time
	Baskets int
}

// DailyBasketCounts groups basket_count by date for one side of the flow,
// newest dates first, capped at limit distinct dates.
func (r *BasketEntryRepository) DailyBasketCounts(partyType models.PartyType, limit int) ([]DailyBaskets, error) {
	var rows []DailyBaskets
	err := r.db.Model(&models.BasketEntry{}).
		Select("date, COALESCE(SUM(basket_count), 0) as baskets").
		Where("party_type = ?", partyType).
		Group("date").
		Order("date DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// UpdateRelatedByMark re-parents every entry sharing mark (except the one
// being edited) onto the given party, optionally rewriting the mark itself.
func (r *BasketEntryRepository) UpdateRelatedByMark(mark string, excludeID uint, partyType models.PartyType, partyID uint, newMark string) (int64, error) {
	updates := map[string]interface{}{}
	if partyType != "" {
		updates["party_type"] = partyType
	}
	if partyID != 0 {
		updates["party_id"] = partyID
	}
	if newMark != "" && newMark != mark {
		updates["mark"] = newMark
	}
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.BasketEntry{}).
		Where("mark = ? AND id <> ?", mark, excludeID).
		Updates(updates)
	return result.RowsAffected, result.Error
}
