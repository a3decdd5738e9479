package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Row is one bulk-imported line. All fields arrive as strings because the
// source is OCR output or hand-pasted text; validation happens here, not
// by probing dynamic fields at use sites.
type Row struct {
	Amount string `json:"amount"`
	Mark   string `json:"mark"`
	Date   string `json:"date"`
}

type Request struct {
	Rows                 []Row            `json:"rows"`
	TransactionType      models.PartyType `json:"transactionType"`
	PanShopID            uint             `json:"panShopId"`
	AutoCreateWholesaler bool             `json:"autoCreateWholesaler"`
}

type Result struct {
	BatchID  uuid.UUID `json:"batch_id"`
	Inserted []Row     `json:"inserted"`
	Errors   []string  `json:"errors"`
	Message  string    `json:"message"`
}

// Engine maps loose import rows onto basket entries. Rows fail
// independently; the batch commits iff at least one row survives.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Run processes one batch inside a single transaction. Auto-created
// wholesalers are inserted through the open transaction so later rows in
// the same batch resolve to them before anything commits.
func (e *Engine) Run(req Request) (*Result, error) {
	if len(req.Rows) == 0 {
		return nil, apperr.Validation("no data provided")
	}

	tx := e.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var (
		inserted []Row
		rowErrs  []string
		staged   []models.BasketEntry
	)

	// The pan shop is fixed for the whole batch; resolve it once.
	var batchShop *models.PanShop
	if req.TransactionType == models.PartyPanShop {
		var shop models.PanShop
		err := tx.First(&shop, req.PanShopID).Error
		if err == nil {
			batchShop = &shop
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return nil, err
		}
	}

	for i, row := range req.Rows {
		rowNum := i + 1

		if strings.TrimSpace(row.Amount) == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: missing amount", rowNum))
			continue
		}
		mark := strings.TrimSpace(row.Mark)
		if mark == "" && req.TransactionType == models.PartyWholesaler {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: missing mark", rowNum))
			continue
		}
		if strings.TrimSpace(row.Date) == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: missing date", rowNum))
			continue
		}

		amount, err := parseAmount(row.Amount)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: invalid amount %q", rowNum, row.Amount))
			continue
		}

		var partyID uint
		switch req.TransactionType {
		case models.PartyWholesaler:
			wholesaler, err := e.resolveWholesaler(tx, mark, req.AutoCreateWholesaler)
			if err != nil {
				rowErrs = append(rowErrs, fmt.Sprintf("row %d: %s", rowNum, apperr.Message(err)))
				continue
			}
			partyID = wholesaler.ID
		case models.PartyPanShop:
			if batchShop == nil {
				rowErrs = append(rowErrs, fmt.Sprintf("row %d: pan shop with ID %d not found", rowNum, req.PanShopID))
				continue
			}
			partyID = batchShop.ID
		default:
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: invalid transaction type %q", rowNum, req.TransactionType))
			continue
		}

		date, err := ParseRowDate(row.Date)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: invalid date %q", rowNum, row.Date))
			continue
		}

		// One imported row is one lump transaction, not a per-basket
		// breakdown: basket_count is 1 and the amount is both unit price
		// and total.
		staged = append(staged, models.BasketEntry{
			PartyType:      req.TransactionType,
			PartyID:        partyID,
			Date:           date,
			BasketCount:    1,
			PricePerBasket: amount,
			TotalPrice:     amount,
			Mark:           mark,
		})
		inserted = append(inserted, row)
	}

	if len(staged) > 0 {
		if err := tx.Create(&staged).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
	} else {
		// Nothing survived; auto-created wholesalers vanish with the
		// rollback.
		tx.Rollback()
	}

	result := &Result{
		BatchID:  uuid.New(),
		Inserted: inserted,
		Errors:   rowErrs,
		Message:  fmt.Sprintf("Inserted %d entries, %d errors.", len(inserted), len(rowErrs)),
	}
	e.recordBatch(req, result)

	logrus.WithFields(logrus.Fields{
		"batch_id": result.BatchID,
		"type":     req.TransactionType,
		"inserted": len(inserted),
		"errors":   len(rowErrs),
	}).Info("bulk import processed")

	return result, nil
}

func (e *Engine) resolveWholesaler(tx *gorm.DB, mark string, autoCreate bool) (*models.Wholesaler, error) {
	var w models.Wholesaler
	err := tx.Where("mark = ?", mark).Order("id ASC").First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !autoCreate {
		return nil, apperr.NotFound("wholesaler with mark %q not found", mark)
	}
	w = models.Wholesaler{
		Name: "Auto-created: " + mark,
		Mark: mark,
	}
	if err := tx.Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// recordBatch persists the batch summary outside the row transaction. A
// failure here must not undo committed entries, so it only logs.
func (e *Engine) recordBatch(req Request, result *Result) {
	errsJSON, _ := json.Marshal(result.Errors)
	batch := models.ImportBatch{
		ID:              result.BatchID,
		TransactionType: req.TransactionType,
		TotalRows:       len(req.Rows),
		InsertedCount:   len(result.Inserted),
		ErrorCount:      len(result.Errors),
		Errors:          errsJSON,
	}
	if err := e.db.Create(&batch).Error; err != nil {
		logrus.WithError(err).WithField("batch_id", result.BatchID).Warn("failed to record import batch")
	}
}

// RecentBatches lists import summaries, newest first.
func (e *Engine) RecentBatches(limit int) ([]models.ImportBatch, error) {
	var batches []models.ImportBatch
	err := e.db.Order("created_at DESC").Limit(limit).Find(&batches).Error
	return batches, err
}

func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return decimal.NewFromString(cleaned)
}
