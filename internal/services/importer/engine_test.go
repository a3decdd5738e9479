package importer

import (
	"strings"
	"testing"

	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One connection so every statement sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Wholesaler{},
		&models.PanShop{},
		&models.BasketEntry{},
		&models.Payment{},
		&models.ImportBatch{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func entryCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.BasketEntry{}).Count(&n).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	return n
}

func TestRun_PartialSuccess(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&models.Wholesaler{Name: "Ramesh", Mark: "RM"}).Error; err != nil {
		t.Fatalf("seed wholesaler: %v", err)
	}

	engine := NewEngine(db)
	result, err := engine.Run(Request{
		TransactionType: models.PartyWholesaler,
		Rows: []Row{
			{Amount: "1,500", Mark: "RM", Date: "12/5/2025"},
			{Amount: "200", Mark: "RM", Date: "not-a-date"},
			{Amount: "300", Mark: "RM", Date: "13-05-2025"},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Inserted) != 2 {
		t.Fatalf("expected 2 inserted, got %d", len(result.Inserted))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "row 2") {
		t.Fatalf("error should name row 2, got %q", result.Errors[0])
	}
	if n := entryCount(t, db); n != 2 {
		t.Fatalf("expected 2 persisted entries, got %d", n)
	}

	// The comma-separated amount lands as both unit price and total with
	// basket_count 1.
	var entry models.BasketEntry
	if err := db.Order("id ASC").First(&entry).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.BasketCount != 1 {
		t.Fatalf("expected basket_count 1, got %d", entry.BasketCount)
	}
	if !entry.TotalPrice.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected total 1500, got %s", entry.TotalPrice)
	}
	if !entry.PricePerBasket.Equal(entry.TotalPrice) {
		t.Fatalf("unit price %s != total %s", entry.PricePerBasket, entry.TotalPrice)
	}
}

func TestRun_AutoCreateWholesalerReusedWithinBatch(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	result, err := engine.Run(Request{
		TransactionType:      models.PartyWholesaler,
		AutoCreateWholesaler: true,
		Rows: []Row{
			{Amount: "100", Mark: "ZZ", Date: "1/6/2025"},
			{Amount: "250", Mark: "ZZ", Date: "2/6/2025"},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Inserted) != 2 || len(result.Errors) != 0 {
		t.Fatalf("expected clean batch, got %d inserted %v", len(result.Inserted), result.Errors)
	}

	var ws []models.Wholesaler
	if err := db.Find(&ws).Error; err != nil {
		t.Fatalf("list wholesalers: %v", err)
	}
	if len(ws) != 1 {
		t.Fatalf("expected exactly one auto-created wholesaler, got %d", len(ws))
	}
	if ws[0].Name != "Auto-created: ZZ" || ws[0].Mark != "ZZ" {
		t.Fatalf("unexpected wholesaler %+v", ws[0])
	}

	var entries []models.BasketEntry
	if err := db.Find(&entries).Error; err != nil {
		t.Fatalf("list entries: %v", err)
	}
	for _, e := range entries {
		if e.PartyID != ws[0].ID {
			t.Fatalf("entry references party %d, wholesaler is %d", e.PartyID, ws[0].ID)
		}
	}
}

func TestRun_UnknownMarkWithoutAutoCreate(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	result, err := engine.Run(Request{
		TransactionType: models.PartyWholesaler,
		Rows: []Row{
			{Amount: "100", Mark: "NOPE", Date: "1/6/2025"},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Inserted) != 0 || len(result.Errors) != 1 {
		t.Fatalf("expected rejected row, got %+v", result)
	}
	if n := entryCount(t, db); n != 0 {
		t.Fatalf("nothing should persist, got %d entries", n)
	}
}

func TestRun_AllRowsFailedRollsBackAutoCreated(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	result, err := engine.Run(Request{
		TransactionType:      models.PartyWholesaler,
		AutoCreateWholesaler: true,
		Rows: []Row{
			{Amount: "100", Mark: "GONE", Date: "garbage"},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Inserted) != 0 {
		t.Fatalf("expected no inserts, got %d", len(result.Inserted))
	}

	// The wholesaler was created inside the transaction; with zero
	// surviving rows the rollback removes it again.
	var n int64
	if err := db.Model(&models.Wholesaler{}).Count(&n).Error; err != nil {
		t.Fatalf("count wholesalers: %v", err)
	}
	if n != 0 {
		t.Fatalf("auto-created wholesaler leaked past rollback, count %d", n)
	}
}

func TestRun_PanShopBatch(t *testing.T) {
	db := newTestDB(t)
	shop := models.PanShop{Name: "Corner Shop"}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	engine := NewEngine(db)

	result, err := engine.Run(Request{
		TransactionType: models.PartyPanShop,
		PanShopID:       shop.ID,
		Rows: []Row{
			// Pan-shop rows need no mark.
			{Amount: "75", Date: "5/6/2025"},
			{Amount: "25", Mark: "ignored", Date: "6/6/2025"},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Inserted) != 2 || len(result.Errors) != 0 {
		t.Fatalf("expected clean batch, got %+v", result)
	}

	var entries []models.BasketEntry
	if err := db.Find(&entries).Error; err != nil {
		t.Fatalf("list entries: %v", err)
	}
	for _, e := range entries {
		if e.PartyType != models.PartyPanShop || e.PartyID != shop.ID {
			t.Fatalf("entry routed to %s/%d, want panshop/%d", e.PartyType, e.PartyID, shop.ID)
		}
	}
}

func TestRun_PanShopMissing(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	result, err := engine.Run(Request{
		TransactionType: models.PartyPanShop,
		PanShopID:       99,
		Rows:            []Row{{Amount: "75", Date: "5/6/2025"}},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "99") {
		t.Fatalf("expected per-row error naming shop 99, got %v", result.Errors)
	}
}

func TestRun_EmptyBatchIsValidationError(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	_, err := engine.Run(Request{TransactionType: models.PartyWholesaler})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRun_RecordsBatchSummary(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&models.Wholesaler{Name: "Ramesh", Mark: "RM"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	engine := NewEngine(db)

	result, err := engine.Run(Request{
		TransactionType: models.PartyWholesaler,
		Rows: []Row{
			{Amount: "100", Mark: "RM", Date: "1/6/2025"},
			{Amount: "x", Mark: "RM", Date: "1/6/2025"},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var batch models.ImportBatch
	if err := db.First(&batch, "id = ?", result.BatchID).Error; err != nil {
		t.Fatalf("load batch record: %v", err)
	}
	if batch.TotalRows != 2 || batch.InsertedCount != 1 || batch.ErrorCount != 1 {
		t.Fatalf("unexpected batch summary %+v", batch)
	}

	batches, err := engine.RecentBatches(10)
	if err != nil {
		t.Fatalf("RecentBatches: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("expected 1 recent batch, got %d", len(batches))
	}
}
