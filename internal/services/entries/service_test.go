package entries

import (
	"testing"
	"time"

	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Wholesaler{}, &models.PanShop{}, &models.BasketEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := NewService(repository.NewPartyRepository(db), repository.NewBasketEntryRepository(db))
	return svc, db
}

func seedWholesaler(t *testing.T, db *gorm.DB, name, mark string) uint {
	t.Helper()
	w := models.Wholesaler{Name: name, Mark: mark}
	if err := db.Create(&w).Error; err != nil {
		t.Fatalf("seed wholesaler: %v", err)
	}
	return w.ID
}

func TestCreate_ComputesTotal(t *testing.T) {
	svc, db := newTestService(t)
	id := seedWholesaler(t, db, "Ravi", "RV")

	entry, err := svc.Create(CreateInput{
		PartyType:      models.PartyWholesaler,
		PartyID:        id,
		Date:           "2025-05-01",
		BasketCount:    4,
		PricePerBasket: decimal.NewFromInt(25),
		Mark:           "RV",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !entry.TotalPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("total price: want 100, got %s", entry.TotalPrice)
	}
	if !entry.Date.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date not normalized: %v", entry.Date)
	}
}

func TestCreate_Rejections(t *testing.T) {
	svc, db := newTestService(t)
	id := seedWholesaler(t, db, "Ravi", "RV")

	base := CreateInput{
		PartyType:      models.PartyWholesaler,
		PartyID:        id,
		Date:           "2025-05-01",
		BasketCount:    1,
		PricePerBasket: decimal.NewFromInt(10),
	}

	cases := []struct {
		name     string
		mutate   func(*CreateInput)
		notFound bool
	}{
		{name: "bad party type", mutate: func(in *CreateInput) { in.PartyType = "retailer" }},
		{name: "zero count", mutate: func(in *CreateInput) { in.BasketCount = 0 }},
		{name: "negative price", mutate: func(in *CreateInput) { in.PricePerBasket = decimal.NewFromInt(-5) }},
		{name: "bad date", mutate: func(in *CreateInput) { in.Date = "01/05/2025" }},
		{name: "missing party", mutate: func(in *CreateInput) { in.PartyID = 999 }, notFound: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := svc.Create(in)
			if tc.notFound {
				if !apperr.IsNotFound(err) {
					t.Fatalf("expected not-found, got %v", err)
				}
			} else if !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdate_TotalPriceOverrideIsKept(t *testing.T) {
	svc, db := newTestService(t)
	id := seedWholesaler(t, db, "Ravi", "RV")

	entry, err := svc.Create(CreateInput{
		PartyType:      models.PartyWholesaler,
		PartyID:        id,
		Date:           "2025-05-01",
		BasketCount:    4,
		PricePerBasket: decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A direct total wins and is not recomputed from count and price.
	override := decimal.NewFromInt(90)
	count := 5
	if _, err := svc.Update(entry.ID, UpdateInput{BasketCount: &count, TotalPrice: &override}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.BasketCount != 5 {
		t.Fatalf("basket count: want 5, got %d", got.BasketCount)
	}
	if !got.TotalPrice.Equal(override) {
		t.Fatalf("total price: want 90, got %s", got.TotalPrice)
	}
}

func TestUpdate_RelatedByMarkCascade(t *testing.T) {
	svc, db := newTestService(t)
	ravi := seedWholesaler(t, db, "Ravi", "RV")
	suresh := seedWholesaler(t, db, "Suresh", "SU")

	var first *models.BasketEntry
	for i := 0; i < 3; i++ {
		entry, err := svc.Create(CreateInput{
			PartyType:      models.PartyWholesaler,
			PartyID:        ravi,
			Date:           "2025-05-01",
			BasketCount:    1,
			PricePerBasket: decimal.NewFromInt(10),
			Mark:           "RV",
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if first == nil {
			first = entry
		}
	}

	newType := models.PartyWholesaler
	related, err := svc.Update(first.ID, UpdateInput{
		PartyType:     &newType,
		PartyID:       &suresh,
		UpdateRelated: true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if related != 2 {
		t.Fatalf("related updated: want 2, got %d", related)
	}

	var moved int64
	if err := db.Model(&models.BasketEntry{}).Where("party_id = ?", suresh).Count(&moved).Error; err != nil {
		t.Fatal(err)
	}
	if moved != 3 {
		t.Fatalf("expected all 3 entries on new party, got %d", moved)
	}
}

func TestUpdate_RelatedWithMarkRename(t *testing.T) {
	svc, db := newTestService(t)
	ravi := seedWholesaler(t, db, "Ravi", "RV")

	var ids []uint
	for i := 0; i < 2; i++ {
		entry, err := svc.Create(CreateInput{
			PartyType:      models.PartyWholesaler,
			PartyID:        ravi,
			Date:           "2025-05-01",
			BasketCount:    1,
			PricePerBasket: decimal.NewFromInt(10),
			Mark:           "OLD",
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, entry.ID)
	}

	newMark := "NEW"
	related, err := svc.Update(ids[0], UpdateInput{
		Mark:          &newMark,
		UpdateRelated: true,
		OriginalMark:  "OLD",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if related != 1 {
		t.Fatalf("related updated: want 1, got %d", related)
	}

	var stale int64
	if err := db.Model(&models.BasketEntry{}).Where("mark = ?", "OLD").Count(&stale).Error; err != nil {
		t.Fatal(err)
	}
	if stale != 0 {
		t.Fatalf("expected no entries left on old mark, got %d", stale)
	}
}

func TestDelete_MissingEntryIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Delete(42); !apperr.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDelete_RemovesEntry(t *testing.T) {
	svc, db := newTestService(t)
	id := seedWholesaler(t, db, "Ravi", "RV")
	entry, err := svc.Create(CreateInput{
		PartyType:      models.PartyWholesaler,
		PartyID:        id,
		Date:           "2025-05-01",
		BasketCount:    1,
		PricePerBasket: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(entry.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestList_FiltersAndPaginates(t *testing.T) {
	svc, db := newTestService(t)
	id := seedWholesaler(t, db, "Ravi", "RV")
	days := []string{"2025-05-01", "2025-05-02", "2025-05-03"}
	for _, day := range days {
		if _, err := svc.Create(CreateInput{
			PartyType:      models.PartyWholesaler,
			PartyID:        id,
			Date:           day,
			BasketCount:    1,
			PricePerBasket: decimal.NewFromInt(10),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, total, err := svc.List(repository.EntryFilter{
		PartyType: models.PartyWholesaler,
		PartyID:   id,
		Page:      1,
		PerPage:   2,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Fatalf("total: want 3, got %d", total)
	}
	if len(got) != 2 {
		t.Fatalf("page size: want 2, got %d", len(got))
	}
	if got[0].Date.Format(models.DateFormat) != "2025-05-03" {
		t.Fatalf("expected newest first, got %s", got[0].Date.Format(models.DateFormat))
	}
}
