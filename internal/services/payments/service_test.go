package payments

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
	if err := db.AutoMigrate(&models.Wholesaler{}, &models.PanShop{}, &models.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := NewService(repository.NewPartyRepository(db), repository.NewPaymentRepository(db))
	return svc, db
}

func TestCreate_CashClearsUPIAccount(t *testing.T) {
	svc, db := newTestService(t)
	w := models.Wholesaler{Name: "Ravi"}
	if err := db.Create(&w).Error; err != nil {
		t.Fatal(err)
	}

	payment, err := svc.Create(CreateInput{
		PartyType:   models.PartyWholesaler,
		PartyID:     w.ID,
		Amount:      decimal.NewFromInt(500),
		Date:        "2025-05-01",
		PaymentMode: models.PaymentModeCash,
		UPIAccount:  "ravi@upi",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if payment.UPIAccount != "" {
		t.Fatalf("cash payment kept upi account %q", payment.UPIAccount)
	}
}

func TestCreate_UPIKeepsAccount(t *testing.T) {
	svc, db := newTestService(t)
	shop := models.PanShop{Name: "Corner"}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatal(err)
	}

	payment, err := svc.Create(CreateInput{
		PartyType:   models.PartyPanShop,
		PartyID:     shop.ID,
		Amount:      decimal.NewFromInt(250),
		Date:        "2025-05-01",
		PaymentMode: models.PaymentModeUPI,
		UPIAccount:  "corner@upi",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if payment.UPIAccount != "corner@upi" {
		t.Fatalf("upi account: want corner@upi, got %q", payment.UPIAccount)
	}
}

func TestCreate_Rejections(t *testing.T) {
	svc, db := newTestService(t)
	w := models.Wholesaler{Name: "Ravi"}
	if err := db.Create(&w).Error; err != nil {
		t.Fatal(err)
	}

	base := CreateInput{
		PartyType:   models.PartyWholesaler,
		PartyID:     w.ID,
		Amount:      decimal.NewFromInt(100),
		Date:        "2025-05-01",
		PaymentMode: models.PaymentModeCash,
	}

	cases := []struct {
		name     string
		mutate   func(*CreateInput)
		notFound bool
	}{
		{name: "bad party type", mutate: func(in *CreateInput) { in.PartyType = "bank" }},
		{name: "bad payment mode", mutate: func(in *CreateInput) { in.PaymentMode = "cheque" }},
		{name: "bad date", mutate: func(in *CreateInput) { in.Date = "May 1 2025" }},
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

func TestList_ResolvesPartyNames(t *testing.T) {
	svc, db := newTestService(t)
	w := models.Wholesaler{Name: "Ravi"}
	if err := db.Create(&w).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(CreateInput{
		PartyType:   models.PartyWholesaler,
		PartyID:     w.ID,
		Amount:      decimal.NewFromInt(100),
		Date:        "2025-05-01",
		PaymentMode: models.PaymentModeCash,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Orphan row referencing a party that no longer exists.
	orphan := models.Payment{
		PartyType:   models.PartyWholesaler,
		PartyID:     999,
		Amount:      decimal.NewFromInt(50),
		Date:        mustDate(t, "2025-05-02"),
		PaymentMode: models.PaymentModeCash,
	}
	if err := db.Create(&orphan).Error; err != nil {
		t.Fatal(err)
	}

	views, err := svc.List(models.PartyWholesaler, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(views))
	}
	names := map[uint]string{}
	for _, v := range views {
		names[v.PartyID] = v.PartyName
	}
	if names[w.ID] != "Ravi" {
		t.Fatalf("party name: want Ravi, got %q", names[w.ID])
	}
	if names[999] != "Unknown" {
		t.Fatalf("orphan name: want Unknown, got %q", names[999])
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed
}
