package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BasketEntry is one basket transaction against a party. party_id is not a
// database-level foreign key; validity is checked at write time so that
// historical rows survive a party being re-parented.
type BasketEntry struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PartyType      PartyType       `gorm:"size:20;index:idx_entry_party" json:"party_type"`
	PartyID        uint            `gorm:"not null;index:idx_entry_party" json:"party_id"`
	Date           time.Time       `gorm:"type:date;index" json:"date"`
	BasketCount    int             `gorm:"not null" json:"basket_count"`
	PricePerBasket decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_basket"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Mark           string          `gorm:"size:50;index" json:"mark"`
}
