package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentModeCash = "cash"
	PaymentModeUPI  = "upi"
)

// Payment records money moving from a party to the business. Amount is
// positive in that direction for both party kinds.
type Payment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PartyType   PartyType       `gorm:"size:50;not null;index:idx_payment_party" json:"party_type"`
	PartyID     uint            `gorm:"not null;index:idx_payment_party" json:"party_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	Note        string          `gorm:"size:200" json:"note"`
	PaymentMode string          `gorm:"size:20;not null" json:"payment_mode"`
	UPIAccount  string          `gorm:"size:100;column:upi_account" json:"upi_account"`
}
