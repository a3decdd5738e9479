package models

// PartyType identifies which side of the ledger a record belongs to.
type PartyType string

const (
	PartyWholesaler PartyType = "wholesaler"
	PartyPanShop    PartyType = "panshop"
)

func (p PartyType) Valid() bool {
	return p == PartyWholesaler || p == PartyPanShop
}

type Wholesaler struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	ContactInfo string `gorm:"size:200" json:"contact_info"`
	Mark        string `gorm:"size:50;index" json:"mark"`
}

type PanShop struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	ContactInfo string `gorm:"size:200" json:"contact_info"`
}
