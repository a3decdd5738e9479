package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImportBatch is the durable record of one bulk-import call: how many rows
// came in, how many landed, and the per-row error messages as JSON.
type ImportBatch struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionType PartyType      `gorm:"size:20" json:"transaction_type"`
	TotalRows       int            `json:"total_rows"`
	InsertedCount   int            `json:"inserted_count"`
	ErrorCount      int            `json:"error_count"`
	Errors          datatypes.JSON `json:"errors"`
	CreatedAt       time.Time      `json:"created_at"`
}
