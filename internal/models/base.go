package models

import "time"

// Base contains common columns for all tables.
//
// There is deliberately no gorm.DeletedAt here: the ledger's soft delete is
// an explicit `deleted` flag on Transaction that is never cleared and never
// auto-filtered by the ORM. Categories, receipts, and budgets are
// hard-deleted.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
