package models

import (
	"fmt"
	"time"
)

// TransactionType represents the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

// Valid reports whether t is one of the closed set of transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal:
		return true
	}
	return false
}

// ParseTransactionType converts a wire string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%s is not a valid transaction type", s)
	}
	return t, nil
}

// Transaction represents a single ledger entry for a user.
//
// Deleted rows stay in the table for audit but are excluded from every read
// path; the flag is set once and never cleared.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  uint            `gorm:"not null" json:"category_id"`
	Type        TransactionType `gorm:"not null" json:"transaction_type"`
	Amount      float64         `gorm:"not null" json:"amount"`
	Currency    Currency        `gorm:"not null" json:"currency"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null" json:"date"`
	ReceiptID   *uint           `json:"receipt_id,omitempty"`
	Deleted     bool            `gorm:"not null;default:false;index" json:"-"`

	// Relationships
	Receipt *Receipt `gorm:"foreignKey:ReceiptID" json:"receipt,omitempty"`
}
