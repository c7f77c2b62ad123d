package models

// Receipt links a transaction to its image blob in the object store.
//
// A Receipt row exists iff some Transaction's receipt_id points at it; the
// transaction service is responsible for keeping row and blob paired up
// across partial failures.
type Receipt struct {
	Base
	TransactionID uint   `gorm:"not null;index" json:"transaction_id"`
	UserID        uint   `gorm:"not null" json:"user_id"`
	URL           string `gorm:"not null" json:"url"`
}
