package models

// User represents an authenticated account holder.
type User struct {
	Base
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Profile      *UserProfile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
}

// UserProfile holds per-user preferences. DefaultCurrency is the fallback
// used when a transaction is created without an explicit currency.
type UserProfile struct {
	Base
	UserID          uint     `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName     string   `json:"display_name"`
	DefaultCurrency Currency `json:"default_currency"`
}
