package models

// Category groups a user's transactions.
//
// Invariant: after a user's first category exists, exactly one of their
// categories has is_default = true. The flag is mutated only by the
// category service's SetDefault operation.
type Category struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	IsDefault   bool   `gorm:"not null;default:false" json:"is_default"`
	BudgetID    *uint  `json:"budget_id,omitempty"`

	// Relationships
	Budget       *Budget       `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
