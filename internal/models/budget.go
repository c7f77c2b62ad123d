package models

import "time"

// Budget caps spending for a single category over a date range.
//
// Duration is derived: always end_date - start_date in seconds, recomputed
// on every date change and never independently settable.
type Budget struct {
	Base
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	CategoryID uint      `gorm:"not null" json:"category_id"`
	Amount     float64   `gorm:"not null" json:"amount"`
	StartDate  time.Time `gorm:"not null" json:"start_date"`
	EndDate    time.Time `gorm:"not null" json:"end_date"`
	Recurring  bool      `gorm:"not null;default:false" json:"recurring"`
	Duration   int64     `gorm:"not null" json:"duration"`
}

// DurationSeconds computes the derived duration for the given date range.
func DurationSeconds(start, end time.Time) int64 {
	return end.Unix() - start.Unix()
}
