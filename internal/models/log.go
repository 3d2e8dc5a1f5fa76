package models

import "time"

// Log is a single journal entry. UserID is serialized as "user" and is
// removed together with its owner.
type Log struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint `gorm:"index" json:"user"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Mood       int     `gorm:"not null" json:"mood"`
	SleepHours float64 `gorm:"not null" json:"sleep_hours"`
	Music      string  `gorm:"size:200;not null" json:"music"`
	Social     int     `gorm:"not null" json:"social"`

	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
}
