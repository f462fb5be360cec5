package models

import "time"

// Organization scopes all data to a single workshop.
type Organization struct {
	Slug      string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"size:128;not null"`
	CreatedAt time.Time
}

// Employee is a workshop worker that orders can be assigned to.
type Employee struct {
	ID        string `gorm:"primaryKey;size:32"`
	OrgID     string `gorm:"size:32;index"`
	Name      string `gorm:"size:128;not null"`
	Role      string `gorm:"size:32;default:mechanic"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time
}
