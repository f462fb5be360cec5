package models

import "time"

// Customer is the owner of one or more vehicles in the shop.
type Customer struct {
	ID        string `gorm:"primaryKey;size:32"`
	OrgID     string `gorm:"size:32;index"`
	Name      string `gorm:"size:128;not null"`
	Phone     string `gorm:"size:32"`
	Email     string `gorm:"size:128"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Vehicles []Vehicle `gorm:"foreignKey:CustomerID"`
}

// Vehicle is a customer's vehicle as registered at intake.
type Vehicle struct {
	ID           string `gorm:"primaryKey;size:32"`
	OrgID        string `gorm:"size:32;index"`
	CustomerID   string `gorm:"size:32;index"`
	Brand        string `gorm:"size:64"`
	Model        string `gorm:"size:64"`
	Year         int
	LicensePlate string `gorm:"size:16;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
