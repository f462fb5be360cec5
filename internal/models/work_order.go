package models

import (
	"time"

	"github.com/avelar/pitlane/internal/pipeline"
)

// WorkOrder is the core work item in Pitlane. Its Status is the order's
// column membership key on the board: an order is always in exactly the
// column whose stage equals Status.
type WorkOrder struct {
	ID            string         `gorm:"primaryKey;size:32"`
	OrgID         string         `gorm:"size:32;index"`
	Status        pipeline.Stage `gorm:"size:32;default:reception;index"`
	Description   string         `gorm:"type:text"`
	EstimatedCost float64        `gorm:"default:0"`
	TotalAmount   float64        `gorm:"default:0"`
	AssignedTo    string         `gorm:"size:64"`
	CustomerID    string         `gorm:"size:32;index"`
	VehicleID     string         `gorm:"size:32;index"`
	EntryDate     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time

	Customer Customer     `gorm:"foreignKey:CustomerID"`
	Vehicle  Vehicle      `gorm:"foreignKey:VehicleID"`
	Images   []OrderImage `gorm:"foreignKey:OrderID"`
}

// EffectiveDate returns the timestamp used for date filtering: EntryDate
// when set, otherwise CreatedAt. ok is false when neither is set.
func (o WorkOrder) EffectiveDate() (t time.Time, ok bool) {
	if o.EntryDate != nil {
		return *o.EntryDate, true
	}
	if !o.CreatedAt.IsZero() {
		return o.CreatedAt, true
	}
	return time.Time{}, false
}

// OrderImage is a photo attached to a work order during intake or repair.
type OrderImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	OrderID   string `gorm:"size:32;index"`
	URL       string `gorm:"size:512"`
	Caption   string `gorm:"size:256"`
	CreatedAt time.Time
}
