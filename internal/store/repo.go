// Package store is the board's persistence collaborator: it reads the
// organization's work orders and persists field changes back.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/avelar/pitlane/internal/models"
	"github.com/avelar/pitlane/internal/pipeline"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when an update names a missing order.
var ErrOrderNotFound = errors.New("store: order not found")

// Repo wraps the workshop database.
type Repo struct {
	db *gorm.DB
}

// NewRepo returns a Repo over the given connection.
func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// GenerateID creates a unique work-order ID in wo-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("store: generate ID: %w", err)
	}
	return "wo-" + hex.EncodeToString(b)[:5], nil
}

// FetchOrders returns all work orders for the organization with their
// customer, vehicle and image sub-objects, oldest entry first.
func (r *Repo) FetchOrders(ctx context.Context, orgID string) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Images").
		Where("org_id = ?", orgID).
		Order("entry_date ASC, created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("store: fetch orders for %s: %w", orgID, err)
	}
	return orders, nil
}

// UpdateOrderStatus persists a new stage for one order and returns the
// fresh row. The stage must be a pipeline stage; the order must exist.
func (r *Repo) UpdateOrderStatus(ctx context.Context, orderID string, stage pipeline.Stage) (*models.WorkOrder, error) {
	if !pipeline.IsValid(stage) {
		return nil, fmt.Errorf("store: %q is not a pipeline stage", stage)
	}

	result := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Where("id = ?", orderID).
		Update("status", stage)
	if result.Error != nil {
		return nil, fmt.Errorf("store: update status of %s: %w", orderID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	return r.getOrder(ctx, orderID)
}

// Fields holds the scalar work-order fields the rest of the system edits.
// Nil pointers leave the column untouched.
type Fields struct {
	Description   *string
	EstimatedCost *float64
	TotalAmount   *float64
	AssignedTo    *string
}

// UpdateOrder persists scalar field changes for one order and returns the
// fresh row. Stage changes go through UpdateOrderStatus.
func (r *Repo) UpdateOrder(ctx context.Context, orderID string, fields Fields) (*models.WorkOrder, error) {
	updates := map[string]interface{}{}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.EstimatedCost != nil {
		updates["estimated_cost"] = *fields.EstimatedCost
	}
	if fields.TotalAmount != nil {
		updates["total_amount"] = *fields.TotalAmount
	}
	if fields.AssignedTo != nil {
		updates["assigned_to"] = *fields.AssignedTo
	}
	if len(updates) == 0 {
		return r.getOrder(ctx, orderID)
	}

	result := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Where("id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("store: update order %s: %w", orderID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	return r.getOrder(ctx, orderID)
}

// CreateOrder inserts a new work order with a generated ID, starting in
// reception unless a stage is already set.
func (r *Repo) CreateOrder(ctx context.Context, order models.WorkOrder) (*models.WorkOrder, error) {
	if order.ID == "" {
		id, err := GenerateID()
		if err != nil {
			return nil, err
		}
		order.ID = id
	}
	if order.Status == "" {
		order.Status = pipeline.StageReception
	}
	if !pipeline.IsValid(order.Status) {
		return nil, fmt.Errorf("store: %q is not a pipeline stage", order.Status)
	}

	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, fmt.Errorf("store: create order %s: %w", order.ID, err)
	}
	return r.getOrder(ctx, order.ID)
}

// DeleteOrder removes a work order and its images.
func (r *Repo) DeleteOrder(ctx context.Context, orderID string) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderImage{}).Error; err != nil {
		return fmt.Errorf("store: delete images of %s: %w", orderID, err)
	}
	result := r.db.WithContext(ctx).Where("id = ?", orderID).Delete(&models.WorkOrder{})
	if result.Error != nil {
		return fmt.Errorf("store: delete order %s: %w", orderID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return nil
}

// getOrder fetches one order with its sub-objects.
func (r *Repo) getOrder(ctx context.Context, orderID string) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Images").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("store: get order %s: %w", orderID, err)
	}
	return &order, nil
}
