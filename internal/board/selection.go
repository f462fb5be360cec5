package board

import (
	"sync"

	"github.com/avelar/pitlane/internal/models"
)

// Selection keeps a "currently inspected order" reference valid across
// store reloads: a reload re-resolves the reference by id so server-side
// edits show up, and clears it when the order is gone.
type Selection struct {
	mu      sync.Mutex
	current *models.WorkOrder
}

// NewSelection returns a selection subscribed to the store's reloads.
func NewSelection(store *Store) *Selection {
	s := &Selection{}
	store.Subscribe(func() { s.reconcile(store) })
	return s
}

// Select sets the inspected order.
func (s *Selection) Select(order models.WorkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := order
	s.current = &o
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns the inspected order, if any.
func (s *Selection) Current() (models.WorkOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.WorkOrder{}, false
	}
	return *s.current, true
}

// reconcile swaps the held reference for the fresh object after a reload,
// or clears it when the order no longer exists.
func (s *Selection) reconcile(store *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	fresh, ok := store.Find(s.current.ID)
	if !ok {
		s.current = nil
		return
	}
	s.current = &fresh
}
