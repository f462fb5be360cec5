// Package board implements the work-order kanban board: the in-memory
// column store, the drag state machine, and the optimistic stage mutator.
package board

import (
	"errors"
	"fmt"
	"sync"

	"github.com/avelar/pitlane/internal/models"
	"github.com/avelar/pitlane/internal/pipeline"
)

var (
	// ErrNotInStage is returned when a move names a source column that
	// does not currently hold the order.
	ErrNotInStage = errors.New("board: order not in source stage")
	// ErrSameStage is returned when a move targets the order's current column.
	ErrSameStage = errors.New("board: source and target stage are equal")
)

// Column is one pipeline stage and the orders currently assigned to it.
type Column struct {
	Stage  pipeline.Stage
	Label  string
	Orders []models.WorkOrder
}

// Group partitions orders into one column per pipeline stage, preserving
// the orders' relative order. Every input order whose status is a valid
// stage lands in exactly one column; the result always has all ten columns.
func Group(orders []models.WorkOrder) []Column {
	stages := pipeline.Stages()
	byStage := make(map[pipeline.Stage][]models.WorkOrder, len(stages))
	for _, o := range orders {
		byStage[o.Status] = append(byStage[o.Status], o)
	}

	cols := make([]Column, len(stages))
	for i, s := range stages {
		cols[i] = Column{Stage: s, Label: pipeline.Label(s), Orders: byStage[s]}
	}
	return cols
}

// Store holds the board's current columns. It is the single mutable
// resource of the board: only Load and the mutator write to it, and a
// mutex serializes those writes so concurrent HTTP handlers behave like
// the single event loop the board models.
type Store struct {
	mu          sync.RWMutex
	columns     []Column
	subscribers []func()
}

// NewStore returns an empty store with all ten columns.
func NewStore() *Store {
	return &Store{columns: Group(nil)}
}

// Subscribe registers fn to run after every Load. Used by the selection
// reconciler and the event hub. Not safe to call after the store is shared.
func (s *Store) Subscribe(fn func()) {
	s.subscribers = append(s.subscribers, fn)
}

// Load replaces all columns with a fresh grouping of orders, then notifies
// subscribers. Called after every successful fetch.
func (s *Store) Load(orders []models.WorkOrder) {
	s.mu.Lock()
	s.columns = Group(orders)
	s.mu.Unlock()

	for _, fn := range s.subscribers {
		fn()
	}
}

// Columns returns a snapshot copy of the board for rendering. Mutating the
// result does not affect the store.
func (s *Store) Columns() []Column {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cols := make([]Column, len(s.columns))
	for i, c := range s.columns {
		cols[i] = Column{Stage: c.Stage, Label: c.Label}
		cols[i].Orders = append([]models.WorkOrder(nil), c.Orders...)
	}
	return cols
}

// Orders returns all orders on the board in column order.
func (s *Store) Orders() []models.WorkOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.WorkOrder
	for _, c := range s.columns {
		out = append(out, c.Orders...)
	}
	return out
}

// Find looks an order up by id across all columns.
func (s *Store) Find(orderID string) (models.WorkOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(orderID)
}

func (s *Store) findLocked(orderID string) (models.WorkOrder, bool) {
	for _, c := range s.columns {
		for _, o := range c.Orders {
			if o.ID == orderID {
				return o, true
			}
		}
	}
	return models.WorkOrder{}, false
}

// Move removes the order from the from column and appends it to the to
// column with its status rewritten. The board is left untouched when the
// order is not in from or when from equals to.
func (s *Store) Move(orderID string, from, to pipeline.Stage) error {
	if from == to {
		return ErrSameStage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.takeLocked(orderID, from)
	if !ok {
		return fmt.Errorf("%w: %s not in %s", ErrNotInStage, orderID, from)
	}
	order.Status = to
	s.appendLocked(order, to)
	return nil
}

// Revert is the inverse of Move, used when the remote write fails: it
// removes the order from the to column and reinserts the pre-move snapshot
// into from, restoring both columns' membership.
func (s *Store) Revert(orderID string, to, from pipeline.Stage, original models.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.takeLocked(orderID, to); !ok {
		return fmt.Errorf("%w: %s not in %s", ErrNotInStage, orderID, to)
	}
	s.appendLocked(original, from)
	return nil
}

// takeLocked removes and returns the order from the stage's column.
func (s *Store) takeLocked(orderID string, stage pipeline.Stage) (models.WorkOrder, bool) {
	for i := range s.columns {
		if s.columns[i].Stage != stage {
			continue
		}
		for j, o := range s.columns[i].Orders {
			if o.ID == orderID {
				s.columns[i].Orders = append(s.columns[i].Orders[:j:j], s.columns[i].Orders[j+1:]...)
				return o, true
			}
		}
		return models.WorkOrder{}, false
	}
	return models.WorkOrder{}, false
}

func (s *Store) appendLocked(order models.WorkOrder, stage pipeline.Stage) {
	for i := range s.columns {
		if s.columns[i].Stage == stage {
			s.columns[i].Orders = append(s.columns[i].Orders, order)
			return
		}
	}
}
