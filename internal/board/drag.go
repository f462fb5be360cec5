package board

import (
	"context"
	"sync"

	"github.com/avelar/pitlane/internal/models"
	"github.com/avelar/pitlane/internal/pipeline"
)

// DragState is the coordinator's position in the gesture lifecycle.
type DragState int

const (
	// StateIdle means no drag is in progress.
	StateIdle DragState = iota
	// StateDragging means a card is held; the captured order backs the
	// drag overlay.
	StateDragging
)

// Coordinator interprets drag gestures into stage transitions. Draggable
// cards and droppable columns share one identifier space in the rendering
// layer, so a drop target can be another order's id; the coordinator
// validates every target against the pipeline before treating it as a
// stage.
type Coordinator struct {
	store   *Store
	mutator *Mutator

	mu     sync.Mutex
	state  DragState
	active models.WorkOrder
}

// NewCoordinator wires a coordinator to the store and mutator.
func NewCoordinator(store *Store, mutator *Mutator) *Coordinator {
	return &Coordinator{store: store, mutator: mutator}
}

// State returns the current drag state.
func (c *Coordinator) State() DragState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active returns the order being dragged, valid only in StateDragging.
func (c *Coordinator) Active() (models.WorkOrder, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.state == StateDragging
}

// DragStart begins a drag for the candidate order. A stale id (order no
// longer on the board) is a benign race: the drag does not start and no
// error is surfaced.
func (c *Coordinator) DragStart(candidateID string) bool {
	order, ok := c.store.Find(candidateID)
	if !ok {
		return false
	}

	c.mu.Lock()
	c.state = StateDragging
	c.active = order
	c.mu.Unlock()
	return true
}

// DragEnd completes the gesture. An empty drop target (released outside
// any zone) cancels cleanly. A target that is not a pipeline stage, such
// as another card's id, is silently ignored. A drop on the order's
// current column is a no-op. Only a valid, different stage commits a
// transition. The coordinator always ends Idle.
func (c *Coordinator) DragEnd(ctx context.Context, candidateID, dropTargetID string) error {
	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.active = models.WorkOrder{}
		c.mu.Unlock()
	}()

	if dropTargetID == "" {
		return nil
	}

	target := pipeline.Stage(dropTargetID)
	if !pipeline.IsValid(target) {
		return nil
	}

	order, ok := c.store.Find(candidateID)
	if !ok {
		return nil
	}
	if order.Status == target {
		return nil
	}

	return c.mutator.CommitTransition(ctx, candidateID, order.Status, target)
}
