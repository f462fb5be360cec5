package board

import (
	"context"
	"sync"

	"github.com/avelar/pitlane/internal/models"
	"github.com/avelar/pitlane/internal/pipeline"
)

// Writer persists a stage change to the remote store. A nil error means
// the remote accepted the new stage.
type Writer interface {
	UpdateOrderStatus(ctx context.Context, orderID string, stage pipeline.Stage) (*models.WorkOrder, error)
}

// Reporter receives the user-visible error signal when a transition's
// remote write fails and the board has been rolled back.
type Reporter interface {
	TransitionFailed(orderID string, from, to pipeline.Stage, err error)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(orderID string, from, to pipeline.Stage, err error)

func (f ReporterFunc) TransitionFailed(orderID string, from, to pipeline.Stage, err error) {
	f(orderID, from, to, err)
}

// Mutator applies stage transitions optimistically: the board moves the
// order synchronously, the remote write confirms in the background, and a
// failed write rolls the board back to its pre-drag shape. There is no
// automatic retry; a failed transition needs a fresh drag.
type Mutator struct {
	store    *Store
	writer   Writer
	reporter Reporter
	inflight sync.WaitGroup
}

// NewMutator wires a mutator to the store, the remote writer, and an
// optional failure reporter.
func NewMutator(store *Store, writer Writer, reporter Reporter) *Mutator {
	return &Mutator{store: store, writer: writer, reporter: reporter}
}

// CommitTransition moves the order locally and issues the remote write in
// the background. The returned error covers only the local phase: the
// order missing from the source column or a same-stage move. Remote
// failures never propagate; they roll the board back and go to the
// reporter. The rollback payload is the order snapshot captured before
// the local move, not recomputed afterwards.
func (m *Mutator) CommitTransition(ctx context.Context, orderID string, from, to pipeline.Stage) error {
	snapshot, ok := m.store.Find(orderID)
	if !ok {
		return ErrNotInStage
	}

	if err := m.store.Move(orderID, from, to); err != nil {
		return err
	}

	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		if _, err := m.writer.UpdateOrderStatus(ctx, orderID, to); err != nil {
			m.store.Revert(orderID, to, from, snapshot)
			if m.reporter != nil {
				m.reporter.TransitionFailed(orderID, from, to, err)
			}
		}
	}()
	return nil
}

// Wait blocks until all in-flight remote writes have resolved. Used by
// tests and by graceful shutdown; the UI never waits on it.
func (m *Mutator) Wait() {
	m.inflight.Wait()
}
