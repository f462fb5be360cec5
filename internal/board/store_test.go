package board

import (
	"errors"
	"fmt"
	"testing"

	"github.com/avelar/pitlane/internal/models"
	"github.com/avelar/pitlane/internal/pipeline"
)

// seedOrders builds n orders spread across the given stages, round-robin.
func seedOrders(n int, stages ...pipeline.Stage) []models.WorkOrder {
	orders := make([]models.WorkOrder, n)
	for i := range orders {
		orders[i] = models.WorkOrder{
			ID:     fmt.Sprintf("wo-%03d", i+1),
			Status: stages[i%len(stages)],
		}
	}
	return orders
}

// columnFor returns the column with the given stage.
func columnFor(t *testing.T, cols []Column, stage pipeline.Stage) Column {
	t.Helper()
	for _, c := range cols {
		if c.Stage == stage {
			return c
		}
	}
	t.Fatalf("no column for stage %s", stage)
	return Column{}
}

func contains(c Column, orderID string) bool {
	for _, o := range c.Orders {
		if o.ID == orderID {
			return true
		}
	}
	return false
}

func TestGroup_PartitionInvariant(t *testing.T) {
	orders := seedOrders(10,
		pipeline.StageReception, pipeline.StageDiagnosis, pipeline.StageWaitingParts,
		pipeline.StageTesting, pipeline.StageCompleted)

	cols := Group(orders)
	if len(cols) != 10 {
		t.Fatalf("Group() produced %d columns, want 10", len(cols))
	}

	seen := make(map[string]int)
	for _, c := range cols {
		for _, o := range c.Orders {
			seen[o.ID]++
			if o.Status != c.Stage {
				t.Errorf("order %s has status %s but sits in column %s", o.ID, o.Status, c.Stage)
			}
		}
	}
	for _, o := range orders {
		if seen[o.ID] != 1 {
			t.Errorf("order %s appears in %d columns, want exactly 1", o.ID, seen[o.ID])
		}
	}
	if len(seen) != len(orders) {
		t.Errorf("union of columns holds %d orders, want %d", len(seen), len(orders))
	}
}

func TestGroup_StablePartition(t *testing.T) {
	orders := []models.WorkOrder{
		{ID: "wo-c", Status: pipeline.StageDiagnosis},
		{ID: "wo-a", Status: pipeline.StageReception},
		{ID: "wo-b", Status: pipeline.StageDiagnosis},
	}

	cols := Group(orders)
	diag := columnFor(t, cols, pipeline.StageDiagnosis)
	if len(diag.Orders) != 2 || diag.Orders[0].ID != "wo-c" || diag.Orders[1].ID != "wo-b" {
		t.Errorf("diagnosis column = %v, want [wo-c wo-b] in input order", diag.Orders)
	}
}

func TestGroup_EmptyInput(t *testing.T) {
	cols := Group(nil)
	if len(cols) != 10 {
		t.Fatalf("Group(nil) produced %d columns, want 10", len(cols))
	}
	for _, c := range cols {
		if len(c.Orders) != 0 {
			t.Errorf("column %s not empty", c.Stage)
		}
		if c.Label == "" {
			t.Errorf("column %s missing label", c.Stage)
		}
	}
}

func TestStore_Move(t *testing.T) {
	store := NewStore()
	store.Load(seedOrders(3, pipeline.StageReception))

	if err := store.Move("wo-002", pipeline.StageReception, pipeline.StageDiagnosis); err != nil {
		t.Fatalf("Move() error: %v", err)
	}

	cols := store.Columns()
	rec := columnFor(t, cols, pipeline.StageReception)
	diag := columnFor(t, cols, pipeline.StageDiagnosis)

	if contains(rec, "wo-002") {
		t.Error("wo-002 still in reception after move")
	}
	if !contains(diag, "wo-002") {
		t.Fatal("wo-002 missing from diagnosis after move")
	}
	moved, _ := store.Find("wo-002")
	if moved.Status != pipeline.StageDiagnosis {
		t.Errorf("moved order status = %s, want diagnosis", moved.Status)
	}
	if len(rec.Orders) != 2 {
		t.Errorf("reception has %d orders, want 2", len(rec.Orders))
	}
}

func TestStore_MoveSameStage(t *testing.T) {
	store := NewStore()
	store.Load(seedOrders(1, pipeline.StageReception))

	err := store.Move("wo-001", pipeline.StageReception, pipeline.StageReception)
	if !errors.Is(err, ErrSameStage) {
		t.Fatalf("Move(same stage) error = %v, want ErrSameStage", err)
	}
}

func TestStore_MoveNotInStage(t *testing.T) {
	store := NewStore()
	store.Load(seedOrders(1, pipeline.StageReception))

	err := store.Move("wo-001", pipeline.StageDiagnosis, pipeline.StageTesting)
	if !errors.Is(err, ErrNotInStage) {
		t.Fatalf("Move(wrong source) error = %v, want ErrNotInStage", err)
	}

	// Board untouched.
	rec := columnFor(t, store.Columns(), pipeline.StageReception)
	if !contains(rec, "wo-001") {
		t.Error("failed move mutated the board")
	}
}

func TestStore_Revert(t *testing.T) {
	store := NewStore()
	store.Load(seedOrders(2, pipeline.StageDiagnosis))

	original, _ := store.Find("wo-001")
	if err := store.Move("wo-001", pipeline.StageDiagnosis, pipeline.StageAssembly); err != nil {
		t.Fatalf("Move(): %v", err)
	}
	if err := store.Revert("wo-001", pipeline.StageAssembly, pipeline.StageDiagnosis, original); err != nil {
		t.Fatalf("Revert(): %v", err)
	}

	cols := store.Columns()
	diag := columnFor(t, cols, pipeline.StageDiagnosis)
	asm := columnFor(t, cols, pipeline.StageAssembly)
	if !contains(diag, "wo-001") {
		t.Error("wo-001 not restored to diagnosis")
	}
	if contains(asm, "wo-001") {
		t.Error("wo-001 still in assembly after revert")
	}
	restored, _ := store.Find("wo-001")
	if restored.Status != pipeline.StageDiagnosis {
		t.Errorf("restored status = %s, want diagnosis", restored.Status)
	}
}

func TestStore_Find(t *testing.T) {
	store := NewStore()
	store.Load(seedOrders(4, pipeline.StageReception, pipeline.StageReady))

	if _, ok := store.Find("wo-003"); !ok {
		t.Error("Find(wo-003) not found")
	}
	if _, ok := store.Find("wo-999"); ok {
		t.Error("Find(wo-999) found a ghost order")
	}
}

func TestStore_LoadNotifiesSubscribers(t *testing.T) {
	store := NewStore()
	calls := 0
	store.Subscribe(func() { calls++ })

	store.Load(nil)
	store.Load(seedOrders(1, pipeline.StageReception))
	if calls != 2 {
		t.Errorf("subscriber ran %d times, want 2", calls)
	}
}

func TestStore_ColumnsSnapshotIsolated(t *testing.T) {
	store := NewStore()
	store.Load(seedOrders(1, pipeline.StageReception))

	cols := store.Columns()
	rec := columnFor(t, cols, pipeline.StageReception)
	rec.Orders[0].ID = "tampered"

	if _, ok := store.Find("wo-001"); !ok {
		t.Error("mutating a Columns() snapshot leaked into the store")
	}
}
