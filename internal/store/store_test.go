package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkruglikov/decalc/internal/calc"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return st
}

func insert(t *testing.T, st *Store, op string, x, y, result int64, at time.Time) {
	t.Helper()
	rec := calc.Calculation{
		Operation: op,
		OperandX:  decimal.NewFromInt(x),
		OperandY:  decimal.NewFromInt(y),
		Result:    decimal.NewFromInt(result),
		Precision: 10,
		Timestamp: at,
	}
	if _, err := st.InsertCalculation(context.Background(), rec); err != nil {
		t.Fatalf("InsertCalculation(%s) error: %v", op, err)
	}
}

func TestListOperationStats(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	insert(t, st, "add", 8, 6, 14, base)
	insert(t, st, "add", 1, 1, 2, base.Add(time.Minute))
	insert(t, st, "divide", 48, 8, 6, base.Add(2*time.Minute))

	stats, err := st.ListOperationStats(context.Background())
	if err != nil {
		t.Fatalf("ListOperationStats() error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(stats))
	}
	if stats[0].Operation != "add" || stats[0].Count != 2 {
		t.Errorf("stats[0] = %+v, want add with count 2 first", stats[0])
	}
	if !stats[0].LastUsed.Equal(base.Add(time.Minute)) {
		t.Errorf("add last used = %v, want %v", stats[0].LastUsed, base.Add(time.Minute))
	}
	if stats[1].Operation != "divide" || stats[1].Count != 1 {
		t.Errorf("stats[1] = %+v, want divide with count 1", stats[1])
	}
}

func TestListOperationStatsEmpty(t *testing.T) {
	st := openTestStore(t)
	stats, err := st.ListOperationStats(context.Background())
	if err != nil {
		t.Fatalf("ListOperationStats() error: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("got %d stats, want 0", len(stats))
	}
}

func TestListRecent(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	insert(t, st, "add", 1, 1, 2, base)
	insert(t, st, "subtract", 5, 2, 3, base.Add(time.Minute))
	insert(t, st, "multiply", 3, 3, 9, base.Add(2*time.Minute))

	recent, err := st.ListRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d records, want 2", len(recent))
	}
	if recent[0].Operation != "multiply" || recent[1].Operation != "subtract" {
		t.Errorf("ListRecent order = %s, %s; want newest first", recent[0].Operation, recent[1].Operation)
	}
	if recent[0].Result.String() != "9" {
		t.Errorf("recent[0].Result = %s, want 9", recent[0].Result)
	}
}

func TestListRecentZeroLimit(t *testing.T) {
	st := openTestStore(t)
	recent, err := st.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if recent != nil {
		t.Errorf("ListRecent(0) = %v, want nil", recent)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() error: %v", err)
	}
	insert(t, st, "add", 1, 1, 2, time.Now().UTC())
	if err := st.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	}()
	stats, err := st.ListOperationStats(context.Background())
	if err != nil {
		t.Fatalf("ListOperationStats() error: %v", err)
	}
	if len(stats) != 1 {
		t.Errorf("data lost across reopen: got %d stats, want 1", len(stats))
	}
}

func TestRecorderUpdate(t *testing.T) {
	st := openTestStore(t)
	rec := NewRecorder(st, nil)

	if err := rec.Update(nil); err == nil {
		t.Error("Update(nil) did not fail")
	}

	record := calc.NewCalculation("add",
		decimal.NewFromInt(8), decimal.NewFromInt(6), decimal.NewFromInt(14), 10)
	if err := rec.Update(&record); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	stats, err := st.ListOperationStats(context.Background())
	if err != nil {
		t.Fatalf("ListOperationStats() error: %v", err)
	}
	if len(stats) != 1 || stats[0].Operation != "add" {
		t.Errorf("stats = %+v, want one add entry", stats)
	}
}
