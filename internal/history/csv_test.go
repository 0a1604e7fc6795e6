package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mkruglikov/decalc/internal/calc"
)

func record(t *testing.T, op, x, y, result string) calc.Calculation {
	t.Helper()
	parse := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return d
	}
	return calc.NewCalculation(op, parse(x), parse(y), parse(result), 10)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	f := NewFile(path, nil, nil)

	records := []calc.Calculation{
		record(t, "add", "8", "6", "14"),
		record(t, "divide", "48", "8", "6"),
		record(t, "multiply", "0.1", "0.2", "0.02"),
	}
	if err := f.Save(records); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("Load() returned %d records, want %d", len(loaded), len(records))
	}
	for i := range records {
		if !records[i].Equal(loaded[i]) {
			t.Errorf("record %d = %s, want %s", i, loaded[i], records[i])
		}
	}
}

func TestSaveEmptyWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	f := NewFile(path, nil, nil)

	if err := f.Save(nil); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read history file: %v", err)
	}
	want := strings.Join(calc.RecordColumns(), ",") + "\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}

	loaded, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load() returned %d records, want 0", len(loaded))
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.csv")
	f := NewFile(path, nil, nil)

	if err := f.Save([]calc.Calculation{record(t, "add", "1", "1", "2")}); err != nil {
		t.Fatalf("first Save() error: %v", err)
	}
	if err := f.Save([]calc.Calculation{record(t, "add", "2", "2", "4")}); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	loaded, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Result.String() != "4" {
		t.Errorf("Load() = %v, want the second ledger only", loaded)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries in %s", len(entries), dir)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "history.csv")
	f := NewFile(path, nil, nil)
	if err := f.Save(nil); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("history file missing: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing.csv"), nil, nil)
	loaded, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded != nil {
		t.Errorf("Load() = %v, want nil for a missing file", loaded)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := NewFile(path, nil, nil).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load() returned %d records, want 0", len(loaded))
	}
}

func TestLoadRejectsBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	content := "op,x,y,res,prec,ts\nadd,1,1,2,10,2024-01-01T00:00:00Z\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path, nil, nil).Load(); err == nil {
		t.Fatal("Load() accepted a bad header")
	}
}

func TestLoadAbortsOnBadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	content := strings.Join(calc.RecordColumns(), ",") + "\n" +
		"add,1,1,2,10,2024-01-01T00:00:00Z\n" +
		"cosine,1,1,2,10,2024-01-01T00:00:00Z\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFile(path, nil, nil).Load()
	if err == nil {
		t.Fatal("Load() accepted a row with an unregistered operation")
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error %q does not name the bad row", err)
	}
}
