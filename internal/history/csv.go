// Package history persists the calculation ledger as a CSV file.
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mkruglikov/decalc/internal/calc"
	"github.com/mkruglikov/decalc/internal/operation"
)

// File reads and writes the history CSV at a fixed path. It implements
// calc.HistoryStore.
type File struct {
	path     string
	registry *operation.Registry
	logger   *zap.Logger
}

// NewFile builds a history file store. Loaded records are validated against
// the given registry.
func NewFile(path string, registry *operation.Registry, logger *zap.Logger) *File {
	if registry == nil {
		registry = operation.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{path: path, registry: registry, logger: logger}
}

// Path returns the history file location.
func (f *File) Path() string { return f.path }

// Save writes the ledger atomically via a temp file and rename. An empty
// ledger produces a header-only file.
func (f *File) Save(records []calc.Calculation) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "history-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := csv.NewWriter(tmpFile)
	if err := writer.Write(calc.RecordColumns()); err != nil {
		return fmt.Errorf("failed to write history header: %w", err)
	}
	for _, rec := range records {
		r := rec.ToRecord()
		row := []string{r.Operation, r.OperandX, r.OperandY, r.Result, r.Precision, r.Timestamp}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write history row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush history file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Load reads the persisted ledger. A missing file is an empty history; a
// malformed header or any bad row aborts the whole load.
func (f *File) Load() ([]calc.Calculation, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close after read.
			_ = cerr
		}
	}()

	columns := calc.RecordColumns()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(columns)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history header: %w", err)
	}
	if err := checkHeader(header, columns); err != nil {
		return nil, err
	}

	var records []calc.Calculation
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		rec := calc.Record{
			Operation: row[0],
			OperandX:  row[1],
			OperandY:  row[2],
			Result:    row[3],
			Precision: row[4],
			Timestamp: row[5],
		}
		loaded, err := calc.FromRecord(rec, f.registry, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to decode history row %d: %w", len(records)+2, err)
		}
		records = append(records, loaded)
	}
	return records, nil
}

func checkHeader(header, columns []string) error {
	if len(header) != len(columns) {
		return fmt.Errorf("unexpected history header: %v", header)
	}
	for i, col := range columns {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("unexpected history header: %v", header)
		}
	}
	return nil
}
