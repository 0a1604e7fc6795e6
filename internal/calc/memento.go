package calc

import "time"

// Memento is an immutable copy of the history ledger taken before a mutating
// action, used only for undo/redo.
type Memento struct {
	history []Calculation
	takenAt time.Time
}

// NewMemento snapshots the given ledger.
func NewMemento(history []Calculation) Memento {
	return Memento{history: cloneHistory(history), takenAt: time.Now()}
}

// History returns a copy of the captured ledger, so the live ledger can
// never retroactively change a stored snapshot.
func (m Memento) History() []Calculation {
	return cloneHistory(m.history)
}

// Len returns the number of records in the snapshot.
func (m Memento) Len() int { return len(m.history) }

// TakenAt returns the snapshot creation time.
func (m Memento) TakenAt() time.Time { return m.takenAt }

func cloneHistory(history []Calculation) []Calculation {
	if len(history) == 0 {
		return nil
	}
	out := make([]Calculation, len(history))
	copy(out, history)
	return out
}
