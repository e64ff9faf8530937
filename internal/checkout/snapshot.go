package checkout

import (
	"time"

	"storefront/internal/domain"
)

// Snapshot is a frozen copy of the cart taken when checkout is entered.
// Later cart edits never show up in it.
type Snapshot struct {
	Lines      []domain.CartLine `json:"lines"`
	Totals     Totals            `json:"totals"`
	CapturedAt time.Time         `json:"captured_at"`
}

func newSnapshot(lines []domain.CartLine, at time.Time) Snapshot {
	frozen := make([]domain.CartLine, len(lines))
	for i, line := range lines {
		frozen[i] = line.Clone()
	}
	return Snapshot{
		Lines:      frozen,
		Totals:     Quote(frozen),
		CapturedAt: at,
	}
}

// Copy returns a deep copy so callers cannot reach the flow's own snapshot
func (s Snapshot) Copy() Snapshot {
	c := s
	c.Lines = make([]domain.CartLine, len(s.Lines))
	for i, line := range s.Lines {
		c.Lines[i] = line.Clone()
	}
	return c
}

// Empty reports whether the snapshot holds no lines
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}
