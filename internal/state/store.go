package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/five82/librarian/internal/library"
)

// ErrStale is returned by Commit and Fail when a newer refresh has been begun
// since seq was issued. The caller's result must be dropped.
var ErrStale = errors.New("stale refresh discarded")

// Result is the outcome of one successful borrowing refresh.
type Result struct {
	Records []library.BorrowRecord
	Query   string // human-readable description of the data source

	// TotalFine is applied only when HasFine is set; otherwise the previous
	// total is kept.
	TotalFine decimal.Decimal
	HasFine   bool
}

// Snapshot represents the latest borrowing data available to the UI.
type Snapshot struct {
	Records             []library.BorrowRecord
	Query               string
	TotalFine           decimal.Decimal
	HasFine             bool
	HasData             bool
	Seq                 uint64 // sequence of the refresh that produced the data
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the backend has failed several refreshes in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent refreshes of the snapshot.
type Store struct {
	mu       sync.RWMutex
	latest   uint64
	snapshot Snapshot
}

// Begin reserves the next refresh sequence number. Any refresh begun earlier
// becomes stale.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Latest returns the most recently issued sequence number.
func (s *Store) Latest() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Commit replaces the stored records wholesale with r.
func (s *Store) Commit(seq uint64, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.latest {
		return ErrStale
	}
	s.snapshot.Records = cloneRecords(r.Records)
	s.snapshot.Query = r.Query
	if r.HasFine {
		s.snapshot.TotalFine = r.TotalFine
		s.snapshot.HasFine = true
	}
	s.snapshot.HasData = true
	s.snapshot.Seq = seq
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return nil
}

// Fail records err for the refresh seq. The previous data is kept.
func (s *Store) Fail(seq uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.latest {
		return ErrStale
	}
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
	return nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Records = cloneRecords(s.snapshot.Records)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneRecords(records []library.BorrowRecord) []library.BorrowRecord {
	if len(records) == 0 {
		return nil
	}
	dup := make([]library.BorrowRecord, len(records))
	copy(dup, records)
	for i := range dup {
		if dup[i].ReturnDate != nil {
			v := *dup[i].ReturnDate
			dup[i].ReturnDate = &v
		}
	}
	return dup
}
