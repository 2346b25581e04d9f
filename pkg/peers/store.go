package peers

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("peer not found")

var empty = &Snapshot{Table: Table{}}

func NewStore() *Store {
	return &Store{}
}

// Publish installs t as the current table. The store keeps its own copy,
// so later changes to t by the caller are not visible to readers.
func (s *Store) Publish(t Table) *Snapshot {
	own := make(Table, len(t))
	for k, v := range t {
		own[k] = v
	}
	snap := &Snapshot{
		Table:     own,
		Version:   s.version.Add(1),
		UpdatedAt: time.Now(),
	}
	s.cur.Store(snap)
	return snap
}

// Snapshot returns the current snapshot. Callers must treat it as read-only.
func (s *Store) Snapshot() *Snapshot {
	if snap := s.cur.Load(); snap != nil {
		return snap
	}
	return empty
}

func (s *Store) Table() Table {
	return s.Snapshot().Table
}

func (s *Store) Get(name string) (Peer, error) {
	p, ok := s.Snapshot().Table[name]
	if !ok {
		return Peer{}, ErrNotFound
	}
	return p, nil
}

// Published reports whether at least one table has been published.
func (s *Store) Published() bool {
	return s.cur.Load() != nil
}
