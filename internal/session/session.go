// Package session holds per-session state: the list of item codes added
// during the session and at most one staged import batch awaiting a
// checksum-gated commit. Sessions live in memory; the ledger itself is
// the only durable state.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jkovac/artshow/internal/model"
)

// Timeout is the sliding session lifetime. Renewed on every
// authenticated action.
const Timeout = 2 * time.Hour

// StagedImport is one pending import batch. A new batch always replaces
// the previous one whole; batches are never merged.
type StagedImport struct {
	Records  []model.ImportedItemRecord
	Checksum uint32
}

type record struct {
	created    time.Time
	validUntil time.Time
	userGroup  string
	userIP     string
	added      []string
	staged     *StagedImport
}

// Store is an in-memory session store safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*record

	// now is swappable in tests.
	now func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*record),
		now:      time.Now,
	}
}

// Start creates a new session and returns its ID.
func (s *Store) Start(userGroup, userIP string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := s.now()
	s.sessions[id] = &record{
		created:    now,
		validUntil: now.Add(Timeout),
		userGroup:  userGroup,
		userIP:     userIP,
	}
	return id
}

// Find reports whether the session exists and has not expired.
func (s *Store) Find(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id) != nil
}

// get returns a live session record or nil. Caller must hold mu.
func (s *Store) get(id string) *record {
	r, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if !s.now().Before(r.validUntil) {
		return nil
	}
	return r
}

// Renew pushes the session expiry forward by the full timeout.
func (s *Store) Renew(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.get(id); r != nil {
		r.validUntil = s.now().Add(Timeout)
	}
}

// Drop removes a session.
func (s *Store) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep removes all expired sessions. Safe to run at any time; it only
// drops sessions, never touches items.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, r := range s.sessions {
		if !now.Before(r.validUntil) {
			delete(s.sessions, id)
		}
	}
}

// UserInfo returns the group and IP recorded at session start.
func (s *Store) UserInfo(id string) (group, ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.get(id); r != nil {
		return r.userGroup, r.userIP
	}
	return "", ""
}

// AppendAdded records an item code added during this session. Duplicate
// codes are kept once, in first-added order.
func (s *Store) AppendAdded(id, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.get(id)
	if r == nil {
		return
	}
	for _, c := range r.added {
		if c == code {
			return
		}
	}
	r.added = append(r.added, code)
}

// Added returns the item codes added during this session.
func (s *Store) Added(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.get(id)
	if r == nil {
		return nil
	}
	out := make([]string, len(r.added))
	copy(out, r.added)
	return out
}

// ClearAdded empties the added-codes list.
func (s *Store) ClearAdded(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.get(id); r != nil {
		r.added = nil
	}
}

// StageImport replaces the session's pending import batch. Concurrent
// imports within one session race; last writer wins, and the checksum
// check at apply time is the safety net against a stale commit.
func (s *Store) StageImport(id string, records []model.ImportedItemRecord, checksum uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.get(id)
	if r == nil {
		return
	}
	recs := make([]model.ImportedItemRecord, len(records))
	copy(recs, records)
	r.staged = &StagedImport{Records: recs, Checksum: checksum}
}

// Staged returns a copy of the pending import batch, or nil if none.
func (s *Store) Staged(id string) *StagedImport {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.get(id)
	if r == nil || r.staged == nil {
		return nil
	}
	recs := make([]model.ImportedItemRecord, len(r.staged.Records))
	copy(recs, r.staged.Records)
	return &StagedImport{Records: recs, Checksum: r.staged.Checksum}
}

// DropImport discards the pending import batch, if any.
func (s *Store) DropImport(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.get(id); r != nil {
		r.staged = nil
	}
}
