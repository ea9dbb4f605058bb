package ledger

import (
	"context"

	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/store"
)

// UpsertAttendee registers an attendee badge or renames an existing
// one.
func (s *Service) UpsertAttendee(ctx context.Context, a model.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.UpsertAttendee(ctx, s.db, a.RegID, a.Name)
}

// Attendee returns one attendee by badge number, or nil if unknown.
func (s *Service) Attendee(ctx context.Context, regID int) (*model.Attendee, error) {
	return store.GetAttendee(ctx, s.db, regID)
}

// Attendees returns the whole registration list ordered by badge.
func (s *Service) Attendees(ctx context.Context) ([]model.Attendee, error) {
	return store.ListAttendees(ctx, s.db)
}
