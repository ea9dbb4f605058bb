package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jkovac/artshow/internal/model"
)

// UpsertAttendee adds an attendee or updates their name if the badge is
// already registered.
func UpsertAttendee(ctx context.Context, db *sql.DB, regID int, name string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO attendees (reg_id, name) VALUES (?, ?)
		 ON CONFLICT (reg_id) DO UPDATE SET name = excluded.name`,
		regID, name,
	)
	if err != nil {
		return fmt.Errorf("upserting attendee %d: %w", regID, err)
	}
	return nil
}

// GetAttendee returns an attendee by badge number, or nil if unknown.
func GetAttendee(ctx context.Context, db *sql.DB, regID int) (*model.Attendee, error) {
	a := &model.Attendee{}
	err := db.QueryRowContext(ctx,
		`SELECT reg_id, name FROM attendees WHERE reg_id = ?`, regID,
	).Scan(&a.RegID, &a.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting attendee %d: %w", regID, err)
	}
	return a, nil
}

// ListAttendees returns all attendees ordered by badge number.
func ListAttendees(ctx context.Context, db *sql.DB) ([]model.Attendee, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT reg_id, name FROM attendees ORDER BY reg_id`)
	if err != nil {
		return nil, fmt.Errorf("listing attendees: %w", err)
	}
	defer rows.Close()

	var attendees []model.Attendee
	for rows.Next() {
		var a model.Attendee
		if err := rows.Scan(&a.RegID, &a.Name); err != nil {
			return nil, fmt.Errorf("scanning attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}
