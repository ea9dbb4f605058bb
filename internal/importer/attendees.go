package importer

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strings"

	"github.com/jkovac/artshow/internal/model"
)

// ImportAttendees loads a registration list in CSV form, one attendee
// per row as (registration id, name). Existing registrations are
// updated in place. Rows without a numeric id are skipped.
func (s *Service) ImportAttendees(ctx context.Context, r io.Reader, headerRow bool) (model.Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	total := 0
	added := 0
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.ResultInputError, err
		}
		line++
		if headerRow && line == 1 {
			continue
		}
		if len(row) < 2 {
			continue
		}
		total++

		regID, ok := model.ParseInt(strings.TrimSpace(row[0]))
		if !ok {
			slog.Error("importAttendees: invalid registration id", "line", line, "value", row[0])
			continue
		}
		if err := s.ledger.UpsertAttendee(ctx, model.Attendee{
			RegID: regID,
			Name:  strings.TrimSpace(row[1]),
		}); err != nil {
			return model.ResultError, err
		}
		added++
	}

	slog.Info("importAttendees: registration list loaded", "found", total, "applied", added)
	return model.ResultSuccess, nil
}
