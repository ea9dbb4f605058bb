package importer

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/jkovac/artshow/internal/ledger"
	"github.com/jkovac/artshow/internal/model"
)

func itoaOr(p *int, fallback string) string {
	if p == nil {
		return fallback
	}
	return strconv.Itoa(*p)
}

func recordToNewItem(rec model.ImportedItemRecord, requestNumberMatch bool) ledger.NewItem {
	n := ledger.NewItem{
		Owner:              itoaOr(rec.Owner, ""),
		Title:              rec.Title,
		Author:             rec.Author,
		Medium:             rec.Medium,
		Note:               rec.Note,
		ImportNumber:       itoaOr(rec.Number, ""),
		RequestNumberMatch: requestNumberMatch,
	}
	if rec.InitialAmount != nil {
		n.InitialAmount = rec.InitialAmount.String()
	}
	if rec.Charity != nil {
		n.Charity = strconv.Itoa(*rec.Charity)
	}
	return n
}

// Apply commits the staged import batch to the ledger. The supplied
// checksum must match the staged batch; records that failed parsing or
// consistency checks are skipped. Records without an owner get the
// default owner. Numbered records are added first with their number as
// the requested item code, so renumbering only happens when a code is
// genuinely taken. The staged batch is dropped whether or not all
// records applied.
func (s *Service) Apply(ctx context.Context, sessionID, checksumRaw, defaultOwner string) (model.Result, []model.ImportedItemRecord, []model.ImportedItemRecord, error) {
	staged := s.sessions.Staged(sessionID)
	if staged == nil {
		slog.Debug("applyImport: no import to apply")
		return model.ResultNoImport, nil, nil, nil
	}

	checksum, err := strconv.ParseUint(checksumRaw, 10, 32)
	if err != nil || uint32(checksum) != staged.Checksum {
		slog.Debug("applyImport: checksum mismatch", "supplied", checksumRaw, "staged", staged.Checksum)
		return model.ResultInvalidChecksum, nil, nil, nil
	}

	if defaultOwner != "" {
		if _, ok := model.ParseInt(defaultOwner); !ok {
			slog.Error("applyImport: default owner is not a number", "owner", defaultOwner)
			return model.ResultInputError, nil, nil, nil
		}
	}

	records := staged.Records
	var skipped, renumbered []model.ImportedItemRecord
	applied := make([]bool, len(records))

	for i := range records {
		if records[i].Result != model.ResultSuccess {
			skipped = append(skipped, records[i])
			applied[i] = true
			continue
		}
		if records[i].Owner == nil && defaultOwner != "" {
			owner, _ := model.ParseInt(defaultOwner)
			records[i].Owner = &owner
		}
	}

	// Numbered records go first, lowest number first, so sequential
	// code assignment does not claim a code a later record asked for.
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		na, nb := -1, -1
		if n := records[order[a]].Number; n != nil {
			na = *n
		}
		if n := records[order[b]].Number; n != nil {
			nb = *n
		}
		return na < nb
	})

	// Pass 1: numbered records get a chance at their exact code.
	for _, i := range order {
		rec := &records[i]
		if applied[i] || rec.Number == nil {
			continue
		}
		code, res, err := s.ledger.AddItem(ctx, recordToNewItem(*rec, true))
		if err != nil {
			return model.ResultError, nil, nil, err
		}
		if res == model.ResultSuccess {
			s.sessions.AppendAdded(sessionID, code)
			applied[i] = true
		}
	}

	// Pass 2: everything left, renumbering as needed.
	for _, i := range order {
		rec := &records[i]
		if applied[i] {
			continue
		}
		code, res, err := s.ledger.AddItem(ctx, recordToNewItem(*rec, false))
		if err != nil {
			return model.ResultError, nil, nil, err
		}

		if res == model.ResultDuplicateImportNumber {
			res, err = s.updateImportedItem(ctx, sessionID, *rec)
			if err != nil {
				return model.ResultError, nil, nil, err
			}
		} else if res == model.ResultSuccess || res == model.ResultSuccessRenumbered {
			s.sessions.AppendAdded(sessionID, code)
		}

		rec.Result = res
		switch res {
		case model.ResultSuccess, model.ResultNothingToUpdate:
		case model.ResultSuccessRenumbered:
			renumbered = append(renumbered, *rec)
		default:
			slog.Error("applyImport: record failed", "author", rec.Author, "title", rec.Title, "result", res)
			skipped = append(skipped, *rec)
		}
	}

	slog.Info("applyImport: batch applied",
		"added", len(s.sessions.Added(sessionID)), "skipped", len(skipped), "renumbered", len(renumbered))
	s.sessions.DropImport(sessionID)
	return model.ResultSuccess, skipped, renumbered, nil
}

// updateImportedItem refreshes an existing item identified by its owner
// and import number. Items that already carry sale results are left
// alone.
func (s *Service) updateImportedItem(ctx context.Context, sessionID string, rec model.ImportedItemRecord) (model.Result, error) {
	if rec.Owner == nil || rec.Number == nil {
		return model.ResultItemNotFound, nil
	}
	item, err := s.ledger.FindByOwnerAndNumber(ctx, *rec.Owner, *rec.Number)
	if err != nil {
		return model.ResultError, err
	}
	if item == nil {
		slog.Error("updateImportedItem: item not found", "owner", *rec.Owner, "number", *rec.Number)
		return model.ResultItemNotFound, nil
	}
	if item.State.AmountSensitive() {
		slog.Error("updateImportedItem: item already closed", "code", item.Code, "state", item.State)
		return model.ResultItemClosedAlready, nil
	}

	u := ledger.ItemUpdate{
		Owner:  strconv.Itoa(item.Owner),
		Title:  rec.Title,
		Author: rec.Author,
		Medium: rec.Medium,
		Note:   rec.Note,
		State:  string(ledger.EvaluateState(rec.InitialAmount != nil, rec.Charity != nil)),
	}
	if rec.InitialAmount != nil {
		u.InitialAmount = rec.InitialAmount.String()
	}
	if rec.Charity != nil {
		u.Charity = strconv.Itoa(*rec.Charity)
	}
	if item.Amount != nil {
		u.Amount = item.Amount.String()
	}
	if item.Buyer != nil {
		u.Buyer = strconv.Itoa(*item.Buyer)
	}

	res, err := s.ledger.UpdateItem(ctx, item.Code, u)
	if err != nil {
		return model.ResultError, err
	}
	if res == model.ResultSuccess {
		s.sessions.AppendAdded(sessionID, item.Code)
		slog.Info("updateImportedItem: item refreshed", "code", item.Code)
	}
	return res, nil
}
