package ledger

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/jkovac/artshow/internal/imaging"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/store"
)

// AttachItemImage processes and stores a display photo for an item.
func (s *Service) AttachItemImage(ctx context.Context, code string, photo []byte) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := store.GetItem(ctx, s.db, code)
	if err != nil {
		return model.ResultError, err
	}
	if item == nil {
		return model.ResultItemNotFound, nil
	}

	processed, err := imaging.Process(bytes.NewReader(photo))
	if err != nil {
		slog.Error("attachItemImage: unsupported photo", "code", code, "error", err)
		return model.ResultUnsupportedImageFormat, nil
	}
	if err := store.SetItemImage(ctx, s.db, code, processed.Data, processed.MIME); err != nil {
		return model.ResultError, err
	}
	slog.Info("attachItemImage: photo stored", "code", code, "bytes", len(processed.Data))
	return model.ResultSuccess, nil
}
