package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/models"
	"chit-auction/internal/repository"
	"chit-auction/utils"
)

// Batches returns all chit batches
func (s *Service) Batches(ctx context.Context) ([]models.ChitBatch, error) {
	batches, err := repository.Load(ctx, s.store, repository.KeyBatches, []models.ChitBatch{})
	if errors.Is(err, auctionerrors.ErrMalformedStoredValue) {
		utils.Warn("Roster: malformed batch list, showing none", map[string]any{"error": err.Error()})
		return []models.ChitBatch{}, nil
	}
	return batches, err
}

// Batch returns the batch with id
func (s *Service) Batch(ctx context.Context, id string) (models.ChitBatch, error) {
	batches, err := s.Batches(ctx)
	if err != nil {
		return models.ChitBatch{}, err
	}
	for _, b := range batches {
		if b.ID == id {
			return b, nil
		}
	}
	return models.ChitBatch{}, fmt.Errorf("service: batch %s: %w", id, auctionerrors.ErrBatchNotFound)
}

// AddBatch creates a batch. A missing id gets a GK- prefix and a missing status is Active.
func (s *Service) AddBatch(ctx context.Context, b models.ChitBatch) (models.ChitBatch, error) {
	if strings.TrimSpace(b.Name) == "" || b.Value <= 0 {
		return models.ChitBatch{}, fmt.Errorf("service: add batch: %w: name and positive value are required", auctionerrors.ErrInvalidRequest)
	}
	if b.ID == "" {
		b.ID = utils.PrefixedID("GK")
	}
	if b.Status == "" {
		b.Status = models.StatusActive
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batches, err := repository.Load(ctx, s.store, repository.KeyBatches, []models.ChitBatch{})
	if err != nil {
		return models.ChitBatch{}, fmt.Errorf("service: add batch: %w", err)
	}
	for _, existing := range batches {
		if existing.ID == b.ID {
			return models.ChitBatch{}, fmt.Errorf("service: add batch %s: %w: id already exists", b.ID, auctionerrors.ErrInvalidRequest)
		}
	}

	wb := repository.Batch{}
	if err := wb.Put(repository.KeyBatches, append(batches, b)); err != nil {
		return models.ChitBatch{}, fmt.Errorf("service: add batch: %w", err)
	}
	if err := wb.Commit(ctx, s.store); err != nil {
		return models.ChitBatch{}, fmt.Errorf("service: add batch: %w", err)
	}
	utils.Info("Roster: batch added", map[string]any{"batch_id": b.ID, "value": b.Value})
	return b, nil
}
