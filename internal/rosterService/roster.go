// Package roster manages portal members and chit batches. Every member change is
// written together with the auction room roster derived from it.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	auction "chit-auction/internal/auctionService"
	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/models"
	"chit-auction/internal/repository"
	"chit-auction/utils"
)

// Service owns the gk_allUsers and gk_batches records
type Service struct {
	store  repository.KVStore
	engine *auction.Engine
	mu     sync.Mutex
}

// NewService creates a roster service writing through engine
func NewService(store repository.KVStore, engine *auction.Engine) *Service {
	return &Service{store: store, engine: engine}
}

// List returns all members. A malformed record reads as empty.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	users, err := s.load(ctx)
	if errors.Is(err, auctionerrors.ErrMalformedStoredValue) {
		utils.Warn("Roster: malformed user list, showing none", map[string]any{"error": err.Error()})
		return []models.User{}, nil
	}
	return users, err
}

// Get returns the member with id
func (s *Service) Get(ctx context.Context, id string) (models.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return models.User{}, err
	}
	if i := indexOf(users, id); i >= 0 {
		return users[i], nil
	}
	return models.User{}, fmt.Errorf("service: get user %s: %w", id, auctionerrors.ErrUserNotFound)
}

// Add appends a member, generating a USR- id when none is given
func (s *Service) Add(ctx context.Context, u models.User) (models.User, error) {
	return s.AddWith(ctx, u, nil)
}

// AddWith behaves like Add and writes extra in the same batch
func (s *Service) AddWith(ctx context.Context, u models.User, extra repository.Batch) (models.User, error) {
	if strings.TrimSpace(u.Name) == "" {
		return models.User{}, fmt.Errorf("service: add user: %w: name is required", auctionerrors.ErrInvalidRequest)
	}
	if u.ID == "" {
		u.ID = utils.PrefixedID("USR")
	}
	if u.Services == nil {
		u.Services = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("service: add user: %w", err)
	}
	if indexOf(users, u.ID) >= 0 {
		return models.User{}, fmt.Errorf("service: add user %s: %w: id already exists", u.ID, auctionerrors.ErrInvalidRequest)
	}

	if err := s.engine.ApplyRosterWith(ctx, append(users, u), extra); err != nil {
		return models.User{}, err
	}
	utils.Info("Roster: user added", map[string]any{"user_id": u.ID})
	return u, nil
}

// Update replaces the member with id; the id itself never changes
func (s *Service) Update(ctx context.Context, id string, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("service: update user: %w", err)
	}
	i := indexOf(users, id)
	if i < 0 {
		return models.User{}, fmt.Errorf("service: update user %s: %w", id, auctionerrors.ErrUserNotFound)
	}

	u.ID = id
	if u.Services == nil {
		u.Services = users[i].Services
	}
	users[i] = u
	if err := s.engine.ApplyRoster(ctx, users); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Delete removes the member with id. Ledger entries are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("service: delete user: %w", err)
	}
	i := indexOf(users, id)
	if i < 0 {
		return fmt.Errorf("service: delete user %s: %w", id, auctionerrors.ErrUserNotFound)
	}

	users = append(users[:i], users[i+1:]...)
	if err := s.engine.ApplyRoster(ctx, users); err != nil {
		return err
	}
	utils.Info("Roster: user deleted", map[string]any{"user_id": id})
	return nil
}

func (s *Service) load(ctx context.Context) ([]models.User, error) {
	return repository.Load(ctx, s.store, repository.KeyUsers, []models.User{})
}

func indexOf(users []models.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
