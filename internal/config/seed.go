package config

import (
	"context"
	"fmt"
	"os"
	"sort"

	"chit-auction/internal/models"
	"chit-auction/internal/repository"
	"chit-auction/utils"

	"gopkg.in/yaml.v3"
)

// Seed is the initial portal data loaded from SEED_FILE
type Seed struct {
	Auction *models.AuctionConfig `yaml:"auction"`
	Batches []models.ChitBatch    `yaml:"batches"`
	Users   []models.User         `yaml:"users"`
	Ledger  models.Ledger         `yaml:"ledger"`
}

// LoadSeed parses a YAML seed file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for _, b := range seed.Batches {
		if b.ID == "" || b.Value <= 0 {
			return nil, fmt.Errorf("batch %q: id and positive value are required", b.Name)
		}
	}
	for _, u := range seed.Users {
		if u.ID == "" {
			return nil, fmt.Errorf("user %q: id is required", u.Name)
		}
	}
	return &seed, nil
}

// Apply writes every seeded record whose key is still absent, in one batch.
// Existing records are never overwritten. It returns the keys it wrote.
func (s *Seed) Apply(ctx context.Context, store repository.KVStore) ([]string, error) {
	b := repository.Batch{}

	put := func(key string, v any) error {
		raw, err := store.Get(ctx, key)
		if err != nil {
			return err
		}
		if raw != nil {
			return nil
		}
		return b.Put(key, v)
	}

	if s.Auction != nil {
		cfg := *s.Auction
		for _, u := range s.Users {
			cfg.JoinedUsersList = append(cfg.JoinedUsersList, models.RosterEntry{ID: u.ID, Name: u.Name})
		}
		cfg.JoinedUsers = len(cfg.JoinedUsersList)
		if err := put(repository.KeyAuctionConfig, cfg); err != nil {
			return nil, fmt.Errorf("seed auction config: %w", err)
		}
	}
	if s.Batches != nil {
		if err := put(repository.KeyBatches, s.Batches); err != nil {
			return nil, fmt.Errorf("seed batches: %w", err)
		}
	}
	if s.Users != nil {
		if err := put(repository.KeyUsers, s.Users); err != nil {
			return nil, fmt.Errorf("seed users: %w", err)
		}
	}
	if s.Ledger != nil {
		if err := put(repository.KeyFinances, s.Ledger); err != nil {
			return nil, fmt.Errorf("seed ledger: %w", err)
		}
	}

	if err := b.Commit(ctx, store); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}

	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		utils.Info("seed data written", map[string]any{"keys": keys})
	}
	return keys, nil
}
