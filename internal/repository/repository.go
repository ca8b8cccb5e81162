package repository

import "context"

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// Change describes a key written by another context sharing the same store
type Change struct {
	Key    string
	Value  []byte
	Writer string
}

// KVStore is the shared key-value store the auction core persists into.
// Values are JSON documents. Get returns (nil, nil) for an absent key.
// Subscribers are only notified of writes made by other writers.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Subscribe(fn func(Change)) (cancel func())
	WriterID() string
}
