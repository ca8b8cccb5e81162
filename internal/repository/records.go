package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"chit-auction/internal/auctionerrors"
)

// Stable storage keys shared by every context
const (
	KeyAuctionConfig = "gk_auctionConfig"
	KeyAuctionState  = "gk_auctionState"
	KeyUsers         = "gk_allUsers"
	KeyFinances      = "gk_allUserFinances"
	KeyBatches       = "gk_batches"
	KeyCMSConfig     = "gk_cmsConfig"
	KeyUserRequests  = "gk_userRequests"
)

// Load reads key and decodes it into T.
// An absent or null document yields def with no error. A store failure yields def
// and ErrStoreUnavailable; an undecodable document yields def and ErrMalformedStoredValue,
// so callers can log and keep going on the documented default.
func Load[T any](ctx context.Context, store KVStore, key string, def T) (T, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return def, err
	}
	return Decode(key, raw, def)
}

// Decode parses a stored document, applying the same fallbacks as Load
func Decode[T any](key string, raw []byte, def T) (T, error) {
	if isAbsent(raw) {
		return def, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("decode %s: %w: %w", key, auctionerrors.ErrMalformedStoredValue, err)
	}
	return v, nil
}

func isAbsent(raw []byte) bool {
	s := string(raw)
	return len(raw) == 0 || s == "null" || s == "undefined"
}

// Batch collects encoded documents for a single SetMany call
type Batch map[string][]byte

// Put encodes v under key
func (b Batch) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	b[key] = raw
	return nil
}

// Commit writes the batch atomically
func (b Batch) Commit(ctx context.Context, store KVStore) error {
	if len(b) == 0 {
		return nil
	}
	return store.SetMany(ctx, b)
}
