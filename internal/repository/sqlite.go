package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"chit-auction/internal/auctionerrors"
	"chit-auction/utils"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
  key    TEXT PRIMARY KEY,
  value  BLOB NOT NULL,
  writer TEXT NOT NULL,
  seq    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS kv_seq_idx ON kv (seq);
CREATE TABLE IF NOT EXISTS kv_clock (
  id  INTEGER PRIMARY KEY CHECK (id = 1),
  seq INTEGER NOT NULL
);
INSERT OR IGNORE INTO kv_clock (id, seq) VALUES (1, 0);
`

// SQLiteStore is a KVStore shared by every process opening the same database file.
// Each write bumps a global sequence; Watch polls it to turn other writers'
// rows into change notifications.
type SQLiteStore struct {
	db       *sql.DB
	writer   string
	interval time.Duration
	notifier *notifier

	mu      sync.Mutex
	lastSeq int64
}

// OpenSQLiteStore prepares the schema and positions the change feed at the current sequence
func OpenSQLiteStore(ctx context.Context, db *sql.DB, interval time.Duration) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("migrate kv schema: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}

	s := &SQLiteStore{
		db:       db,
		writer:   utils.GenerateID(),
		interval: interval,
		notifier: newNotifier(),
	}

	if err := db.QueryRowContext(ctx, `SELECT seq FROM kv_clock WHERE id = 1`).Scan(&s.lastSeq); err != nil {
		return nil, fmt.Errorf("read kv clock: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}
	return s, nil
}

// WriterID identifies this process in the kv.writer column
func (s *SQLiteStore) WriterID() string {
	return s.writer
}

// Get returns the stored document, or nil when the key is absent
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", key, auctionerrors.ErrStoreUnavailable, err)
	}
	return value, nil
}

// Set stores one document
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany stores every document in one transaction
func (s *SQLiteStore) SetMany(ctx context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := withTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var seq int64
		if err := tx.QueryRowContext(ctx, `UPDATE kv_clock SET seq = seq + 1 WHERE id = 1 RETURNING seq`).Scan(&seq); err != nil {
			return fmt.Errorf("bump kv clock: %w", err)
		}
		for _, key := range keys {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO kv (key, value, writer, seq) VALUES (?, ?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, writer = excluded.writer, seq = excluded.seq
			`, key, values[key], s.writer, seq)
			if err != nil {
				return fmt.Errorf("upsert %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %d keys: %w: %w", len(values), auctionerrors.ErrStoreUnavailable, err)
	}
	return nil
}

// Subscribe registers fn for rows written by other processes. Delivery requires Watch to be running.
func (s *SQLiteStore) Subscribe(fn func(Change)) func() {
	return s.notifier.subscribe(s.writer, fn)
}

// Watch polls the change feed until ctx is cancelled
func (s *SQLiteStore) Watch(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Poll(ctx); err != nil && ctx.Err() == nil {
				utils.Warn("SQLiteStore: change feed poll failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// Poll reads rows newer than the last seen sequence and publishes them
func (s *SQLiteStore) Poll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value, writer, seq FROM kv WHERE seq > ? ORDER BY seq, key`, s.lastSeq)
	if err != nil {
		return fmt.Errorf("poll kv: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var changes []Change
	last := s.lastSeq
	for rows.Next() {
		var (
			c   Change
			seq int64
		)
		if err := rows.Scan(&c.Key, &c.Value, &c.Writer, &seq); err != nil {
			return fmt.Errorf("scan kv row: %w: %w", auctionerrors.ErrStoreUnavailable, err)
		}
		changes = append(changes, c)
		if seq > last {
			last = seq
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate kv rows: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}

	s.lastSeq = last
	s.notifier.publish(changes)
	return nil
}

// withTx begins a transaction, runs fn, and commits on success or rolls back on error/panic
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
