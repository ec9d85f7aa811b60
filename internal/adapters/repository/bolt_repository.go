package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	"go.etcd.io/bbolt"
)

const (
	snapshotBucket = "snapshot"
	outboxBucket   = "outbox"
)

var currentSnapshotKey = []byte("current")

// BoltRepository keeps the snapshot and the outbox in a single bbolt file.
// Outbox entries are keyed by a bucket sequence so iteration follows
// insertion order; processed entries are removed.
type BoltRepository struct {
	db   *bbolt.DB
	wake chan struct{}
}

var (
	_ ports.SnapshotRepository = (*BoltRepository)(nil)
	_ ports.OutboxStore        = (*BoltRepository)(nil)
)

type boltOutboxEntry struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// OpenBolt opens (or creates) the bbolt file at path.
func OpenBolt(path string) (*BoltRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	repo := &BoltRepository{db: db, wake: make(chan struct{}, 1)}
	if err := repo.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *BoltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *BoltRepository) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	err := r.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(snapshotBucket)).Get(currentSnapshotKey)
		if payload == nil {
			return ports.ErrSnapshotNotFound
		}
		if err := json.Unmarshal(payload, &snap); err != nil {
			return fmt.Errorf("unmarshal snapshot: %w", err)
		}
		return nil
	})
	return snap, err
}

func (r *BoltRepository) Save(ctx context.Context, snap domain.Snapshot, events []domain.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(snapshotBucket)).Put(currentSnapshotKey, payload); err != nil {
			return err
		}

		outbox := tx.Bucket([]byte(outboxBucket))
		for _, evt := range events {
			body, err := json.Marshal(evt)
			if err != nil {
				return fmt.Errorf("marshal event: %w", err)
			}
			entry, err := json.Marshal(boltOutboxEntry{
				ID:        evt.ID,
				EventType: string(evt.Type),
				Payload:   body,
				CreatedAt: evt.OccurredAt,
			})
			if err != nil {
				return err
			}
			seq, err := outbox.NextSequence()
			if err != nil {
				return err
			}
			if err := outbox.Put(sequenceKey(seq), entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil && len(events) > 0 {
		select {
		case r.wake <- struct{}{}:
		default:
		}
	}
	return err
}

// Wake receives a value after a save committed new outbox entries.
func (r *BoltRepository) Wake() <-chan struct{} {
	return r.wake
}

func (r *BoltRepository) PendingEvents(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []ports.OutboxRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(outboxBucket)).Cursor()
		for k, v := c.First(); k != nil && len(records) < limit; k, v = c.Next() {
			var entry boltOutboxEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshal outbox entry: %w", err)
			}
			records = append(records, ports.OutboxRecord{
				ID:        entry.ID,
				EventType: entry.EventType,
				Payload:   entry.Payload,
				CreatedAt: entry.CreatedAt,
			})
		}
		return nil
	})
	return records, err
}

// MarkProcessed removes the entry with the given event id. Unknown ids
// are ignored.
func (r *BoltRepository) MarkProcessed(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		outbox := tx.Bucket([]byte(outboxBucket))
		c := outbox.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var entry boltOutboxEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			if entry.ID == id {
				return c.Delete()
			}
		}
		return nil
	})
}

// Ping reports whether the file is still open.
func (r *BoltRepository) Ping(ctx context.Context) error {
	return r.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(snapshotBucket)) == nil {
			return errors.New("snapshot bucket is missing")
		}
		return nil
	})
}

func (r *BoltRepository) ensureBuckets() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{snapshotBucket, outboxBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
