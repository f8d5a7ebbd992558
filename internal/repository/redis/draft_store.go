// Package redis stores draft sessions in Redis so any server instance can
// pick up an edit or a finished extraction.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"facturas/internal/domain"
	"facturas/internal/draft"
)

// DraftStore keeps sessions as JSON under a TTL and serializes writers with a
// per-session redislock.
type DraftStore struct {
	rdb     goredis.UniversalClient
	locker  *redislock.Client
	ttl     time.Duration
	lockTTL time.Duration
	wait    time.Duration
}

// DraftStoreOptions tune expiry and locking.
type DraftStoreOptions struct {
	TTL     time.Duration
	LockTTL time.Duration
	// LockWait is how long Update retries before giving up with ErrDraftBusy.
	LockWait time.Duration
}

// NewDraftStore creates a DraftStore on top of rdb.
func NewDraftStore(rdb goredis.UniversalClient, opts DraftStoreOptions) *DraftStore {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Second
	}
	if opts.LockWait <= 0 {
		opts.LockWait = 2 * time.Second
	}
	return &DraftStore{
		rdb:     rdb,
		locker:  redislock.New(rdb),
		ttl:     opts.TTL,
		lockTTL: opts.LockTTL,
		wait:    opts.LockWait,
	}
}

// NewClient opens a Redis client and checks it answers.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func sessionKey(id uuid.UUID) string { return "facturas:draft:" + id.String() }
func lockKey(id uuid.UUID) string    { return "facturas:lock:draft:" + id.String() }

func (s *DraftStore) Create(ctx context.Context, sess *draft.Session) error {
	return s.save(ctx, sess)
}

func (s *DraftStore) Get(ctx context.Context, id uuid.UUID) (*draft.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis.DraftStore.Get: %w", err)
	}
	var sess draft.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decoding draft %s: %w", id, err)
	}
	return &sess, nil
}

func (s *DraftStore) Update(ctx context.Context, id uuid.UUID, fn func(*draft.Session) error) (*draft.Session, error) {
	lock, err := s.locker.Obtain(ctx, lockKey(id), s.lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(s.wait/(50*time.Millisecond))),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.ErrDraftBusy
	}
	if err != nil {
		return nil, fmt.Errorf("redis.DraftStore.Update: locking draft %s: %w", id, err)
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *DraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.rdb.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis.DraftStore.Delete: %w", err)
	}
	if n == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

func (s *DraftStore) save(ctx context.Context, sess *draft.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding draft %s: %w", sess.ID, err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis.DraftStore.save: %w", err)
	}
	return nil
}
