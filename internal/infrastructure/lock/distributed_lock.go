// Package lock provides a redis advisory lock.
//
// Acquisition is SET key value NX EX ttl, so only one client holds a key at
// a time and a crashed holder's lock expires on its own. Release runs a Lua
// script that checks the value before deleting, so an expired holder cannot
// free a lock someone else has since taken.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrLockFailed = errors.New("failed to acquire lock")

// DistributedLock is a single-use lock instance; value identifies the
// holder and guards release.
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock attempts to acquire the lock without blocking.
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock acquires the lock, retrying up to maxRetries times.
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock releases the lock if this instance still holds it.
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewBatchReplaceLock keys a lock per replaced resource, serializing the
// destructive delete-then-insert of a batch table. Two concurrent overdue
// uploads would otherwise interleave their delete and insert phases and
// leave rows from both batches current. The value is the upload's batch id,
// which makes the holder traceable from redis alone.
func NewBatchReplaceLock(client *redis.Client, resource, batchID string, ttl time.Duration) *DistributedLock {
	key := fmt.Sprintf("ingest:lock:batch:%s", resource)
	return NewDistributedLock(client, key, batchID, ttl)
}
