package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/pkg/id"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "otp:"
	// expiredRetention keeps an entry past its expiry so a late verify
	// reports expiry instead of a missing code.
	expiredRetention = time.Hour
	maxWatchRounds   = 5
)

// OTPStore keeps OTP entries as JSON under otp:{email}. Updates run inside
// WATCH/MULTI so a concurrent write to the same key aborts and retries.
type OTPStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client, now: time.Now}
}

func (s *OTPStore) Put(ctx context.Context, e *domain.OTPEntry) error {
	e.Revision = id.New()
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+e.Email, data, s.retention(e)).Err(); err != nil {
		return fmt.Errorf("redis set otp: %w", err)
	}
	return nil
}

func (s *OTPStore) Update(ctx context.Context, email string, fn domain.OTPUpdateFunc) error {
	key := keyPrefix + email
	for round := 0; round < maxWatchRounds; round++ {
		var fnErr error
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			cur, err := s.load(ctx, tx, key)
			if err != nil {
				return err
			}
			var action domain.OTPAction
			action, fnErr = fn(cur)
			switch action {
			case domain.OTPSave:
				if cur == nil {
					return fmt.Errorf("otp save without entry for %s", email)
				}
				cur.Revision = id.New()
				data, err := json.Marshal(cur)
				if err != nil {
					return fmt.Errorf("marshal otp: %w", err)
				}
				_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
					p.Set(ctx, key, data, s.retention(cur))
					return nil
				})
				return err
			case domain.OTPDelete:
				if cur == nil {
					return nil
				}
				_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
					p.Del(ctx, key)
					return nil
				})
				return err
			}
			return nil
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return err
		}
		return fnErr
	}
	return fmt.Errorf("otp for %s changed concurrently: %w", email, domain.ErrConflict)
}

func (s *OTPStore) load(ctx context.Context, tx *redis.Tx, key string) (*domain.OTPEntry, error) {
	raw, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get otp: %w", err)
	}
	var e domain.OTPEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal otp: %w", err)
	}
	return &e, nil
}

func (s *OTPStore) retention(e *domain.OTPEntry) time.Duration {
	d := e.ExpiresAt.Add(expiredRetention).Sub(s.now())
	if d < time.Second {
		return time.Second
	}
	return d
}
