// Package memory holds in-process implementations of the application stores.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/pkg/id"
)

const (
	// expiredRetention keeps expired entries around long enough for a late
	// verify to be told the code expired.
	expiredRetention = time.Hour
	sweepEvery       = 256
)

// OTPStore is a process-local OTP store. A single mutex serialises every
// read-modify-write, which makes each email's update atomic.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]domain.OTPEntry
	puts    int
	now     func() time.Time
}

func NewOTPStore() *OTPStore {
	return &OTPStore{entries: make(map[string]domain.OTPEntry), now: time.Now}
}

// Put overwrites any existing entry for e.Email.
func (s *OTPStore) Put(_ context.Context, e *domain.OTPEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.Revision = id.New()
	s.entries[e.Email] = *e
	s.puts++
	if s.puts%sweepEvery == 0 {
		s.sweepLocked()
	}
	return nil
}

func (s *OTPStore) Update(_ context.Context, email string, fn domain.OTPUpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cur *domain.OTPEntry
	if e, ok := s.entries[email]; ok {
		cp := e
		cur = &cp
	}
	action, err := fn(cur)
	switch action {
	case domain.OTPSave:
		if cur == nil {
			return fmt.Errorf("otp save without entry for %s", email)
		}
		cur.Revision = id.New()
		s.entries[email] = *cur
	case domain.OTPDelete:
		delete(s.entries, email)
	}
	return err
}

// Len reports the number of stored entries, expired ones included.
func (s *OTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *OTPStore) sweepLocked() {
	cutoff := s.now().Add(-expiredRetention)
	for k, e := range s.entries {
		if e.ExpiresAt.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}
