package token

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

var ErrNoTokenID = errors.New("token has no jti claim")

// RevocationList remembers access tokens revoked before they expired. An entry is
// only kept until the token would have expired anyway.
type RevocationList struct {
	lock    sync.RWMutex
	entries map[string]time.Time // jti -> token expiry
	now     func() time.Time
}

func NewRevocationList(now func() time.Time) *RevocationList {
	if now == nil {
		now = time.Now
	}
	return &RevocationList{
		entries: make(map[string]time.Time),
		now:     now,
	}
}

// Revoke records jti until exp. Tokens that already expired are not recorded.
func (rl *RevocationList) Revoke(jti string, exp time.Time) error {
	if jti == "" {
		return ErrNoTokenID
	}
	now := rl.now()
	rl.lock.Lock()
	defer rl.lock.Unlock()
	rl.pruneLocked(now)
	if now.Before(exp) {
		rl.entries[jti] = exp
	}
	return nil
}

func (rl *RevocationList) IsRevoked(jti string) bool {
	rl.lock.RLock()
	defer rl.lock.RUnlock()
	exp, ok := rl.entries[jti]
	return ok && rl.now().Before(exp)
}

// Len is the number of revocations still in force.
func (rl *RevocationList) Len() int {
	now := rl.now()
	rl.lock.Lock()
	defer rl.lock.Unlock()
	rl.pruneLocked(now)
	return len(rl.entries)
}

func (rl *RevocationList) pruneLocked(now time.Time) {
	for jti, exp := range rl.entries {
		if !now.Before(exp) {
			delete(rl.entries, jti)
		}
	}
}
