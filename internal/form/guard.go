// internal/form/guard.go
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSubmissionInFlight = errors.New("SUBMISSION_IN_FLIGHT")

// Guard allows one submission in flight per session.
type Guard interface {
	// Acquire takes the session lock and returns the token that releases it.
	// A held lock yields ErrSubmissionInFlight.
	Acquire(ctx context.Context, session string) (string, error)
	// Release frees the lock only if token still owns it.
	Release(ctx context.Context, session, token string) error
}

const guardKeyPrefix = "career-advisor:submission:"

// releaseScript deletes the key only while it still holds our token, so a
// lock that expired and was re-acquired by a later submission is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard keeps the lock in Redis so every replica sees it.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, session string) (string, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, guardKeyPrefix+session, token, g.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("acquire submission lock: %w", err)
	}
	if !ok {
		return "", ErrSubmissionInFlight
	}
	return token, nil
}

func (g *RedisGuard) Release(ctx context.Context, session, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{guardKeyPrefix + session}, token).Err(); err != nil {
		return fmt.Errorf("release submission lock: %w", err)
	}
	return nil
}

type localLock struct {
	token   string
	expires time.Time
}

// LocalGuard is the in-process Guard used when Redis is disabled.
type LocalGuard struct {
	mu    sync.Mutex
	ttl   time.Duration
	locks map[string]localLock
	now   func() time.Time
}

func NewLocalGuard(ttl time.Duration) *LocalGuard {
	return &LocalGuard{
		ttl:   ttl,
		locks: make(map[string]localLock),
		now:   time.Now,
	}
}

func (g *LocalGuard) Acquire(_ context.Context, session string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if l, ok := g.locks[session]; ok && now.Before(l.expires) {
		return "", ErrSubmissionInFlight
	}

	token := uuid.NewString()
	g.locks[session] = localLock{token: token, expires: now.Add(g.ttl)}
	return token, nil
}

func (g *LocalGuard) Release(_ context.Context, session, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if l, ok := g.locks[session]; ok && l.token == token {
		delete(g.locks, session)
	}
	return nil
}
