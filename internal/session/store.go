package session

import (
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ErrNotFound is returned for an unknown or expired session id.
var ErrNotFound = errors.New("session not found")

// Store keeps sessions in memory. A session idle for longer than the TTL is
// evicted and closed.
type Store struct {
	cache  *cache.Cache
	logger *zap.Logger
}

// NewStore creates a store. A zero ttl keeps sessions until deleted.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleanup := time.Minute
	if ttl > 0 && ttl < cleanup {
		cleanup = ttl
	}
	c := cache.New(ttl, cleanup)
	s := &Store{cache: c, logger: logger}
	c.OnEvicted(func(id string, v interface{}) {
		sess, ok := v.(*Session)
		if !ok {
			return
		}
		if err := sess.Close(); err != nil {
			s.logger.Warn("close session", zap.String("session_id", id), zap.Error(err))
			return
		}
		s.logger.Debug("session closed", zap.String("session_id", id))
	})
	return s
}

// Create registers a new empty session.
func (s *Store) Create() *Session {
	sess := New()
	s.cache.SetDefault(sess.ID(), sess)
	s.logger.Debug("session created", zap.String("session_id", sess.ID()))
	return sess
}

// Get returns the session and refreshes its expiry.
func (s *Store) Get(id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	sess := v.(*Session)
	if err := s.cache.Replace(id, sess, cache.DefaultExpiration); err != nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete closes and forgets the session.
func (s *Store) Delete(id string) error {
	if _, ok := s.cache.Get(id); !ok {
		return ErrNotFound
	}
	s.cache.Delete(id)
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int { return s.cache.ItemCount() }

// Close closes every session.
func (s *Store) Close() {
	for id := range s.cache.Items() {
		s.cache.Delete(id)
	}
}
