package meetup

import (
	"sync"
	"time"
)

// userRecord couples one user's session with the lock that serializes their
// events, so both are created and dropped together.
type userRecord struct {
	mu   sync.Mutex
	refs int
	sess *Session
}

// Store owns the per-user session map. Session fields are only read or
// mutated while holding the user lock from LockUser: the Machine holds it
// across Apply, and Peek takes it before copying. The store mutex guards the
// map and the session pointers.
type Store struct {
	mu    sync.Mutex
	users map[int64]*userRecord
	now   func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		users: make(map[int64]*userRecord),
		now:   time.Now,
	}
}

// LockUser acquires the per-user event lock and returns its release func.
// Two events for the same user are never processed concurrently. Releasing
// the lock discards the record when the user has no session and no other
// holders are waiting, so idle users leave nothing behind.
func (s *Store) LockUser(userID int64) func() {
	s.mu.Lock()
	rec, ok := s.users[userID]
	if !ok {
		rec = &userRecord{}
		s.users[userID] = rec
	}
	rec.refs++
	s.mu.Unlock()

	rec.mu.Lock()
	return func() {
		rec.mu.Unlock()
		s.mu.Lock()
		rec.refs--
		if rec.refs == 0 && rec.sess == nil {
			delete(s.users, userID)
		}
		s.mu.Unlock()
	}
}

// Replace installs a fresh session for the user in the location step,
// discarding any prior in-flight session. The caller must hold the user lock.
func (s *Store) Replace(userID int64, organizer string, kind Kind) *Session {
	now := s.now()
	sess := &Session{
		UserID:       userID,
		Organizer:    organizer,
		Kind:         kind,
		State:        StateLocation,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.mu.Lock()
	rec, ok := s.users[userID]
	if !ok {
		rec = &userRecord{}
		s.users[userID] = rec
	}
	rec.sess = sess
	s.mu.Unlock()
	return sess
}

// Get returns the live session for the user, if any. The caller must hold
// the user lock while reading or mutating it.
func (s *Store) Get(userID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok || rec.sess == nil {
		return nil, false
	}
	return rec.sess, true
}

// Peek returns a snapshot of the user's session without exposing the live
// record. It takes the user lock so an event being applied concurrently
// cannot mutate fields mid-copy. Absence signals no active conversation.
func (s *Store) Peek(userID int64) (Session, bool) {
	unlock := s.LockUser(userID)
	defer unlock()

	s.mu.Lock()
	sess := s.users[userID].sess
	s.mu.Unlock()
	if sess == nil {
		return Session{}, false
	}
	return sess.snapshot(), true
}

// Active reports whether the user has a session in progress.
func (s *Store) Active(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	return ok && rec.sess != nil
}

// Clear removes the user's session unconditionally. The record itself stays
// until its last holder releases the user lock.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return
	}
	rec.sess = nil
	if rec.refs == 0 {
		delete(s.users, userID)
	}
}

// Len reports the number of active sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rec := range s.users {
		if rec.sess != nil {
			n++
		}
	}
	return n
}

// SweepIdle removes sessions idle for longer than maxIdle and returns the
// user ids that were dropped. Each candidate is checked under its user lock
// so a sweep never races an in-flight event.
func (s *Store) SweepIdle(maxIdle time.Duration) []int64 {
	s.mu.Lock()
	candidates := make([]int64, 0, len(s.users))
	for id, rec := range s.users {
		if rec.sess != nil {
			candidates = append(candidates, id)
		}
	}
	s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := make([]int64, 0, len(candidates))
	for _, id := range candidates {
		unlock := s.LockUser(id)
		s.mu.Lock()
		sess := s.users[id].sess
		s.mu.Unlock()
		if sess != nil && sess.LastActivity.Before(cutoff) {
			s.Clear(id)
			removed = append(removed, id)
		}
		unlock()
	}
	return removed
}
