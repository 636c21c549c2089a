package meetup

import (
	"sync"
	"testing"
	"time"
)

func TestStoreReplaceAndClear(t *testing.T) {
	s := NewStore()

	sess := s.Replace(1, "Ana", KindLunch)
	if sess.State != StateLocation {
		t.Fatalf("state = %s", sess.State)
	}
	if !s.Active(1) {
		t.Fatal("expected active session")
	}

	snap, ok := s.Peek(1)
	if !ok || snap.UserID != 1 || snap.Kind != KindLunch {
		t.Fatalf("peek = %+v ok=%v", snap, ok)
	}

	s.Clear(1)
	if s.Active(1) {
		t.Fatal("session should be gone")
	}
	if _, ok := s.Peek(1); ok {
		t.Fatal("peek should miss after clear")
	}
}

func TestStorePeekReturnsSnapshot(t *testing.T) {
	s := NewStore()
	live := s.Replace(2, "Ben", KindStudy)
	live.Invitees = []string{"alex"}

	snap, _ := s.Peek(2)
	snap.Invitees[0] = "mutated"

	again, _ := s.Peek(2)
	if again.Invitees[0] != "alex" {
		t.Fatalf("snapshot aliased live session: %v", again.Invitees)
	}
}

func TestStoreSweepIdle(t *testing.T) {
	s := NewStore()
	base := time.Now()
	s.now = func() time.Time { return base }

	s.Replace(1, "Old", KindLunch)
	s.now = func() time.Time { return base.Add(25 * time.Hour) }
	s.Replace(2, "Fresh", KindStudy)

	removed := s.SweepIdle(24 * time.Hour)
	if len(removed) != 1 || removed[0] != 1 {
		t.Fatalf("removed = %v", removed)
	}
	if s.Active(1) {
		t.Error("idle session should be swept")
	}
	if !s.Active(2) {
		t.Error("fresh session should survive")
	}
}

func TestStoreDropsRecordsForIdleUsers(t *testing.T) {
	s := NewStore()

	s.Replace(1, "Ana", KindLunch)
	s.Clear(1)

	unlock := s.LockUser(2)
	unlock()

	// No sessions and no lock holders: nothing may linger per user.
	s.mu.Lock()
	n := len(s.users)
	s.mu.Unlock()
	if n != 0 {
		t.Fatalf("retained %d user records, want 0", n)
	}
}

func TestStoreKeepsRecordWhileLockHeld(t *testing.T) {
	s := NewStore()

	unlock := s.LockUser(7)
	s.Clear(7)

	s.mu.Lock()
	_, ok := s.users[7]
	s.mu.Unlock()
	if !ok {
		t.Fatal("record dropped while its lock is still held")
	}

	unlock()
	s.mu.Lock()
	n := len(s.users)
	s.mu.Unlock()
	if n != 0 {
		t.Fatalf("retained %d user records after release, want 0", n)
	}
}

func TestStoreLockUserSerializes(t *testing.T) {
	s := NewStore()
	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := s.LockUser(5)
			defer unlock()
			// Non-atomic read-modify-write; races without the lock.
			v := counter
			time.Sleep(time.Millisecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("counter = %d, want %d", counter, workers)
	}
}
