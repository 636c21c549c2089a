package meetup

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testLocations() *Catalog {
	return NewCatalog([]Entry{
		{ID: "main_library", Name: "📚 Main Library"},
		{ID: "campus_cafe", Name: "☕ Campus Café"},
		{ID: "student_union", Name: "🍕 Student Union"},
	})
}

func testFriends() *Catalog {
	return NewCatalog([]Entry{
		{ID: "alex", Name: "Alex"},
		{ID: "sam", Name: "Sam"},
		{ID: "jordan", Name: "Jordan"},
	})
}

func newTestMachine(t *testing.T) (*Machine, *Store, *MemoryRegistry) {
	t.Helper()
	store := NewStore()
	reg := NewMemoryRegistry(100)
	m := NewMachine(store, reg, testLocations(), testFriends())
	return m, store, reg
}

func apply(t *testing.T, m *Machine, userID int64, ev Event) Result {
	t.Helper()
	res, err := m.Apply(context.Background(), userID, ev)
	if err != nil {
		t.Fatalf("apply %T: %v", ev, err)
	}
	return res
}

func TestLunchFlowProducesPing(t *testing.T) {
	m, store, reg := newTestMachine(t)
	const user int64 = 42

	apply(t, m, user, StartMeetup{Kind: KindLunch, Organizer: "Dana"})
	apply(t, m, user, SelectLocation{ID: "campus_cafe"})
	apply(t, m, user, SelectTime{Value: "12:30"})
	apply(t, m, user, ToggleFriend{ID: "alex"})
	apply(t, m, user, ToggleFriend{ID: "sam"})
	apply(t, m, user, DoneFriends{})
	res := apply(t, m, user, Confirm{})

	if res.Outcome != OutcomeConfirmed {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeConfirmed)
	}
	p := res.Ping
	if p == nil {
		t.Fatal("expected ping on confirm")
	}
	if p.Kind != KindLunch {
		t.Errorf("kind = %s", p.Kind)
	}
	if p.Location != "☕ Campus Café" {
		t.Errorf("location = %q", p.Location)
	}
	if p.Time != "12:30" {
		t.Errorf("time = %q", p.Time)
	}
	if len(p.Invitees) != 2 || p.Invitees[0] != "Alex" || p.Invitees[1] != "Sam" {
		t.Errorf("invitees = %v", p.Invitees)
	}
	if p.OrganizerID != user || p.Organizer != "Dana" {
		t.Errorf("organizer = %d %q", p.OrganizerID, p.Organizer)
	}
	if _, ok := store.Peek(user); ok {
		t.Error("session should be removed after confirm")
	}

	recent, err := reg.Recent(context.Background(), user, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != p.ID {
		t.Fatalf("recent = %+v", recent)
	}
}

func TestPeekDuringConcurrentToggles(t *testing.T) {
	m, store, _ := newTestMachine(t)
	const user int64 = 9

	apply(t, m, user, StartMeetup{Kind: KindLunch, Organizer: "Dana"})
	apply(t, m, user, SelectLocation{ID: "campus_cafe"})
	apply(t, m, user, SelectTime{Value: "12:30"})

	// Toggles mutate the invitee slice while peeks copy it; the race
	// detector flags any unguarded overlap between the two.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_, _ = m.Apply(context.Background(), user, ToggleFriend{ID: "alex"})
			_, _ = m.Apply(context.Background(), user, ToggleFriend{ID: "sam"})
		}
	}()
	for i := 0; i < 200; i++ {
		if snap, ok := store.Peek(user); ok && len(snap.Invitees) > 2 {
			t.Errorf("invitees = %v", snap.Invitees)
		}
	}
	<-done
}

func TestInvalidLocationLeavesSessionUnchanged(t *testing.T) {
	m, store, _ := newTestMachine(t)
	const user int64 = 7

	apply(t, m, user, StartMeetup{Kind: KindStudy, Organizer: "Kim"})
	before, _ := store.Peek(user)

	_, err := m.Apply(context.Background(), user, SelectLocation{ID: "ZZZ"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	after, ok := store.Peek(user)
	if !ok {
		t.Fatal("session should survive rejected input")
	}
	if after.State != StateLocation {
		t.Errorf("state = %s, want %s", after.State, StateLocation)
	}
	if after.Location != "" || after.Time != "" || len(after.Invitees) != 0 {
		t.Errorf("fields mutated: %+v", after)
	}
	if !after.LastActivity.Equal(before.LastActivity) {
		t.Error("activity updated on rejected input")
	}
}

func TestSkipTimeAndZeroInvitees(t *testing.T) {
	m, store, _ := newTestMachine(t)
	const user int64 = 9

	apply(t, m, user, StartMeetup{Kind: KindLunch, Organizer: "Lee"})
	apply(t, m, user, SelectLocation{ID: "main_library"})
	res := apply(t, m, user, SkipTime{})
	if res.Outcome != OutcomeTimeFlexible {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	apply(t, m, user, DoneFriends{})
	final := apply(t, m, user, Confirm{})

	if final.Ping == nil {
		t.Fatal("expected ping")
	}
	if final.Ping.Time != TimeFlexible {
		t.Errorf("time = %q, want flexible sentinel", final.Ping.Time)
	}
	if len(final.Ping.Invitees) != 0 {
		t.Errorf("invitees = %v, want empty", final.Ping.Invitees)
	}
	if final.Ping.TimeDisplay() != "Flexible time" {
		t.Errorf("display = %q", final.Ping.TimeDisplay())
	}
	if _, ok := store.Peek(user); ok {
		t.Error("session should be removed")
	}
}

func TestToggleFriendTwiceIsRemoval(t *testing.T) {
	m, _, _ := newTestMachine(t)
	const user int64 = 11

	apply(t, m, user, StartMeetup{Kind: KindStudy, Organizer: "Pat"})
	apply(t, m, user, SelectLocation{ID: "student_union"})
	apply(t, m, user, SelectTime{Value: "3pm"})

	first := apply(t, m, user, ToggleFriend{ID: "jordan"})
	if !first.Added || len(first.Session.Invitees) != 1 {
		t.Fatalf("first toggle: added=%v invitees=%v", first.Added, first.Session.Invitees)
	}
	second := apply(t, m, user, ToggleFriend{ID: "jordan"})
	if second.Added || len(second.Session.Invitees) != 0 {
		t.Fatalf("second toggle: added=%v invitees=%v", second.Added, second.Session.Invitees)
	}
	if second.Session.State != StateFriends {
		t.Errorf("state = %s", second.Session.State)
	}
}

func TestCancelFromEveryState(t *testing.T) {
	steps := map[string][]Event{
		"location": {},
		"time":     {SelectLocation{ID: "campus_cafe"}},
		"friends":  {SelectLocation{ID: "campus_cafe"}, SkipTime{}},
		"confirm":  {SelectLocation{ID: "campus_cafe"}, SkipTime{}, DoneFriends{}},
	}
	for name, evs := range steps {
		t.Run(name, func(t *testing.T) {
			m, store, reg := newTestMachine(t)
			const user int64 = 21

			apply(t, m, user, StartMeetup{Kind: KindLunch, Organizer: "Sky"})
			for _, ev := range evs {
				apply(t, m, user, ev)
			}
			res := apply(t, m, user, Cancel{})
			if res.Outcome != OutcomeCancelled {
				t.Fatalf("outcome = %s", res.Outcome)
			}
			if _, ok := store.Peek(user); ok {
				t.Error("session should be removed on cancel")
			}
			if reg.Len() != 0 {
				t.Error("cancel must not produce a ping")
			}
		})
	}
}

func TestEventWithoutSession(t *testing.T) {
	m, _, _ := newTestMachine(t)
	for _, ev := range []Event{SelectLocation{ID: "campus_cafe"}, SelectTime{Value: "noon"}, SkipTime{}, ToggleFriend{ID: "alex"}, DoneFriends{}, Confirm{}, Cancel{}} {
		if _, err := m.Apply(context.Background(), 99, ev); !errors.Is(err, ErrNoActiveSession) {
			t.Errorf("%T: err = %v, want ErrNoActiveSession", ev, err)
		}
	}
}

func TestStartReplacesInFlightSession(t *testing.T) {
	m, store, _ := newTestMachine(t)
	const user int64 = 33

	apply(t, m, user, StartMeetup{Kind: KindLunch, Organizer: "Ash"})
	apply(t, m, user, SelectLocation{ID: "main_library"})
	apply(t, m, user, SelectTime{Value: "12:00"})
	apply(t, m, user, ToggleFriend{ID: "alex"})

	res := apply(t, m, user, StartMeetup{Kind: KindStudy, Organizer: "Ash"})
	if res.Outcome != OutcomeStarted {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	sess, ok := store.Peek(user)
	if !ok {
		t.Fatal("expected fresh session")
	}
	if sess.Kind != KindStudy || sess.State != StateLocation {
		t.Errorf("session = kind %s state %s", sess.Kind, sess.State)
	}
	if sess.Location != "" || sess.Time != "" || len(sess.Invitees) != 0 {
		t.Errorf("prior data leaked: %+v", sess)
	}
}

func TestInvalidTimeRePrompts(t *testing.T) {
	m, store, _ := newTestMachine(t)
	const user int64 = 55

	apply(t, m, user, StartMeetup{Kind: KindLunch, Organizer: "Rae"})
	apply(t, m, user, SelectLocation{ID: "campus_cafe"})

	if _, err := m.Apply(context.Background(), user, SelectTime{Value: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	sess, _ := store.Peek(user)
	if sess.State != StateTime || sess.Time != "" {
		t.Errorf("session mutated: %+v", sess)
	}
}

func TestConfirmKeepsSessionWhenRecordFails(t *testing.T) {
	store := NewStore()
	m := NewMachine(store, failingRegistry{}, testLocations(), testFriends())
	const user int64 = 77

	apply(t, m, user, StartMeetup{Kind: KindLunch, Organizer: "Vic"})
	apply(t, m, user, SelectLocation{ID: "campus_cafe"})
	apply(t, m, user, SkipTime{})
	apply(t, m, user, DoneFriends{})

	if _, err := m.Apply(context.Background(), user, Confirm{}); err == nil {
		t.Fatal("expected record failure")
	}
	sess, ok := store.Peek(user)
	if !ok {
		t.Fatal("session must survive a failed record")
	}
	if sess.State != StateConfirm {
		t.Errorf("state = %s", sess.State)
	}
}

type failingRegistry struct{}

func (failingRegistry) Record(context.Context, *Ping) (int64, error) {
	return 0, errors.New("registry down")
}

func (failingRegistry) Recent(context.Context, int64, int) ([]Ping, error) {
	return nil, nil
}

func TestUnknownFriendRejected(t *testing.T) {
	m, store, _ := newTestMachine(t)
	const user int64 = 88

	apply(t, m, user, StartMeetup{Kind: KindStudy, Organizer: "Mo"})
	apply(t, m, user, SelectLocation{ID: "main_library"})
	apply(t, m, user, SelectTime{Value: "in 30 minutes"})

	if _, err := m.Apply(context.Background(), user, ToggleFriend{ID: "nobody"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	sess, _ := store.Peek(user)
	if len(sess.Invitees) != 0 || sess.State != StateFriends {
		t.Errorf("session mutated: %+v", sess)
	}
}

func TestPingSentAtIsSet(t *testing.T) {
	m, _, _ := newTestMachine(t)
	const user int64 = 91

	before := time.Now()
	apply(t, m, user, StartMeetup{Kind: KindLunch, Organizer: "Jo"})
	apply(t, m, user, SelectLocation{ID: "campus_cafe"})
	apply(t, m, user, SkipTime{})
	apply(t, m, user, DoneFriends{})
	res := apply(t, m, user, Confirm{})

	if res.Ping.SentAt.Before(before) {
		t.Errorf("sent_at = %v, before test start %v", res.Ping.SentAt, before)
	}
}
