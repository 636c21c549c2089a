package meetup

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func recordPing(t *testing.T, r Registry, organizer int64, location string, sentAt time.Time) int64 {
	t.Helper()
	id, err := r.Record(context.Background(), &Ping{
		OrganizerID: organizer,
		Organizer:   "Test",
		Kind:        KindLunch,
		Location:    location,
		SentAt:      sentAt,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return id
}

func TestMemoryRegistryRecentOrdering(t *testing.T) {
	r := NewMemoryRegistry(100)
	base := time.Now()

	recordPing(t, r, 1, "first", base)
	recordPing(t, r, 2, "other user", base.Add(time.Minute))
	recordPing(t, r, 1, "second", base.Add(2*time.Minute))
	recordPing(t, r, 1, "third", base.Add(3*time.Minute))

	got, err := r.Recent(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Location != "third" || got[1].Location != "second" {
		t.Fatalf("order = %s, %s", got[0].Location, got[1].Location)
	}
	for _, p := range got {
		if p.OrganizerID != 1 {
			t.Errorf("foreign ping leaked: %+v", p)
		}
	}
}

func TestMemoryRegistryTiesByInsertion(t *testing.T) {
	r := NewMemoryRegistry(100)
	same := time.Now()

	recordPing(t, r, 1, "a", same)
	recordPing(t, r, 1, "b", same)
	recordPing(t, r, 1, "c", same)

	got, _ := r.Recent(context.Background(), 1, 10)
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	// Equal sent times keep insertion order, oldest inserted first.
	if got[0].Location != "a" || got[1].Location != "b" || got[2].Location != "c" {
		t.Fatalf("tie order = %s, %s, %s", got[0].Location, got[1].Location, got[2].Location)
	}
}

func TestMemoryRegistryRecentIdempotent(t *testing.T) {
	r := NewMemoryRegistry(100)
	base := time.Now()
	for i := 0; i < 4; i++ {
		recordPing(t, r, 3, fmt.Sprintf("loc-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	first, _ := r.Recent(context.Background(), 3, 5)
	second, _ := r.Recent(context.Background(), 3, 5)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("ids differ at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestMemoryRegistryUnknownUserEmpty(t *testing.T) {
	r := NewMemoryRegistry(100)
	got, err := r.Recent(context.Background(), 404, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
}

func TestMemoryRegistryEvictsOldest(t *testing.T) {
	r := NewMemoryRegistry(3)
	base := time.Now()
	for i := 0; i < 5; i++ {
		recordPing(t, r, 1, fmt.Sprintf("loc-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	if r.Len() != 3 {
		t.Fatalf("len = %d, want 3", r.Len())
	}
	got, _ := r.Recent(context.Background(), 1, 10)
	if len(got) != 3 {
		t.Fatalf("recent len = %d", len(got))
	}
	if got[len(got)-1].Location != "loc-2" {
		t.Fatalf("oldest retained = %s, want loc-2", got[len(got)-1].Location)
	}
}

func TestMemoryRegistryIDsIncrease(t *testing.T) {
	r := NewMemoryRegistry(10)
	base := time.Now()
	prev := int64(0)
	for i := 0; i < 4; i++ {
		id := recordPing(t, r, 1, "x", base)
		if id <= prev {
			t.Fatalf("id %d not increasing after %d", id, prev)
		}
		prev = id
	}
}

func TestMemoryRegistryRecordCopiesInvitees(t *testing.T) {
	r := NewMemoryRegistry(10)
	invitees := []string{"Alex"}
	_, err := r.Record(context.Background(), &Ping{OrganizerID: 1, Invitees: invitees, SentAt: time.Now()})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	invitees[0] = "mutated"

	got, _ := r.Recent(context.Background(), 1, 1)
	if got[0].Invitees[0] != "Alex" {
		t.Fatalf("stored ping aliased caller slice: %v", got[0].Invitees)
	}
}
