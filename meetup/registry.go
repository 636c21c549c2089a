package meetup

import (
	"context"
	"sort"
	"sync"
)

// Registry is the append-only collection of finalized pings.
type Registry interface {
	// Record appends a finalized ping and returns its assigned id.
	// Called exactly once per successful confirmation.
	Record(ctx context.Context, p *Ping) (int64, error)
	// Recent returns up to limit pings organized by organizerID,
	// most-recent-first by sent time, ties broken by insertion order.
	// Unknown organizers yield an empty slice, not an error.
	Recent(ctx context.Context, organizerID int64, limit int) ([]Ping, error)
}

// MemoryRegistry keeps ping history in process memory, capped at maxHistory
// records with oldest-first eviction.
type MemoryRegistry struct {
	mu         sync.Mutex
	pings      []Ping
	nextID     int64
	maxHistory int
}

// NewMemoryRegistry creates a registry bounded to maxHistory records.
// A non-positive cap falls back to 100.
func NewMemoryRegistry(maxHistory int) *MemoryRegistry {
	if maxHistory <= 0 {
		maxHistory = 100
	}
	return &MemoryRegistry{nextID: 1, maxHistory: maxHistory}
}

// Record appends the ping, evicting the oldest record when the cap is hit.
func (r *MemoryRegistry) Record(_ context.Context, p *Ping) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *p
	stored.ID = r.nextID
	stored.Invitees = append([]string(nil), p.Invitees...)
	r.nextID++

	r.pings = append(r.pings, stored)
	if len(r.pings) > r.maxHistory {
		r.pings = r.pings[len(r.pings)-r.maxHistory:]
	}
	return stored.ID, nil
}

// Recent returns a fresh snapshot of up to limit pings for the organizer.
func (r *MemoryRegistry) Recent(_ context.Context, organizerID int64, limit int) ([]Ping, error) {
	if limit <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	matched := make([]Ping, 0, limit)
	// Walk in insertion order so the stable sort below keeps equal
	// timestamps oldest-inserted first.
	for i := range r.pings {
		if r.pings[i].OrganizerID != organizerID {
			continue
		}
		cp := r.pings[i]
		cp.Invitees = append([]string(nil), r.pings[i].Invitees...)
		matched = append(matched, cp)
	}
	r.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].SentAt.After(matched[j].SentAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Len reports the number of retained pings across all organizers.
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pings)
}
