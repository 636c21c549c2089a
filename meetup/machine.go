package meetup

import (
	"context"
	"fmt"
	"time"

	"github.com/unilinkup/bot/core/logger"
	"log/slog"
)

// Outcome names the observable effect of a successfully applied event.
type Outcome string

const (
	OutcomeStarted       Outcome = "started"
	OutcomeLocationSet   Outcome = "location_set"
	OutcomeTimeSet       Outcome = "time_set"
	OutcomeTimeFlexible  Outcome = "time_flexible"
	OutcomeFriendToggled Outcome = "friend_toggled"
	OutcomeFriendsDone   Outcome = "friends_done"
	OutcomeConfirmed     Outcome = "confirmed"
	OutcomeCancelled     Outcome = "cancelled"
)

// Result is what the presentation layer renders after an event: the session
// snapshot for re-prompting, plus the finalized Ping on confirmation.
type Result struct {
	Outcome Outcome
	Session Session
	// Ping is set only on OutcomeConfirmed.
	Ping *Ping
	// Added reports toggle direction on OutcomeFriendToggled.
	Added bool
}

// Machine drives per-user sessions through location -> time -> friends ->
// confirm, validating input against the fixed catalogs. Every event either
// applies atomically (one field mutates, state advances) or leaves the
// session untouched and returns a recoverable error.
type Machine struct {
	store     *Store
	registry  Registry
	locations *Catalog
	friends   *Catalog
	now       func() time.Time
}

// NewMachine wires the state machine to its store, registry and catalogs.
func NewMachine(store *Store, registry Registry, locations, friends *Catalog) *Machine {
	return &Machine{
		store:     store,
		registry:  registry,
		locations: locations,
		friends:   friends,
		now:       time.Now,
	}
}

// Store exposes the underlying session store for routing decisions.
func (m *Machine) Store() *Store { return m.store }

// Apply processes one event for the user. Events for the same user are
// serialized; different users proceed concurrently.
func (m *Machine) Apply(ctx context.Context, userID int64, ev Event) (Result, error) {
	unlock := m.store.LockUser(userID)
	defer unlock()

	if start, ok := ev.(StartMeetup); ok {
		return m.applyStart(ctx, userID, start)
	}

	sess, ok := m.store.Get(userID)
	if !ok {
		return Result{}, ErrNoActiveSession
	}

	var (
		res Result
		err error
	)
	switch e := ev.(type) {
	case Cancel:
		res, err = m.applyCancel(ctx, sess)
	case SelectLocation:
		res, err = m.applyLocation(sess, e)
	case SelectTime:
		res, err = m.applyTime(sess, e.Value, OutcomeTimeSet)
	case SkipTime:
		res, err = m.applyTime(sess, TimeFlexible, OutcomeTimeFlexible)
	case ToggleFriend:
		res, err = m.applyToggle(sess, e)
	case DoneFriends:
		res, err = m.applyDone(sess)
	case Confirm:
		res, err = m.applyConfirm(ctx, sess)
	default:
		err = fmt.Errorf("%w: unsupported event %T", ErrInvalidInput, ev)
	}
	if err != nil {
		return Result{}, err
	}

	logger.LogEvent(ctx, logger.Flow, slog.LevelDebug, "flow.transition",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("outcome", string(res.Outcome)),
		slog.String("state", string(res.Session.State)),
	)
	return res, nil
}

func (m *Machine) applyStart(ctx context.Context, userID int64, ev StartMeetup) (Result, error) {
	if !ev.Kind.Valid() {
		return Result{}, fmt.Errorf("%w: unknown meetup kind %q", ErrInvalidInput, ev.Kind)
	}
	// A new organize command silently replaces any in-flight session.
	sess := m.store.Replace(userID, ev.Organizer, ev.Kind)
	logger.LogEvent(ctx, logger.Flow, slog.LevelInfo, "flow.started",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("kind", string(ev.Kind)),
	)
	return Result{Outcome: OutcomeStarted, Session: sess.snapshot()}, nil
}

func (m *Machine) applyCancel(ctx context.Context, sess *Session) (Result, error) {
	snap := sess.snapshot()
	m.store.Clear(sess.UserID)
	logger.LogEvent(ctx, logger.Flow, slog.LevelInfo, "flow.cancelled",
		slog.String("status", "ok"),
		slog.Int64("user_id", sess.UserID),
		slog.String("state", string(snap.State)),
	)
	return Result{Outcome: OutcomeCancelled, Session: snap}, nil
}

func (m *Machine) applyLocation(sess *Session, ev SelectLocation) (Result, error) {
	if sess.State != StateLocation {
		return Result{}, fmt.Errorf("%w: location selection in step %s", ErrInvalidInput, sess.State)
	}
	entry, ok := m.locations.Lookup(ev.ID)
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown location %q", ErrInvalidInput, ev.ID)
	}
	sess.Location = entry.Name
	sess.State = StateTime
	sess.LastActivity = m.now()
	return Result{Outcome: OutcomeLocationSet, Session: sess.snapshot()}, nil
}

func (m *Machine) applyTime(sess *Session, value string, outcome Outcome) (Result, error) {
	if sess.State != StateTime {
		return Result{}, fmt.Errorf("%w: time selection in step %s", ErrInvalidInput, sess.State)
	}
	if outcome == OutcomeTimeSet && !ValidTimeText(value) {
		return Result{}, fmt.Errorf("%w: unrecognized time %q", ErrInvalidInput, value)
	}
	sess.Time = value
	sess.State = StateFriends
	sess.LastActivity = m.now()
	return Result{Outcome: outcome, Session: sess.snapshot()}, nil
}

func (m *Machine) applyToggle(sess *Session, ev ToggleFriend) (Result, error) {
	if sess.State != StateFriends {
		return Result{}, fmt.Errorf("%w: friend toggle in step %s", ErrInvalidInput, sess.State)
	}
	if _, ok := m.friends.Lookup(ev.ID); !ok {
		return Result{}, fmt.Errorf("%w: unknown friend %q", ErrInvalidInput, ev.ID)
	}
	added := sess.toggleInvitee(ev.ID)
	sess.LastActivity = m.now()
	return Result{Outcome: OutcomeFriendToggled, Session: sess.snapshot(), Added: added}, nil
}

func (m *Machine) applyDone(sess *Session) (Result, error) {
	if sess.State != StateFriends {
		return Result{}, fmt.Errorf("%w: done signal in step %s", ErrInvalidInput, sess.State)
	}
	// Zero invitees is allowed; the user may confirm without selecting anyone.
	sess.State = StateConfirm
	sess.LastActivity = m.now()
	return Result{Outcome: OutcomeFriendsDone, Session: sess.snapshot()}, nil
}

func (m *Machine) applyConfirm(ctx context.Context, sess *Session) (Result, error) {
	if sess.State != StateConfirm {
		return Result{}, fmt.Errorf("%w: confirm in step %s", ErrInvalidInput, sess.State)
	}

	ping := &Ping{
		OrganizerID: sess.UserID,
		Organizer:   sess.Organizer,
		Kind:        sess.Kind,
		Location:    sess.Location,
		Time:        sess.Time,
		Invitees:    m.inviteeNames(sess.Invitees),
		SentAt:      m.now(),
	}

	// Record and clear together under the user lock; if the registry fails
	// the session stays intact and confirm may be retried.
	id, err := m.registry.Record(ctx, ping)
	if err != nil {
		logger.LogEvent(ctx, logger.Pings, slog.LevelError, "ping.record",
			slog.String("status", "fail"),
			slog.Int64("user_id", sess.UserID),
			slog.String("err", err.Error()),
		)
		return Result{}, fmt.Errorf("record ping: %w", err)
	}
	ping.ID = id

	snap := sess.snapshot()
	m.store.Clear(sess.UserID)

	logger.LogEvent(ctx, logger.Pings, slog.LevelInfo, "ping.recorded",
		slog.String("status", "ok"),
		slog.Int64("user_id", sess.UserID),
		slog.Int64("ping_id", id),
		slog.String("kind", string(ping.Kind)),
		slog.Int("invitees", len(ping.Invitees)),
	)
	return Result{Outcome: OutcomeConfirmed, Session: snap, Ping: ping}, nil
}

func (m *Machine) inviteeNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if entry, ok := m.friends.Lookup(id); ok {
			names = append(names, entry.Name)
		}
	}
	return names
}
