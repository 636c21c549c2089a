package meetup

import "time"

// Kind identifies the type of meetup being organized.
type Kind string

const (
	KindLunch Kind = "lunch"
	KindStudy Kind = "study"
)

// Emoji returns the display emoji for the kind.
func (k Kind) Emoji() string {
	if k == KindStudy {
		return "📚"
	}
	return "🍽️"
}

// Title returns the capitalized display form of the kind.
func (k Kind) Title() string {
	switch k {
	case KindLunch:
		return "Lunch"
	case KindStudy:
		return "Study"
	}
	return string(k)
}

// Valid reports whether k is a known meetup kind.
func (k Kind) Valid() bool {
	return k == KindLunch || k == KindStudy
}

// State is the conversation step the session is waiting on.
type State string

const (
	StateLocation State = "location"
	StateTime     State = "time"
	StateFriends  State = "friends"
	StateConfirm  State = "confirm"
)

// TimeFlexible is the sentinel stored when the user skips time selection.
const TimeFlexible = ""

// Session is one user's in-flight meetup organization. It is owned by the
// Store and mutated only by the Machine under the per-user lock.
type Session struct {
	UserID    int64
	Organizer string
	Kind      Kind
	State     State

	Location string
	Time     string
	Invitees []string // catalog ids in selection order

	CreatedAt    time.Time
	LastActivity time.Time
}

// HasInvitee reports whether the friend id is currently selected.
func (s *Session) HasInvitee(id string) bool {
	for _, v := range s.Invitees {
		if v == id {
			return true
		}
	}
	return false
}

// toggleInvitee adds id if absent or removes it if present. Reports whether
// the id is selected after the call.
func (s *Session) toggleInvitee(id string) bool {
	for i, v := range s.Invitees {
		if v == id {
			s.Invitees = append(s.Invitees[:i], s.Invitees[i+1:]...)
			return false
		}
	}
	s.Invitees = append(s.Invitees, id)
	return true
}

// snapshot returns a deep copy safe to hand outside the user lock.
func (s *Session) snapshot() Session {
	cp := *s
	cp.Invitees = append([]string(nil), s.Invitees...)
	return cp
}
