package meetup

import (
	"fmt"
	"strings"
	"time"
)

// Ping is a finalized meetup invitation. Immutable once recorded.
type Ping struct {
	ID          int64
	OrganizerID int64
	Organizer   string
	Kind        Kind
	Location    string
	Time        string
	Invitees    []string // display names, frozen at confirmation
	SentAt      time.Time
}

// TimeDisplay renders the time field, substituting the flexible sentinel.
func (p *Ping) TimeDisplay() string {
	if p.Time == TimeFlexible {
		return "Flexible time"
	}
	return p.Time
}

// HistoryLine formats the ping for the recent-history listing.
func (p *Ping) HistoryLine() string {
	friends := strings.Join(p.Invitees, ", ")
	if len(friends) > 30 {
		friends = friends[:27] + "..."
	}
	if friends == "" {
		friends = "no one"
	}
	return fmt.Sprintf("%s %s - %s\n⏰ %s | 👥 %s\n📅 %s by %s",
		p.Kind.Emoji(), p.Kind.Title(), p.Location,
		p.TimeDisplay(), friends,
		p.SentAt.Format("01/02 15:04"), p.Organizer,
	)
}

// ShortSummary returns a one-line summary of the ping.
func (p *Ping) ShortSummary() string {
	return fmt.Sprintf("%s %s at %s (%d friends) - %s",
		p.Kind.Emoji(), p.Kind.Title(), p.Location,
		len(p.Invitees), p.SentAt.Format("01/02"),
	)
}

// OtherInvitees lists invited friends excluding one, for the simulated
// per-friend notification preview.
func (p *Ping) OtherInvitees(exclude string) string {
	others := make([]string, 0, len(p.Invitees))
	for _, f := range p.Invitees {
		if f != exclude {
			others = append(others, f)
		}
	}
	if len(others) == 0 {
		return "No other friends"
	}
	return strings.Join(others, ", ")
}
