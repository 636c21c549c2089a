package meetup

import (
	"strings"
	"testing"
	"time"
)

func samplePing() *Ping {
	return &Ping{
		ID:          1,
		OrganizerID: 10,
		Organizer:   "Dana",
		Kind:        KindLunch,
		Location:    "☕ Campus Café",
		Time:        "12:30",
		Invitees:    []string{"Alex", "Sam"},
		SentAt:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestPingHistoryLine(t *testing.T) {
	line := samplePing().HistoryLine()
	for _, want := range []string{"🍽️", "Lunch", "☕ Campus Café", "12:30", "Alex, Sam", "03/14 12:00", "Dana"} {
		if !strings.Contains(line, want) {
			t.Errorf("history line missing %q: %s", want, line)
		}
	}
}

func TestPingHistoryLineFlexibleAndEmpty(t *testing.T) {
	p := samplePing()
	p.Time = TimeFlexible
	p.Invitees = nil

	line := p.HistoryLine()
	if !strings.Contains(line, "Flexible time") {
		t.Errorf("missing flexible sentinel: %s", line)
	}
	if !strings.Contains(line, "no one") {
		t.Errorf("missing empty invitee marker: %s", line)
	}
}

func TestPingHistoryLineTruncatesFriends(t *testing.T) {
	p := samplePing()
	p.Invitees = []string{"Alexander", "Samantha", "Jordanson", "Cassandra", "Taylorlee"}

	line := p.HistoryLine()
	if !strings.Contains(line, "...") {
		t.Errorf("long friend list not truncated: %s", line)
	}
}

func TestPingShortSummary(t *testing.T) {
	got := samplePing().ShortSummary()
	want := "🍽️ Lunch at ☕ Campus Café (2 friends) - 03/14"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestPingOtherInvitees(t *testing.T) {
	p := samplePing()
	if got := p.OtherInvitees("Alex"); got != "Sam" {
		t.Errorf("others = %q", got)
	}
	p.Invitees = []string{"Alex"}
	if got := p.OtherInvitees("Alex"); got != "No other friends" {
		t.Errorf("others = %q", got)
	}
}
