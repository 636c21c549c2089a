package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/unilinkup/bot/meetup"
)

func TestWelcomePersonalization(t *testing.T) {
	if got := Welcome("Dana"); !strings.Contains(got, "Welcome to UniLinkUp, Dana!") {
		t.Errorf("personalized welcome missing name: %s", got)
	}
	if got := Welcome(""); !strings.Contains(got, "Welcome to UniLinkUp!") {
		t.Errorf("anonymous welcome wrong: %s", got)
	}
}

func TestMeetupPrompt(t *testing.T) {
	if got := MeetupPrompt(meetup.KindLunch); !strings.Contains(got, "food") {
		t.Errorf("lunch prompt = %s", got)
	}
	if got := MeetupPrompt(meetup.KindStudy); !strings.Contains(got, "study") {
		t.Errorf("study prompt = %s", got)
	}
}

func TestFriendsPromptCount(t *testing.T) {
	if got := FriendsPrompt(0); strings.Contains(got, "Currently selected") {
		t.Errorf("zero count should omit tally: %s", got)
	}
	if got := FriendsPrompt(1); !strings.Contains(got, "1 friend") || strings.Contains(got, "1 friends") {
		t.Errorf("singular: %s", got)
	}
	if got := FriendsPrompt(3); !strings.Contains(got, "3 friends") {
		t.Errorf("plural: %s", got)
	}
}

func TestTimeDisplayFlexibleSentinel(t *testing.T) {
	if got := TimeDisplay(""); got != "Flexible time" {
		t.Errorf("empty = %q", got)
	}
	if got := TimeDisplay("  12:30 "); got != "12:30" {
		t.Errorf("trimmed = %q", got)
	}
}

func TestConfirmationSummary(t *testing.T) {
	got := Confirmation("☕ Campus Café", "12:30", []string{"Alex", "Sam"})
	for _, want := range []string{"☕ Campus Café", "12:30", "Alex, Sam", "Ready to send"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q: %s", want, got)
		}
	}

	empty := Confirmation("📚 Main Library", "", nil)
	if !strings.Contains(empty, "Flexible time") || !strings.Contains(empty, "No one yet") {
		t.Errorf("empty summary = %s", empty)
	}
}

func TestInvitationSentGrammar(t *testing.T) {
	if got := InvitationSent(0); !strings.Contains(got, "Meetup saved") {
		t.Errorf("zero = %s", got)
	}
	if got := InvitationSent(1); !strings.Contains(got, "Your friend") {
		t.Errorf("one = %s", got)
	}
	if got := InvitationSent(4); !strings.Contains(got, "Your 4 friends") {
		t.Errorf("many = %s", got)
	}
}

func TestInvitationNotification(t *testing.T) {
	p := &meetup.Ping{
		Organizer: "Dana",
		Kind:      meetup.KindLunch,
		Location:  "🍔 Food Court",
		Time:      "",
		Invitees:  []string{"Alex", "Sam", "Jordan"},
	}
	got := InvitationNotification(p, "Sam")
	if !strings.Contains(got, "lunch invitation from Dana") {
		t.Errorf("header: %s", got)
	}
	if !strings.Contains(got, "Also invited: Alex, Jordan") {
		t.Errorf("others: %s", got)
	}
	if strings.Contains(got, "Also invited: Alex, Sam") {
		t.Errorf("recipient leaked into others: %s", got)
	}
}

func TestRecentPingsListing(t *testing.T) {
	if got := RecentPings(nil); got != NoRecentPings {
		t.Errorf("empty history = %s", got)
	}

	pings := []meetup.Ping{
		{Organizer: "Dana", Kind: meetup.KindLunch, Location: "A", SentAt: time.Now()},
		{Organizer: "Dana", Kind: meetup.KindStudy, Location: "B", SentAt: time.Now()},
	}
	got := RecentPings(pings)
	if !strings.Contains(got, "Recent Invitations") {
		t.Errorf("header: %s", got)
	}
	if !strings.Contains(got, "1. ") || !strings.Contains(got, "2. ") {
		t.Errorf("numbering: %s", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("trailing newline not trimmed")
	}
}
