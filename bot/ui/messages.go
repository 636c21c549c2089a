// Package ui renders meetup flow state into chat messages and keyboards.
package ui

import (
	"fmt"
	"strings"

	"github.com/unilinkup/bot/meetup"
)

const welcomeBody = `I'm your friendly campus meetup organizer! 🤖✨

*What I can help you with:*
🍽️ /lunch - Grab lunch with friends
📚 /study - Organize study sessions
📋 /recent - Check recent invitations
🆘 /help - Get help anytime

Ready to connect with your friends? Let's go! 🚀`

const (
	lunchPrompt = "🍽️ Awesome! Time for some good food and great company! 🍕\nWhere would you like to meet up?"
	studyPrompt = "📚 Perfect! Let's get those study vibes going! 📖✨\nWhere should we hit the books together?"

	// TimePrompt asks for a meeting time or an explicit skip.
	TimePrompt = "⏰ When would you like to meet?\n\nYou can specify a time (e.g., \"2:30 PM\", \"in 30 minutes\") or just press /skip to leave it flexible."

	friendsPrompt = "👥 Time to gather the squad! 🎉\nWho would you like to invite? Tap to select your friends:"

	// NoRecentPings is shown when the user has no history yet.
	NoRecentPings = "📭 No recent invitations yet! 🤔\nTime to be the social butterfly! Use /lunch or /study to get started! 🦋✨"

	recentPingsHeader = "📋 Recent Invitations:"

	// InvalidTime is shown when free-text time input is rejected.
	InvalidTime = "⚠️ Invalid time format. Please try again or use /skip."

	// GeneralError is the catch-all failure message.
	GeneralError = "😅 Oops! Something went wrong. Please try again."

	// SessionExpired is shown for stray events after cancel, confirm or sweep.
	SessionExpired = "⏱️ Session timed out. Please start over with a new command."

	// Cancelled acknowledges an explicit cancel.
	Cancelled = "❌ Meetup organization cancelled. Use /lunch or /study to start again!"

	// NothingToCancel is shown for /cancel without an active flow.
	NothingToCancel = "🤷 Nothing to cancel right now. Use /lunch or /study to start organizing!"

	// SkipOutsideTime is shown for /skip outside the time step.
	SkipOutsideTime = "⏭️ /skip only works while I'm asking for a time."
)

// Welcome personalizes the welcome message when a name is known.
func Welcome(name string) string {
	if strings.TrimSpace(name) == "" {
		return "🎓 Welcome to UniLinkUp!\n\n" + welcomeBody
	}
	return fmt.Sprintf("🎓 Welcome to UniLinkUp, %s!\n\n%s", name, welcomeBody)
}

// Help lists the available commands and flow.
func Help() string {
	return `🆘 *UniLinkUp Help*

*Available Commands:*
🍽️ /lunch - Organize a lunch meetup
📚 /study - Plan a study session
📋 /recent - View recent invitations
🆘 /help - Show this help message

*How it works:*
1. Choose a command to start organizing
2. Select a location from the options
3. Optionally set a time (or skip for flexible timing)
4. Select friends to invite
5. Confirm and send invitations!

*Tips:*
• You can cancel anytime by using the Cancel button
• Time is optional - skip it for flexible meetups
• Select multiple friends by tapping their names
• Recent invitations show the last 5 meetups

Need more help? Just start a new command and follow the prompts! 😊`
}

// MeetupPrompt opens the flow for the given kind.
func MeetupPrompt(kind meetup.Kind) string {
	switch kind {
	case meetup.KindLunch:
		return lunchPrompt
	case meetup.KindStudy:
		return studyPrompt
	}
	return fmt.Sprintf("Let's organize a %s meetup! Where would you like to meet?", kind)
}

// FriendsPrompt shows the selection prompt with the current count.
func FriendsPrompt(selected int) string {
	if selected == 0 {
		return friendsPrompt
	}
	plural := "s"
	if selected == 1 {
		plural = ""
	}
	return fmt.Sprintf("%s\n\n📊 Currently selected: %d friend%s", friendsPrompt, selected, plural)
}

// TimeDisplay substitutes the flexible sentinel for display.
func TimeDisplay(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return "Flexible time"
	}
	return t
}

// LocationSelected confirms the choice and asks for a time.
func LocationSelected(location string) string {
	return fmt.Sprintf("📍 Great choice! You selected: *%s*\n\n%s", location, TimePrompt)
}

// TimeSet confirms the time and moves on to friend selection.
func TimeSet(t string) string {
	return fmt.Sprintf("⏰ Time set: *%s*\n\n%s", TimeDisplay(t), friendsPrompt)
}

// FriendsUpdated reflects the selection after a toggle.
func FriendsUpdated(names []string) string {
	if len(names) == 0 {
		return "👥 No friends selected yet. Choose friends to invite:"
	}
	return fmt.Sprintf("👥 Selected friends: *%s*\n\nSelect more friends or confirm your selection:", strings.Join(names, ", "))
}

// Confirmation summarizes the meetup before sending.
func Confirmation(location, timeValue string, friends []string) string {
	friendsDisplay := strings.Join(friends, ", ")
	if friendsDisplay == "" {
		friendsDisplay = "No one yet"
	}
	return fmt.Sprintf(`✅ Perfect! Here's your meetup summary:

📍 Location: %s
⏰ Time: %s
👥 Friends: %s

Ready to send invitations?`, location, TimeDisplay(timeValue), friendsDisplay)
}

// InvitationSent celebrates a successful confirmation.
func InvitationSent(friends int) string {
	switch friends {
	case 0:
		return "🎉 Meetup saved! Invite friends next time to make it a party! ✨"
	case 1:
		return "🎉 Invitation sent successfully! Your friend has been notified."
	}
	return fmt.Sprintf("🎉 Invitations sent successfully! Your %d friends have been notified.", friends)
}

// InvitationNotification previews the message a friend would receive.
func InvitationNotification(p *meetup.Ping, recipient string) string {
	return fmt.Sprintf(`🔔 New %s invitation from %s!

📍 %s
⏰ %s
👥 Also invited: %s

Hope to see you there! 😊`,
		string(p.Kind), p.Organizer, p.Location, p.TimeDisplay(), p.OtherInvitees(recipient))
}

// RecentPings renders the history listing, newest first.
func RecentPings(pings []meetup.Ping) string {
	if len(pings) == 0 {
		return NoRecentPings
	}
	parts := []string{recentPingsHeader, ""}
	for i := range pings {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, pings[i].HistoryLine()), "")
	}
	return strings.TrimRight(strings.Join(parts, "\n"), "\n")
}
