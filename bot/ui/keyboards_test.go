package ui

import (
	"strings"
	"testing"

	"github.com/unilinkup/bot/meetup"
)

var testLocations = []meetup.Entry{
	{ID: "main_library", Name: "📚 Main Library"},
	{ID: "campus_cafe", Name: "☕ Campus Café"},
	{ID: "student_union", Name: "🍕 Student Union"},
}

var testFriends = []meetup.Entry{
	{ID: "alex", Name: "Alex"},
	{ID: "sam", Name: "Sam"},
	{ID: "jordan", Name: "Jordan"},
	{ID: "casey", Name: "Casey"},
}

func TestLocationKeyboardLayout(t *testing.T) {
	markup := LocationKeyboard(testLocations)
	rows := markup.InlineKeyboard
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if len(rows[0]) != 2 || len(rows[1]) != 1 {
		t.Fatalf("row sizes = %d, %d", len(rows[0]), len(rows[1]))
	}
	first := rows[0][0]
	if first.Text != "📚 Main Library" {
		t.Errorf("text = %q", first.Text)
	}
	if first.Unique != CallbackLocation || first.Data != "main_library" {
		t.Errorf("unique = %q, data = %q", first.Unique, first.Data)
	}
}

func TestFriendsKeyboardMarksSelection(t *testing.T) {
	sess := meetup.Session{Invitees: []string{"sam"}}
	markup := FriendsKeyboard(testFriends, sess)
	rows := markup.InlineKeyboard

	// 4 friends at 2 per row plus the action row.
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	var selected, unselected int
	for _, row := range rows[:2] {
		for _, btn := range row {
			switch {
			case strings.HasPrefix(btn.Text, "✅ "):
				selected++
				if btn.Text != "✅ Sam" {
					t.Errorf("wrong friend marked: %q", btn.Text)
				}
			case strings.HasPrefix(btn.Text, "⬜ "):
				unselected++
			}
		}
	}
	if selected != 1 || unselected != 3 {
		t.Fatalf("marks = %d selected, %d unselected", selected, unselected)
	}

	action := rows[len(rows)-1]
	if len(action) != 2 {
		t.Fatalf("action row = %d buttons", len(action))
	}
	if action[0].Data != ConfirmYes || action[1].Data != ConfirmCancel {
		t.Errorf("action data = %q, %q", action[0].Data, action[1].Data)
	}
}

func TestFriendsKeyboardConfirmAlwaysPresent(t *testing.T) {
	markup := FriendsKeyboard(testFriends, meetup.Session{})
	rows := markup.InlineKeyboard
	action := rows[len(rows)-1]
	if action[0].Text != "✅ Confirm Selection" {
		t.Errorf("confirm missing with zero selection: %q", action[0].Text)
	}
}

func TestConfirmationKeyboard(t *testing.T) {
	markup := ConfirmationKeyboard()
	rows := markup.InlineKeyboard
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("layout = %v", rows)
	}
	if rows[0][0].Data != ConfirmSend || rows[0][0].Unique != CallbackConfirm {
		t.Errorf("send button = %q %q", rows[0][0].Unique, rows[0][0].Data)
	}
}

func TestTimeSkipKeyboard(t *testing.T) {
	markup := TimeSkipKeyboard()
	rows := markup.InlineKeyboard
	if len(rows) != 1 || len(rows[0]) != 1 {
		t.Fatalf("layout = %v", rows)
	}
	if rows[0][0].Unique != CallbackTime || rows[0][0].Data != TimeSkip {
		t.Errorf("button = %q %q", rows[0][0].Unique, rows[0][0].Data)
	}
}
