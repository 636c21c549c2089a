package ui

import (
	tele "gopkg.in/telebot.v4"

	"github.com/unilinkup/bot/core/telegram/keyboard"
	"github.com/unilinkup/bot/meetup"
)

// Callback uniques used by the inline keyboards. The payload after '|'
// carries the catalog id or action.
const (
	CallbackLocation = "loc"
	CallbackTime     = "time"
	CallbackFriend   = "friend"
	CallbackConfirm  = "confirm"
)

// Confirm callback payloads.
const (
	ConfirmYes    = "yes"
	ConfirmSend   = "send"
	ConfirmCancel = "cancel"
)

// TimeSkip is the payload for the flexible-time button.
const TimeSkip = "skip"

const buttonsPerRow = 2

// LocationKeyboard lays out the location catalog two per row.
func LocationKeyboard(locations []meetup.Entry) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(locations))
	for _, e := range locations {
		buttons = append(buttons, keyboard.InlineBtn{Text: e.Name, Unique: CallbackLocation, Data: e.ID})
	}
	return keyboard.InlineButtonsNPerRow(buttons, buttonsPerRow)
}

// TimeSkipKeyboard offers skipping straight to flexible time.
func TimeSkipKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "⏭️ Skip (Flexible Time)", Unique: CallbackTime, Data: TimeSkip},
	})
}

// FriendsKeyboard lays out the friend catalog with selection marks plus a
// confirm/cancel action row. Confirm is always offered; proceeding with
// zero invitees is a valid choice.
func FriendsKeyboard(friends []meetup.Entry, sess meetup.Session) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	buttons := make([]tele.Btn, 0, len(friends))
	for _, e := range friends {
		mark := "⬜"
		if sess.HasInvitee(e.ID) {
			mark = "✅"
		}
		buttons = append(buttons, markup.Data(mark+" "+e.Name, CallbackFriend, e.ID))
	}

	rows := keyboard.ChunkButtons(buttons, buttonsPerRow)
	rows = append(rows, []tele.Btn{
		markup.Data("✅ Confirm Selection", CallbackConfirm, ConfirmYes),
		markup.Data("❌ Cancel", CallbackConfirm, ConfirmCancel),
	})
	markup.InlineKeyboard = keyboard.ToInlineKeyboard(rows)
	return markup
}

// ConfirmationKeyboard is the final send/cancel row.
func ConfirmationKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := [][]tele.Btn{{
		markup.Data("✅ Send Invitations", CallbackConfirm, ConfirmSend),
		markup.Data("❌ Cancel", CallbackConfirm, ConfirmCancel),
	}}
	markup.InlineKeyboard = keyboard.ToInlineKeyboard(rows)
	return markup
}
