// Package bot maps Telegram commands and callbacks onto meetup flow events.
package bot

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/unilinkup/bot/bot/ui"
	"github.com/unilinkup/bot/core/logger"
	tg "github.com/unilinkup/bot/core/telegram"
	"github.com/unilinkup/bot/core/telegram/callbacks"
	"github.com/unilinkup/bot/core/telegram/commands"
	"github.com/unilinkup/bot/core/telegram/format"
	tghelpers "github.com/unilinkup/bot/core/telegram/helpers"
	"github.com/unilinkup/bot/meetup"
	"log/slog"
)

const (
	maxRecentPings           = 5
	notificationPreviewLimit = 3
)

// Handlers binds the meetup machine and ping registry to Telegram updates.
type Handlers struct {
	machine   *meetup.Machine
	registry  meetup.Registry
	locations *meetup.Catalog
	friends   *meetup.Catalog
}

// NewHandlers wires the handler set.
func NewHandlers(machine *meetup.Machine, registry meetup.Registry, locations, friends *meetup.Catalog) *Handlers {
	return &Handlers{
		machine:   machine,
		registry:  registry,
		locations: locations,
		friends:   friends,
	}
}

// Register installs all commands and callbacks into the registry.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.startCommand,
		Description: "Welcome and command overview",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     h.helpCommand,
		Description: "How the bot works",
	})
	reg.RegisterCommand("/lunch", commands.Command{
		Handler:     h.kindCommand(meetup.KindLunch),
		Description: "Organize a lunch meetup",
	})
	reg.RegisterCommand("/study", commands.Command{
		Handler:     h.kindCommand(meetup.KindStudy),
		Description: "Plan a study session",
	})
	reg.RegisterCommand("/recent", commands.Command{
		Handler:     h.recentCommand,
		Description: "View recent invitations",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.cancelCommand,
		Description: "Cancel the current meetup flow",
	})
	reg.RegisterCommand("/skip", commands.Command{
		Handler:     h.skipCommand,
		Description: "Skip time selection (flexible time)",
		Hidden:      true,
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.statsCommand,
		Description: "Bot statistics",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(ui.CallbackLocation, h.locationCallback)
	_ = reg.RegisterCallback(ui.CallbackTime, h.timeCallback)
	_ = reg.RegisterCallback(ui.CallbackFriend, h.friendCallback)
	_ = reg.RegisterCallback(ui.CallbackConfirm, h.confirmCallback)

	reg.SetTextFallback(h.unknownText)
}

// Active implements the router's conversation check: free text is routed to
// HandleText only while the user has a session in progress.
func (h *Handlers) Active(userID int64) bool {
	return h.machine.Store().Active(userID)
}

// HandleText consumes free-text input for an active session. Only the time
// step accepts text; other steps get their keyboard re-sent.
func (h *Handlers) HandleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, ok := h.machine.Store().Peek(userID)
	if !ok {
		return tghelpers.SendText(c, ui.SessionExpired)
	}

	switch sess.State {
	case meetup.StateTime:
		res, err := h.machine.Apply(ctx, userID, meetup.SelectTime{Value: strings.TrimSpace(c.Text())})
		if err != nil {
			if errors.Is(err, meetup.ErrInvalidInput) {
				return tghelpers.SendText(c, ui.InvalidTime)
			}
			return h.replyFlowError(c, err)
		}
		return tghelpers.SendMD(c, ui.TimeSet(res.Session.Time), ui.FriendsKeyboard(h.friends.Entries(), res.Session))
	case meetup.StateLocation:
		return tghelpers.SendMD(c, ui.MeetupPrompt(sess.Kind), ui.LocationKeyboard(h.locations.Entries()))
	case meetup.StateFriends:
		return tghelpers.SendMD(c, ui.FriendsPrompt(len(sess.Invitees)), ui.FriendsKeyboard(h.friends.Entries(), sess))
	case meetup.StateConfirm:
		return tghelpers.SendMD(c, ui.Confirmation(sess.Location, sess.Time, h.inviteeNames(sess)), ui.ConfirmationKeyboard())
	}
	return tghelpers.SendText(c, ui.GeneralError)
}

func (h *Handlers) startCommand(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	if h.machine.Store().Active(userID) {
		// /start abandons any in-flight meetup.
		_, _ = h.machine.Apply(ctx, userID, meetup.Cancel{})
	}
	return tghelpers.SendMD(c, ui.Welcome(senderName(c)))
}

func (h *Handlers) helpCommand(c tele.Context) error {
	return tghelpers.SendMD(c, ui.Help())
}

func (h *Handlers) kindCommand(kind meetup.Kind) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		res, err := h.machine.Apply(ctx, c.Sender().ID, meetup.StartMeetup{
			Kind:      kind,
			Organizer: senderName(c),
		})
		if err != nil {
			return h.replyFlowError(c, err)
		}
		return tghelpers.SendMD(c, ui.MeetupPrompt(res.Session.Kind), ui.LocationKeyboard(h.locations.Entries()))
	}
}

func (h *Handlers) recentCommand(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	pings, err := h.registry.Recent(ctx, c.Sender().ID, maxRecentPings)
	if err != nil {
		logger.LogEvent(ctx, logger.Pings, slog.LevelError, "ping.recent",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, ui.GeneralError)
	}
	return tghelpers.SendMD(c, ui.RecentPings(pings))
}

func (h *Handlers) cancelCommand(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	_, err := h.machine.Apply(ctx, c.Sender().ID, meetup.Cancel{})
	if err != nil {
		if errors.Is(err, meetup.ErrNoActiveSession) {
			return tghelpers.SendText(c, ui.NothingToCancel)
		}
		return h.replyFlowError(c, err)
	}
	return tghelpers.SendText(c, ui.Cancelled)
}

func (h *Handlers) skipCommand(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	res, err := h.machine.Apply(ctx, c.Sender().ID, meetup.SkipTime{})
	if err != nil {
		if errors.Is(err, meetup.ErrNoActiveSession) || errors.Is(err, meetup.ErrInvalidInput) {
			return tghelpers.SendText(c, ui.SkipOutsideTime)
		}
		return h.replyFlowError(c, err)
	}
	return tghelpers.SendMD(c, ui.TimeSet(res.Session.Time), ui.FriendsKeyboard(h.friends.Entries(), res.Session))
}

func (h *Handlers) statsCommand(c tele.Context) error {
	msg := fmt.Sprintf("📊 Active sessions: %d", h.machine.Store().Len())
	if mem, ok := h.registry.(*meetup.MemoryRegistry); ok {
		msg += fmt.Sprintf("\n📌 Retained pings: %d", mem.Len())
	}
	return tghelpers.SendText(c, msg)
}

func (h *Handlers) locationCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	res, err := h.machine.Apply(ctx, c.Sender().ID, meetup.SelectLocation{ID: callbacks.CallbackPayload(c)})
	if err != nil {
		return h.replyFlowError(c, err)
	}
	return tghelpers.EditOrSendMD(c, ui.LocationSelected(res.Session.Location), ui.TimeSkipKeyboard())
}

func (h *Handlers) timeCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if callbacks.CallbackPayload(c) != ui.TimeSkip {
		return h.replyFlowError(c, fmt.Errorf("%w: unknown time action", meetup.ErrInvalidInput))
	}
	res, err := h.machine.Apply(ctx, c.Sender().ID, meetup.SkipTime{})
	if err != nil {
		return h.replyFlowError(c, err)
	}
	return tghelpers.EditOrSendMD(c, ui.TimeSet(res.Session.Time), ui.FriendsKeyboard(h.friends.Entries(), res.Session))
}

func (h *Handlers) friendCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	res, err := h.machine.Apply(ctx, c.Sender().ID, meetup.ToggleFriend{ID: callbacks.CallbackPayload(c)})
	if err != nil {
		return h.replyFlowError(c, err)
	}
	return tghelpers.EditOrSendMD(c, ui.FriendsUpdated(h.inviteeNames(res.Session)), ui.FriendsKeyboard(h.friends.Entries(), res.Session))
}

func (h *Handlers) confirmCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	switch callbacks.CallbackPayload(c) {
	case ui.ConfirmYes:
		res, err := h.machine.Apply(ctx, userID, meetup.DoneFriends{})
		if err != nil {
			return h.replyFlowError(c, err)
		}
		return tghelpers.EditOrSendMD(c, ui.Confirmation(res.Session.Location, res.Session.Time, h.inviteeNames(res.Session)), ui.ConfirmationKeyboard())
	case ui.ConfirmSend:
		res, err := h.machine.Apply(ctx, userID, meetup.Confirm{})
		if err != nil {
			return h.replyFlowError(c, err)
		}
		if err := tghelpers.EditOrSendMD(c, ui.InvitationSent(len(res.Ping.Invitees))); err != nil {
			return err
		}
		return h.previewNotifications(c, res.Ping)
	case ui.ConfirmCancel:
		_, err := h.machine.Apply(ctx, userID, meetup.Cancel{})
		if err != nil {
			return h.replyFlowError(c, err)
		}
		return tghelpers.EditOrSendMD(c, ui.Cancelled)
	}
	return h.replyFlowError(c, fmt.Errorf("%w: unknown confirm action", meetup.ErrInvalidInput))
}

// previewNotifications simulates delivery by echoing the first few friend
// notifications back to the organizer. Real delivery is out of scope.
func (h *Handlers) previewNotifications(c tele.Context, p *meetup.Ping) error {
	for i, name := range p.Invitees {
		if i >= notificationPreviewLimit {
			break
		}
		if err := tghelpers.SendMD(c, ui.InvitationNotification(p, name)); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) unknownText(c tele.Context) error {
	return tghelpers.SendMD(c, ui.Help())
}

func (h *Handlers) replyFlowError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, meetup.ErrNoActiveSession):
		return tghelpers.SendText(c, ui.SessionExpired)
	case errors.Is(err, meetup.ErrInvalidInput):
		return tghelpers.SendText(c, ui.GeneralError)
	}
	ctx := tghelpers.BuildContext(c)
	logger.LogEvent(ctx, logger.Flow, slog.LevelError, "flow.apply",
		slog.String("status", "fail"),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	return tghelpers.SendText(c, ui.GeneralError)
}

func (h *Handlers) inviteeNames(sess meetup.Session) []string {
	names := make([]string, 0, len(sess.Invitees))
	for _, id := range sess.Invitees {
		if e, ok := h.friends.Lookup(id); ok {
			names = append(names, e.Name)
		}
	}
	return names
}

// senderName resolves a display name for the transport user, escaped for the
// Markdown parse mode used by the reply helpers.
func senderName(c tele.Context) string {
	user := c.Sender()
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(user.FirstName)
	if name == "" {
		name = strings.TrimSpace(user.Username)
	}
	escaped, err := format.EscapeMarkdown(name, format.MarkdownV1)
	if err != nil {
		return name
	}
	return escaped
}
