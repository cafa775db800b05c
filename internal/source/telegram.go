package source

import (
	"context"
	"fmt"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"

	"outage-reminder/internal/model"
)

// CodePrompt asks the user for the login code Telegram sent them.
type CodePrompt func(ctx context.Context) (string, error)

// TelegramSource fetches channel history over MTProto the way a regular
// user client does. Bot API tokens cannot read channel history, so this
// needs user API credentials and a one-time phone login; the session is
// persisted so later runs skip the prompt.
type TelegramSource struct {
	apiID       int
	apiHash     string
	phone       string
	sessionPath string
	code        CodePrompt
}

// NewTelegram creates a Telegram channel source.
func NewTelegram(apiID int, apiHash, phone, sessionPath string, code CodePrompt) *TelegramSource {
	return &TelegramSource{
		apiID:       apiID,
		apiHash:     apiHash,
		phone:       phone,
		sessionPath: sessionPath,
		code:        code,
	}
}

func (s *TelegramSource) Name() string {
	return "telegram"
}

// Fetch returns up to limit text messages from the channel, newest first
// (the API's native history order).
func (s *TelegramSource) Fetch(ctx context.Context, channel string, limit int) ([]model.RawMessage, error) {
	client := telegram.NewClient(s.apiID, s.apiHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: s.sessionPath},
	})

	var messages []model.RawMessage
	err := client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(
			auth.Constant(s.phone, "", auth.CodeAuthenticatorFunc(
				func(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
					return s.code(ctx)
				})),
			auth.SendCodeOptions{},
		)
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}

		api := client.API()

		resolved, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
			Username: normalizeChannel(channel),
		})
		if err != nil {
			return fmt.Errorf("resolving channel %q: %w", channel, err)
		}

		var peer tg.InputPeerClass
		for _, chat := range resolved.Chats {
			if ch, ok := chat.(*tg.Channel); ok {
				peer = &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}
				break
			}
		}
		if peer == nil {
			return fmt.Errorf("%q did not resolve to a channel", channel)
		}

		history, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
			Peer:  peer,
			Limit: limit,
		})
		if err != nil {
			return fmt.Errorf("fetching history: %w", err)
		}

		messages = collectMessages(history)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// collectMessages flattens a history response into raw messages,
// dropping service messages and messages without text.
func collectMessages(history tg.MessagesMessagesClass) []model.RawMessage {
	var raw []tg.MessageClass
	switch h := history.(type) {
	case *tg.MessagesChannelMessages:
		raw = h.Messages
	case *tg.MessagesMessagesSlice:
		raw = h.Messages
	case *tg.MessagesMessages:
		raw = h.Messages
	}

	var out []model.RawMessage
	for _, m := range raw {
		msg, ok := m.(*tg.Message)
		if !ok || msg.Message == "" {
			continue
		}
		out = append(out, model.RawMessage{
			ID:        msg.ID,
			Timestamp: time.Unix(int64(msg.Date), 0).UTC(),
			Text:      msg.Message,
		})
	}
	return out
}
