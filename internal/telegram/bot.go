// Package telegram runs the appointment dialog as a Telegram bot.
// Each chat gets its own isolated session.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"dentalcare/internal/conversation"
	"dentalcare/internal/renderer"
)

type telegramClient interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type realTelegramClient struct {
	api *tgbotapi.BotAPI
}

func (c *realTelegramClient) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	return c.api.Send(msg)
}

func (c *realTelegramClient) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.api.GetUpdatesChan(cfg)
}

// Bot is a thin Telegram wrapper around the conversation engine.
type Bot struct {
	tg     telegramClient
	engine *conversation.Engine
	store  conversation.Store
	logger *zerolog.Logger
}

// New creates a bot from a token.
func New(token string, debug bool, engine *conversation.Engine, store conversation.Store, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	return newBot(&realTelegramClient{api: api}, engine, store, logger)
}

// NewWithTelegramClient allows injecting a mocked Telegram client for tests.
func NewWithTelegramClient(tg telegramClient, engine *conversation.Engine, store conversation.Store, logger *zerolog.Logger) (*Bot, error) {
	return newBot(tg, engine, store, logger)
}

func newBot(tg telegramClient, engine *conversation.Engine, store conversation.Store, logger *zerolog.Logger) (*Bot, error) {
	if tg == nil {
		return nil, fmt.Errorf("telegram client is nil")
	}
	return &Bot{tg: tg, engine: engine, store: store, logger: logger}, nil
}

// Start begins polling updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.tg.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	sessionID := sessionIDFor(msg.Chat.ID)
	session, err := b.store.GetOrCreate(sessionID)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("session unavailable")
		return
	}

	out := &chatRenderer{tg: b.tg, chatID: msg.Chat.ID, logger: b.logger}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			session.SoftReset()
			_ = b.store.Save(session)
			b.engine.Greet(out)
		default:
			out.DisplayMessage(conversation.RoleBot, "Send /start to begin, or just tell me what you need.")
		}
		return
	}

	if err := b.engine.HandleUtterance(ctx, session, out, msg.Text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("utterance failed")
	}
}

func sessionIDFor(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

// iconEmoji maps the quick-choice icon hints onto emojis.
var iconEmoji = map[string]string{
	"calendar-check": "🗓",
	"list-alt":       "📋",
	"heartbeat":      "🚨",
	"sync-alt":       "🔄",
	"check":          "✅",
	"times":          "❌",
	"star":           "⭐",
}

// chatRenderer renders engine output into one Telegram chat. Choices
// become a one-time reply keyboard.
type chatRenderer struct {
	tg     telegramClient
	chatID int64
	logger *zerolog.Logger
}

func (r *chatRenderer) DisplayMessage(role conversation.Role, text string) {
	if role == conversation.RoleUser {
		// Telegram already shows the user's own message.
		return
	}
	r.send(tgbotapi.NewMessage(r.chatID, text))
}

func (r *chatRenderer) OfferChoices(labels []string) {
	msg := tgbotapi.NewMessage(r.chatID, "Choose an option:")
	msg.ReplyMarkup = choiceKeyboard(labels)
	r.send(msg)
}

func (r *chatRenderer) SetStatus(text string) {
	r.send(tgbotapi.NewMessage(r.chatID, "⏳ "+text))
}

func (r *chatRenderer) ShowCalendarLink(url string) {
	r.send(tgbotapi.NewMessage(r.chatID, "Add it to your calendar: "+url))
}

func (r *chatRenderer) HideCalendarLink() {}

func (r *chatRenderer) send(msg tgbotapi.MessageConfig) {
	if _, err := r.tg.Send(msg); err != nil {
		r.logger.Error().Err(err).Int64("chat_id", r.chatID).Msg("send failed")
	}
}

func choiceKeyboard(labels []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, (len(labels)+1)/2)
	var row []tgbotapi.KeyboardButton
	for _, l := range labels {
		text := l
		if emoji, ok := iconEmoji[renderer.IconFor(l)]; ok {
			text = emoji + " " + l
		}
		row = append(row, tgbotapi.NewKeyboardButton(text))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	return kb
}
