// Package telegram is the bot adapter for Telegram chats. Each service gets
// its own bot token and a single allowed chat; manual product entry runs as
// a persisted per-chat conversation so it survives restarts and abandoned
// conversations time out on their own.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/scanbridge/scanbridge/internal/adapters"
	"github.com/scanbridge/scanbridge/internal/models"
)

type Config struct {
	AdapterName string `yaml:"adapterName" validate:"required"`
	BotToken    string `yaml:"botToken" validate:"required"`
	// ChatID is the only chat this service's bot will talk to.
	ChatID string `yaml:"chatId" validate:"required"`
}

// SessionStore persists manual entry conversations, keyed by chat id.
// Implementations must expire idle sessions.
type SessionStore interface {
	Get(ctx context.Context, chatID string) (*models.EntrySession, error)
	Put(ctx context.Context, session *models.EntrySession) error
	Delete(ctx context.Context, chatID string) error
}

type Adapter struct {
	sessions SessionStore

	mu   sync.Mutex
	bots []*tgbotapi.BotAPI
}

func New(sessions SessionStore) *Adapter {
	return &Adapter{sessions: sessions}
}

func (a *Adapter) Name() string {
	return "telegram"
}

func (a *Adapter) NewConfig() any {
	return &Config{}
}

func (a *Adapter) AddCommandExample(ean string) string {
	return fmt.Sprintf("`/add %s`", ean)
}

func (a *Adapter) SendMessage(ctx context.Context, text string, conf any) error {
	cfg := conf.(*Config)

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("telegram login: %w", err)
	}
	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chatId %q: %w", cfg.ChatID, err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (a *Adapter) Start(ctx context.Context, conf any, onEvent adapters.OnEventFunc) error {
	cfg := conf.(*Config)

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("telegram login: %w", err)
	}

	a.mu.Lock()
	a.bots = append(a.bots, bot)
	a.mu.Unlock()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := bot.GetUpdatesChan(updateConfig)

	go func() {
		for update := range updates {
			if update.Message == nil {
				continue
			}
			a.handleMessage(ctx, bot, cfg, onEvent, update.Message)
		}
	}()

	log.Infow(ctx, "telegram bot started", "username", bot.Self.UserName)
	return nil
}

// Shutdown stops the long-poll loops of all started bots, which ends their
// update channels.
func (a *Adapter) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, bot := range a.bots {
		bot.StopReceivingUpdates()
	}
	return nil
}

var eanArgument = regexp.MustCompile(`^\d{8,13}$`)

func (a *Adapter) handleMessage(ctx context.Context, bot *tgbotapi.BotAPI, cfg *Config, onEvent adapters.OnEventFunc, msg *tgbotapi.Message) {
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	if chatID != cfg.ChatID {
		a.send(ctx, bot, msg.Chat.ID, fmt.Sprintf("This chat (%s) is not configured for this service.", chatID))
		return
	}

	if msg.IsCommand() {
		a.handleCommand(ctx, bot, onEvent, msg, chatID)
		return
	}

	session, err := a.sessions.Get(ctx, chatID)
	if errors.Is(err, models.ErrNotFound) {
		// No conversation in flight, nothing to do with free-form text.
		return
	}
	if err != nil {
		log.Errorw(ctx, "failed to load entry session", "chat_id", chatID, "error", err)
		return
	}

	result := advance(session, msg.Text)
	if !result.done {
		if err := a.sessions.Put(ctx, session); err != nil {
			log.Errorw(ctx, "failed to save entry session", "chat_id", chatID, "error", err)
			a.send(ctx, bot, msg.Chat.ID, "Something went wrong, please start over with /add.")
			return
		}
		a.send(ctx, bot, msg.Chat.ID, result.reply)
		return
	}

	if err := a.sessions.Delete(ctx, chatID); err != nil {
		log.Errorw(ctx, "failed to delete entry session", "chat_id", chatID, "error", err)
	}

	if result.product == nil {
		if result.reply != "" {
			a.send(ctx, bot, msg.Chat.ID, result.reply)
		}
		return
	}

	reply, err := onEvent(ctx, models.BotEvent{
		Type:    models.BotEventAdd,
		ChatID:  chatID,
		Product: result.product,
	})
	if err != nil {
		log.Errorw(ctx, "add event failed", "chat_id", chatID, "error", err)
		a.send(ctx, bot, msg.Chat.ID, "Something went wrong, the product was not added.")
		return
	}
	if reply != nil {
		a.send(ctx, bot, msg.Chat.ID, reply.Message)
	}
}

func (a *Adapter) handleCommand(ctx context.Context, bot *tgbotapi.BotAPI, onEvent adapters.OnEventFunc, msg *tgbotapi.Message, chatID string) {
	switch msg.Command() {
	case "start":
		reply, err := onEvent(ctx, models.BotEvent{Type: models.BotEventStart, ChatID: chatID})
		if err != nil {
			log.Errorw(ctx, "start event failed", "chat_id", chatID, "error", err)
			return
		}
		if reply != nil {
			a.send(ctx, bot, msg.Chat.ID, reply.Message)
		}

	case "add":
		arg := strings.TrimSpace(msg.CommandArguments())
		if !eanArgument.MatchString(arg) {
			a.send(ctx, bot, msg.Chat.ID, "Usage: /add <ean>, where <ean> is 8 to 13 digits.")
			return
		}
		session := &models.EntrySession{
			ChatID: chatID,
			EAN:    arg,
			State:  models.SessionAwaitingName,
		}
		if err := a.sessions.Put(ctx, session); err != nil {
			log.Errorw(ctx, "failed to create entry session", "chat_id", chatID, "error", err)
			a.send(ctx, bot, msg.Chat.ID, "Something went wrong, please try /add again.")
			return
		}
		a.send(ctx, bot, msg.Chat.ID,
			fmt.Sprintf("Hi there! Please tell me the product name for EAN %s, or say %q to exit.", arg, stopWord))
	}
}

func (a *Adapter) send(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Errorw(ctx, "telegram reply failed", "chat_id", chatID, "error", err)
	}
}
