// Package telegram exposes the record commands through a Telegram bot
// restricted to a single admin user.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"financie/internal/advisor"
	"financie/internal/core"
	"financie/internal/log"
)

// Records is the record surface the bot needs.
type Records interface {
	Add(ctx context.Context, d core.Draft) (core.Record, error)
	Remove(ctx context.Context, id string) (bool, error)
	Summary(ctx context.Context) (core.Summary, []core.Record, error)
}

// Tips starts tip requests and reports their final state.
type Tips interface {
	Request(breakdown core.Breakdown) <-chan advisor.State
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type reply struct {
	text string
	// followUp, when set, delivers a second message once it resolves.
	// The update loop does not wait for it.
	followUp <-chan advisor.State
}

type handler func(ctx context.Context, args string) (*reply, error)

type Bot struct {
	api     *tgbotapi.BotAPI
	out     sender
	adminID int64
	timeout int

	records Records
	tips    Tips
	logger  *log.Logger

	commands map[string]handler
	pending  sync.WaitGroup
}

// New connects to Telegram with token.
func New(token string, adminID int64, timeout int, records Records, tips Tips, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	b := newBot(api, adminID, records, tips, logger)
	b.api = api
	b.timeout = timeout
	return b, nil
}

func newBot(out sender, adminID int64, records Records, tips Tips, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	b := &Bot{
		out:      out,
		adminID:  adminID,
		timeout:  60,
		records:  records,
		tips:     tips,
		logger:   logger.WithComponent(log.ComponentTelegram),
		commands: make(map[string]handler),
	}

	b.Register("add", b.addRecord)
	b.Register("list", b.listRecords)
	b.Register("delete", b.deleteRecord)
	b.Register("summary", b.summary)
	b.Register("tip", b.tip)
	b.Register("start", b.help)
	b.Register("help", b.help)

	return b
}

func (b *Bot) Register(command string, h handler) {
	b.commands[command] = h
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if b.api == nil {
		return errors.New("telegram bot not connected")
	}
	config := tgbotapi.NewUpdate(0)
	config.Timeout = b.timeout

	updates := b.api.GetUpdatesChan(config)
	b.logger.Info("Telegram bot started", "username", b.api.Self.UserName)
	defer b.api.StopReceivingUpdates()
	defer b.pending.Wait()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}
	if user := update.SentFrom(); user == nil || user.ID != b.adminID {
		b.logger.Warn("Ignoring command from unknown user", "command", msg.Command())
		return
	}

	h, ok := b.commands[msg.Command()]
	if !ok {
		b.send(msg.Chat.ID, "Comando desconhecido. Use /help.")
		return
	}

	r, err := h(ctx, strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		b.logger.Debug("Command failed", "command", msg.Command(), log.FieldError, err)
		b.send(msg.Chat.ID, "Erro: "+err.Error())
		return
	}
	b.send(msg.Chat.ID, r.text)
	if r.followUp != nil {
		b.deliverLater(ctx, msg.Chat.ID, r.followUp)
	}
}

func (b *Bot) deliverLater(ctx context.Context, chatID int64, later <-chan advisor.State) {
	b.pending.Add(1)
	go func() {
		defer b.pending.Done()
		select {
		case st := <-later:
			b.send(chatID, st.Text)
		case <-ctx.Done():
		}
	}()
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.out.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("Failed to send telegram message", log.FieldError, err)
	}
}
