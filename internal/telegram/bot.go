package telegram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Lerwix/taler-site/internal/domain/application"
	"github.com/Lerwix/taler-site/internal/metrics"
)

// Bot routes admin commands and inline-button callbacks to the navigator.
// Every entry point checks the access gate before doing anything else.
type Bot struct {
	sender  Sender
	gate    *AccessGate
	nav     *Navigator
	queries Queries
	logger  *slog.Logger
	now     func() time.Time
}

func NewBot(sender Sender, gate *AccessGate, nav *Navigator, queries Queries, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		sender:  sender,
		gate:    gate,
		nav:     nav,
		queries: queries,
		logger:  logger,
		now:     time.Now,
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update Update) {
	switch {
	case update.CallbackQuery != nil:
		metrics.RecordBotUpdate("callback")
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		metrics.RecordBotUpdate("message")
		b.handleMessage(ctx, update.Message)
	default:
		metrics.RecordBotUpdate("other")
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	if !b.gate.Allowed(msg.From.ID) {
		b.send(ctx, chatID, DeniedText, nil)
		return
	}

	command := strings.ToLower(strings.TrimSpace(msg.Text))
	if i := strings.IndexAny(command, " @"); i > 0 {
		command = command[:i]
	}

	switch command {
	case "/start":
		b.send(ctx, chatID, welcomeText(msg.From.FirstName), nil)
	case "/help":
		b.send(ctx, chatID, helpText, nil)
	case "/menu":
		view := b.nav.Menu(chatID)
		b.send(ctx, chatID, view.Text, view.Keyboard)
	case "/latest":
		view := b.nav.SelectRole(ctx, chatID, application.RoleAll)
		b.send(ctx, chatID, view.Text, view.Keyboard)
	case "/count":
		b.sendCount(ctx, chatID)
	default:
		if role, ok := roleCommand(command); ok {
			view := b.nav.SelectRole(ctx, chatID, role)
			b.send(ctx, chatID, view.Text, view.Keyboard)
			return
		}
		// Unknown text gets the menu, same as /menu.
		view := b.nav.Menu(chatID)
		b.send(ctx, chatID, view.Text, view.Keyboard)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) {
	if err := b.sender.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
		b.logger.Debug("callback ack failed", "error", err)
	}

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	if !b.gate.Allowed(cb.From.ID) {
		b.edit(ctx, chatID, messageID, DeniedText, nil)
		return
	}

	var view View
	switch data := cb.Data; {
	case data == "prev":
		view = b.nav.Prev(ctx, chatID)
	case data == "next":
		view = b.nav.Next(ctx, chatID)
	case data == "latest":
		view = b.nav.Latest(ctx, chatID)
	case data == "retry":
		view = b.nav.Retry(ctx, chatID)
	case data == "menu":
		view = b.nav.Menu(chatID)
	case strings.HasPrefix(data, "role:"):
		view = b.nav.SelectRole(ctx, chatID, application.Role(strings.TrimPrefix(data, "role:")))
	default:
		b.logger.Warn("unknown callback data", "data", data)
		return
	}
	b.edit(ctx, chatID, messageID, view.Text, view.Keyboard)
}

func (b *Bot) sendCount(ctx context.Context, chatID int64) {
	total, err := b.queries.Count(ctx, application.Filter{Role: application.RoleAll})
	if err != nil {
		b.logger.Error("count query failed", "error", err)
		b.send(ctx, chatID, "❌ Ошибка подсчета заявок.", nil)
		return
	}
	b.send(ctx, chatID, countText(total, b.now()), nil)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) {
	if err := b.sender.SendMessage(ctx, chatID, text, markup); err != nil {
		b.logger.Error("send message failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) edit(ctx context.Context, chatID, messageID int64, text string, markup *InlineKeyboardMarkup) {
	if err := b.sender.EditMessageText(ctx, chatID, messageID, text, markup); err != nil {
		b.logger.Error("edit message failed", "chat_id", chatID, "error", err)
	}
}

// roleCommand maps /dev, /media etc. onto their roles.
func roleCommand(command string) (application.Role, bool) {
	if !strings.HasPrefix(command, "/") {
		return "", false
	}
	role := application.Role(strings.TrimPrefix(command, "/"))
	if application.Known(role) {
		return role, true
	}
	return "", false
}
