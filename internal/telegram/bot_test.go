package telegram

import (
	"context"
	"strings"
	"testing"
)

type sentMessage struct {
	chatID    int64
	messageID int64
	text      string
	markup    *InlineKeyboardMarkup
}

type fakeSender struct {
	sent   []sentMessage
	edited []sentMessage
	acked  []string
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, markup: markup})
	return nil
}

func (f *fakeSender) EditMessageText(_ context.Context, chatID, messageID int64, text string, markup *InlineKeyboardMarkup) error {
	f.edited = append(f.edited, sentMessage{chatID: chatID, messageID: messageID, text: text, markup: markup})
	return nil
}

func (f *fakeSender) AnswerCallbackQuery(_ context.Context, callbackID, _ string) error {
	f.acked = append(f.acked, callbackID)
	return nil
}

func newTestBot(queries *fakeQueries, adminIDs ...int64) (*Bot, *fakeSender) {
	sender := &fakeSender{}
	gate := NewAccessGate(adminIDs)
	nav := NewNavigator(queries)
	return NewBot(sender, gate, nav, queries, nil), sender
}

func messageUpdate(userID, chatID int64, text string) Update {
	return Update{UpdateID: 1, Message: &Message{
		MessageID: 10,
		Chat:      Chat{ID: chatID, Type: "private"},
		From:      User{ID: userID, FirstName: "Ира"},
		Text:      text,
	}}
}

func callbackUpdate(userID, chatID int64, data string) Update {
	return Update{UpdateID: 2, CallbackQuery: &CallbackQuery{
		ID:   "cb-1",
		From: User{ID: userID},
		Message: &Message{
			MessageID: 10,
			Chat:      Chat{ID: chatID, Type: "private"},
		},
		Data: data,
	}}
}

func TestBotDeniesUnknownUser(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{apps: sampleApps()}, 42)

	bot.HandleUpdate(context.Background(), messageUpdate(99, 99, "/latest"))

	if len(sender.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(sender.sent))
	}
	if sender.sent[0].text != DeniedText {
		t.Fatalf("expected denial, got %q", sender.sent[0].text)
	}
}

func TestBotDeniesUnknownCallback(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{apps: sampleApps()}, 42)

	bot.HandleUpdate(context.Background(), callbackUpdate(99, 99, "next"))

	if len(sender.acked) != 1 {
		t.Fatal("callback must be acknowledged")
	}
	if len(sender.edited) != 1 || sender.edited[0].text != DeniedText {
		t.Fatalf("expected denial edit, got %+v", sender.edited)
	}
}

func TestBotStartGreetsByName(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{}, 42)

	bot.HandleUpdate(context.Background(), messageUpdate(42, 42, "/start"))

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].text, "Привет, Ира") {
		t.Fatalf("unexpected greeting: %+v", sender.sent)
	}
}

func TestBotMenuCommand(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{}, 42)

	bot.HandleUpdate(context.Background(), messageUpdate(42, 42, "/menu"))

	if len(sender.sent) != 1 || sender.sent[0].text != menuText {
		t.Fatalf("unexpected menu reply: %+v", sender.sent)
	}
	if sender.sent[0].markup == nil {
		t.Fatal("menu must carry the role keyboard")
	}
}

func TestBotLatestShowsNewestRecord(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{apps: sampleApps()}, 42)

	bot.HandleUpdate(context.Background(), messageUpdate(42, 42, "/latest"))

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].text, "Cara") {
		t.Fatalf("expected newest record, got %+v", sender.sent)
	}
}

func TestBotRoleCommand(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{apps: sampleApps()}, 42)

	bot.HandleUpdate(context.Background(), messageUpdate(42, 42, "/dev"))

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].text, "Заявка 1 из 2") {
		t.Fatalf("expected dev browsing view, got %+v", sender.sent)
	}
}

func TestBotCountCommand(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{apps: sampleApps()}, 42)

	bot.HandleUpdate(context.Background(), messageUpdate(42, 42, "/count"))

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].text, "Всего заявок: <b>3</b>") {
		t.Fatalf("unexpected count reply: %+v", sender.sent)
	}
}

func TestBotCallbackNavigation(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{apps: sampleApps()}, 42)
	ctx := context.Background()

	bot.HandleUpdate(ctx, callbackUpdate(42, 42, "role:all"))
	bot.HandleUpdate(ctx, callbackUpdate(42, 42, "next"))

	if len(sender.edited) != 2 {
		t.Fatalf("expected two edits, got %d", len(sender.edited))
	}
	if !strings.Contains(sender.edited[1].text, "Заявка 2 из 3") {
		t.Fatalf("next should advance the cursor, got %q", sender.edited[1].text)
	}
	if len(sender.acked) != 2 {
		t.Fatalf("every callback must be acknowledged, got %d", len(sender.acked))
	}
}

func TestBotMenuCallbackResetsCursor(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{apps: sampleApps()}, 42)
	ctx := context.Background()

	bot.HandleUpdate(ctx, callbackUpdate(42, 42, "role:all"))
	bot.HandleUpdate(ctx, callbackUpdate(42, 42, "next"))
	bot.HandleUpdate(ctx, callbackUpdate(42, 42, "menu"))
	bot.HandleUpdate(ctx, callbackUpdate(42, 42, "role:all"))

	last := sender.edited[len(sender.edited)-1]
	if !strings.Contains(last.text, "Заявка 1 из 3") {
		t.Fatalf("menu should reset the cursor, got %q", last.text)
	}
}

func TestBotCommandWithBotSuffix(t *testing.T) {
	bot, sender := newTestBot(&fakeQueries{apps: sampleApps()}, 42)

	bot.HandleUpdate(context.Background(), messageUpdate(42, 42, "/latest@taler_admin_bot"))

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].text, "Cara") {
		t.Fatalf("command with bot suffix must still work, got %+v", sender.sent)
	}
}
