package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Lerwix/taler-site/internal/domain/application"
)

const dateLayout = "02.01.2006, 15:04"

const helpText = "🆘 <b>Помощь по командам:</b>\n\n" +
	"/start - приветствие\n" +
	"/menu - меню ролей\n" +
	"/latest - показать последнюю заявку\n" +
	"/count - сколько заявок в базе\n" +
	"/help - эта справка"

const menuText = "📋 <b>Заявки TALER</b>\n\nВыберите роль для просмотра заявок:"

const errorText = "❌ Ошибка загрузки заявок"

func welcomeText(firstName string) string {
	if firstName == "" {
		firstName = "друг"
	}
	return fmt.Sprintf("👋 Привет, %s!\n\n"+
		"Я бот для управления заявками TALER.\n\n"+
		"📋 <b>Доступные команды:</b>\n"+
		"/start - показать это сообщение\n"+
		"/menu - меню ролей\n"+
		"/latest - последняя заявка\n"+
		"/count - количество заявок\n"+
		"/help - помощь", html.EscapeString(firstName))
}

func emptyText(role application.Role) string {
	return fmt.Sprintf("📭 Нет заявок по роли %q", role.Label())
}

func countText(total int, now time.Time) string {
	return fmt.Sprintf("📊 <b>Статистика заявок</b>\n\n"+
		"✅ Всего заявок: <b>%d</b>\n"+
		"🕒 Актуально на: %s", total, now.Format(dateLayout))
}

// formatRecord renders one application as the browsing view. The position
// line shows up only when there is something to page through.
func formatRecord(app *application.Application, offset, total int) string {
	var b strings.Builder
	if total > 1 {
		fmt.Fprintf(&b, "📋 <b>Заявка %d из %d</b>\n", offset+1, total)
	} else {
		b.WriteString("📋 <b>Заявка</b>\n")
	}
	b.WriteString("────────────────\n")
	fmt.Fprintf(&b, "👤 <b>Никнейм:</b> %s\n", html.EscapeString(app.Nickname))
	fmt.Fprintf(&b, "🎂 <b>Возраст:</b> %d\n", app.Age)
	fmt.Fprintf(&b, "📍 <b>Часовой пояс:</b> %s\n", escapeOr(app.Timezone, "Не указан"))
	fmt.Fprintf(&b, "📱 <b>Telegram:</b> @%s\n", html.EscapeString(app.Telegram))
	if app.Discord != "" {
		fmt.Fprintf(&b, "🎮 <b>Discord:</b> %s\n", html.EscapeString(app.Discord))
	}
	fmt.Fprintf(&b, "💼 <b>Роль:</b> %s\n", html.EscapeString(app.Role.Label()))
	writeLong(&b, "🛠 <b>Опыт:</b>", app.Experience)
	writeLong(&b, "⛏ <b>Опыт в Minecraft:</b>", app.MinecraftExp)
	writeLong(&b, "💬 <b>Мотивация:</b>", app.Motivation)
	writeLong(&b, "🔗 <b>Портфолио:</b>", app.Portfolio)
	if app.TimeAvailable != "" {
		fmt.Fprintf(&b, "⏰ <b>Время онлайн:</b> %s\n", html.EscapeString(app.TimeAvailable))
	}
	fmt.Fprintf(&b, "🕒 <b>Дата:</b> %s\n", app.CreatedAt.Format(dateLayout))
	b.WriteString("────────────────\n")
	fmt.Fprintf(&b, "🆔 ID: %d", app.ID)
	return b.String()
}

// notificationText is the admin-chat alert about a fresh submission.
func notificationText(app *application.Application, now time.Time) string {
	var b strings.Builder
	b.WriteString("🎉 <b>НОВАЯ ЗАЯВКА!</b>\n")
	b.WriteString("────────────────\n")
	fmt.Fprintf(&b, "👤 <b>Никнейм:</b> %s\n", html.EscapeString(app.Nickname))
	fmt.Fprintf(&b, "🎂 <b>Возраст:</b> %d\n", app.Age)
	fmt.Fprintf(&b, "💼 <b>Роль:</b> %s\n", html.EscapeString(app.Role.Label()))
	fmt.Fprintf(&b, "📱 <b>Telegram:</b> @%s\n", html.EscapeString(app.Telegram))
	fmt.Fprintf(&b, "📍 <b>Часовой пояс:</b> %s\n", escapeOr(app.Timezone, "Не указан"))
	fmt.Fprintf(&b, "🕒 <b>Время:</b> %s\n", now.Format(dateLayout))
	b.WriteString("────────────────\n")
	fmt.Fprintf(&b, "🆔 ID: %d", app.ID)
	return b.String()
}

// writeLong appends a labeled multi-line field, clipped for the message view.
func writeLong(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	const previewMax = 400
	clipped := application.Truncate(value, previewMax)
	if clipped != value {
		clipped += "…"
	}
	fmt.Fprintf(b, "%s %s\n", label, html.EscapeString(clipped))
}

func escapeOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return html.EscapeString(value)
}

func menuKeyboard() *InlineKeyboardMarkup {
	rows := make([][]InlineKeyboardButton, 0, len(application.Roles())+1)
	for _, role := range application.Roles() {
		rows = append(rows, []InlineKeyboardButton{{
			Text:         role.Label(),
			CallbackData: "role:" + string(role),
		}})
	}
	rows = append(rows, []InlineKeyboardButton{{
		Text:         "📑 Все заявки",
		CallbackData: "role:" + string(application.RoleAll),
	}})
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
