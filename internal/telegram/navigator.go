package telegram

import (
	"context"
	"sync"

	"github.com/Lerwix/taler-site/internal/app"
	"github.com/Lerwix/taler-site/internal/domain/application"
)

// Queries is the read surface the navigator browses over.
type Queries interface {
	List(ctx context.Context, filter application.Filter, page application.Page) (*app.ListResult, error)
	Count(ctx context.Context, filter application.Filter) (int, error)
}

// Cursor — позиция просмотра заявок для одного чата.
type Cursor struct {
	Role   application.Role
	Offset int
}

// View is a rendered browsing screen: message text plus inline controls.
type View struct {
	Text     string
	Keyboard *InlineKeyboardMarkup
}

// Navigator keeps a per-chat cursor over the application list and renders
// one record at a time with prev/next/latest controls. Cursors are advisory
// UI state; a race between rapid presses is harmless.
type Navigator struct {
	queries Queries

	mu      sync.Mutex
	cursors map[int64]Cursor
}

func NewNavigator(queries Queries) *Navigator {
	return &Navigator{queries: queries, cursors: make(map[int64]Cursor)}
}

func (n *Navigator) cursor(chatID int64) Cursor {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.cursors[chatID]
	if !ok {
		c = Cursor{Role: application.RoleAll}
	}
	return c
}

func (n *Navigator) setCursor(chatID int64, c Cursor) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cursors[chatID] = c
}

// SelectRole resets the cursor to the newest application of the role.
func (n *Navigator) SelectRole(ctx context.Context, chatID int64, role application.Role) View {
	return n.render(ctx, chatID, Cursor{Role: role, Offset: 0})
}

// Prev steps toward older applications.
func (n *Navigator) Prev(ctx context.Context, chatID int64) View {
	c := n.cursor(chatID)
	if c.Offset > 0 {
		c.Offset--
	}
	return n.render(ctx, chatID, c)
}

// Next steps forward through the list. The list is newest-first, so this
// moves toward older submissions.
func (n *Navigator) Next(ctx context.Context, chatID int64) View {
	c := n.cursor(chatID)
	c.Offset++
	return n.render(ctx, chatID, c)
}

// Latest jumps back to offset zero, the newest application.
func (n *Navigator) Latest(ctx context.Context, chatID int64) View {
	c := n.cursor(chatID)
	c.Offset = 0
	return n.render(ctx, chatID, c)
}

// Retry re-issues the exact same cursor after a failure.
func (n *Navigator) Retry(ctx context.Context, chatID int64) View {
	return n.render(ctx, chatID, n.cursor(chatID))
}

// Menu drops the cursor and renders the role-selection menu.
func (n *Navigator) Menu(chatID int64) View {
	n.mu.Lock()
	delete(n.cursors, chatID)
	n.mu.Unlock()
	return View{Text: menuText, Keyboard: menuKeyboard()}
}

// render is the single rendering path: count first, then either the empty
// view (offset past the end, no record fetch) or a one-record fetch. On
// failure the cursor is left where it was so the retry button is idempotent.
func (n *Navigator) render(ctx context.Context, chatID int64, c Cursor) View {
	filter := application.Filter{Role: c.Role}

	total, err := n.queries.Count(ctx, filter)
	if err != nil {
		return errorView()
	}

	if c.Offset >= total {
		// Park just past the end so prev lands on the last record.
		c.Offset = total
		n.setCursor(chatID, c)
		return emptyView(c)
	}

	result, err := n.queries.List(ctx, filter, application.Page{Limit: 1, Offset: c.Offset})
	if err != nil {
		return errorView()
	}
	if len(result.Items) == 0 {
		n.setCursor(chatID, c)
		return emptyView(c)
	}

	n.setCursor(chatID, c)
	return recordView(&result.Items[0], c.Offset, total)
}

func recordView(app *application.Application, offset, total int) View {
	nav := make([]InlineKeyboardButton, 0, 3)
	if offset > 0 {
		nav = append(nav, InlineKeyboardButton{Text: "⬅️ Назад", CallbackData: "prev"})
	}
	nav = append(nav, InlineKeyboardButton{Text: "🔄 Последняя", CallbackData: "latest"})
	if offset < total-1 {
		nav = append(nav, InlineKeyboardButton{Text: "➡️ Вперед", CallbackData: "next"})
	}
	return View{
		Text: formatRecord(app, offset, total),
		Keyboard: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
			nav,
			{{Text: "📋 В меню", CallbackData: "menu"}},
		}},
	}
}

func emptyView(c Cursor) View {
	row := make([]InlineKeyboardButton, 0, 2)
	if c.Offset > 0 {
		row = append(row, InlineKeyboardButton{Text: "⬅️ Назад", CallbackData: "prev"})
	}
	row = append(row, InlineKeyboardButton{Text: "📋 В меню", CallbackData: "menu"})
	return View{
		Text:     emptyText(c.Role),
		Keyboard: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{row}},
	}
}

func errorView() View {
	return View{
		Text: errorText,
		Keyboard: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{{
			{Text: "🔁 Повторить", CallbackData: "retry"},
			{Text: "📋 В меню", CallbackData: "menu"},
		}}},
	}
}
