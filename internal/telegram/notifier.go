package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/Lerwix/taler-site/internal/domain/application"
)

// Notifier pushes new-submission alerts to the admin chat.
type Notifier struct {
	sender      Sender
	adminChatID int64
	now         func() time.Time
}

func NewNotifier(sender Sender, adminChatID int64) *Notifier {
	return &Notifier{sender: sender, adminChatID: adminChatID, now: time.Now}
}

func (n *Notifier) NotifyNewApplication(ctx context.Context, app *application.Application) error {
	if n.adminChatID == 0 {
		return nil
	}
	if err := n.sender.SendMessage(ctx, n.adminChatID, notificationText(app, n.now()), nil); err != nil {
		return fmt.Errorf("notify admin chat: %w", err)
	}
	return nil
}
