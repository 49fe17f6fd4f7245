package telegram

import (
	"context"
	"log/slog"
	"time"
)

// UpdateSource is the long-polling surface of the Bot API client.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration, limit int) ([]Update, error)
	DeleteWebhook(ctx context.Context, dropPending bool) error
}

// Poller drives the bot off the getUpdates long poll.
type Poller struct {
	source   UpdateSource
	bot      *Bot
	logger   *slog.Logger
	timeout  time.Duration
	interval time.Duration
	limit    int
}

type PollerConfig struct {
	Timeout  time.Duration
	Interval time.Duration
	Limit    int
}

func NewPoller(source UpdateSource, bot *Bot, logger *slog.Logger, cfg PollerConfig) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	return &Poller{
		source:   source,
		bot:      bot,
		logger:   logger,
		timeout:  cfg.Timeout,
		interval: cfg.Interval,
		limit:    cfg.Limit,
	}
}

// Run polls until the context is cancelled. A webhook left over from a
// previous deployment would make getUpdates return 409, so it is dropped
// up front.
func (p *Poller) Run(ctx context.Context) {
	if err := p.source.DeleteWebhook(ctx, true); err != nil {
		p.logger.Warn("delete webhook failed", "error", err)
	}

	p.logger.Info("telegram poller started")

	var offset int64
	for {
		if ctx.Err() != nil {
			p.logger.Info("telegram poller stopped")
			return
		}

		updates, err := p.source.GetUpdates(ctx, offset, p.timeout, p.limit)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("telegram poller stopped")
				return
			}
			p.logger.Error("get updates failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(p.interval):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			p.bot.HandleUpdate(ctx, update)
		}
	}
}
