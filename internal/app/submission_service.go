package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Lerwix/taler-site/internal/cache"
	"github.com/Lerwix/taler-site/internal/common"
	"github.com/Lerwix/taler-site/internal/domain/application"
	"github.com/Lerwix/taler-site/internal/metrics"
)

// Notifier delivers the new-application message to the admin channel.
type Notifier interface {
	NotifyNewApplication(ctx context.Context, app *application.Application) error
}

type SubmissionService struct {
	repo     application.Repository
	guard    *DedupGuard
	cache    cache.Store
	notifier Notifier
	logger   *slog.Logger

	queryTimeout time.Duration
	ageMin       int
	ageMax       int
}

type SubmissionConfig struct {
	QueryTimeout time.Duration
	AgeMin       int
	AgeMax       int
}

func NewSubmissionService(repo application.Repository, guard *DedupGuard, store cache.Store, notifier Notifier, logger *slog.Logger, cfg SubmissionConfig) *SubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}
	return &SubmissionService{
		repo:         repo,
		guard:        guard,
		cache:        store,
		notifier:     notifier,
		logger:       logger,
		queryTimeout: cfg.QueryTimeout,
		ageMin:       cfg.AgeMin,
		ageMax:       cfg.AgeMax,
	}
}

// Submit validates and persists one application. The success return carries
// the store-assigned id and created_at. The admin notification is dispatched
// after persistence on a detached context; its failure never reaches the
// caller.
func (s *SubmissionService) Submit(ctx context.Context, app application.Application) (*application.Application, error) {
	app.Nickname = strings.TrimSpace(app.Nickname)
	app.Telegram = strings.TrimSpace(strings.TrimPrefix(app.Telegram, "@"))
	app.Role = application.Role(strings.TrimSpace(string(app.Role)))

	if app.Nickname == "" || app.Age == 0 || app.Telegram == "" || app.Role == "" {
		return nil, common.NewError(common.CodeValidation,
			"Заполните обязательные поля: nickname, age, telegram, role", nil)
	}
	if !application.HandlePattern.MatchString(app.Telegram) {
		return nil, common.NewError(common.CodeValidation, "Некорректный Telegram username", nil)
	}
	if s.ageMin > 0 && s.ageMax > 0 && (app.Age < s.ageMin || app.Age > s.ageMax) {
		return nil, common.NewValidationError("Некорректный возраст",
			map[string]string{"age": "age out of range"})
	}
	if !s.guard.Allow(app.Telegram, app.Role) {
		return nil, common.NewError(common.CodeRateLimited,
			"Заявка уже отправлена, попробуйте позже", nil)
	}

	app.Clip()
	app.Status = application.StatusNew

	storeCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	created, err := s.repo.Create(storeCtx, app)
	if err != nil {
		metrics.RecordSubmission("storage_error")
		return nil, err
	}
	metrics.RecordSubmission("accepted")
	s.logger.Info("application saved",
		slog.Int64("id", created.ID),
		slog.String("role", string(created.Role)),
		slog.String("telegram", created.Telegram))

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.notifier != nil {
		go s.notify(created)
	}
	return created, nil
}

func (s *SubmissionService) notify(app *application.Application) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.notifier.NotifyNewApplication(ctx, app); err != nil {
		metrics.RecordNotification("failed")
		s.logger.Error("admin notification failed",
			slog.Int64("id", app.ID),
			slog.String("error", err.Error()))
		return
	}
	metrics.RecordNotification("ok")
}
