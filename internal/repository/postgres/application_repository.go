package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Lerwix/taler-site/internal/common"
	"github.com/Lerwix/taler-site/internal/domain/application"
)

const applicationColumns = `id, nickname, age, timezone, telegram, discord, role,
	experience, minecraft_exp, motivation, portfolio, time_available, created_at, status`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	if app.Status == "" {
		app.Status = application.StatusNew
	}
	row := r.db.QueryRowContext(ctx, `INSERT INTO applications (
			nickname, age, timezone, telegram, discord, role,
			experience, minecraft_exp, motivation, portfolio, time_available, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`,
		app.Nickname, app.Age, nullable(app.Timezone), app.Telegram, nullable(app.Discord), app.Role,
		nullable(app.Experience), nullable(app.MinecraftExp), nullable(app.Motivation),
		nullable(app.Portfolio), nullable(app.TimeAvailable), app.Status)
	if err := row.Scan(&app.ID, &app.CreatedAt); err != nil {
		return nil, storageError("failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.Filter, page application.Page) ([]application.Application, error) {
	page = page.Normalize()
	where, args := filterClause(filter)
	query := fmt.Sprintf(`SELECT %s FROM applications%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		applicationColumns, where, pq.QuoteIdentifier(page.Sort), page.Order, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to list applications", err)
	}
	defer rows.Close()

	items := make([]application.Application, 0, page.Limit)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, storageError("failed to scan application", err)
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to list applications", err)
	}
	return items, nil
}

func (r *ApplicationRepository) Count(ctx context.Context, filter application.Filter) (int, error) {
	where, args := filterClause(filter)
	var count int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`+where, args...)
	if err := row.Scan(&count); err != nil {
		return 0, storageError("failed to count applications", err)
	}
	return count, nil
}

func filterClause(filter application.Filter) (string, []any) {
	var clauses []string
	var args []any
	if filter.RoleRestricted() {
		args = append(args, filter.Role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, clause := range clauses[1:] {
		where += " AND " + clause
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	var timezone, discord, experience, minecraftExp, motivation, portfolio, timeAvailable sql.NullString
	if err := row.Scan(&app.ID, &app.Nickname, &app.Age, &timezone, &app.Telegram, &discord, &app.Role,
		&experience, &minecraftExp, &motivation, &portfolio, &timeAvailable, &app.CreatedAt, &app.Status); err != nil {
		return nil, err
	}
	app.Timezone = timezone.String
	app.Discord = discord.String
	app.Experience = experience.String
	app.MinecraftExp = minecraftExp.String
	app.Motivation = motivation.String
	app.Portfolio = portfolio.String
	app.TimeAvailable = timeAvailable.String
	return &app, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func storageError(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.NewError(common.CodeUnavailable, message, err)
	}
	return common.NewError(common.CodeInternal, message, err)
}
