package application

import "context"

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	List(ctx context.Context, filter Filter, page Page) ([]Application, error)
	Count(ctx context.Context, filter Filter) (int, error)
}
