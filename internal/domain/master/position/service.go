package position

import "context"

type PositionService interface {
	Create(ctx context.Context, req CreatePositionRequest) (PositionResponse, error)
	Get(ctx context.Context, id string) (PositionResponse, error)
	List(ctx context.Context) ([]PositionResponse, error)
	Update(ctx context.Context, req UpdatePositionRequest) (PositionResponse, error)
	Delete(ctx context.Context, id string) error
}
