package master

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/position"
)

type positionServiceImpl struct {
	positionRepo position.PositionRepository
}

func NewPositionService(positionRepo position.PositionRepository) position.PositionService {
	return &positionServiceImpl{
		positionRepo: positionRepo,
	}
}

// Create implements position.PositionService.
func (s *positionServiceImpl) Create(ctx context.Context, req position.CreatePositionRequest) (position.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	threshold, err := attendance.ParseTimeOfDay(req.LateThreshold)
	if err != nil {
		return position.PositionResponse{}, err
	}

	created, err := s.positionRepo.Create(ctx, position.Position{
		Name:               req.Name,
		LateThreshold:      threshold,
		GracePeriodMinutes: *req.GracePeriodMinutes,
	})
	if err != nil {
		return position.PositionResponse{}, err
	}

	return position.NewPositionResponse(created), nil
}

// Get implements position.PositionService.
func (s *positionServiceImpl) Get(ctx context.Context, id string) (position.PositionResponse, error) {
	p, err := s.positionRepo.GetByID(ctx, id)
	if err != nil {
		return position.PositionResponse{}, err
	}
	return position.NewPositionResponse(p), nil
}

// List implements position.PositionService.
func (s *positionServiceImpl) List(ctx context.Context) ([]position.PositionResponse, error) {
	positions, err := s.positionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	responses := make([]position.PositionResponse, 0, len(positions))
	for _, p := range positions {
		responses = append(responses, position.NewPositionResponse(p))
	}
	return responses, nil
}

// Update implements position.PositionService.
func (s *positionServiceImpl) Update(ctx context.Context, req position.UpdatePositionRequest) (position.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	current, err := s.positionRepo.GetByID(ctx, req.ID)
	if err != nil {
		return position.PositionResponse{}, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.LateThreshold != nil {
		threshold, err := attendance.ParseTimeOfDay(*req.LateThreshold)
		if err != nil {
			return position.PositionResponse{}, err
		}
		current.LateThreshold = threshold
	}
	if req.GracePeriodMinutes != nil {
		current.GracePeriodMinutes = *req.GracePeriodMinutes
	}

	if err := s.positionRepo.Update(ctx, current); err != nil {
		return position.PositionResponse{}, err
	}

	return position.NewPositionResponse(current), nil
}

// Delete implements position.PositionService.
func (s *positionServiceImpl) Delete(ctx context.Context, id string) error {
	return s.positionRepo.Delete(ctx, id)
}
