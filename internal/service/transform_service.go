package service

import (
	"context"
	"fmt"
	"sync"

	"datumtrans-api/internal/models"
	"datumtrans-api/internal/trans"
)

// Direction selects which transformation a request runs.
type Direction string

const (
	// DirectionForward transforms from the source frame to the target frame.
	DirectionForward Direction = "forward"
	// DirectionBackward is the approximate backward transformation.
	DirectionBackward Direction = "backward"
	// DirectionBackwardCompat matches the public web transformation service.
	DirectionBackwardCompat Direction = "backward_compat"
	// DirectionBackwardSafe is the verified backward transformation.
	DirectionBackwardSafe Direction = "backward_safe"
)

// TransformService contains the core business logic for datum transformations
type TransformService struct {
	repo ParameterRepository

	mu    sync.RWMutex
	cache map[string]*trans.Transformer
}

// Repository interface for dependency injection
type ParameterRepository interface {
	LoadParameterSet(ctx context.Context, name string) (*trans.Transformer, error)
	ListParameterSets(ctx context.Context) ([]models.ParameterSetInfo, error)
}

// NewTransformService creates a new transform service
func NewTransformService(repo ParameterRepository) *TransformService {
	return &TransformService{
		repo:  repo,
		cache: make(map[string]*trans.Transformer),
	}
}

// transformer returns the named parameter set, loading it through the
// repository on first use. Transformers are immutable, so the cached value is
// shared between requests.
func (s *TransformService) transformer(ctx context.Context, set string) (*trans.Transformer, error) {
	s.mu.RLock()
	t, ok := s.cache[set]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := s.repo.LoadParameterSet(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load parameter set: %w", err)
	}

	s.mu.Lock()
	s.cache[set] = t
	s.mu.Unlock()
	return t, nil
}

// Transform applies the transformation of the named parameter set to the point.
func (s *TransformService) Transform(ctx context.Context, set string, p models.Point, direction Direction) (models.Point, error) {
	t, err := s.transformer(ctx, set)
	if err != nil {
		return models.Point{}, err
	}

	switch direction {
	case DirectionForward:
		return t.Forward(p)
	case DirectionBackward:
		return t.Backward(p)
	case DirectionBackwardCompat:
		return t.BackwardCompat(p)
	case DirectionBackwardSafe:
		return t.BackwardSafe(p)
	}
	return models.Point{}, fmt.Errorf("service: unknown direction %q", string(direction))
}

// Summary computes the parameter statistics of the named set.
func (s *TransformService) Summary(ctx context.Context, set string) (trans.Summary, error) {
	t, err := s.transformer(ctx, set)
	if err != nil {
		return trans.Summary{}, err
	}
	return t.Summary(), nil
}

// ListParameterSets returns the stored parameter sets.
func (s *TransformService) ListParameterSets(ctx context.Context) ([]models.ParameterSetInfo, error) {
	infos, err := s.repo.ListParameterSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list parameter sets: %w", err)
	}
	return infos, nil
}
