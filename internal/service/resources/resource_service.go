package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/sahanw/travelbooking/internal/domain"
	"github.com/sahanw/travelbooking/internal/repository"
)

type ResourceUseCase interface {
	List(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	Create(ctx context.Context, actor domain.Principal, input ResourceInput) (*domain.Resource, error)
	Update(ctx context.Context, actor domain.Principal, id int64, input ResourceInput) (*domain.Resource, error)
	Delete(ctx context.Context, actor domain.Principal, id int64) error
}

type Cache interface {
	GetResources(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error)
	SetResources(ctx context.Context, kind domain.ResourceKind, resources []domain.Resource) error
	InvalidateResources(ctx context.Context, kind domain.ResourceKind) error
}

type ResourceInput struct {
	Kind           domain.ResourceKind
	Name           string
	Origin         string
	Destination    string
	Description    string
	StartsAt       time.Time
	EndsAt         time.Time
	UnitPriceCents int64
	CapacityTotal  int
	ImageURL       string
}

type ResourceService struct {
	repo  repository.ResourceRepository
	cache Cache
}

func NewResourceService(repo repository.ResourceRepository, cache Cache) *ResourceService {
	return &ResourceService{repo: repo, cache: cache}
}

func (s *ResourceService) List(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetResources(ctx, kind); err == nil && cached != nil {
			return cached, nil
		}
	}

	resources, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetResources(ctx, kind, resources)
	}
	return resources, nil
}

func (s *ResourceService) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ResourceService) Create(ctx context.Context, actor domain.Principal, input ResourceInput) (*domain.Resource, error) {
	if !actor.Admin {
		return nil, domain.ErrForbidden
	}
	if err := validate(input); err != nil {
		return nil, err
	}

	res := &domain.Resource{
		Kind:           input.Kind,
		Name:           input.Name,
		Origin:         input.Origin,
		Destination:    input.Destination,
		Description:    input.Description,
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
		UnitPriceCents: input.UnitPriceCents,
		CapacityTotal:  input.CapacityTotal,
		ImageURL:       input.ImageURL,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	s.invalidate(ctx, input.Kind)
	return res, nil
}

func (s *ResourceService) Update(ctx context.Context, actor domain.Principal, id int64, input ResourceInput) (*domain.Resource, error) {
	if !actor.Admin {
		return nil, domain.ErrForbidden
	}
	if err := validate(input); err != nil {
		return nil, err
	}

	res := &domain.Resource{
		ID:             id,
		Kind:           input.Kind,
		Name:           input.Name,
		Origin:         input.Origin,
		Destination:    input.Destination,
		Description:    input.Description,
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
		UnitPriceCents: input.UnitPriceCents,
		CapacityTotal:  input.CapacityTotal,
		ImageURL:       input.ImageURL,
	}
	// Price edits never touch existing bookings; their unit price is a
	// snapshot taken at creation time.
	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	s.invalidate(ctx, res.Kind)
	return res, nil
}

func (s *ResourceService) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	if !actor.Admin {
		return domain.ErrForbidden
	}
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, res.Kind)
	return nil
}

func (s *ResourceService) invalidate(ctx context.Context, kind domain.ResourceKind) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateResources(ctx, kind)
	_ = s.cache.InvalidateResources(ctx, "")
}

func validate(input ResourceInput) error {
	if !input.Kind.Valid() {
		return fmt.Errorf("%w: unknown resource kind %q", domain.ErrInvalidInput, input.Kind)
	}
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if input.CapacityTotal < 1 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	if input.UnitPriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

var _ ResourceUseCase = (*ResourceService)(nil)
