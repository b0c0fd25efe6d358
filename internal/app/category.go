package app

import (
	"context"
	"errors"
	"time"

	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/inbound"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CategoryService implements the category use cases
type CategoryService struct {
	categoryRepo outbound.CategoryRepository
	productRepo  outbound.ProductRepository
	logger       zerolog.Logger
}

type CategoryServiceParams struct {
	CategoryRepo outbound.CategoryRepository
	ProductRepo  outbound.ProductRepository
	Logger       zerolog.Logger
}

func NewCategoryService(params CategoryServiceParams) *CategoryService {
	return &CategoryService{
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		logger:       params.Logger.With().Str("component", "category_service").Logger(),
	}
}

// CreateCategory creates a category with a unique name
func (service *CategoryService) CreateCategory(ctx context.Context, req inbound.CreateCategoryRequest) (*category.Category, error) {
	name := cleanText(req.Name)
	if name == "" {
		return nil, shared.ErrCategoryNameRequired
	}

	if err := service.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &category.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: cleanText(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.categoryRepo.Create(ctx, c); err != nil {
		service.logger.Error().Err(err).Str("name", name).Msg("Failed to create category")
		return nil, err
	}

	service.logger.Info().Str("category_id", c.ID.String()).Str("name", c.Name).Msg("Category created")
	return c, nil
}

func (service *CategoryService) ListCategories(ctx context.Context) ([]*category.Category, error) {
	return service.categoryRepo.List(ctx)
}

// UpdateCategory applies the provided fields
func (service *CategoryService) UpdateCategory(ctx context.Context, req inbound.UpdateCategoryRequest) (*category.Category, error) {
	c, err := service.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := cleanText(*req.Name)
		if name == "" {
			return nil, shared.ErrCategoryNameRequired
		}
		if name != c.Name {
			if err := service.ensureNameFree(ctx, name, c.ID); err != nil {
				return nil, err
			}
		}
		c.Name = name
	}
	if req.Description != nil {
		c.Description = cleanText(*req.Description)
	}
	c.UpdatedAt = time.Now().UTC()

	if err := service.categoryRepo.Update(ctx, c); err != nil {
		service.logger.Error().Err(err).Str("category_id", c.ID.String()).Msg("Failed to update category")
		return nil, err
	}

	service.logger.Info().Str("category_id", c.ID.String()).Msg("Category updated")
	return c, nil
}

// DeleteCategory removes a category no product references
func (service *CategoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := service.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return err
	}

	count, err := service.productRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		service.logger.Warn().Str("category_id", categoryID.String()).Int("products", count).Msg("Category still in use")
		return shared.ErrCategoryInUse
	}

	if err := service.categoryRepo.Delete(ctx, categoryID); err != nil {
		return err
	}

	service.logger.Info().Str("category_id", categoryID.String()).Msg("Category deleted")
	return nil
}

func (service *CategoryService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := service.categoryRepo.GetByName(ctx, name)
	switch {
	case errors.Is(err, shared.ErrCategoryNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return shared.ErrCategoryExists
	}
	return nil
}
