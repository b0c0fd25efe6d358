package app

import (
	"context"
	"testing"

	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/inbound"
	"peram-marketplace-service/internal/ports/outbound/mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	tests := []struct {
		name        string
		req         inbound.CreateCategoryRequest
		mockSetup   func(categories *mocks.MockCategoryRepository)
		expectedErr error
	}{
		{
			name: "success",
			req:  inbound.CreateCategoryRequest{Name: "  Furniture ", Description: " Chairs & tables "},
			mockSetup: func(categories *mocks.MockCategoryRepository) {
				categories.EXPECT().GetByName(gomock.Any(), "Furniture").Return(nil, shared.ErrCategoryNotFound)
				categories.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *category.Category) error {
						require.Equal(t, "Furniture", c.Name)
						require.Equal(t, "Chairs & tables", c.Description)
						return nil
					})
			},
		},
		{
			name:        "empty name",
			req:         inbound.CreateCategoryRequest{Name: "   "},
			mockSetup:   func(*mocks.MockCategoryRepository) {},
			expectedErr: shared.ErrCategoryNameRequired,
		},
		{
			name: "duplicate name",
			req:  inbound.CreateCategoryRequest{Name: "Books"},
			mockSetup: func(categories *mocks.MockCategoryRepository) {
				categories.EXPECT().GetByName(gomock.Any(), "Books").Return(&category.Category{ID: uuid.New(), Name: "Books"}, nil)
			},
			expectedErr: shared.ErrCategoryExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			categories := mocks.NewMockCategoryRepository(ctrl)
			tt.mockSetup(categories)

			service := NewCategoryService(CategoryServiceParams{
				CategoryRepo: categories,
				ProductRepo:  mocks.NewMockProductRepository(ctrl),
				Logger:       zerolog.Nop(),
			})

			c, err := service.CreateCategory(context.Background(), tt.req)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, c.ID)
		})
	}
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	existing := func() *category.Category {
		return &category.Category{ID: uuid.MustParse("0e7b6a43-7f1d-4b8e-9d43-2f3c7d6a1b20"), Name: "Books", Description: "Paper"}
	}
	rename := "Comics"
	blank := " "
	description := "Graphic novels"

	tests := []struct {
		name        string
		req         inbound.UpdateCategoryRequest
		mockSetup   func(categories *mocks.MockCategoryRepository)
		expected    func(t *testing.T, c *category.Category)
		expectedErr error
	}{
		{
			name: "rename",
			req:  inbound.UpdateCategoryRequest{CategoryID: existing().ID, Name: &rename},
			mockSetup: func(categories *mocks.MockCategoryRepository) {
				categories.EXPECT().GetByID(gomock.Any(), existing().ID).Return(existing(), nil)
				categories.EXPECT().GetByName(gomock.Any(), rename).Return(nil, shared.ErrCategoryNotFound)
				categories.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
			},
			expected: func(t *testing.T, c *category.Category) {
				require.Equal(t, rename, c.Name)
				require.Equal(t, "Paper", c.Description)
			},
		},
		{
			name: "description only",
			req:  inbound.UpdateCategoryRequest{CategoryID: existing().ID, Description: &description},
			mockSetup: func(categories *mocks.MockCategoryRepository) {
				categories.EXPECT().GetByID(gomock.Any(), existing().ID).Return(existing(), nil)
				categories.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
			},
			expected: func(t *testing.T, c *category.Category) {
				require.Equal(t, "Books", c.Name)
				require.Equal(t, description, c.Description)
			},
		},
		{
			name: "blank name",
			req:  inbound.UpdateCategoryRequest{CategoryID: existing().ID, Name: &blank},
			mockSetup: func(categories *mocks.MockCategoryRepository) {
				categories.EXPECT().GetByID(gomock.Any(), existing().ID).Return(existing(), nil)
			},
			expectedErr: shared.ErrCategoryNameRequired,
		},
		{
			name: "name taken by another category",
			req:  inbound.UpdateCategoryRequest{CategoryID: existing().ID, Name: &rename},
			mockSetup: func(categories *mocks.MockCategoryRepository) {
				categories.EXPECT().GetByID(gomock.Any(), existing().ID).Return(existing(), nil)
				categories.EXPECT().GetByName(gomock.Any(), rename).Return(&category.Category{ID: uuid.New(), Name: rename}, nil)
			},
			expectedErr: shared.ErrCategoryExists,
		},
		{
			name: "missing category",
			req:  inbound.UpdateCategoryRequest{CategoryID: existing().ID, Name: &rename},
			mockSetup: func(categories *mocks.MockCategoryRepository) {
				categories.EXPECT().GetByID(gomock.Any(), existing().ID).Return(nil, shared.ErrCategoryNotFound)
			},
			expectedErr: shared.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			categories := mocks.NewMockCategoryRepository(ctrl)
			tt.mockSetup(categories)

			service := NewCategoryService(CategoryServiceParams{
				CategoryRepo: categories,
				ProductRepo:  mocks.NewMockProductRepository(ctrl),
				Logger:       zerolog.Nop(),
			})

			c, err := service.UpdateCategory(context.Background(), tt.req)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			tt.expected(t, c)
		})
	}
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name        string
		mockSetup   func(categories *mocks.MockCategoryRepository, products *mocks.MockProductRepository)
		expectedErr error
	}{
		{
			name: "success",
			mockSetup: func(categories *mocks.MockCategoryRepository, products *mocks.MockProductRepository) {
				categories.EXPECT().GetByID(gomock.Any(), id).Return(&category.Category{ID: id}, nil)
				products.EXPECT().CountByCategory(gomock.Any(), id).Return(0, nil)
				categories.EXPECT().Delete(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "in use",
			mockSetup: func(categories *mocks.MockCategoryRepository, products *mocks.MockProductRepository) {
				categories.EXPECT().GetByID(gomock.Any(), id).Return(&category.Category{ID: id}, nil)
				products.EXPECT().CountByCategory(gomock.Any(), id).Return(3, nil)
			},
			expectedErr: shared.ErrCategoryInUse,
		},
		{
			name: "not found",
			mockSetup: func(categories *mocks.MockCategoryRepository, products *mocks.MockProductRepository) {
				categories.EXPECT().GetByID(gomock.Any(), id).Return(nil, shared.ErrCategoryNotFound)
			},
			expectedErr: shared.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			categories := mocks.NewMockCategoryRepository(ctrl)
			products := mocks.NewMockProductRepository(ctrl)
			tt.mockSetup(categories, products)

			service := NewCategoryService(CategoryServiceParams{CategoryRepo: categories, ProductRepo: products, Logger: zerolog.Nop()})

			err := service.DeleteCategory(context.Background(), id)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
