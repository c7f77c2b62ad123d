package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
	"finbook/internal/pagination"
)

const (
	categoryNameMinLen        = 3
	categoryNameMaxLen        = 50
	categoryDescriptionMinLen = 3
	categoryDescriptionMaxLen = 500
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

func validateCategoryName(name string) error {
	if len(name) < categoryNameMinLen || len(name) > categoryNameMaxLen {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name must be between 3 and 50 characters")
	}
	return nil
}

func validateCategoryDescription(description string) error {
	if len(description) < categoryDescriptionMinLen || len(description) > categoryDescriptionMaxLen {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category description must be between 3 and 500 characters")
	}
	return nil
}

// CreateCategory creates a new category. The user's first category
// automatically becomes the default.
func (s *categoryService) CreateCategory(userID uint, name, description string) (*models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if err := validateCategoryDescription(description); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID:      userID,
		Name:        name,
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).
			Where("user_id = ?", userID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		category.IsDefault = count == 0

		if err := tx.Create(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// GetUserCategories retrieves a paginated list of categories for a user.
func (s *categoryService) GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetDefaultCategory retrieves the user's default category.
func (s *categoryService) GetDefaultCategory(userID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("user_id = ? AND is_default = ?", userID, true).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoDefaultCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// EditCategory updates the provided category fields. Nil fields are left
// unchanged; at least one field must be provided.
func (s *categoryService) EditCategory(userID, categoryID uint, name, description *string) (*models.Category, error) {
	if name == nil && description == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to edit")
	}

	updates := map[string]interface{}{}
	if name != nil {
		if err := validateCategoryName(*name); err != nil {
			return nil, err
		}
		updates["name"] = *name
	}
	if description != nil {
		if err := validateCategoryDescription(*description); err != nil {
			return nil, err
		}
		updates["description"] = *description
	}

	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if (name == nil || *name == category.Name) &&
		(description == nil || *description == category.Description) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to edit")
	}

	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// SetDefaultCategory makes the given category the user's default. The swap
// is a single statement so no two categories can hold the flag at once.
func (s *categoryService) SetDefaultCategory(userID, categoryID uint) error {
	// Verify the category exists and belongs to the user
	if _, err := s.GetCategoryByID(userID, categoryID); err != nil {
		return err
	}

	if err := s.db.Model(&models.Category{}).
		Where("user_id = ?", userID).
		Update("is_default", gorm.Expr("id = ?", categoryID)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteCategory removes a category. The default category cannot be
// deleted; another category must be made default first.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	if category.IsDefault {
		return apperrors.ErrDefaultCategoryDelete
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
