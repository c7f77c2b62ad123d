package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
	"finbook/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

func validateBudgetDates(startDate, endDate time.Time) error {
	if startDate.IsZero() || endDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start and end dates are required")
	}
	if !endDate.After(startDate) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after start date")
	}
	return nil
}

// CreateBudget creates a budget for a category and links the category to
// it. A category can carry at most one budget.
func (s *budgetService) CreateBudget(userID, categoryID uint, amount float64, startDate, endDate time.Time, recurring bool) (*models.Budget, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if err := validateBudgetDates(startDate, endDate); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		StartDate:  startDate,
		EndDate:    endDate,
		Recurring:  recurring,
		Duration:   models.DurationSeconds(startDate, endDate),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if category.BudgetID != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "category already has a budget")
		}

		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&category).Update("budget_id", budget.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// GetUserBudgets retrieves a paginated list of the user's budgets.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID retrieves a budget by ID for a specific user
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// ChangeAmount updates a budget's amount.
func (s *budgetService) ChangeAmount(userID, budgetID uint, amount float64) (*models.Budget, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Update("amount", amount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// ChangeDates updates a budget's period and recomputes its duration.
func (s *budgetService) ChangeDates(userID, budgetID uint, startDate, endDate time.Time) (*models.Budget, error) {
	if err := validateBudgetDates(startDate, endDate); err != nil {
		return nil, err
	}

	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"start_date": startDate,
		"end_date":   endDate,
		"duration":   models.DurationSeconds(startDate, endDate),
	}
	if err := s.db.Model(budget).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// ChangeRecurring updates whether a budget renews at the end of its period.
func (s *budgetService) ChangeRecurring(userID, budgetID uint, recurring bool) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Update("recurring", recurring).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeleteBudget removes a budget and detaches it from its category.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).
			Where("user_id = ? AND budget_id = ?", userID, budgetID).
			Update("budget_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
