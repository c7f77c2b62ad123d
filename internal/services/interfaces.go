package services

import (
	"context"
	"io"
	"time"

	"finbook/internal/models"
	"finbook/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string, defaultCurrency models.Currency) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	GetProfile(userID uint) (*models.UserProfile, error)
	UpdateProfile(userID uint, displayName *string, defaultCurrency *models.Currency) (*models.UserProfile, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name, description string) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	GetDefaultCategory(userID uint) (*models.Category, error)
	EditCategory(userID, categoryID uint, name, description *string) (*models.Category, error)
	SetDefaultCategory(userID, categoryID uint) error
	DeleteCategory(userID, categoryID uint) error
}

// ReceiptUpload carries an incoming receipt image.
type ReceiptUpload struct {
	Content io.Reader
}

// CreateTransactionInput holds the fields for creating a transaction.
// CategoryID and Currency are optional; when absent they are resolved
// from the user's default category and profile currency.
type CreateTransactionInput struct {
	Type        models.TransactionType
	Amount      float64
	Currency    *models.Currency
	Description string
	Date        time.Time
	CategoryID  *uint
	Receipt     *ReceiptUpload
}

// UpdateTransactionInput holds the optional fields for updating a
// transaction. Nil fields are left unchanged.
type UpdateTransactionInput struct {
	Type        *models.TransactionType
	Amount      *float64
	Currency    *models.Currency
	Description *string
	Date        *time.Time
	CategoryID  *uint
	Receipt     *ReceiptUpload
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
	MinAmount  *float64
	MaxAmount  *float64
}

// TransactionServicer defines the contract for transaction-related business
// logic. Operations that may touch the receipt blob store take a context.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID uint, input CreateTransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID uint, input UpdateTransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID uint) error
	SwapCategory(userID, transactionID, categoryID uint) error
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID uint, amount float64, startDate, endDate time.Time, recurring bool) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	ChangeAmount(userID, budgetID uint, amount float64) (*models.Budget, error)
	ChangeDates(userID, budgetID uint, startDate, endDate time.Time) (*models.Budget, error)
	ChangeRecurring(userID, budgetID uint, recurring bool) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
}
