package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finbook/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, a unique email,
// and a profile defaulting to EUR.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	profile := &models.UserProfile{
		UserID:          user.ID,
		DisplayName:     fmt.Sprintf("Test User %d", user.ID),
		DefaultCurrency: models.CurrencyEUR,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test user profile: %v", err)
	}
	user.Profile = profile
	return user
}

// CreateTestUserWithoutProfile creates a user with no profile row, for
// exercising missing default currency behavior.
func CreateTestUserWithoutProfile(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: "irrelevant",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a non-default category.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()

	n := nextID()
	category := &models.Category{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Category %d", n),
		Description: fmt.Sprintf("Test category description %d", n),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestDefaultCategory creates a category flagged as the user's default.
func CreateTestDefaultCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()

	n := nextID()
	category := &models.Category{
		UserID:      userID,
		Name:        fmt.Sprintf("Default Category %d", n),
		Description: fmt.Sprintf("Default category description %d", n),
		IsDefault:   true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test default category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, txType models.TransactionType, amount float64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Currency:   models.CurrencyEUR,
		Date:       time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestReceipt creates a receipt row and links the transaction to it.
func CreateTestReceipt(t *testing.T, db *gorm.DB, transaction *models.Transaction, url string) *models.Receipt {
	t.Helper()

	receipt := &models.Receipt{
		TransactionID: transaction.ID,
		UserID:        transaction.UserID,
		URL:           url,
	}
	if err := db.Create(receipt).Error; err != nil {
		t.Fatalf("failed to create test receipt: %v", err)
	}
	if err := db.Model(transaction).Update("receipt_id", receipt.ID).Error; err != nil {
		t.Fatalf("failed to link test receipt: %v", err)
	}
	transaction.ReceiptID = &receipt.ID
	transaction.Receipt = receipt
	return receipt
}

// CreateTestBudget creates a one-month budget for the given category and
// links the category to it.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, category *models.Category) *models.Budget {
	t.Helper()

	start := time.Now().Truncate(24 * time.Hour)
	end := start.AddDate(0, 1, 0)
	budget := &models.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Amount:     100.0,
		StartDate:  start,
		EndDate:    end,
		Duration:   models.DurationSeconds(start, end),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	if err := db.Model(category).Update("budget_id", budget.ID).Error; err != nil {
		t.Fatalf("failed to link test budget: %v", err)
	}
	category.BudgetID = &budget.ID
	return budget
}
