package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "finbook/internal/errors"
	"finbook/internal/logger"
	"finbook/internal/models"
	"finbook/internal/pagination"
	"finbook/internal/storage"
	"finbook/internal/uuid"
)

// transactionService handles transaction-related business logic.
//
// Receipt blobs live in an object store that shares no transaction with
// the database. The invariant maintained here is that a committed
// transaction row never references a missing blob: blobs are uploaded
// before the database transaction, and a failed commit triggers a
// best-effort compensating delete of the fresh blob. Blob deletes after
// a successful commit are best-effort only; an orphaned blob is
// harmless, a dangling reference is not.
type transactionService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, store storage.ObjectStore) TransactionServicer {
	return &transactionService{db: db, store: store}
}

// receiptKey builds the object key for a new receipt blob. Keys are
// namespaced per user and time-ordered.
func receiptKey(userID uint) string {
	return fmt.Sprintf("receipts/%d/%s", userID, uuid.New())
}

// compensateUpload removes a blob that was uploaded for a database
// transaction that did not commit.
func (s *transactionService) compensateUpload(ctx context.Context, key string) {
	if s.store.Delete(ctx, key) {
		logger.Get().Infow("Removed receipt blob after failed commit", "key", key)
	} else {
		logger.Get().Warnw("Failed to remove receipt blob after failed commit, blob is orphaned", "key", key)
	}
}

// resolveCategoryID returns the category to attach a transaction to,
// falling back to the user's default category when none is given.
func resolveCategoryID(tx *gorm.DB, userID uint, categoryID *uint) (uint, error) {
	var category models.Category
	if categoryID != nil {
		if err := tx.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, apperrors.ErrCategoryNotFound
			}
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return category.ID, nil
	}

	if err := tx.Where("user_id = ? AND is_default = ?", userID, true).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrNoDefaultCategory
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category.ID, nil
}

// resolveCurrency returns the currency for a transaction, falling back to
// the user's profile currency when none is given.
func resolveCurrency(tx *gorm.DB, userID uint, currency *models.Currency) (models.Currency, error) {
	if currency != nil {
		return *currency, nil
	}

	var profile models.UserProfile
	if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrNoDefaultCurrency
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !profile.DefaultCurrency.Valid() {
		return "", apperrors.ErrNoDefaultCurrency
	}
	return profile.DefaultCurrency, nil
}

// CreateTransaction creates a new transaction, optionally with a receipt
// image. The receipt is uploaded before the database transaction; if the
// commit fails the fresh blob is removed again.
func (s *transactionService) CreateTransaction(ctx context.Context, userID uint, input CreateTransactionInput) (*models.Transaction, error) {
	// Validate input
	if !input.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid transaction type")
	}
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Currency != nil && !input.Currency.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
	}

	// Default date to now if not provided
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	// Upload the receipt first. The blob must exist before any row can
	// reference it.
	var uploadedKey, uploadedURL string
	if input.Receipt != nil {
		key := receiptKey(userID)
		url, err := s.store.Upload(ctx, key, input.Receipt.Content)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageFailure, err)
		}
		uploadedKey = key
		uploadedURL = url
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        date,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		categoryID, err := resolveCategoryID(tx, userID, input.CategoryID)
		if err != nil {
			return err
		}
		transaction.CategoryID = categoryID

		currency, err := resolveCurrency(tx, userID, input.Currency)
		if err != nil {
			return err
		}
		transaction.Currency = currency

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if uploadedKey != "" {
			receipt := &models.Receipt{
				TransactionID: transaction.ID,
				UserID:        userID,
				URL:           uploadedURL,
			}
			if err := tx.Create(receipt).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if err := tx.Model(transaction).Update("receipt_id", receipt.ID).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			transaction.ReceiptID = &receipt.ID
			transaction.Receipt = receipt
		}
		return nil
	})
	if err != nil {
		if uploadedKey != "" {
			s.compensateUpload(ctx, uploadedKey)
		}
		return nil, err
	}

	return transaction, nil
}

// UpdateTransaction updates a transaction's fields and optionally replaces
// its receipt. A replacement blob is uploaded before the database
// transaction and compensated away if the commit fails; the previous blob
// is removed best-effort only after the commit succeeds.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID uint, input UpdateTransactionInput) (*models.Transaction, error) {
	if input.Type == nil && input.Amount == nil && input.Currency == nil &&
		input.Description == nil && input.Date == nil && input.CategoryID == nil &&
		input.Receipt == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to edit")
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid transaction type")
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Currency != nil && !input.Currency.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
	}

	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	var oldURL string
	if transaction.Receipt != nil {
		oldURL = transaction.Receipt.URL
	}

	var uploadedKey, uploadedURL string
	if input.Receipt != nil {
		key := receiptKey(userID)
		url, err := s.store.Upload(ctx, key, input.Receipt.Content)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageFailure, err)
		}
		uploadedKey = key
		uploadedURL = url
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if input.Type != nil {
			updates["type"] = *input.Type
		}
		if input.Amount != nil {
			updates["amount"] = *input.Amount
		}
		if input.Currency != nil {
			updates["currency"] = *input.Currency
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Date != nil {
			updates["date"] = *input.Date
		}
		if input.CategoryID != nil {
			categoryID, err := resolveCategoryID(tx, userID, input.CategoryID)
			if err != nil {
				return err
			}
			updates["category_id"] = categoryID
		}

		if len(updates) > 0 {
			if err := tx.Model(transaction).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if uploadedKey != "" {
			if transaction.Receipt != nil {
				if err := tx.Model(transaction.Receipt).Update("url", uploadedURL).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
			} else {
				receipt := &models.Receipt{
					TransactionID: transaction.ID,
					UserID:        userID,
					URL:           uploadedURL,
				}
				if err := tx.Create(receipt).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				if err := tx.Model(transaction).Update("receipt_id", receipt.ID).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				transaction.ReceiptID = &receipt.ID
				transaction.Receipt = receipt
			}
		}
		return nil
	})
	if err != nil {
		if uploadedKey != "" {
			s.compensateUpload(ctx, uploadedKey)
		}
		return nil, err
	}

	// The replaced blob is unreferenced now; removing it may fail without
	// consequence.
	if uploadedKey != "" && oldURL != "" {
		if key := storage.KeyFromURL(oldURL); key != "" {
			if !s.store.Delete(ctx, key) {
				logger.Get().Warnw("Failed to remove replaced receipt blob, blob is orphaned", "key", key)
			}
		}
	}

	return transaction, nil
}

// DeleteTransaction soft-deletes a transaction and removes its receipt
// row. The receipt blob is removed best-effort after the commit.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID uint) error {
	var receiptURL string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.Preload("Receipt").
			Where("id = ? AND user_id = ? AND deleted = ?", transactionID, userID, false).
			First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&transaction).Update("deleted", true).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if transaction.Receipt != nil {
			receiptURL = transaction.Receipt.URL
			if err := tx.Delete(transaction.Receipt).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if receiptURL != "" {
		if key := storage.KeyFromURL(receiptURL); key != "" {
			if !s.store.Delete(ctx, key) {
				logger.Get().Warnw("Failed to remove receipt blob of deleted transaction, blob is orphaned", "key", key)
			}
		}
	}
	return nil
}

// SwapCategory moves a transaction to another category owned by the same
// user.
func (s *transactionService) SwapCategory(userID, transactionID, categoryID uint) error {
	// Verify the target category exists and belongs to the user
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	res := s.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ? AND deleted = ?", transactionID, userID, false).
		Update("category_id", categoryID)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
// Soft-deleted transactions are treated as absent.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Receipt").
		Where("id = ? AND user_id = ? AND deleted = ?", transactionID, userID, false).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ? AND deleted = ?", userID, false)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Receipt").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}
