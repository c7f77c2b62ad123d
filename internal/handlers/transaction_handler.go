package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
	"finbook/internal/pagination"
	"finbook/internal/services"
)

// maxReceiptSize limits receipt uploads to 1 MiB.
const maxReceiptSize = 1 << 20

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionForm represents the multipart form for creating a
// transaction. The receipt file is read separately.
type CreateTransactionForm struct {
	Type        string  `form:"type" binding:"required,transaction_type"`
	Amount      float64 `form:"amount" binding:"required,gt=0"`
	Currency    *string `form:"currency" binding:"omitempty,currency"`
	Description string  `form:"description" binding:"max=500"`
	Date        *string `form:"date"`
	CategoryID  *uint   `form:"category_id"`
}

// UpdateTransactionForm represents the multipart form for updating a
// transaction. All fields are optional.
type UpdateTransactionForm struct {
	Type        *string  `form:"type" binding:"omitempty,transaction_type"`
	Amount      *float64 `form:"amount" binding:"omitempty,gt=0"`
	Currency    *string  `form:"currency" binding:"omitempty,currency"`
	Description *string  `form:"description" binding:"omitempty,max=500"`
	Date        *string  `form:"date"`
	CategoryID  *uint    `form:"category_id"`
}

// SwapCategoryRequest represents the payload for moving a transaction to
// another category.
type SwapCategoryRequest struct {
	CategoryID uint `json:"category_id" binding:"required"`
}

// openReceipt extracts the optional receipt file from the multipart form.
// Returns nil when no receipt was sent.
func openReceipt(c *gin.Context) (*services.ReceiptUpload, multipart.File, error) {
	header, err := c.FormFile("receipt")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid receipt upload")
	}
	if header.Size > maxReceiptSize {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt exceeds the 1 MiB limit")
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &services.ReceiptUpload{Content: file}, file, nil
}

// parseDate parses an optional RFC 3339 date form field.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be in RFC 3339 format")
	}
	return &t, nil
}

// CreateTransaction handles the creation of a new transaction with an
// optional receipt image.
// @Summary     Create a transaction
// @Description Create a new transaction, optionally attaching a receipt image (max 1 MiB)
// @Tags        transactions
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       type        formData string  true  "Transaction type (DEPOSIT/WITHDRAWAL)"
// @Param       amount      formData number  true  "Amount, must be positive"
// @Param       currency    formData string  false "Currency (defaults to profile currency)"
// @Param       description formData string  false "Description"
// @Param       date        formData string  false "Date in RFC 3339 format (defaults to now)"
// @Param       category_id formData int     false "Category ID (defaults to the default category)"
// @Param       receipt     formData file    false "Receipt image"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "No default category or currency"
// @Failure     502 {object} ErrorResponse "Receipt store unavailable"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var form CreateTransactionForm
	if err := c.ShouldBind(&form); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(form.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	receipt, file, err := openReceipt(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	input := services.CreateTransactionInput{
		Type:        models.TransactionType(form.Type),
		Amount:      form.Amount,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		Receipt:     receipt,
	}
	if form.Currency != nil {
		cur := models.Currency(*form.Currency)
		input.Currency = &cur
	}
	if date != nil {
		input.Date = *date
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// UpdateTransaction handles partial updates of a transaction, optionally
// replacing its receipt image.
// @Summary     Update a transaction
// @Description Update a transaction's fields, optionally replacing the receipt image
// @Tags        transactions
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id          path     int     true  "Transaction ID"
// @Param       type        formData string  false "Transaction type (DEPOSIT/WITHDRAWAL)"
// @Param       amount      formData number  false "Amount, must be positive"
// @Param       currency    formData string  false "Currency"
// @Param       description formData string  false "Description"
// @Param       date        formData string  false "Date in RFC 3339 format"
// @Param       category_id formData int     false "Category ID"
// @Param       receipt     formData file    false "Replacement receipt image"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     502 {object} ErrorResponse "Receipt store unavailable"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var form UpdateTransactionForm
	if err := c.ShouldBind(&form); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(form.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	receipt, file, err := openReceipt(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	input := services.UpdateTransactionInput{
		Amount:      form.Amount,
		Description: form.Description,
		Date:        date,
		CategoryID:  form.CategoryID,
		Receipt:     receipt,
	}
	if form.Type != nil {
		t := models.TransactionType(*form.Type)
		input.Type = &t
	}
	if form.Currency != nil {
		cur := models.Currency(*form.Currency)
		input.Currency = &cur
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, transactionID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction.
// @Summary     Delete a transaction
// @Description Delete a transaction and its receipt
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SwapCategory handles moving a transaction to another category.
// @Summary     Swap transaction category
// @Description Move a transaction to a different category owned by the user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Transaction ID"
// @Param       request body SwapCategoryRequest true "Target category"
// @Success     204 "Category swapped"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction or category not found"
// @Router      /transactions/{id}/category [put]
func (h *TransactionHandler) SwapCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SwapCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.transactionService.SwapCategory(userID, transactionID, req.CategoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTransactionByID handles the retrieval of a specific transaction.
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID, including its receipt
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// GetTransactions handles listing transactions for the authenticated user.
// @Summary     Get transactions
// @Description Get a paginated, filtered list of the user's transactions, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       from_date   query string false "Filter from date (RFC 3339)"
// @Param       to_date     query string false "Filter to date (RFC 3339)"
// @Param       type        query string false "Filter by type (DEPOSIT/WITHDRAWAL)"
// @Param       category_id query int    false "Filter by category"
// @Param       min_amount  query number false "Minimum amount"
// @Param       max_amount  query number false "Maximum amount"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date must be in RFC 3339 format")
		}
		filter.FromDate = &t
	}
	if v := c.Query("to_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date must be in RFC 3339 format")
		}
		filter.ToDate = &t
	}
	if v := c.Query("type"); v != "" {
		transactionType, err := models.ParseTransactionType(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid transaction type")
		}
		filter.Type = &transactionType
	}
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if v := c.Query("min_amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid min_amount")
		}
		filter.MinAmount = &amount
	}
	if v := c.Query("max_amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid max_amount")
		}
		filter.MaxAmount = &amount
	}

	return filter, nil
}
