package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user together with a profile holding the
// default currency.
func (s *userService) CreateUser(email, password, displayName string, defaultCurrency models.Currency) (*models.User, error) {
	// Validate input
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	if !defaultCurrency.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
	}

	// Check if user with email exists
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:    strings.ToLower(email),
		Password: string(hashedPassword),
		IsActive: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		profile := &models.UserProfile{
			UserID:          user.ID,
			DisplayName:     displayName,
			DefaultCurrency: defaultCurrency,
		}
		if err := tx.Create(profile).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin verifies credentials and returns the user on success.
// Both unknown email and wrong password yield ErrInvalidCredentials.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !s.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// GetProfile retrieves the profile for a user.
func (s *userService) GetProfile(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// UpdateProfile updates the provided profile fields. Nil fields are left
// unchanged.
func (s *userService) UpdateProfile(userID uint, displayName *string, defaultCurrency *models.Currency) (*models.UserProfile, error) {
	if displayName == nil && defaultCurrency == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to edit")
	}

	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if displayName != nil {
		updates["display_name"] = *displayName
	}
	if defaultCurrency != nil {
		if !defaultCurrency.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
		}
		updates["default_currency"] = *defaultCurrency
	}

	if err := s.db.Model(profile).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}
