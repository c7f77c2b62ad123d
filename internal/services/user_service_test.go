package services

import (
	"testing"

	"finbook/internal/models"
	"finbook/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid_creates_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("new@test.com", "password123", "New User", models.CurrencyUSD)
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Profile == nil {
			t.Fatal("expected profile to be created")
		}
		if user.Profile.DefaultCurrency != models.CurrencyUSD {
			t.Errorf("expected default currency USD, got %s", user.Profile.DefaultCurrency)
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@test.com", "password123", "", models.CurrencyEUR)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("dup@test.com", "password456", "", models.CurrencyEUR)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("invalid_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bad@test.com", "password123", "", "DOUBLOON")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("email_lowercased", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Mixed@Test.COM", "password123", "", models.CurrencyEUR)
		testutil.AssertNoError(t, err)
		if user.Email != "mixed@test.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created, err := svc.CreateUser("login@test.com", "password123", "", models.CurrencyEUR)
		testutil.AssertNoError(t, err)

		user, err := svc.AttemptLogin("login@test.com", "password123")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("login@test.com", "password123", "", models.CurrencyEUR)
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("login@test.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("ghost@test.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("change_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		cur := models.CurrencyYEN
		profile, err := svc.UpdateProfile(user.ID, nil, &cur)
		testutil.AssertNoError(t, err)
		if profile.DefaultCurrency != models.CurrencyYEN {
			t.Errorf("expected currency YEN, got %s", profile.DefaultCurrency)
		}
	})

	t.Run("no_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateProfile(user.ID, nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUserWithoutProfile(t, db)

		name := "Somebody"
		_, err := svc.UpdateProfile(user.ID, &name, nil)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
