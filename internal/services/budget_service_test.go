package services

import (
	"testing"
	"time"

	"finbook/internal/models"
	"finbook/internal/pagination"
	"finbook/internal/testutil"
)

func budgetPeriod() (time.Time, time.Time) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func TestCreateBudget(t *testing.T) {
	t.Run("valid_links_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		start, end := budgetPeriod()
		budget, err := svc.CreateBudget(user.ID, cat.ID, 250.0, start, end, true)
		testutil.AssertNoError(t, err)

		if budget.ID == 0 {
			t.Fatal("expected non-zero budget ID")
		}
		if budget.Duration != end.Unix()-start.Unix() {
			t.Errorf("expected duration %d, got %d", end.Unix()-start.Unix(), budget.Duration)
		}

		var stored models.Category
		db.First(&stored, cat.ID)
		if stored.BudgetID == nil || *stored.BudgetID != budget.ID {
			t.Error("expected category to be linked to the budget")
		}
	})

	t.Run("category_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		start, end := budgetPeriod()
		_, err := svc.CreateBudget(user.ID, 99999, 250.0, start, end, false)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("foreign_category_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestCategory(t, db, other.ID)

		start, end := budgetPeriod()
		_, err := svc.CreateBudget(user.ID, foreign.ID, 250.0, start, end, false)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("category_already_budgeted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestBudget(t, db, user.ID, cat)

		start, end := budgetPeriod()
		_, err := svc.CreateBudget(user.ID, cat.ID, 250.0, start, end, false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("end_before_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		start, end := budgetPeriod()
		_, err := svc.CreateBudget(user.ID, cat.ID, 250.0, end, start, false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		start, end := budgetPeriod()
		_, err := svc.CreateBudget(user.ID, cat.ID, 0, start, end, false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestChangeBudget(t *testing.T) {
	t.Run("change_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat)

		updated, err := svc.ChangeAmount(user.ID, budget.ID, 500.0)
		testutil.AssertNoError(t, err)
		if updated.Amount != 500.0 {
			t.Errorf("expected amount 500, got %v", updated.Amount)
		}
	})

	t.Run("change_amount_non_positive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat)

		_, err := svc.ChangeAmount(user.ID, budget.ID, -5)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("change_dates_recomputes_duration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat)

		start, _ := budgetPeriod()
		end := start.AddDate(0, 3, 0)
		updated, err := svc.ChangeDates(user.ID, budget.ID, start, end)
		testutil.AssertNoError(t, err)

		if updated.Duration != end.Unix()-start.Unix() {
			t.Errorf("expected duration %d, got %d", end.Unix()-start.Unix(), updated.Duration)
		}

		var stored models.Budget
		db.First(&stored, budget.ID)
		if stored.Duration != updated.Duration {
			t.Errorf("expected stored duration %d, got %d", updated.Duration, stored.Duration)
		}
	})

	t.Run("change_dates_invalid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat)

		start, end := budgetPeriod()
		_, err := svc.ChangeDates(user.ID, budget.ID, end, start)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("change_recurring", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat)

		updated, err := svc.ChangeRecurring(user.ID, budget.ID, true)
		testutil.AssertNoError(t, err)
		if !updated.Recurring {
			t.Error("expected recurring to be true")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ChangeAmount(user.ID, 99999, 500.0)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("foreign_budget_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID)
		budget := testutil.CreateTestBudget(t, db, owner.ID, cat)

		_, err := svc.ChangeAmount(intruder.ID, budget.ID, 500.0)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("detaches_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat)

		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))

		_, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

		var stored models.Category
		db.First(&stored, cat.ID)
		if stored.BudgetID != nil {
			t.Error("expected category budget link to be cleared")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertAppError(t, svc.DeleteBudget(user.ID, 99999), "BUDGET_NOT_FOUND")
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("returns_user_budgets_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		catA := testutil.CreateTestCategory(t, db, user.ID)
		catB := testutil.CreateTestCategory(t, db, other.ID)
		testutil.CreateTestBudget(t, db, user.ID, catA)
		testutil.CreateTestBudget(t, db, other.ID, catB)

		result, err := svc.GetUserBudgets(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 budget, got %d", result.TotalItems)
		}
	})
}
