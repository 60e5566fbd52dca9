package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/models"
	"moneylog/internal/services"
	"moneylog/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- shared test helpers ---

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doRequestWithAuth(r *gin.Engine, method, path, body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authorization)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	if result["success"] != float64(0) {
		t.Errorf("expected success 0, got %v", result["success"])
	}
	if result["error"] != code {
		t.Errorf("expected error code %q, got %q", code, result["error"])
	}
}

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn     func(userID uint, monthYear string, amount float64) (*models.PersonalBudget, error)
	updateBudgetFn     func(userID, budgetID uint, monthYear string, amount float64) (*models.PersonalBudget, error)
	getUserBudgetsFn   func(userID uint, year string) ([]models.PersonalBudget, error)
	getBudgetByMonthFn func(userID uint, monthYear string) (*models.PersonalBudget, error)
}

func (m *mockBudgetService) CreateBudget(userID uint, monthYear string, amount float64) (*models.PersonalBudget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, monthYear, amount)
	}
	return &models.PersonalBudget{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID uint, monthYear string, amount float64) (*models.PersonalBudget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, monthYear, amount)
	}
	return &models.PersonalBudget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(userID uint, year string) ([]models.PersonalBudget, error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID, year)
	}
	return []models.PersonalBudget{}, nil
}

func (m *mockBudgetService) GetBudgetByMonth(userID uint, monthYear string) (*models.PersonalBudget, error) {
	if m.getBudgetByMonthFn != nil {
		return m.getBudgetByMonthFn(userID, monthYear)
	}
	return nil, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/personal-budgets", handler.AddBudget)
	auth.GET("/personal-budgets", handler.GetBudgets)
	auth.PUT("/personal-budgets/:id", handler.UpdateBudget)
	auth.GET("/personal-budgets/month/:month_year", handler.GetBudgetByMonth)
	return r
}

func TestBudgetHandler_AddBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(userID uint, monthYear string, amount float64) (*models.PersonalBudget, error) {
				return &models.PersonalBudget{ID: 1, UserID: userID, MonthYear: monthYear, BudgetAmount: amount}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "POST", "/personal-budgets", `{"month_year":"2024-03","budget_amount":1500}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["success"] != float64(1) {
			t.Errorf("expected success 1, got %v", result["success"])
		}
		budget := result["data"].(map[string]interface{})
		if budget["month_year"] != "2024-03" {
			t.Errorf("expected month 2024-03, got %v", budget["month_year"])
		}
	})

	t.Run("returns 400 on bad month format", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "POST", "/personal-budgets", `{"month_year":"2024-13","budget_amount":1500}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "POST", "/personal-budgets", `{"month_year":"2024-03","budget_amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 when month taken", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(uint, string, float64) (*models.PersonalBudget, error) {
				return nil, apperrors.ErrBudgetMonthExists
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "POST", "/personal-budgets", `{"month_year":"2024-03","budget_amount":1500}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_MONTH_EXISTS")
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			updateBudgetFn: func(userID, budgetID uint, monthYear string, amount float64) (*models.PersonalBudget, error) {
				return &models.PersonalBudget{ID: budgetID, UserID: userID, MonthYear: monthYear, BudgetAmount: amount}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "PUT", "/personal-budgets/5", `{"month_year":"2024-04","budget_amount":900}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on bad id", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "PUT", "/personal-budgets/abc", `{"month_year":"2024-04","budget_amount":900}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockBudgetService{
			updateBudgetFn: func(uint, uint, string, float64) (*models.PersonalBudget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "PUT", "/personal-budgets/5", `{"month_year":"2024-04","budget_amount":900}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}

func TestBudgetHandler_GetBudgetByMonth(t *testing.T) {
	t.Run("returns null data when absent", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "GET", "/personal-budgets/month/2024-03", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if data, exists := result["data"]; !exists || data != nil {
			t.Errorf("expected explicit null data, got %v", result["data"])
		}
		if result["message"] != "No budget found for this month" {
			t.Errorf("unexpected message %v", result["message"])
		}
	})

	t.Run("returns the budget", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByMonthFn: func(userID uint, monthYear string) (*models.PersonalBudget, error) {
				return &models.PersonalBudget{ID: 7, UserID: userID, MonthYear: monthYear, BudgetAmount: 400}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "GET", "/personal-budgets/month/2024-03", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		budget := result["data"].(map[string]interface{})
		if budget["budget_amount"].(float64) != 400 {
			t.Errorf("expected amount 400, got %v", budget["budget_amount"])
		}
	})
}
