// internal/handler/handler.go
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"moneytracker/internal/auth"
	"moneytracker/internal/domain"
	"moneytracker/internal/middleware"
	"moneytracker/internal/service"
	"moneytracker/internal/storage"
	val "moneytracker/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	ledger *service.Ledger
	tokens *auth.TokenService
}

func New(ledger *service.Ledger, tokens *auth.TokenService) *Handler {
	return &Handler{ledger: ledger, tokens: tokens}
}

// Mount registers every route. requireAuth guards everything except health
// and the token endpoints.
func (h *Handler) Mount(r gin.IRouter, requireAuth gin.HandlerFunc) {
	r.GET("/health", Health)

	api := r.Group("/api/v1")
	api.GET("/health", Health)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/token/refresh", h.RefreshToken)

	v1 := api.Group("", requireAuth)
	{
		v1.GET("/profile", h.Profile)
		v1.GET("/dashboard", h.Dashboard)
		v1.GET("/statistics", h.Statistics)

		v1.GET("/categories", h.ListCategories)
		v1.POST("/categories", h.CreateCategory)
		v1.GET("/categories/:id", h.GetCategory)
		v1.PUT("/categories/:id", h.UpdateCategory)
		v1.DELETE("/categories/:id", h.DeleteCategory)

		v1.GET("/transactions", h.ListTransactions)
		v1.POST("/transactions", h.CreateTransaction)
		v1.GET("/transactions/:id", h.GetTransaction)
		v1.PUT("/transactions/:id", h.UpdateTransaction)
		v1.DELETE("/transactions/:id", h.DeleteTransaction)

		v1.GET("/budgets", h.ListBudgets)
		v1.POST("/budgets", h.CreateBudget)
		v1.GET("/budgets/:id", h.GetBudget)
		v1.PUT("/budgets/:id", h.UpdateBudget)
		v1.DELETE("/budgets/:id", h.DeleteBudget)

		v1.GET("/total-budget", h.GetTotalBudget)
		v1.PUT("/total-budget", h.PutTotalBudget)
		v1.DELETE("/total-budget", h.DeleteTotalBudget)

		v1.GET("/user-settings", h.GetSettings)
		v1.PUT("/user-settings", h.UpdateSettings)

		v1.GET("/export", h.Export)
		v1.POST("/import", h.Import)
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ownerID(c *gin.Context) (int64, bool) {
	userIDVal, ok := c.Get(middleware.UserIDKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return 0, false
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	return userID, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// bind decodes the JSON body and runs struct validation.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return false
	}
	return check(c, req)
}

func check(c *gin.Context, req any) bool {
	if err := validateStruct(req); err != nil {
		var ie *inputError
		if errors.As(err, &ie) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ie.Error(), "fields": ie.fields})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

var badRequest = []error{
	domain.ErrCategoryRequired,
	domain.ErrCategoryNotFound,
	domain.ErrInvalidCategoryType,
	domain.ErrEmptyName,
	domain.ErrNameTooLong,
	domain.ErrInvalidAmount,
	domain.ErrInvalidDate,
	domain.ErrInvalidWindow,
	domain.ErrInvalidLanguage,
	service.ErrDuplicateReference,
}

// fail maps service errors to status codes. Anything unexpected is logged
// and hidden behind a 500.
func fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	case errors.Is(err, storage.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	slog.Error(op+" failed", "error", err, "user_id", c.Value(middleware.UserIDKey), "request_id", c.GetString(middleware.RequestIDKey))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}

type inputError struct {
	fields []string
}

func (e *inputError) Error() string {
	return "invalid input: " + strings.Join(e.fields, "; ")
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		ie := &inputError{}
		for _, e := range verrs {
			ie.fields = append(ie.fields, fieldErrorToString(e))
		}
		return ie
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "isodate":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", e.Field())
	case "money":
		return fmt.Sprintf("%s must have at most two decimal places and be below 100000000", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", e.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
