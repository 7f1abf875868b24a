// internal/handler/budgets.go
package handler

import (
	"net/http"

	"moneytracker/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListBudgets(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	budgets, err := h.ledger.ListBudgets(c.Request.Context(), userID)
	if err != nil {
		fail(c, "ListBudgets", err)
		return
	}
	c.JSON(http.StatusOK, toBudgets(budgets))
}

func (h *Handler) CreateBudget(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	var req budgetRequest
	if !bind(c, &req) {
		return
	}
	st, err := h.ledger.CreateBudget(c.Request.Context(), userID, req.input())
	if err != nil {
		fail(c, "CreateBudget", err)
		return
	}
	c.JSON(http.StatusCreated, toBudget(st))
}

func (h *Handler) GetBudget(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	st, err := h.ledger.GetBudget(c.Request.Context(), userID, id)
	if err != nil {
		fail(c, "GetBudget", err)
		return
	}
	c.JSON(http.StatusOK, toBudget(st))
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req budgetRequest
	if !bind(c, &req) {
		return
	}
	st, err := h.ledger.UpdateBudget(c.Request.Context(), userID, id, req.input())
	if err != nil {
		fail(c, "UpdateBudget", err)
		return
	}
	c.JSON(http.StatusOK, toBudget(st))
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteBudget(c.Request.Context(), userID, id); err != nil {
		fail(c, "DeleteBudget", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetTotalBudget(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	st, err := h.ledger.GetTotalBudget(c.Request.Context(), userID)
	if err != nil {
		fail(c, "GetTotalBudget", err)
		return
	}
	c.JSON(http.StatusOK, toTotalBudget(st))
}

// PutTotalBudget creates the total budget or replaces the existing one.
func (h *Handler) PutTotalBudget(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	var req totalBudgetRequest
	if !bind(c, &req) {
		return
	}
	st, err := h.ledger.PutTotalBudget(c.Request.Context(), userID, service.TotalBudgetInput{
		Amount:    req.Amount.Decimal,
		StartDate: day(req.StartDate),
		EndDate:   day(req.EndDate),
	})
	if err != nil {
		fail(c, "PutTotalBudget", err)
		return
	}
	c.JSON(http.StatusOK, toTotalBudget(st))
}

func (h *Handler) DeleteTotalBudget(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteTotalBudget(c.Request.Context(), userID); err != nil {
		fail(c, "DeleteTotalBudget", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r budgetRequest) input() service.BudgetInput {
	return service.BudgetInput{
		CategoryID: r.Category,
		Amount:     r.Amount.Decimal,
		StartDate:  day(r.StartDate),
		EndDate:    day(r.EndDate),
	}
}
