// internal/handler/categories.go
package handler

import (
	"net/http"

	"moneytracker/internal/domain"
	"moneytracker/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCategories(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	cats, err := h.ledger.ListCategories(c.Request.Context(), userID)
	if err != nil {
		fail(c, "ListCategories", err)
		return
	}
	c.JSON(http.StatusOK, toCategories(cats))
}

func (h *Handler) CreateCategory(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if !bind(c, &req) {
		return
	}
	cat, err := h.ledger.CreateCategory(c.Request.Context(), userID, service.CategoryInput{Name: req.Name, Type: domain.CategoryType(req.Type)})
	if err != nil {
		fail(c, "CreateCategory", err)
		return
	}
	c.JSON(http.StatusCreated, toCategory(cat))
}

func (h *Handler) GetCategory(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.ledger.GetCategory(c.Request.Context(), userID, id)
	if err != nil {
		fail(c, "GetCategory", err)
		return
	}
	c.JSON(http.StatusOK, toCategory(*cat))
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if !bind(c, &req) {
		return
	}
	cat, err := h.ledger.UpdateCategory(c.Request.Context(), userID, id, service.CategoryInput{Name: req.Name, Type: domain.CategoryType(req.Type)})
	if err != nil {
		fail(c, "UpdateCategory", err)
		return
	}
	c.JSON(http.StatusOK, toCategory(cat))
}

// DeleteCategory detaches the category's transactions and drops its budgets.
func (h *Handler) DeleteCategory(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteCategory(c.Request.Context(), userID, id); err != nil {
		fail(c, "DeleteCategory", err)
		return
	}
	c.Status(http.StatusNoContent)
}
