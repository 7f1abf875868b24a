// internal/handler/bundle.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Export(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	b, err := h.ledger.Export(c.Request.Context(), userID)
	if err != nil {
		fail(c, "Export", err)
		return
	}
	c.JSON(http.StatusOK, toBundle(b))
}

// Import godoc
// @Summary Import a bundle; category ids inside it are local references
// @Success 201 {object} storage.ImportResult
// @Failure 400 {object} map[string]string
// @Router /api/v1/import [post]
func (h *Handler) Import(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	var req bundleDTO
	if !bind(c, &req) {
		return
	}
	res, err := h.ledger.Import(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		fail(c, "Import", err)
		return
	}
	slog.Info("Bundle imported", "user_id", userID, "categories", res.Categories, "transactions", res.Transactions, "budgets", res.Budgets)
	c.JSON(http.StatusCreated, res)
}
