// internal/handler/transactions.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"moneytracker/internal/domain"
	"moneytracker/internal/service"
	"moneytracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ListTransactions godoc
// @Summary List transactions
// @Param category query string false "Exact category name"
// @Param date_from query string false "YYYY-MM-DD, used together with date_to"
// @Param date_to query string false "YYYY-MM-DD, used together with date_from"
// @Param q query string false "Substring of description or category name"
// @Param sort query string false "date, -date, amount, -amount, id, -id"
// @Router /api/v1/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	f := storage.TransactionFilter{
		CategoryName: strings.TrimSpace(c.Query("category")),
		Query:        strings.TrimSpace(c.Query("q")),
		Sort:         c.DefaultQuery("sort", "-date"),
	}
	if from, to := c.Query("date_from"), c.Query("date_to"); from != "" && to != "" {
		fromDate, err := domain.ParseDate(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be in YYYY-MM-DD format"})
			return
		}
		toDate, err := domain.ParseDate(to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be in YYYY-MM-DD format"})
			return
		}
		f.From, f.To = &fromDate, &toDate
	}

	txs, err := h.ledger.ListTransactions(c.Request.Context(), userID, f)
	if err != nil {
		fail(c, "ListTransactions", err)
		return
	}
	c.JSON(http.StatusOK, toTransactions(txs))
}

// CreateTransaction accepts JSON, where the category may be null, or an
// urlencoded form, where it is required.
func (h *Handler) CreateTransaction(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	bindInput := bindTransaction
	if c.ContentType() == binding.MIMEPOSTForm {
		bindInput = bindTransactionForm
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}

	t, err := h.ledger.CreateTransaction(c.Request.Context(), userID, in)
	if err != nil {
		fail(c, "CreateTransaction", err)
		return
	}
	slog.Info("Transaction created", "user_id", userID, "transaction_id", t.ID, "amount", money(t.Amount))
	c.JSON(http.StatusCreated, toTransaction(t))
}

func (h *Handler) GetTransaction(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.ledger.GetTransaction(c.Request.Context(), userID, id)
	if err != nil {
		fail(c, "GetTransaction", err)
		return
	}
	c.JSON(http.StatusOK, toTransaction(*t))
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := bindTransaction(c)
	if !ok {
		return
	}
	t, err := h.ledger.UpdateTransaction(c.Request.Context(), userID, id, in)
	if err != nil {
		fail(c, "UpdateTransaction", err)
		return
	}
	c.JSON(http.StatusOK, toTransaction(t))
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteTransaction(c.Request.Context(), userID, id); err != nil {
		fail(c, "DeleteTransaction", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindTransaction(c *gin.Context) (service.TransactionInput, bool) {
	var req transactionRequest
	if !bind(c, &req) {
		return service.TransactionInput{}, false
	}
	return service.TransactionInput{
		Amount:      req.Amount.Decimal,
		Date:        day(req.Date),
		Description: req.Description,
		CategoryID:  req.Category,
	}, true
}

func bindTransactionForm(c *gin.Context) (service.TransactionInput, bool) {
	var req transactionForm
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form"})
		return service.TransactionInput{}, false
	}
	if !check(c, &req) {
		return service.TransactionInput{}, false
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.TransactionInput{}, false
	}
	in := service.TransactionInput{
		Amount:          amount,
		Date:            day(req.Date),
		Description:     req.Description,
		RequireCategory: true,
	}
	if req.Category != "" {
		id, err := strconv.ParseInt(req.Category, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category must be an id"})
			return service.TransactionInput{}, false
		}
		in.CategoryID = &id
	}
	return in, true
}
