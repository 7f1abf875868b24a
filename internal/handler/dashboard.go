// internal/handler/dashboard.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard godoc
// @Summary All-time totals, the latest transactions and budgets with what is left
// @Success 200 {object} dashboardResponse
// @Router /api/v1/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	d, err := h.ledger.Dashboard(c.Request.Context(), userID)
	if err != nil {
		fail(c, "Dashboard", err)
		return
	}
	c.JSON(http.StatusOK, toDashboard(d))
}

// Statistics godoc
// @Summary Income, expenses and savings rate in percent
// @Success 200 {object} statisticsResponse
// @Router /api/v1/statistics [get]
func (h *Handler) Statistics(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	st, err := h.ledger.Statistics(c.Request.Context(), userID)
	if err != nil {
		fail(c, "Statistics", err)
		return
	}
	c.JSON(http.StatusOK, statisticsResponse{
		TotalIncome:   money(st.Income),
		TotalExpenses: money(st.Expenses),
		SavingsRate:   money(st.SavingsRate),
	})
}
