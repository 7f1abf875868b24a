// internal/handler/settings.go
package handler

import (
	"net/http"

	"moneytracker/internal/domain"
	"moneytracker/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSettings(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	st, err := h.ledger.Settings(c.Request.Context(), userID)
	if err != nil {
		fail(c, "GetSettings", err)
		return
	}
	c.JSON(http.StatusOK, toSettings(st))
}

// UpdateSettings only changes the fields present in the body.
func (h *Handler) UpdateSettings(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	var req settingsRequest
	if !bind(c, &req) {
		return
	}
	in := service.SettingsInput{
		NotificationsEnabled: req.NotificationsEnabled,
		DarkMode:             req.DarkMode,
		TelegramChatID:       req.TelegramChatID,
	}
	if req.Language != nil {
		lang := domain.Language(*req.Language)
		in.Language = &lang
	}
	st, err := h.ledger.UpdateSettings(c.Request.Context(), userID, in)
	if err != nil {
		fail(c, "UpdateSettings", err)
		return
	}
	c.JSON(http.StatusOK, toSettings(st))
}
