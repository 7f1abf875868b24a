// internal/handler/auth.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"moneytracker/internal/auth"
	"moneytracker/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.ledger.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, "Register", err)
		return
	}
	slog.Info("User registered", "user_id", u.ID)
	c.JSON(http.StatusCreated, toUser(u))
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.ledger.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, "Login", err)
		return
	}
	pair, err := h.tokens.IssuePair(u.ID)
	if err != nil {
		fail(c, "Login", err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if !bind(c, &req) {
		return
	}
	access, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		fail(c, "RefreshToken", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (h *Handler) Profile(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	u, err := h.ledger.Profile(c.Request.Context(), userID)
	if err != nil {
		fail(c, "Profile", err)
		return
	}
	c.JSON(http.StatusOK, toUser(*u))
}
