package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itil-bridge/backend/internal/model"
	"github.com/itil-bridge/backend/internal/service"
)

// AuthHandler - 운영자 로그인 핸들러
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary Operator login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.AuthLoginRequest true "Credentials"
// @Success 200 {object} model.AuthLoginResponse
// @Failure 400,401 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid request"})
		return
	}

	token, expiresIn, err := h.svc.Login(req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, model.AuthLoginResponse{
		Status:      "success",
		AccessToken: token,
		ExpiresIn:   expiresIn,
	})
}
