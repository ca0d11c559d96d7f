// File: /controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fueltrack-api/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthController struct {
	telegram  *services.TelegramAuth
	jwtSecret string
}

func NewAuthController(telegram *services.TelegramAuth, jwtSecret string) *AuthController {
	return &AuthController{
		telegram:  telegram,
		jwtSecret: jwtSecret,
	}
}

type SessionRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

type AuthResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expires_at"`
	User      *services.TelegramUser `json:"user"`
}

// CreateSession exchanges signed Telegram Web App init data for an API token
func (ac *AuthController) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.telegram.Verify(req.InitData)
	if err != nil {
		log.WithError(err).Warn("Rejected Telegram init data")
		message := "Invalid init data"
		if errors.Is(err, services.ErrInitDataExpired) {
			message = "Init data expired"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
		return
	}

	userID := strconv.FormatInt(user.ID, 10)
	expiresAt := time.Now().Add(tokenTTL)
	token, err := ac.generateJWT(userID, expiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.WithField("user_id", userID).Info("Session created")
	c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

func (ac *AuthController) generateJWT(userID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.jwtSecret))
}
