package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/utils"
)

// sessionSubject is the JWT subject for the single tracker owner.
const sessionSubject = "owner"

// AuthController unlocks the tracker with a passcode.
type AuthController struct {
	passcodeHash string
	secret       string
	ttl          time.Duration
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(passcodeHash, secret string, ttl time.Duration) *AuthController {
	return &AuthController{passcodeHash: passcodeHash, secret: secret, ttl: ttl}
}

// Login exchanges the passcode for a session token.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Passcode string `json:"passcode" binding:"required"`
	}

	if a.passcodeHash == "" {
		utils.Error(ctx, http.StatusNotFound, 40401, "passcode lock is disabled")
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	if !utils.CheckPasscode(a.passcodeHash, req.Passcode) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid passcode")
		return
	}

	token, err := utils.GenerateToken(a.secret, sessionSubject, a.ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(a.ttl).UTC(),
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(a.ttl)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}
