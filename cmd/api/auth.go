package main

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/container"
	"bookreview-backend/pkg/jwt"
)

type tokenRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// issueTokenHandler POST /api/v1/auth/token
// Exchanges the admin credentials for a bearer token.
func issueTokenHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		auth := appCtx.Config.Auth
		if auth.AdminPasswordHash == "" {
			response.ErrorResponse(c, http.StatusServiceUnavailable, "AUTH_DISABLED", "Token issuing is not configured")
			return
		}

		subjectOK := subtle.ConstantTimeCompare([]byte(req.Subject), []byte(auth.AdminSubject)) == 1
		passwordErr := bcrypt.CompareHashAndPassword([]byte(auth.AdminPasswordHash), []byte(req.Password))
		if !subjectOK || passwordErr != nil {
			log.Warn().Str("subject", req.Subject).Str("ip", c.ClientIP()).Msg("rejected token request")
			response.Unauthorized(c, "invalid credentials")
			return
		}

		token, expiresAt, err := appCtx.JWTManager.GenerateAccessToken(req.Subject, jwt.RoleAdmin)
		if err != nil {
			log.Error().Err(err).Msg("failed to sign token")
			response.InternalServerError(c, "Failed to issue token")
			return
		}

		response.Success(c, http.StatusOK, tokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresAt:   expiresAt,
		})
	}
}
