package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/arogyamitra/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type Credentials interface {
	Register(ctx context.Context, req user.RegisterRequest) (user.User, error)
	Authenticate(ctx context.Context, email, password string) (user.User, error)
}

// TokenIssuer is optional; without one no access_token is returned.
type TokenIssuer interface {
	GenerateAccessToken(userID, email string) (string, error)
}

type AuthHandler struct {
	creds  Credentials
	tokens TokenIssuer
}

func NewAuthHandler(creds Credentials, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{creds: creds, tokens: tokens}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.creds.Register(cctx, req)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			RespondBadRequest(ctx, "email_taken", "Email already registered", nil)
			return
		}

		slog.Default().ErrorContext(cctx, "user.register_failed", "err", err)
		RespondInternal(ctx, "Could not register user")
		return
	}

	body := gin.H{
		"success": true,
		"message": "User registered successfully",
		"user_id": u.ID,
		"name":    u.Name,
	}

	if !h.attachToken(ctx, body, u) {
		return
	}

	ctx.JSON(http.StatusOK, body)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for the user lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.creds.Authenticate(cctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid email or password")
			return
		}

		slog.Default().ErrorContext(cctx, "user.login_failed", "err", err)
		RespondInternal(ctx, "Could not log in")
		return
	}

	body := gin.H{
		"success": true,
		"message": "Login successful",
		"user_id": u.ID,
		"name":    u.Name,
		"email":   u.Email,
	}

	if !h.attachToken(ctx, body, u) {
		return
	}

	ctx.JSON(http.StatusOK, body)
}

func (h *AuthHandler) attachToken(ctx *gin.Context, body gin.H, u user.User) bool {
	if h.tokens == nil {
		return true
	}

	token, err := h.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return false
	}

	body["access_token"] = token
	return true
}
