package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/health-tracker/internal/utils"
)

// Authenticator is implemented by *service.AuthService.
type Authenticator interface {
	Register(ctx context.Context, name, email, password string) (uint64, error)
	Login(ctx context.Context, email, password string) (utils.AccessToken, error)
}

// AuthHandler serves /register and /login.
type AuthHandler struct {
	Auth    Authenticator
	Log     zerolog.Logger
	Timeout time.Duration
}

func NewAuthHandler(auth Authenticator, log zerolog.Logger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{Auth: auth, Log: log, Timeout: timeout}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	uid, err := h.Auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User registered successfully", "userId": uid})
}

// Login handles POST /login.  Unknown email and wrong password produce the
// same 401 body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	tok, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": tok.Token})
}
