package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobguard/internal/middleware"
	"jobguard/internal/service"
)

type AuthHandler interface {
	LoginForm(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
}

type authHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, logger *zap.Logger) AuthHandler {
	return &authHandler{authService: authService, logger: logger}
}

// LoginForm handles GET /admin_login
func (h *authHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login handles POST /admin_login. A bad credential re-renders the
// form with an inline error; no session is granted.
func (h *authHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	token, expiry, err := h.authService.Login(username, password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Invalid username or password."})
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Login failed, please try again."})
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(time.Until(expiry).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles GET /logout: clear the session cookie and return to
// the login form.
func (h *authHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/admin_login")
}
