package routes

import (
	"time"

	"estateauth/api/handler"
	"estateauth/api/middleware"
	"estateauth/internal/entity"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware middleware.AuthMiddleware) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.POST("/auth/login", r.Auth.PasswordLogin, r.LoginRate.Middleware())
	e.POST("/auth/login/google", r.Auth.ProviderLogin, r.LoginRate.Middleware())
	e.POST("/auth/otp/send", r.Auth.SendCode, r.LoginRate.Middleware())
	e.POST("/auth/otp/verify", r.Auth.CodeLogin, r.LoginRate.Middleware())
	e.POST("/auth/refresh", r.Auth.Refresh, r.AuthRate.Middleware())
	e.POST("/auth/logout", r.Auth.Logout, r.AuthMiddleware.RequireAuth)

	e.GET("/auth/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)
	e.GET("/auth/sessions", r.Auth.Sessions, r.AuthMiddleware.RequireAuth)

	e.POST("/admin/users/:id/revoke-sessions", r.Auth.AdminRevokeUserSessions,
		r.AuthMiddleware.RequireAuth, middleware.RequireAccountType(string(entity.AccountTypeStaff)))
}
