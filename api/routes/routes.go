package routes

import (
	"net/http"

	"photogallery/api/handler"
	"photogallery/api/middleware"
	"photogallery/internal/entity"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Photos         *handler.PhotoHandler
	Albums         *handler.AlbumHandler
	AuthMiddleware middleware.AuthMiddleware
	OTPRequestRate *middleware.RateLimiter
	OTPVerifyRate  *middleware.RateLimiter
	MediaRoot      string
	MediaURL       string
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	requireAuth := r.AuthMiddleware.RequireAuth

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if r.MediaRoot != "" && r.MediaURL != "" {
		e.Static(r.MediaURL, r.MediaRoot)
	}

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/request-otp", r.Auth.RequestOTP, rateLimit(r.OTPRequestRate)...)
	auth.POST("/verify-otp", r.Auth.VerifyOTP, rateLimit(r.OTPVerifyRate)...)
	auth.POST("/setup-profile", r.Auth.SetupProfile, requireAuth)
	auth.POST("/logout", r.Auth.Logout, requireAuth)
	auth.GET("/me", r.Auth.Me, requireAuth)

	photos := api.Group("/photos", requireAuth)
	photos.GET("", r.Photos.List)
	photos.POST("", r.Photos.Create)
	photos.GET("/favorites", r.Photos.Favorites)
	photos.GET("/search", r.Photos.Search)
	photos.GET("/:id", r.Photos.Get)
	photos.PATCH("/:id", r.Photos.Update)
	photos.PUT("/:id", r.Photos.Update)
	photos.DELETE("/:id", r.Photos.Delete)
	photos.POST("/:id/toggle_favorite", r.Photos.ToggleFavorite)

	albums := api.Group("/albums", requireAuth)
	albums.GET("", r.Albums.List)
	albums.POST("", r.Albums.Create)
	albums.GET("/:id", r.Albums.Get)
	albums.PATCH("/:id", r.Albums.Update)
	albums.PUT("/:id", r.Albums.Update)
	albums.DELETE("/:id", r.Albums.Delete)
	albums.POST("/:id/add_photo", r.Albums.AddPhoto)
	albums.POST("/:id/remove_photo", r.Albums.RemovePhoto)

	admin := api.Group("/admin", requireAuth, middleware.RequireRole(entity.UserRoleAdmin))
	admin.GET("/users", r.Auth.AdminListUsers)
}

func rateLimit(limiter *middleware.RateLimiter) []echo.MiddlewareFunc {
	if limiter == nil {
		return nil
	}
	return []echo.MiddlewareFunc{limiter.Middleware()}
}
