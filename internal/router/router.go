package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/config"
	"github.com/ikkim/verification-backend/internal/app/controller"
	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	authController         *controller.AuthController
	userController         *controller.UserController
	verificationController *controller.VerificationController
	imageController        *controller.ImageController
	uploadController       *controller.UploadController
	healthController       *controller.HealthController
	authMiddleware         *middleware.AuthMiddleware
	gatherer               prometheus.Gatherer
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	verificationController *controller.VerificationController,
	imageController *controller.ImageController,
	uploadController *controller.UploadController,
	healthController *controller.HealthController,
	authMiddleware *middleware.AuthMiddleware,
	gatherer prometheus.Gatherer,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		userController:         userController,
		verificationController: verificationController,
		imageController:        imageController,
		uploadController:       uploadController,
		healthController:       healthController,
		authMiddleware:         authMiddleware,
		gatherer:               gatherer,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.healthController.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		user := api.Group("/user")
		user.Use(r.authMiddleware.Authenticate())
		{
			user.GET("/current", r.authController.GetCurrentUser)
			user.PUT("/name", r.userController.UpdateName)
		}

		admin := api.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/users", r.userController.ListUsers)
			admin.PUT("/users/:id/role", r.userController.ChangeRole)
		}

		verification := api.Group("/verification")
		{
			verification.POST("/images", r.verificationController.SubmitImage)
			verification.POST("/requests", r.verificationController.CreateRequest)
			verification.GET("/requests", r.verificationController.ListRequests)
			verification.GET("/requests/:id", r.verificationController.GetRequest)
			verification.PUT("/requests/:id", r.authMiddleware.Authenticate(), r.verificationController.UpdateRequest)
			verification.GET("/export",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(domain.RoleAdmin),
				r.verificationController.ExportRequests,
			)
		}

		images := api.Group("/images")
		{
			images.POST("", r.imageController.UploadImage)
			images.GET("", r.imageController.ListImages)
			images.GET("/:id", r.imageController.GetImage)
		}

		upload := api.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
