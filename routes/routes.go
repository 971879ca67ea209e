package routes

import (
	"time"

	"notalone/config"
	"notalone/handlers"
	"notalone/middleware"
	"notalone/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// socialRoles are the roles allowed into the social feed. Admin passes the
// gate implicitly.
var socialRoles = []models.Role{
	models.RoleSoldier,
	models.RoleMunicipality,
	models.RoleOrganization,
}

func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "Not Alone API Running",
			"service": "healthy",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	authLimiter := middleware.NewIPRateLimiter(cfg.RateLimit, cfg.RateWindow)

	auth := router.Group("/api/auth")
	auth.Use(middleware.RateLimit(authLimiter))
	{
		auth.POST("/signup", handlers.Signup)
		auth.POST("/login", handlers.Login)
	}

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuth())

	users := protected.Group("/users")
	{
		users.GET("/me", handlers.GetMyProfile)
		users.PUT("/me", handlers.UpdateMyProfile)
		users.GET("/:userId", handlers.GetUser)
	}

	social := middleware.RequireRole(socialRoles...)

	posts := protected.Group("/posts")
	posts.Use(social)
	{
		posts.POST("", handlers.CreatePost)
		posts.GET("", handlers.GetAllPosts)
		posts.GET("/:postId", handlers.GetPostByID)
		posts.GET("/user/:userId", handlers.GetPostsByUserID)
		posts.POST("/:postId/like", handlers.TogglePostLike)
		posts.PUT("/:postId", handlers.UpdatePost)
		posts.DELETE("/:postId", handlers.DeletePost)
	}

	comments := protected.Group("/comments")
	{
		// Moderation queue views are Admin only.
		comments.GET("", middleware.RequireRole(), handlers.GetAllComments)
		comments.GET("/:commentId", middleware.RequireRole(), handlers.GetCommentByID)

		comments.POST("", social, handlers.CreateComment)
		comments.POST("/:commentId/like", social, handlers.ToggleCommentLike)
		comments.PUT("/:commentId", social, handlers.UpdateComment)
		comments.DELETE("/:commentId", social, handlers.DeleteComment)
	}

	return router
}
