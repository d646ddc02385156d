package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "mytube/interfaces/http"
	"mytube/interfaces/middleware"
)

func InitiateRouter(
	authHandler httpHandler.IAuthHandler,
	appHandler httpHandler.IAppHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "https://localhost:3000", "https://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.ClientIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.ClientIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Auth())
	router.Use(middleware.ClientID())

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("auth")
	{
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/signin", authHandler.SignIn)
		auth.POST("/signout", authHandler.SignOut)
		auth.POST("/refresh", authHandler.Refresh)
	}

	api := router.Group("api")
	{
		api.GET("/state", appHandler.State)

		view := api.Group("/view")
		{
			view.POST("/navigate", appHandler.Navigate)
			view.POST("/search", appHandler.Search)
			view.POST("/select", appHandler.SelectVideo)
			view.POST("/close", appHandler.CloseVideo)
		}

		videos := api.Group("/videos")
		{
			videos.POST("/:videoId/like", appHandler.Like)
			videos.POST("/:videoId/dislike", appHandler.Dislike)
			videos.POST("/:videoId/watch-later", appHandler.ToggleWatchLater)
			videos.GET("/:videoId/comments", appHandler.Comments)
			videos.POST("/:videoId/comments", appHandler.PostComment)
		}

		api.GET("/session/stream", appHandler.Stream)
	}

	return router
}
