package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"match_chat/internal/api/handlers"
	"match_chat/internal/middleware"
	"match_chat/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	channelHandler := handlers.NewChannelHandler(services.Channel)
	wsHandler := handlers.NewWebSocketHandler(services.Chat)

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		r.POST("/auth/register", authHandler.Register)
		r.POST("/auth/login", authHandler.Login)

		// WebSocket 連接點，認證在連接內以 authorize 事件完成
		r.GET("/ws", wsHandler.HandleWebSocket)

		// 基本的健康檢查
		r.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/auth/me", authHandler.Me)
		authorized.GET("/user/:id", authHandler.GetUser)

		// 房間相關
		channels := authorized.Group("/channel")
		{
			channels.POST("", channelHandler.CreateChannel)
			channels.GET("/me", channelHandler.MyChannels)
			channels.GET("/:id", channelHandler.GetChannel)
			channels.GET("/:id/users", channelHandler.GetChannelUsers)
			channels.GET("/:id/messages", channelHandler.GetChannelMessages)
		}
	}
}
