package router

import (
	"fmt"
	"strings"

	"github.com/unihub-next/internal/cache"
	"github.com/unihub-next/internal/config"
	publichandlers "github.com/unihub-next/internal/http/handlers/public"
	"github.com/unihub-next/internal/logger"
	"github.com/unihub-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "uh"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}
	otpRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:otp", redisPrefix),
		WindowSeconds: cfg.Security.OTPRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OTPRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", RateLimitMiddleware(redisClient, otpRule, KeyByIPAndJSONField("email")), publicHandler.Signup)
			auth.POST("/resend-code", RateLimitMiddleware(redisClient, otpRule, KeyByIPAndJSONField("email")), publicHandler.ResendCode)
			auth.POST("/verify", publicHandler.VerifySignup)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/google", RateLimitMiddleware(redisClient, loginRule, KeyByIP), publicHandler.GoogleLogin)
			auth.POST("/refresh", publicHandler.RefreshToken)
			auth.POST("/phone/request", RateLimitMiddleware(redisClient, otpRule, KeyByIPAndJSONField("phone")), publicHandler.RequestPhoneCode)
			auth.POST("/phone/verify", publicHandler.VerifyPhoneCode)
		}

		// 公开接口
		apiV1.GET("/news", publicHandler.ListNews)
		apiV1.GET("/news/categories", publicHandler.ListNewsCategories)
		apiV1.GET("/jobs", publicHandler.ListJobs)
		apiV1.GET("/jobs/:id", publicHandler.GetJob)

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Me)
			user.POST("/auth/logout", publicHandler.Logout)
			user.GET("/me/profile", publicHandler.GetProfile)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.GET("/me/applications", publicHandler.ListMyApplications)

			user.GET("/chat/messages", publicHandler.ListChatMessages)
			user.POST("/chat/messages", publicHandler.SendChatMessage)
			user.POST("/chat/messages/read", publicHandler.MarkChatMessagesRead)

			user.POST("/news/refresh", publicHandler.RefreshNews)

			user.POST("/jobs", publicHandler.CreateJob)
			user.PUT("/jobs/:id", publicHandler.UpdateJob)
			user.DELETE("/jobs/:id", publicHandler.DeleteJob)
			user.POST("/jobs/:id/apply", publicHandler.ApplyJob)
			user.GET("/jobs/:id/applications", publicHandler.ListJobApplications)

			user.POST("/files", publicHandler.UploadFile)
			user.GET("/files", publicHandler.ListFiles)
			user.GET("/files/:id/download", publicHandler.DownloadFile)
			user.DELETE("/files/:id", publicHandler.DeleteFile)
		}
	}

	// WebSocket 聊天入口
	ws := r.Group("/ws")
	ws.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
	{
		ws.GET("/chat", publicHandler.ChatWebSocket)
	}

	return r
}
