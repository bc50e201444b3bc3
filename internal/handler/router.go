package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tisk/backend/internal/service"
	"github.com/tisk/backend/internal/token"
)

func NewRouter(auth *AuthHandler, codec *token.Codec, store service.CredentialStore, allowedOrigins []string) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware(allowedOrigins))

	router.GET("/", Root)
	router.GET("/ping", Ping)

	public := router.Group("/api/v1/auth")
	{
		public.POST("/register", auth.Register)
		public.POST("/login", auth.Login)
		public.POST("/refresh", auth.Refresh)
	}

	protected := router.Group("/api/v1/auth")
	protected.Use(AuthMiddleware(codec, store))
	{
		protected.POST("/change-password", auth.ChangePassword)
		protected.GET("/me", auth.Me)
	}

	return router
}
