package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/api/users", RateLimit(h.Redis, h.RateLimitPerMin), h.Register)

	auth := r.Group("/api/auth")
	{
		auth.POST("", RateLimit(h.Redis, h.RateLimitPerMin), h.Login)
		auth.GET("", AuthJWT(h.JWTSecret), h.GetAuthUser)
	}

	profile := r.Group("/api/profile")
	{
		profile.GET("", h.ListProfiles)
		profile.POST("", AuthJWT(h.JWTSecret), h.UpsertProfile)
		profile.GET("/me", AuthJWT(h.JWTSecret), h.Me)
		profile.GET("/user/:user_id", h.GetProfileByUser)
		profile.DELETE("", AuthJWT(h.JWTSecret), h.DeleteAccount)

		profile.PUT("/experience", AuthJWT(h.JWTSecret), h.AddExperience)
		profile.DELETE("/experience/:exp_id", AuthJWT(h.JWTSecret), h.DeleteExperience)
		profile.PUT("/education", AuthJWT(h.JWTSecret), h.AddEducation)
		profile.DELETE("/education/:edu_id", AuthJWT(h.JWTSecret), h.DeleteEducation)

		profile.GET("/github/:username", h.GithubRepos)
	}

	return r
}
