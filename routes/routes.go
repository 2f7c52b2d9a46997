package routes

import (
	"time"

	"sailsmart/handlers"
	"sailsmart/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers the onboarding session endpoints. Authentication is
// optional: cookie holders may read and write their anonymous sessions.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions/:kind")
	api.Use(middleware.OptionalUserAuthMiddleware(hb.TokenStore, hb.AuthCache))
	{
		api.GET("", hb.Session.GetSession)
		api.POST("", hb.Session.UpsertSession)
		api.PATCH("", hb.Session.PatchSession)
		api.DELETE("", hb.Session.DeleteSession)
		api.POST("/events", hb.Session.ApplyEvent)
	}
}

// RegisterAuthRoutes registers sign-up and sign-in.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.Auth.SignUp)
		api.POST("/signin", hb.Auth.SignIn)
	}
}

// RegisterProfileRoutes registers the authenticated user's profile endpoints.
func RegisterProfileRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/profile")
	api.Use(middleware.JWTAuthUserMiddleware(hb.TokenStore, hb.AuthCache))
	{
		api.GET("", hb.Profile.GetProfile)
		api.PATCH("", hb.Profile.UpdateProfile)
	}
}

// RegisterJourneyRoutes registers journeys, requirements and auto-approval settings.
func RegisterJourneyRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/journeys")
	{
		public := api.Group("")
		public.GET("/:id", hb.Journey.GetJourney)
		public.GET("/:id/requirements", hb.Journey.ListRequirements)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.TokenStore, hb.AuthCache))
		protected.POST("", hb.Journey.CreateJourney)
		protected.PUT("/:id/auto-approval", hb.Journey.ConfigureAutoApproval)
		protected.POST("/:id/requirements", hb.Journey.CreateRequirement)
		protected.PUT("/:id/requirements/:reqID", hb.Journey.UpdateRequirement)
		protected.DELETE("/:id/requirements/:reqID", hb.Journey.DeleteRequirement)
		protected.GET("/:id/registrations", hb.Journey.ListRegistrations)
	}
}

// RegisterRegistrationRoutes registers crew registrations and owner decisions.
func RegisterRegistrationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/registrations")
	api.Use(middleware.JWTAuthUserMiddleware(hb.TokenStore, hb.AuthCache))
	{
		api.POST("", hb.Registration.Submit)
		api.GET("/:id/score", hb.Registration.Score)
		api.POST("/:id/decision", hb.Registration.Decide)
		api.POST("/:id/cancel", hb.Registration.Cancel)
		api.PUT("/:id/answers", hb.Registration.UpdateAnswers)
	}
}

// RegisterDocumentRoutes registers the document vault.
func RegisterDocumentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/documents")
	api.Use(middleware.JWTAuthUserMiddleware(hb.TokenStore, hb.AuthCache))
	{
		api.GET("", hb.Document.List)
		api.POST("", hb.Document.Upload)
		api.POST("/:id/grants", hb.Document.Grant)
		api.DELETE("/:id/grants/:grantID", hb.Document.Revoke)
		api.GET("/:id/url", hb.Document.AccessURL)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(corsConfig(hb.AllowedOrigins)))
	r.Use(middleware.RateLimitMiddleware(hb.RateLimit))

	RegisterHealthRoute(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterProfileRoutes(r, hb)
	RegisterJourneyRoutes(r, hb)
	RegisterRegistrationRoutes(r, hb)
	RegisterDocumentRoutes(r, hb)
}

// corsConfig only admits the configured origins. Session cookies prove ownership of
// anonymous sessions, so credentials are never shared with arbitrary origins.
func corsConfig(origins []string) cors.Config {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return cors.Config{
		AllowOriginFunc:  func(origin string) bool { return allowed[origin] },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
