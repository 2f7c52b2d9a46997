package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sailsmart/config"
	"sailsmart/cron"
	"sailsmart/database"
	documentRepo "sailsmart/database/repository/document"
	journeyRepo "sailsmart/database/repository/journey"
	registrationRepo "sailsmart/database/repository/registration"
	sessionRepo "sailsmart/database/repository/session"
	userRepoPkg "sailsmart/database/repository/user"
	"sailsmart/handlers"
	"sailsmart/routes"
	"sailsmart/services/document"
	ai "sailsmart/services/intelligence"
	"sailsmart/services/journey"
	"sailsmart/services/matching"
	"sailsmart/services/notification"
	"sailsmart/services/registration"
	"sailsmart/services/session"
	"sailsmart/services/storage"
	"sailsmart/services/user"
	"sailsmart/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	database.InitPostgres()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	cld, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary: %v", err)
	}

	gemini, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize gemini: %v", err)
	}
	defer gemini.Close()

	// repositories.
	mongoDB := database.MongoDatabase()
	sessRepo := sessionRepo.NewMongoSessionRepo(mongoDB)
	usrRepo := userRepoPkg.NewMongoUserRepo(mongoDB)
	jrnRepo := journeyRepo.NewJourneyRepo(database.PG)
	regRepo := registrationRepo.NewRegistrationRepo(database.PG)
	docRepo := documentRepo.NewDocumentRepo(database.PG)

	// services.
	var profiles user.ProfileCache
	if cfg.ProfileCacheBackend == "memory" {
		profiles = user.NewMemoryProfileCache(cfg.ProfileCacheTTL())
	} else {
		profiles = user.NewRedisProfileCache(utils.GetCacheClient(), cfg.ProfileCacheTTL())
	}
	userService := user.NewUserService(usrRepo, utils.GetAuthCacheClient(), profiles, cfg.ProfileInvalidationDelay())
	defer userService.Invalidator.Stop()
	defer userService.Invalidator.Flush()

	sessionService := session.NewSessionService(sessRepo, cfg.SessionTTL(), session.ParseTransitionMode(cfg.SessionTransitionMode))

	queue := asynq.NewClient(utils.QueueRedisOpt())
	defer queue.Close()

	notificationService, err := notification.NewDefaultNotificationService(usrRepo, utils.FCMClient)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	worker := cron.InitNotificationWorker(notificationService)
	defer worker.Shutdown()

	scorer := ai.NewGeminiScorer(gemini, ai.NewRedisVerdictStore(utils.GetCacheClient(), cfg.ScoreCacheTTL()))
	registrationService := &registration.DefaultRegistrationService{
		Journeys:      jrnRepo,
		Registrations: regRepo,
		Documents:     docRepo,
		Profiles:      userService,
		Evaluator:     matching.NewEvaluator(scorer),
		Cache:         registration.NewRedisScoreCache(utils.GetCacheClient(), cfg.ScoreCacheTTL()),
		Notifier:      notification.NewQueueDispatcher(queue, cfg.NotifyMaxRetry),
	}
	journeyService := journey.NewJourneyService(jrnRepo, regRepo)

	documentService := &document.DefaultDocumentService{
		Repo:     docRepo,
		Storage:  storage.NewStorageService(cld, cfg.CloudinaryCloudName, cfg.CloudinaryAPISecret),
		Verifier: ai.NewGeminiVerifier(gemini),
	}

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
		database.PG,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	cookies := handlers.CookieSettings{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain}
	handlerBundle := &handlers.HandlerBundle{
		TokenStore: usrRepo,
		AuthCache:  utils.GetAuthCacheClient(),
		RateLimit:  cfg.MaxRequestsPerMin,

		AllowedOrigins: cfg.AllowedOrigins(),

		Session:      handlers.NewSessionHandler(sessionService, cfg.SessionTTL(), cookies),
		Auth:         handlers.NewAuthHandler(userService, sessionService),
		Profile:      handlers.NewProfileHandler(userService),
		Journey:      handlers.NewJourneyHandler(journeyService, registrationService, userService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Document:     handlers.NewDocumentHandler(documentService),
		Health:       handlers.NewHealthHandler(),
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
