package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blkoutuk/community-api/internal/config"
	"github.com/blkoutuk/community-api/internal/handler"
	"github.com/blkoutuk/community-api/internal/middleware"
	pgRepo "github.com/blkoutuk/community-api/internal/repository/postgres"
	"github.com/blkoutuk/community-api/internal/service"
	"github.com/blkoutuk/community-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Redis is optional: without it the public endpoints run unthrottled.
	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.IsConfigured() {
		redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Println("Successfully connected to Redis")
		rateLimiter = middleware.NewRateLimiter(redisClient)
	} else {
		log.Println("Redis not configured, rate limiting disabled")
	}

	// Repositories
	contactRepo := pgRepo.NewContactRepo(db)
	consentLogRepo := pgRepo.NewConsentLogRepo(db)
	shareClickRepo := pgRepo.NewShareClickRepo(db)
	invitationRepo := pgRepo.NewInvitationRepo(db)
	txManager := pgRepo.NewTxManager(db)

	// External clients. Each one degrades to a no-op when its
	// credentials are absent so a partial deployment still signs
	// people up.
	var mailingList service.MailingListClient = &service.NoopMailingListClient{}
	if cfg.SendFox.FormURL != "" {
		client, err := service.NewSendFoxClient(cfg.SendFox.FormURL)
		if err != nil {
			log.Printf("Failed to initialize SendFox client: %v", err)
			os.Exit(1)
		}
		mailingList = client
		log.Println("SendFox mailing list sync enabled")
	}

	var inviteClient service.CommunityInviteClient = &service.NoopCommunityInviteClient{}
	if cfg.Heartbeat.APIToken != "" && cfg.Heartbeat.CommunityID != "" {
		client, err := service.NewHeartbeatClient(cfg.Heartbeat.APIURL, cfg.Heartbeat.APIToken, cfg.Heartbeat.CommunityID)
		if err != nil {
			log.Printf("Failed to initialize Heartbeat client: %v", err)
			os.Exit(1)
		}
		inviteClient = client
		log.Println("Heartbeat community invitations enabled")
	}

	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.APIKey != "" {
		svc, err := service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		emailService = svc
		log.Println("Transactional email notices enabled")
	}

	// Services
	signupService := service.NewSignupService(
		contactRepo,
		txManager,
		invitationRepo,
		mailingList,
		inviteClient,
		cfg.Community.BaseURL,
	)
	shareService := service.NewShareService(contactRepo, shareClickRepo, cfg.Community.BaseURL)
	dataRightsService := service.NewDataRightsService(contactRepo, consentLogRepo, invitationRepo, txManager, emailService)

	// Handlers
	communityHandler := handler.NewCommunityHandler(signupService, cfg.Community.PrivacyPolicyURL, cfg.Community.DataRequestURL)
	shareHandler := handler.NewShareHandler(shareService)
	dataRightsHandler := handler.NewDataRightsHandler(dataRightsService)
	newsletterHandler := handler.NewNewsletterHandler(signupService)

	router := gin.Default()

	// Behind a reverse proxy only the loopback hop is trusted for
	// client-IP resolution.
	if gin.Mode() == gin.ReleaseMode {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Failed to set trusted proxies: %v", err)
			os.Exit(1)
		}
	} else {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Failed to disable trusted proxies: %v", err)
			os.Exit(1)
		}
	}

	router.Use(middleware.CORS(cfg.Community.AllowedOrigins))

	// Rate limit middlewares collapse to pass-through without Redis.
	publicLimit := passThrough()
	strictLimit := passThrough()
	if rateLimiter != nil {
		publicLimit = rateLimiter.Limit(middleware.DefaultPublicRateLimitConfig())
		strictLimit = rateLimiter.Limit(middleware.StrictPublicRateLimitConfig())
	}

	api := router.Group("/api")
	{
		community := api.Group("/community")
		{
			community.POST("/join", publicLimit, communityHandler.Join)
			community.GET("/join", communityHandler.ConsentInfo)
			community.GET("/share", shareHandler.GetShareInfo)
			community.POST("/share/click", publicLimit, shareHandler.TrackClick)
			community.GET("/data-rights", dataRightsHandler.Preview)
			community.POST("/data-rights", strictLimit, dataRightsHandler.HandleRequest)
		}

		newsletter := api.Group("/newsletter")
		{
			newsletter.POST("/subscribe", publicLimit, newsletterHandler.Subscribe)
			newsletter.GET("/subscribe", newsletterHandler.Status)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}

func passThrough() gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}
