package server

import (
	"context"
	"net/http"
	"time"

	"quizrush/internal/auth"
	"quizrush/internal/config"
	"quizrush/internal/email"
	"quizrush/internal/game"
	"quizrush/internal/ledger"
	"quizrush/internal/payment"
	"quizrush/internal/subscription"
	"quizrush/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	userRepo := user.NewRepository(db)
	subscriptionRepo := subscription.NewRepository(db)
	planRepo := subscription.NewPlanRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	gameRepo := game.NewRepository(db)

	stripeProvider := payment.NewStripeProvider(cfg.StripeSecretKey)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	subscriptionService := subscription.NewService(
		subscriptionRepo, planRepo, userRepo,
		stripeProvider, ledgerRepo, emailService,
		subscription.DefaultModeCatalog(),
	)
	gameService := game.NewService(gameRepo, subscriptionService)

	userHandler := user.NewHandler(userService)
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	webhookHandler := subscription.NewWebhookHandler(subscriptionService, cfg.StripeWebhookSecret)
	gameHandler := game.NewHandler(gameService)
	ledgerHandler := ledger.NewHandler(ledgerRepo)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	router.GET("/plans", subscriptionHandler.ListPlans)
	router.GET("/games/code/:roomCode", gameHandler.GetByCode)

	// Signature-verified; no bearer token.
	router.POST("/webhooks/stripe", webhookHandler.HandleStripe)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.POST("/subscriptions", subscriptionHandler.Purchase)
		protected.GET("/subscriptions", subscriptionHandler.ListMy)
		protected.GET("/subscriptions/limits", subscriptionHandler.GetLimits)
		protected.POST("/subscriptions/:subscriptionID/cancel", subscriptionHandler.Cancel)

		protected.GET("/transactions", ledgerHandler.ListMine)

		protected.POST("/games", gameHandler.Create)
		protected.GET("/games", gameHandler.ListMine)
		protected.GET("/games/:gameID", gameHandler.Get)
		protected.POST("/games/:gameID/start", gameHandler.Start)
		protected.POST("/games/:gameID/turn", gameHandler.NextTurn)
		protected.POST("/games/:gameID/finish", gameHandler.Finish)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
