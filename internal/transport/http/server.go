package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "journal-backend/internal/app"
	"journal-backend/internal/bootstrap"
	"journal-backend/internal/cache"
	"journal-backend/internal/platform/rabbitmq"
	"journal-backend/internal/repository"
	"journal-backend/internal/transport/http/handler"
	"journal-backend/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	entryRepo := repository.NewEntryRepository(app.MySQL)
	auditPublisher := rabbitmq.NewAuditPublisher(app.MQConn, app.Config.RabbitMQ.AuditQueue)
	summaryCache := cache.NewSummaryCache(app.Redis, time.Duration(app.Config.Redis.SummaryTTLSeconds)*time.Second)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	journalService := appsvc.NewJournalService(entryRepo, auditPublisher, summaryCache)

	authHandler := handler.NewAuthHandler(authService)
	journalHandler := handler.NewJournalHandler(journalService, authService)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	journalGroup := router.Group("/journal")
	journalGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	journalGroup.GET("/profile", journalHandler.GetProfile)
	journalGroup.PUT("/profile", journalHandler.UpdateProfile)
	journalGroup.POST("/entries", journalHandler.CreateEntry)
	journalGroup.GET("/entries", journalHandler.ListEntries)
	journalGroup.GET("/entries/:id", journalHandler.GetEntry)
	journalGroup.PUT("/entries/:id", journalHandler.UpdateEntry)
	journalGroup.DELETE("/entries/:id", journalHandler.DeleteEntry)
	journalGroup.GET("/summary", journalHandler.GetSummary)

	return router
}
