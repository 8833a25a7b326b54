package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"inkstudio/internal/config"
	"inkstudio/internal/database"
	"inkstudio/internal/middleware"
	"inkstudio/internal/migration"
	"inkstudio/internal/modules/admin"
	"inkstudio/internal/modules/booking"
	"inkstudio/internal/modules/portfolio"
	"inkstudio/internal/modules/schema"
	syncsvc "inkstudio/internal/modules/sync"
	jwtsvc "inkstudio/internal/pkg/jwt"
	"inkstudio/internal/relay"
	"inkstudio/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migration.RunLegacyImport(ctx, db); err != nil {
		cancel()
		log.Fatal(err)
	}
	cancel()

	bookingRepo := repository.NewBookingRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	syncStore := repository.NewSyncStore(db)

	relayClient := relay.New(cfg.RelayURL, cfg.RelayTopic, cfg.RelayTimeout)
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	deviceID := uuid.NewString()

	hub := admin.NewHub()
	defer hub.Close()

	syncService := syncsvc.NewService(syncStore, relayClient, hub)
	bookingService := booking.NewService(bookingRepo, relayClient, deviceID)
	bookingHandler := booking.NewHandler(bookingService)

	schemaService := schema.NewService(settingsRepo)
	schemaHandler := schema.NewHandler(schemaService)

	portfolioService := portfolio.NewService(settingsRepo, cfg.HomeImageURL)
	portfolioHandler := portfolio.NewHandler(portfolioService)

	adminHandler := admin.NewHandler(cfg.AdminPIN, j, syncService, hub)

	migCtx, migCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := schemaService.Migrate(migCtx); err != nil {
		migCancel()
		log.Fatal(err)
	}
	migCancel()

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		bookingHandler.RegisterRoutes(v1)
		schemaHandler.RegisterRoutes(v1)
		portfolioHandler.RegisterRoutes(v1)
		adminHandler.RegisterRoutes(v1)

		// gated console
		gated := v1.Group("/admin")
		gated.Use(authMiddleware(j))
		{
			bookingHandler.RegisterAdminRoutes(gated)
			schemaHandler.RegisterAdminRoutes(gated)
			portfolioHandler.RegisterAdminRoutes(gated)
			adminHandler.RegisterAdminRoutes(gated)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func authMiddleware(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			// The websocket handshake cannot set headers; the console
			// passes its token as a query parameter there.
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing token",
				},
			})
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid token",
				},
			})
			return
		}

		c.Set("device_id", claims.DeviceID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
