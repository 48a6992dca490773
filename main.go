package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"church-community-service/internal/config"
	"church-community-service/internal/email"
	"church-community-service/internal/fcm"
	"church-community-service/internal/scheduler"
	"church-community-service/internal/service"
	"church-community-service/internal/store"
	"church-community-service/internal/transport/http"
	"church-community-service/internal/whatsapp"
	"church-community-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

var startTime time.Time

func main() {
	startTime = time.Now()
	cfg := config.Load()
	log.Printf("🔧 Service expected token: %s", maskToken(cfg.ServiceExpectedToken))
	store.InitDB(cfg)

	// R2 is optional: without it photo uploads are rejected at the
	// handler, everything else still works.
	var r2Client *utils.R2Client
	if cfg.R2AccountID != "" {
		client, err := utils.NewR2Client(utils.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatalf("❌ [R2] Failed to initialize client: %v", err)
		}
		r2Client = client
		log.Println("✅ [R2] Photo storage client initialized")
	} else {
		log.Println("⚠️ [R2] Photo storage disabled (no R2_ACCOUNT_ID)")
	}

	emailSender := email.NewSender(cfg)
	waSender := whatsapp.NewSender(store.GetDB(), cfg.WhatsAppRecipient)

	// Initialize FCM client
	var fcmClient *fcm.FCMClient
	fcmCredsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
	if fcmCredsJSON != "" {
		client, err := fcm.NewFCMClient(context.Background(), []byte(fcmCredsJSON))
		if err != nil {
			log.Fatalf("❌ Failed to initialize FCM: %v", err)
		}
		fcmClient = client
		log.Println("✅ FCM client initialized")
	} else {
		log.Println("⚠️ FCM disabled (no FIREBASE_CREDENTIALS_JSON)")
	}

	var push service.PushClient
	if fcmClient != nil {
		push = fcmClient
	}
	var storage service.StorageClient
	if r2Client != nil {
		storage = r2Client
	}
	communityService := service.NewCommunityService(cfg, store.GetDB(), emailSender, waSender, push, storage)
	handler := http.NewHandler(communityService)
	log.Println("✅ [SERVICE] CommunityService & Handler initialized")

	dailyScheduler := scheduler.NewScheduler(cfg, communityService)
	dailyScheduler.Start()
	log.Printf("⏰ [SCHEDULER] Daily jobs scheduled for %02d:%02d (%s)", cfg.DigestHour, cfg.DigestMinute, cfg.Timezone)

	app := fiber.New(fiber.Config{
		AppName:      "church-community-service",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,X-Service-Token,Cache-Control",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${ua}\n",
	}))

	// 1. Public routes (no auth). The registration form posts here
	publicRoutes := app.Group("/public")
	publicRoutes.Post("/register", handler.Register)
	publicRoutes.Get("/events", handler.ListEvents)
	publicRoutes.Get("/devotionals", handler.ListDevotionals)
	log.Println("✅ [ROUTES] Registered public routes: /public/*")

	// 2. Admin routes (service token)
	adminRoutes := app.Group("/admin", serviceAuth(cfg))
	adminRoutes.Get("/members", handler.ListMembers)
	adminRoutes.Post("/members", handler.CreateMember)
	adminRoutes.Get("/members/:id", handler.GetMember)
	adminRoutes.Put("/members/:id", handler.UpdateMember)
	adminRoutes.Delete("/members/:id", handler.DeleteMember)
	adminRoutes.Post("/members/:id/fcm-token", handler.RegisterFCMToken)
	adminRoutes.Delete("/members/:id/fcm-token", handler.UnregisterFCMToken)
	adminRoutes.Post("/members/:id/photo", handler.UploadMemberPhoto)
	adminRoutes.Get("/events", handler.ListEvents)
	adminRoutes.Post("/events", handler.CreateEvent)
	adminRoutes.Put("/events/:id", handler.UpdateEvent)
	adminRoutes.Delete("/events/:id", handler.DeleteEvent)
	adminRoutes.Get("/devotionals", handler.ListDevotionals)
	adminRoutes.Post("/devotionals", handler.CreateDevotional)
	adminRoutes.Delete("/devotionals/:id", handler.DeleteDevotional)
	log.Println("✅ [ROUTES] Registered admin routes: /admin/*")

	// 3. Job routes: manual triggers + audit trail
	jobRoutes := adminRoutes.Group("/jobs")
	jobRoutes.Post("/birthday-digest", handler.TriggerBirthdayDigest)
	jobRoutes.Post("/event-cleanup", handler.TriggerEventCleanup)
	jobRoutes.Post("/topic-resync", handler.TriggerTopicResync)
	jobRoutes.Get("/runs", handler.ListJobRuns)
	log.Println("✅ [ROUTES] Registered job routes: /admin/jobs/*")

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		uptime := time.Since(startTime).Round(time.Second)
		return c.JSON(fiber.Map{
			"status":       "ok",
			"service":      "church-community-service",
			"uptime":       uptime.String(),
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
			"fcm_enabled":  fcmClient != nil,
			"smtp_enabled": cfg.SMTPConfigured(),
			"daily_jobs_at": fmt.Sprintf("%02d:%02d %s", cfg.DigestHour, cfg.DigestMinute, cfg.Timezone),
		})
	})
	log.Println("✅ [ROUTES] Registered /health")

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("🛑 [SHUTDOWN] Graceful shutdown initiated...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ [SHUTDOWN] Error: %v", err)
		}
	}()

	log.Printf("🚀 church-community-service starting...")
	log.Printf("   🔗 Listening on port: %s", cfg.ServerPort)
	log.Printf("   🌐 CORS allowed origins: %s", cfg.AllowedOrigins)
	log.Printf("   🕗 Daily jobs: %02d:%02d %s", cfg.DigestHour, cfg.DigestMinute, cfg.Timezone)
	log.Printf("   🛡️  Service token prefix: %s", maskToken(cfg.ServiceExpectedToken))
	log.Println("✅ Server ready.")

	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("❌ [STARTUP] Server failed to start: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var errMsg string
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		errMsg = e.Message
	} else {
		errMsg = err.Error()
	}
	log.Printf("🔥 [ERROR] [%d] %s %s → %v | IP=%s | UA=%s",
		code,
		c.Method(),
		c.Path(),
		errMsg,
		c.IP(),
		c.Get("User-Agent"),
	)
	return c.Status(code).JSON(fiber.Map{
		"error":      "something went wrong",
		"request_id": c.Get("X-Request-ID"),
	})
}

// maskToken keeps at most the first 6 characters of a secret for logs.
func maskToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	if len(token) > 6 {
		return token[:6] + "..."
	}
	return token
}

func serviceAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Service-Token")
		if token == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}
		maskedToken := maskToken(token)
		if token != cfg.ServiceExpectedToken {
			log.Printf("[SERVICE-AUTH] ❌ REJECTED | IP=%s | Path=%s | Token=%s",
				c.IP(), c.Path(), maskedToken)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: invalid or missing service token",
			})
		}
		log.Printf("[SERVICE-AUTH] ✅ ACCEPTED | IP=%s | Path=%s", c.IP(), c.Path())
		return c.Next()
	}
}
