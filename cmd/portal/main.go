package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"roomdesk/config"
	"roomdesk/internal/auth"
	"roomdesk/internal/calendar"
	"roomdesk/internal/chatbot"
	"roomdesk/internal/checkin"
	"roomdesk/internal/common/database"
	"roomdesk/internal/common/locale"
	"roomdesk/internal/device"
	"roomdesk/internal/email"
	"roomdesk/internal/i18n"
	"roomdesk/internal/meeting"
	"roomdesk/internal/notify"
	"roomdesk/internal/report"
	"roomdesk/internal/room"
	"roomdesk/internal/settings"
	"roomdesk/internal/user"
	"roomdesk/pkg/client"
	"roomdesk/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.AppEnv)

	bundle, err := i18n.Load()
	if err != nil {
		log.Fatal("failed to load translations", "error", err)
	}
	notifier := notify.New(bundle, cfg.Calendar.BusinessHoursStart, cfg.Calendar.BusinessHoursEnd)
	location := cfg.Calendar.Location()

	// Sessions
	var sessions auth.Repository
	var preferences settings.Repository
	if cfg.Session.Memory {
		sessions = auth.NewMemoryRepository()
		preferences = settings.NewMemoryRepository()
		log.Warn("using in-memory session store")
	} else {
		redis, err := database.NewRedis(cfg.Redis)
		if err != nil {
			log.Fatal("failed to connect to redis", "error", err)
		}
		defer redis.Close()
		sessions = auth.NewRedisRepository(redis)
		preferences = settings.NewRedisRepository(redis)
	}

	// Backend and services
	api := client.New(cfg.Backend.BaseURL, client.WithTimeout(cfg.Backend.Timeout))
	authService := auth.NewService(api, sessions, cfg.Session, log.With("component", "auth"))

	checkinService := checkin.NewService(cfg.PublicURL, log.With("component", "checkin"))
	emailService := email.NewService(cfg.SMTP, email.Options{
		Bundle:      bundle,
		Locale:      cfg.Locale.Default,
		Location:    location,
		CheckInLink: checkinService.Link,
	}, log.With("component", "email"))

	rules := meeting.Rules{
		OpenHour:  cfg.Calendar.BusinessHoursStart,
		CloseHour: cfg.Calendar.BusinessHoursEnd,
		Location:  location,
	}
	meetingService := meeting.NewService(rules, emailService, log.With("component", "meeting"))
	roomService := room.NewService(log.With("component", "room"))
	deviceService := device.NewService(device.NewAvailability(cfg.Calendar.DebounceDelay), log.With("component", "device"))
	userService := user.NewService(log.With("component", "user"))
	reportService := report.NewService(log.With("component", "report"))
	settingsService := settings.NewService(preferences, cfg.Locale.Default)
	chatbotService := chatbot.NewService(bundle, location, log.With("component", "chatbot"))

	// Calendar push
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := calendar.NewHub(func(ctx context.Context, sessionID string) (calendar.Fetcher, error) {
		session, err := authService.Restore(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return authService.Client(session), nil
	}, cfg.Calendar.PollInterval, log.With("component", "calendar"))
	go hub.Run(ctx)
	log.Info("calendar hub started", "poll_interval", cfg.Calendar.PollInterval)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.PublicURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Accept-Language, Authorization, " + auth.SessionHeader,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
	}))
	app.Use(locale.Middleware(bundle, cfg.Locale.Default))

	requireAuth := auth.RequireAuth(authService, cfg.Session.CookieName, notifier)
	requireAdmin := auth.RequireAdmin(notifier)
	preferredLocale := settings.PreferredLocale(settingsService)

	// Handlers
	authHandler := auth.NewHandler(authService, notifier, cfg.Session.CookieName, cfg.AppEnv == "production")
	meetingHandler := meeting.NewHandler(meetingService, authService, notifier)
	roomHandler := room.NewHandler(roomService, authService, notifier)
	deviceHandler := device.NewHandler(deviceService, authService, notifier)
	userHandler := user.NewHandler(userService, authService, notifier)
	reportHandler := report.NewHandler(reportService, authService, notifier, location)
	checkinHandler := checkin.NewHandler(checkinService, authService, notifier)
	chatbotHandler := chatbot.NewHandler(chatbotService, authService, notifier)
	settingsHandler := settings.NewHandler(settingsService, notifier)
	calendarHandler := calendar.NewHandler(authService, notifier, cfg.Calendar.PollInterval)

	api1 := app.Group("/api/v1")

	// Public area
	authGroup := api1.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/session", requireAuth, preferredLocale, authHandler.Session)
	authGroup.Post("/change-password", requireAuth, preferredLocale, authHandler.ChangePassword)

	// User area
	meetings := api1.Group("/meetings", requireAuth, preferredLocale)
	meetings.Get("/", meetingHandler.MyMeetings)
	meetings.Post("/", meetingHandler.Create)
	meetings.Post("/preview", meetingHandler.Preview)
	meetings.Get("/slot-check", meetingHandler.CheckSlot)
	meetings.Put("/series/:seriesId", meetingHandler.UpdateSeries)
	meetings.Delete("/series/:seriesId", meetingHandler.CancelSeries)
	meetings.Get("/:id", meetingHandler.Get)
	meetings.Put("/:id", meetingHandler.Update)
	meetings.Delete("/:id", meetingHandler.Cancel)
	meetings.Post("/:id/respond", meetingHandler.Respond)
	meetings.Get("/:id/qr", checkinHandler.QR)

	rooms := api1.Group("/rooms", requireAuth, preferredLocale)
	rooms.Get("/", roomHandler.List)
	rooms.Get("/:id", roomHandler.Get)

	devices := api1.Group("/devices", requireAuth, preferredLocale)
	devices.Get("/", deviceHandler.List)
	devices.Get("/available", deviceHandler.Available)
	devices.Get("/:id", deviceHandler.Get)

	users := api1.Group("/users", requireAuth, preferredLocale)
	users.Get("/me", userHandler.GetMe)
	users.Put("/me", userHandler.UpdateProfile)
	users.Get("/search", userHandler.SearchUsers)

	prefs := api1.Group("/settings", requireAuth, preferredLocale)
	prefs.Get("/", settingsHandler.GetSettings)
	prefs.Put("/", settingsHandler.UpdateSettings)
	prefs.Delete("/", settingsHandler.DeleteSettings)

	api1.Post("/checkin", requireAuth, preferredLocale, checkinHandler.CheckIn)
	api1.Post("/chatbot", requireAuth, preferredLocale, chatbotHandler.Ask)
	api1.Get("/calendar", requireAuth, preferredLocale, calendarHandler.Snapshot)
	api1.Get("/calendar.ics", requireAuth, preferredLocale, calendarHandler.ExportICS)

	// Admin area
	admin := api1.Group("/admin", requireAuth, preferredLocale, requireAdmin)
	admin.Post("/rooms", roomHandler.Create)
	admin.Put("/rooms/:id", roomHandler.Update)
	admin.Delete("/rooms/:id", roomHandler.Delete)
	admin.Post("/devices", deviceHandler.Create)
	admin.Put("/devices/:id", deviceHandler.Update)
	admin.Delete("/devices/:id", deviceHandler.Delete)
	admin.Get("/users", userHandler.AdminList)
	admin.Put("/users/:id", userHandler.AdminUpdate)
	admin.Get("/reports", reportHandler.Dashboard)
	admin.Get("/reports/rooms", reportHandler.Rooms)
	admin.Get("/reports/devices", reportHandler.Devices)
	admin.Get("/reports/cancellations", reportHandler.Cancellations)
	admin.Get("/reports/visitors", reportHandler.Visitors)

	// WebSocket upgrade, session required
	app.Use("/ws", requireAuth, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/calendar", websocket.New(hub.Serve))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	go func() {
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			log.Fatal("failed to start server", "error", err)
		}
	}()
	log.Info("portal listening", "port", cfg.AppPort, "backend", cfg.Backend.BaseURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down portal")
	stop()
	<-hub.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Fatal("portal forced to shut down", "error", err)
	}

	log.Info("portal shutdown complete")
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
