package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/meeting-scheduler-api/internal/config"
	"github.com/yukikurage/meeting-scheduler-api/internal/constants"
	"github.com/yukikurage/meeting-scheduler-api/internal/database"
	"github.com/yukikurage/meeting-scheduler-api/internal/handlers"
	"github.com/yukikurage/meeting-scheduler-api/internal/lock"
	"github.com/yukikurage/meeting-scheduler-api/internal/middleware"
	"github.com/yukikurage/meeting-scheduler-api/internal/notify"
	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"github.com/yukikurage/meeting-scheduler-api/internal/services"
	"github.com/yukikurage/meeting-scheduler-api/internal/tracker"
)

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, !skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run migrations on startup")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrate {
		if err := database.Migrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	r := gin.Default()

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,              // Redis pool size
		"tcp",           // network type
		cfg.RedisAddr(), // Redis address from config
		"",              // username (empty for default user)
		"",              // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return fmt.Errorf("failed to create Redis store: %w", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	locker, err := newLocker(ctx, cfg)
	if err != nil {
		return err
	}

	db := database.GetDB()

	employeeRepo := repository.NewEmployeeRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	productRepo := repository.NewProductRepository(db)

	issueService := services.NewIssueService(repository.NewIssueLinkRepository(db), meetingRepo, tracker.NewIssueTracker(db))
	meetingService := services.NewMeetingService(
		meetingRepo,
		employeeRepo,
		groupRepo,
		productRepo,
		issueService,
		tracker.NewTimeLogger(db),
		newNotifier(cfg),
		locker,
		services.MeetingServiceOptions{
			LockTTL:       cfg.LockTTL,
			NotifyTimeout: cfg.NotifyTimeout,
			InviteDomain:  mailDomain(cfg.MailFrom),
		},
	)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(employeeRepo))
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	groupHandler := handlers.NewGroupHandler(services.NewGroupService(groupRepo, employeeRepo))
	productHandler := handlers.NewProductHandler(services.NewProductService(productRepo))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Meeting Scheduler API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentEmployee)
		}

		// Meeting routes (protected)
		meetings := api.Group("/meetings")
		meetings.Use(middleware.RequireAuth())
		{
			meetings.GET("", meetingHandler.ListMeetings)
			meetings.POST("", meetingHandler.ScheduleMeeting)
			meetings.GET("/:id", middleware.RequireMeetingAccess(), meetingHandler.GetMeeting)
			meetings.PUT("/:id", middleware.RequireMeetingAccess(), meetingHandler.UpdateMeeting)
			meetings.POST("/:id/cancel", middleware.RequireMeetingAccess(), meetingHandler.CancelMeeting)
			meetings.POST("/:id/time-logs", middleware.RequireMeetingAccess(), meetingHandler.LogMeetingTime)
		}

		// Group routes (protected)
		groups := api.Group("/groups")
		groups.Use(middleware.RequireAuth())
		{
			groups.GET("", groupHandler.ListGroups)
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("/:id", middleware.RequireGroupOwner(), groupHandler.GetGroup)
			groups.PUT("/:id", middleware.RequireGroupOwner(), groupHandler.UpdateGroup)
			groups.DELETE("/:id", middleware.RequireGroupOwner(), groupHandler.DeleteGroup)
		}

		// Sprint and backlog lookups for the scheduling form (protected)
		sprints := api.Group("/sprints")
		sprints.Use(middleware.RequireAuth())
		{
			sprints.GET("/:id", productHandler.GetSprint)
			sprints.GET("/:id/members", productHandler.ListSprintMembers)
		}

		products := api.Group("/products")
		products.Use(middleware.RequireAuth())
		{
			products.GET("/:id/sprints", productHandler.ListSprints)
			products.GET("/:id/members", productHandler.ListProductMembers)
			products.GET("/:id/backlog", productHandler.ListBacklog)
		}
	}

	log.Printf("Server starting on :%s", cfg.Port)
	return r.Run(":" + cfg.Port)
}

func newLocker(ctx context.Context, cfg *config.Config) (lock.Locker, error) {
	if cfg.LockBackend == "local" {
		log.Println("Using in-process slot locks")
		return lock.NewLocalLocker(), nil
	}

	client, err := lock.InitRedis(ctx, cfg.RedisAddr())
	if err != nil {
		return nil, err
	}
	return lock.NewRedisLocker(client), nil
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.SMTPHost == "" {
		log.Println("SMTP_HOST not set, notifications are logged only")
		return notify.NewLogNotifier()
	}
	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}

// mailDomain returns the domain part of the sender address
func mailDomain(from string) string {
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		return strings.Trim(from[i+1:], "> ")
	}
	return ""
}
