package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/evolvetodo/todo-api/internal/config"
	"github.com/evolvetodo/todo-api/internal/constants"
	"github.com/evolvetodo/todo-api/internal/database"
	"github.com/evolvetodo/todo-api/internal/events"
	"github.com/evolvetodo/todo-api/internal/handlers"
	"github.com/evolvetodo/todo-api/internal/middleware"
	"github.com/evolvetodo/todo-api/internal/repository"
	"github.com/evolvetodo/todo-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(db); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Best-effort task event publishing to a Redis stream
	eventClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	publisher := events.NewPublisher(eventClient, cfg.EventStream)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	convRepo := repository.NewConversationRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, tagRepo)
	tagService := services.NewTagService(tagRepo)
	templateService := services.NewTemplateService(templateRepo, taskRepo)
	chatService := services.NewChatService(cfg.OpenAIAPIKey, convRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, publisher)
	tagHandler := handlers.NewTagHandler(tagService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Background spawner for recurring task templates; stops on shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spawnerInterval, err := time.ParseDuration(cfg.SpawnerInterval)
	if err != nil {
		log.Fatalf("Invalid SPAWNER_INTERVAL: %v", err)
	}
	go runSpawner(ctx, templateService, spawnerInterval)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Todo API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.PUT("/:id/tags/:tag_id", taskHandler.AttachTag)
			tasks.DELETE("/:id/tags/:tag_id", taskHandler.DetachTag)
		}

		// Tag routes (protected)
		tags := api.Group("/tags")
		tags.Use(middleware.RequireAuth())
		{
			tags.GET("", tagHandler.ListTags)
			tags.POST("", tagHandler.CreateTag)
			tags.PATCH("/:id", tagHandler.UpdateTag)
			tags.DELETE("/:id", tagHandler.DeleteTag)
		}

		// Recurring template routes (protected)
		templates := api.Group("/templates")
		templates.Use(middleware.RequireAuth())
		{
			templates.GET("", templateHandler.ListTemplates)
			templates.POST("", templateHandler.CreateTemplate)
			templates.GET("/:id", templateHandler.GetTemplate)
			templates.PATCH("/:id", templateHandler.UpdateTemplate)
			templates.DELETE("/:id", templateHandler.DeleteTemplate)
		}

		// Chat routes (protected)
		chat := api.Group("")
		chat.Use(middleware.RequireAuth())
		{
			chat.POST("/chat", chatHandler.SendMessage)
			chat.GET("/conversations", chatHandler.ListConversations)
			chat.GET("/conversations/:id/messages", chatHandler.ListMessages)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	if err := eventClient.Close(); err != nil {
		log.Printf("Failed to close Redis client: %v", err)
	}
}

// runSpawner periodically materializes due recurring templates into tasks.
func runSpawner(ctx context.Context, templateService *services.TemplateService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			spawned, err := templateService.SpawnDue(now)
			if err != nil {
				log.Printf("spawner: %v", err)
			}
			if spawned > 0 {
				log.Printf("spawner: created %d task(s) from recurring templates", spawned)
			}
		}
	}
}
