package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"

	"notes-web-server/config"
	_ "notes-web-server/docs"
	"notes-web-server/internal/handler"
	"notes-web-server/internal/repository"
	"notes-web-server/internal/security"
	"notes-web-server/internal/service"
)

// @title Notes-web-server
// @version 1.0
// @description REST API для личных заметок с JWT аутентификацией

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env нужен только для локального запуска, в проде переменные задаёт окружение
	if err := godotenv.Load(); err != nil {
		log.Println("файл .env не найден, используются переменные окружения")
	}

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Не удалось применить миграции: %v", err)
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	refreshTokenTTL, err := time.ParseDuration(cfg.JWT.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("Некорректный refresh_token_ttl: %v", err)
	}

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.NoteCache)*time.Second)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	jwtService := security.NewJWTService(&cfg.JWT)
	authService := service.NewAuthenticationService(userRepo, jwtService)
	noteService := service.NewNoteService(noteRepo, cacheRepo, s3Service, time.Duration(cfg.TTL.S3URL)*time.Second)

	authHandler := handler.NewAuthenticationHandler(authService, refreshTokenTTL, cfg.Cookie.Secure)
	noteHandler := handler.NewNoteHandler(noteService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/health", healthCheck)
	router.Get("/api/health", healthCheck)

	setupAuthRoutes(router, authHandler, jwtService)
	setupNoteRoutes(router, noteHandler, jwtService)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh-token", h.RefreshToken)
			r.Post("/logout", h.Logout)
		})
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(jwtService))
			r.Get("/me", h.GetCurrentUser)
		})
	})
}

func setupNoteRoutes(r chi.Router, h *handler.NoteHandler, jwtService *security.JWTService) {
	r.Route("/api/notes", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Get("/category/{category}", h.ListNotesByCategory)

		r.Route("/{uuid}", func(r chi.Router) {
			r.Get("/", h.GetNote)
			r.Put("/", h.UpdateNote)
			r.Delete("/", h.DeleteNote)

			r.Route("/attachment", func(r chi.Router) {
				r.Post("/", h.CreateAttachment)
				r.Get("/", h.GetAttachment)
				r.Delete("/", h.DeleteAttachment)
			})
		})
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
