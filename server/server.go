package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kingoIII/Ruido/cache"
	"github.com/kingoIII/Ruido/config"
	"github.com/kingoIII/Ruido/core/auth"
	"github.com/kingoIII/Ruido/core/search"
	"github.com/kingoIII/Ruido/db"
	"github.com/kingoIII/Ruido/logger"
	"github.com/kingoIII/Ruido/repository"
	"github.com/kingoIII/Ruido/storage"

	"github.com/gorilla/mux"
	"github.com/minio/minio-go/v7"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	auth.Init(cfg.AuthSecret)

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", logger.ErrorField(err))
	}

	// Redis only backs the play debounce, which fails open; a missing
	// Redis must not keep the service down.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, play debounce fails open", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	if err := storage.InitMinio(cfg); err != nil {
		logger.Warn("MinIO unavailable, presigned uploads disabled", logger.ErrorField(err))
	}

	trackRepo := repository.NewGormTrackRepository(db.GormDB)
	tagRepo := repository.NewGormTagRepository(db.GormDB)
	likeRepo := repository.NewGormLikeRepository(db.GormDB)
	profileRepo := repository.NewGormProfileRepository(db.GormDB)

	executor := search.NewExecutor(NewSearchStore(trackRepo, tagRepo))
	debouncer := cache.NewPlayDebouncer(db.RedisClient, cfg.PlayDebounceWindow)

	apiHandler := NewAPIHandler(trackRepo, tagRepo, likeRepo, profileRepo, executor, debouncer, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Track search and reads.
	router.HandleFunc("/api/tracks", apiHandler.SearchTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", apiHandler.GetTrackHandler).Methods(http.MethodGet)

	// Counters.
	router.HandleFunc("/api/tracks/{id}/like", apiHandler.AuthMiddleware(apiHandler.LikeTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}/play", apiHandler.PlayTrackHandler).Methods(http.MethodPost)

	// Presigned upload flow.
	router.HandleFunc("/api/uploads", apiHandler.AuthMiddleware(apiHandler.CreateUploadHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/uploads/complete", apiHandler.AuthMiddleware(apiHandler.CompleteUploadHandler)).Methods(http.MethodPost)

	// Profiles.
	router.HandleFunc("/api/profiles/{handle}", apiHandler.GetProfileHandler).Methods(http.MethodGet)

	// Media passthrough from object storage for clients that cannot reach
	// the storage endpoint directly.
	router.PathPrefix("/media/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		objectPath := strings.TrimPrefix(r.URL.Path, "/media/")
		client := storage.GetMinioClient()
		if client == nil {
			writeError(w, http.StatusInternalServerError, "Object storage not available")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		object, err := client.GetObject(ctx, cfg.MinioBucket, objectPath, minio.GetObjectOptions{})
		if err != nil {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		defer object.Close()

		var contentType string
		if strings.HasPrefix(objectPath, "covers/") {
			contentType = "image/jpeg"
		} else if strings.HasPrefix(objectPath, "audio/") {
			contentType = "audio/mpeg"
		} else {
			contentType = "application/octet-stream"
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000")

		if _, err := io.Copy(w, object); err != nil {
			logger.Warn("Error serving file from object storage",
				logger.String("object", objectPath),
				logger.ErrorField(err),
			)
		}
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", logger.ErrorField(err))
	}
	logger.Info("Server stopped")
}

// corsMiddleware allows cross-origin requests from the web clients.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
