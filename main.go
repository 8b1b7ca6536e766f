package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inkwell/admin"
	"inkwell/blog"
	"inkwell/common"
	"inkwell/database"
	"inkwell/views"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	common.SetupLogger(cfg.LogLevel, cfg.GinMode)
	gin.SetMode(cfg.GinMode)

	db, err := common.ConnectDb(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	router, err := newRouter(cfg, database.NewPostStore(db))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errChannel := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting server")
		errChannel <- server.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChannel:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-signals:
		log.Info().Str("signal", sig.String()).Msg("Gracefully shutting down...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down the server")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("Server stopped")
}

func newRouter(cfg *common.Config, posts *database.PostStore) (*gin.Engine, error) {
	router := gin.New()
	router.Use(common.RequestLogger(), gin.Recovery())

	sessionMiddleware, err := common.Sessions(cfg.SecretKey, cfg.CookieSecure)
	if err != nil {
		return nil, err
	}
	router.Use(sessionMiddleware, common.CSRFProtect())

	tmpl, err := views.Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	assets, err := views.Static()
	if err != nil {
		return nil, err
	}
	router.StaticFS("/static", assets)

	blogModule, err := blog.NewBlogModule(posts)
	if err != nil {
		return nil, err
	}
	blogModule.RegisterRoutes(router)

	adminModule := admin.NewAdminModule(posts)
	adminModule.RegisterRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		common.NotFound(c, "Page not found")
	})

	return router, nil
}
