package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"improved-initiative/core/loader"
	"improved-initiative/core/logger"
	"improved-initiative/core/middleware/auth"
	"improved-initiative/core/middleware/rayid"
	catalogfeature "improved-initiative/feature/catalog"
	"improved-initiative/feature/libraries"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "improved-initiative/docs/swagger"
)

// @title Improved Initiative Library API
// @version 1.0
// @description Content libraries reconciled from the server catalog, local storage and the account.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the library server",
	Long:  `Bootstraps the libraries and serves them over HTTP until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		e, err := loadEnv()
		if err != nil {
			log.Fatal(err)
		}
		logg := e.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		e.wire(ctx)

		libs := libraries.New(e.deps)
		boot := libraries.NewBootstrap(libs, e.deps, e.cfg.Sync.BatchSize)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(libraries.NewFeature(libs, boot, logg))
		mgr.Register(catalogfeature.NewFeature(e.deps.Catalog, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			l.Info("Request",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("took", time.Since(start)),
			)
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		if e.cfg.Server.AuthEnabled() {
			app.Use(auth.New(auth.Config{ApiKey: e.cfg.Server.ApiKey}))
		} else {
			logg.Warn("No API key configured, the API is unprotected")
		}

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go boot.Run(ctx)

		go func() {
			logg.Info("Starting server", zap.String("port", e.cfg.Server.Port))
			if err := app.Listen(":" + e.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		_ = app.ShutdownWithTimeout(time.Duration(e.cfg.Server.ShutdownSeconds) * time.Second)
		e.drain()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
