package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blob-gateway/core/config"
	"blob-gateway/core/loader"
	"blob-gateway/core/logger"
	"blob-gateway/core/middleware/auth"
	"blob-gateway/core/middleware/rayid"
	"blob-gateway/core/server"
	"blob-gateway/feature/files"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Serve the file routes over HTTP",
	Long:  `Opens both storage containers and serves the /files routes until SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		svc, err := files.Open(cmd.Context(), cfg.Storage, logg)
		if err != nil {
			logg.Fatal("Failed to open storage gateway", zap.Error(err))
		}

		if !cfg.Server.AuthEnabled() {
			logg.Warn("No API key configured, file routes are unauthenticated")
		}

		app, err := newApp(cfg.Server, logg, files.NewFeature(svc))
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		<-ctx.Done()
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logg.Warn("Shutdown incomplete", zap.Error(err))
		}
	},
}

// newApp wires middleware and features onto a fresh Fiber app. The health
// route sits in front of auth so probes need no key.
func newApp(cfg server.Config, logg *zap.Logger, features ...loader.Feature) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StreamRequestBody:     true,
		BodyLimit:             cfg.BodyLimit(),
	})

	app.Use(rayid.New())
	app.Use(requestLogger(logg))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey}))

	mgr := loader.NewManager(logg)
	for _, f := range features {
		mgr.Register(f)
	}
	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := logger.WithRayID(logg, c)
		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			l.Error("Request error", append(fields, zap.Error(err))...)
			return err
		}
		l.Info("Request served", fields...)
		return nil
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
