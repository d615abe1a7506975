package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"wakeguard/internal/config"
	"wakeguard/internal/controllers"
	"wakeguard/internal/middleware"
	"wakeguard/internal/routes"
	"wakeguard/internal/services"
)

var (
	serveInterval int
	serveListen   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the monitoring agent",
	Long: `Starts the background scanner and the local API the presentation layer
connects to. The agent rescans the power-request registry periodically
and on demand, and pushes every result to connected websocket clients.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveInterval, "interval", 0, "rescan interval in seconds (default 10)")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default 127.0.0.1:8113)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveInterval, serveListen)
	if err != nil {
		return err
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if cfg.Auth {
		services.InitAuthService("", 0)
	}
	controllers.SetWebSocketAuth(cfg.Auth)

	services.InitWebSocketHub()
	services.ConfigureRefreshInterval(cfg.PollIntervalSeconds)
	services.StartRefreshCoordinator()

	r := gin.Default()
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter()))

	routes.RegisterStatusRoutes(r)
	routes.RegisterBlockerRoutes(r, cfg.Auth)
	routes.RegisterAuthRoutes(r)

	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: r,
	}

	go func() {
		log.Printf("WakeGuard agent listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	services.StopRefreshCoordinator()
	services.StopWebSocketHub()
	return nil
}
