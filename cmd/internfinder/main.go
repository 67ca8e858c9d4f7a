package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/internfinder/internal/apply"
	"github.com/mtlprog/internfinder/internal/catalog"
	"github.com/mtlprog/internfinder/internal/client"
	"github.com/mtlprog/internfinder/internal/config"
	"github.com/mtlprog/internfinder/internal/handler"
	"github.com/mtlprog/internfinder/internal/logger"
	"github.com/mtlprog/internfinder/internal/repository"
	"github.com/mtlprog/internfinder/internal/static"
	"github.com/mtlprog/internfinder/internal/view"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "internfinder",
		Usage: "PM Internship recommendation front end",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   string(logger.FormatJSON),
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "api-url",
				Aliases: []string{"a"},
				Value:   config.DefaultAPIURL,
				Usage:   "Recommendation API origin",
				EnvVars: []string{"API_URL"},
			},
			&cli.DurationFlag{
				Name:    "api-timeout",
				Value:   config.DefaultAPITimeout,
				Usage:   "Recommendation API timeout (0 keeps the transport default)",
				EnvVars: []string{"API_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "portal-url",
				Value:   config.DefaultPortalURL,
				Usage:   "PM Internship Scheme portal URL",
				EnvVars: []string{"PORTAL_URL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")), logger.ParseFormat(c.String("log-format")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.DurationFlag{
						Name:    "session-ttl",
						Value:   config.DefaultSessionTTL,
						Usage:   "Idle visitor session lifetime",
						EnvVars: []string{"SESSION_TTL"},
					},
				},
				Action: runServe,
			},
			recommendCommand(),
			healthCommand(),
			skillsCommand(),
			applyCommand(),
		},
		Action: runServe,
	}
}

func newClient(c *cli.Context) *client.Client {
	return client.New(c.String("api-url"), client.WithTimeout(c.Duration("api-timeout")))
}

func runServe(c *cli.Context) error {
	ctx, stop := context.WithCancel(c.Context)
	defer stop()

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	ttl := c.Duration("session-ttl")
	if ttl == 0 {
		ttl = config.DefaultSessionTTL
	}

	skills := catalog.DefaultSkillCatalog()
	renderer, err := view.New(static.IndexTemplate, skills.Fields())
	if err != nil {
		return fmt.Errorf("failed to prepare page: %w", err)
	}

	portal := c.String("portal-url")
	planner := apply.NewPlanner(catalog.DefaultCompanyDirectory(portal), portal)

	apiClient := newClient(c)
	go apiClient.CheckHealth(ctx)

	sessions := repository.NewSessionRepository(skills, apiClient, ttl,
		repository.WithSubmitLimit(config.DefaultSubmitRate, config.DefaultSubmitBurst),
	)
	go sessions.Sweep(ctx, config.DefaultSessionSweepInterval)

	h := handler.New(sessions, skills, renderer, planner)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port, "api_url", apiClient.BaseURL())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	stop()

	shutdownCtx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
