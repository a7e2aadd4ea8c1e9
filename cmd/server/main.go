package main

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

	"hrdesk/internal/config"
	"hrdesk/internal/db"
	"hrdesk/internal/email"
	"hrdesk/internal/lock"
	"hrdesk/internal/middleware"
	"hrdesk/internal/routes"
)

func main() {
	root := &cobra.Command{
		Use:          "hrdesk",
		Short:        "Attendance, leave and payroll backend",
		SilenceUsage: true,
		RunE:         func(cmd *cobra.Command, args []string) error { return serve() },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  func(cmd *cobra.Command, args []string) error { return serve() },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE:  func(cmd *cobra.Command, args []string) error { return migrate() },
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Create the local admin and employee accounts",
			RunE:  func(cmd *cobra.Command, args []string) error { return seed() },
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrate() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Open migrates on the way in.
	if _, err := db.Open(cfg); err != nil {
		return err
	}
	log.Printf("schema up to date (%s)", cfg.DbDriver)
	return nil
}

func seed() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	database, err := db.Open(cfg)
	if err != nil {
		return err
	}
	if err := db.Seed(database, db.DefaultSeed); err != nil {
		return err
	}
	for _, user := range db.DefaultSeed {
		log.Printf("seeded %s (%s)", user.Email, user.Role)
	}
	return nil
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg)
	if err != nil {
		return err
	}

	redisClient, err := db.OpenRedis(cfg)
	if err != nil {
		return err
	}
	var locks lock.Locker = lock.NewLocal()
	if redisClient != nil {
		defer redisClient.Close()
		locks = lock.NewRedis(redisClient)
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, routes.App{
		DB:       database,
		Config:   cfg,
		Locks:    locks,
		Sessions: middleware.NewSessionStore(cfg.SessionSecret, cfg.JwtRefreshHours, cfg.Production()),
		Notifier: email.NewNotifier(email.Config{
			Host:     cfg.SmtpHost,
			Port:     cfg.SmtpPort,
			Username: cfg.SmtpUser,
			Password: cfg.SmtpPass,
			From:     cfg.SmtpFrom,
		}),
		Now: func() time.Time { return time.Now().In(loc) },
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
