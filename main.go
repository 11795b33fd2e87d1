package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrihire-backend/controller"
	"agrihire-backend/dal"
	"agrihire-backend/infrastructure"
	"agrihire-backend/middelware"
	"agrihire-backend/models"
	"agrihire-backend/repository"
	"agrihire-backend/services"
	"agrihire-backend/utils"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation"
	"agrihire-backend/wizard"
	"agrihire-backend/worker"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var (
	adminEmail    string
	adminPassword string
	adminName     string

	rootCmd = &cobra.Command{
		Use:          "agrihire",
		Short:        "AgriHire agricultural labor marketplace backend",
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the maintenance worker",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return serve(c.Context())
		},
	}

	initDBCmd = &cobra.Command{
		Use:   "init-db",
		Short: "Create the tables and, optionally, the first admin account",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return initDB(c.Context())
		},
	}
)

func init() {
	initDBCmd.Flags().StringVar(&adminEmail, "admin-email", "", "email of the admin account to create")
	initDBCmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the admin account")
	initDBCmd.Flags().StringVar(&adminName, "admin-name", "Administrator", "display name of the admin account")
	initDBCmd.MarkFlagsRequiredTogether("admin-email", "admin-password")

	rootCmd.AddCommand(serveCmd, initDBCmd)
}

// app holds everything both commands need.
type app struct {
	config   *models.Config
	logger   logger.Logger
	db       *dal.DB
	services services.ServiceContainerInterface
	validate *validation.Validator
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := utils.GetConfig()
	if err != nil {
		return nil, err
	}
	log := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	log.Debugf("Config loaded: %s", utils.PrintPrettyJSON(redacted(cfg)))

	db, err := dal.NewDatabaseClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := infrastructure.Init(ctx, db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	v := validation.New(validation.Options{RequireEnterpriseLists: cfg.RequireEnterpriseLists})
	repo := repository.NewRepository(cfg, repository.NewCodec(log), log)

	return &app{
		config:   cfg,
		logger:   log,
		db:       db,
		services: services.NewService(repo, db, v, log, cfg),
		validate: v,
	}, nil
}

func redacted(cfg *models.Config) models.Config {
	out := *cfg
	out.JWTSecret = "***"
	out.DatabaseDataSource = "***"
	return out
}

func initDB(ctx context.Context) error {
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.db.Close()
	a.logger.Info("✅ Database schema is ready")

	if adminEmail == "" {
		return nil
	}
	user, created, err := a.services.GetUserService().EnsureAdmin(ctx, adminEmail, adminPassword, adminName)
	if err != nil {
		return err
	}
	if created {
		a.logger.Infof("✅ Created admin %s", user.Email)
	} else {
		a.logger.Infof("Admin %s already exists", user.Email)
	}
	return nil
}

func serve(ctx context.Context) error {
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.db.Close()

	cfg, log := a.config, a.logger

	wizards, err := wizard.NewManager(a.validate, cfg.WizardSessionCapacity, log)
	if err != nil {
		return err
	}
	jwtManager := middelware.NewJWTManager(cfg, log, a.services.GetUserService())

	maintenance, err := worker.NewService(cfg, a.services.GetJobService(), jwtManager, log)
	if err != nil {
		return err
	}
	if err := maintenance.StartInBackground(); err != nil {
		return err
	}
	defer maintenance.Stop()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	logging := middelware.NewLoggingMiddleware(log)
	r.Use(logging.Recovery(), logging.StructuredLogger(), middelware.NewCORSMiddleware(cfg).CORS())

	controller.NewController(cfg, a.services, a.validate, wizards, jwtManager, maintenance, log).
		RegisterRoutes(r, cfg.BasePath)

	srv := &http.Server{
		Addr:              cfg.AppHost + ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
