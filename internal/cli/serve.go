package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	backupHttp "github.com/davicafu/participantes/internal/backup/infra/inbound/http"
	participantApp "github.com/davicafu/participantes/internal/participant/application"
	participantHttp "github.com/davicafu/participantes/internal/participant/infra/inbound/http"
	"github.com/davicafu/participantes/internal/remotesync"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand crea el comando que levanta el servidor HTTP.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Arranca el servidor HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, opts)
		},
	}
}

func runServer(ctx context.Context, opts *RootOptions) error {
	cfg, log := opts.Config, opts.Log

	// ---------------- Sync inicial ----------------
	github := newGitHubClient(cfg, log)
	if cfg.StorePath() != "" {
		if err := github.Pull(ctx); err != nil {
			log.Warn("⚠️ No se descargaron datos remotos, se usa el almacén local", zap.Error(err))
		}
	}

	// ---------------- Store ----------------
	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// ---------------- Cache ----------------
	cache, closeCache := newCache(ctx, cfg, log)
	defer closeCache()

	// ---------------- Events ---------------
	inMemoryBus, publisher, closeBus := newEventBus(cfg, log)
	defer closeBus()

	// ---------------- Backups --------------
	backups, err := newBackupService(cfg, log)
	if err != nil {
		return err
	}
	if _, err := backups.EnsureDaily(ctx); err != nil {
		log.Warn("⚠️ Falló el backup diario", zap.Error(err))
	}

	// --------------- Servicios -------------
	participantService := participantApp.NewParticipantService(repo, cache, backups, publisher, log)
	exportService := participantApp.NewExportService(repo, cfg.ExportIncludeID, log)

	if github.Status().Configured && cfg.StorePath() != "" {
		syncEvents, unsubscribe := inMemoryBus.Subscribe(32)
		defer unsubscribe()
		remotesync.NewWorker(github, syncEvents, log).Start(ctx)
	}

	// ---------------- HTTP ----------------
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	participantHttp.RegisterParticipantRoutes(router,
		participantHttp.NewParticipantHandler(participantService, exportService, log),
		participantHttp.NewStatusHandler(participantService, backups, github, cfg.StoreDriver),
	)
	backupHttp.RegisterBackupRoutes(router, backupHttp.NewBackupHandler(backups, log))

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Apagando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger registra cada petición con zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
