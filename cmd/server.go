package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/chat"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/inventory"
	"github.com/ziadkadry99/opsdash/internal/orders"
	"github.com/ziadkadry99/opsdash/internal/server"
	"github.com/ziadkadry99/opsdash/internal/session"
	"github.com/ziadkadry99/opsdash/internal/web"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard web server",
	Long:  `Starts the opsdash web server with the dashboard pages, the workspace chat websocket and the JSON API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		pack, err := fixtures.Load()
		if err != nil {
			return err
		}

		store := activity.NewStore(database)
		sessions := session.NewManager(pack, session.Options{
			TTL:       cfg.SessionTTL,
			Assistant: assistantOptions(cfg, store, logger.Named("assistant")),
			Recorder:  store,
			Logger:    logger.Named("session"),
		})

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, database, logger.Named("http"))

		if err := registerAllRoutes(srv, pack, store, sessions, cfg.AllowAllOrigins, logger); err != nil {
			return err
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("opsdash server starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Port),
			zap.String("database", database.Path()),
			zap.Float64("pacing", cfg.Assistant.Pacing),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			return sessions.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

// registerAllRoutes wires up the feature routes. The websocket is mounted
// outside the request timeout.
func registerAllRoutes(srv *server.Server, pack *fixtures.Pack, store *activity.Store, sessions *session.Manager, allowAll bool, logger *zap.Logger) error {
	r := srv.Timed()

	// Pages
	pages, err := web.New(sessions, pack, web.Options{Recorder: store, Logger: logger.Named("web")})
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	pages.RegisterRoutes(r)

	// JSON API
	orders.RegisterRoutes(r, pack)
	inventory.RegisterRoutes(r, pack)
	activity.RegisterRoutes(r, store)

	// Workspace chat
	chat.New(sessions, allowAll, logger.Named("chat")).RegisterRoutes(srv.Router())
	return nil
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serverCmd)
}
