package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/balance"
	balanceStore "github.com/MrJamesThe3rd/tally/internal/balance/store"
	"github.com/MrJamesThe3rd/tally/internal/category"
	categoryStore "github.com/MrJamesThe3rd/tally/internal/category/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/group"
	groupStore "github.com/MrJamesThe3rd/tally/internal/group/store"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	exportHandler "github.com/MrJamesThe3rd/tally/internal/http/export"
	groupHandler "github.com/MrJamesThe3rd/tally/internal/http/group"
	inviteHandler "github.com/MrJamesThe3rd/tally/internal/http/invite"
	profileHandler "github.com/MrJamesThe3rd/tally/internal/http/profile"
	"github.com/MrJamesThe3rd/tally/internal/http/realtime"
	statsHandler "github.com/MrJamesThe3rd/tally/internal/http/stats"
	txHandler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/invite"
	inviteStore "github.com/MrJamesThe3rd/tally/internal/invite/store"
	"github.com/MrJamesThe3rd/tally/internal/logging"
	"github.com/MrJamesThe3rd/tally/internal/metrics"
	"github.com/MrJamesThe3rd/tally/internal/profile"
	profileStore "github.com/MrJamesThe3rd/tally/internal/profile/store"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(ctx, cfg.ConnectionString(), database.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	var (
		m   = metrics.New()
		bus = events.NewBus(cfg.Events.Buffer)
		pub = events.Multi{bus, m}
	)

	bus.OnDrop(m.EventDropped)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.AMQP.URL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("connecting to broker: %w", err)
		}
		defer amqpPub.Close()

		g.Go(func() error { return events.Relay(ctx, bus, amqpPub) })
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			case err := <-amqpPub.NotifyClose():
				// Events keep flowing to in-process listeners; only the broker copy is lost.
				slog.Error("broker connection closed", "error", err)
				return nil
			}
		})
	}

	var (
		transactionService = transaction.NewService(txStore.New(db), pub)
		groupService       = group.NewService(groupStore.New(db), pub)
		balanceService     = balance.NewService(balanceStore.New(db), pub)
		inviteService      = invite.NewService(inviteStore.New(db), groupService, pub)
		profileService     = profile.NewService(profileStore.New(db), pub)
		exportService      = export.NewService(transactionService)
		categoryService    = category.NewService(categoryStore.New(db))
	)

	router := tallyHttp.New(tallyHttp.Handlers{
		Transactions: txHandler.NewHandler(transactionService).WithCategories(categoryService),
		Stats:        statsHandler.NewHandler(balanceService, profileService),
		Groups:       groupHandler.NewHandler(groupService, balanceService),
		Invites:      inviteHandler.NewHandler(inviteService, m),
		Profiles:     profileHandler.NewHandler(profileService),
		Export:       exportHandler.NewHandler(exportService),
		Realtime:     realtime.NewHandler(bus, cfg.Server.AllowedOrigins),
	}, tallyHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Verifier:       auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer),
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "env", cfg.App.Env, "addr", srv.Addr,
			"auth", cfg.Auth.Secret != "", "broker", cfg.AMQP.URL != "")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
