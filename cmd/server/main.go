// Command server runs the newsletter API: generation, lifecycle, preview,
// delivery and email list management.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/lettergen/lettergen/internal/config"
	"github.com/lettergen/lettergen/internal/emaillist"
	"github.com/lettergen/lettergen/internal/httpapi"
	"github.com/lettergen/lettergen/internal/newsletter"
	"github.com/lettergen/lettergen/internal/storage"
	"github.com/lettergen/lettergen/pkg/db"
	"github.com/lettergen/lettergen/pkg/health"
	"github.com/lettergen/lettergen/pkg/llm/openai"
	"github.com/lettergen/lettergen/pkg/llm/perplexity"
	"github.com/lettergen/lettergen/pkg/logger"
	"github.com/lettergen/lettergen/pkg/mailer"
	"github.com/lettergen/lettergen/pkg/mailer/resend"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Sentry, requestIDExtractor)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, storage.Migrations, cfg.Database.MigrationsTable, log); err != nil {
		return err
	}

	newsletters := newsletter.NewService(
		storage.NewNewsletterRepository(pool),
		openai.New(cfg.OpenAI),
		perplexity.New(cfg.Perplexity),
		mailer.New(resend.New(cfg.Resend)),
		cfg.Resend.SenderEmail,
		log,
	)
	lists := emaillist.NewService(storage.NewEmailListRepository(pool))

	api := httpapi.NewServer(newsletters, lists, health.Checks{
		"database": db.Healthcheck(pool),
	}, log)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router([]byte(cfg.JWTSecret)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(ctx, "server listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := chimiddleware.GetReqID(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}
