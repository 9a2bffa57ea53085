package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"lireddit/internal/auth"
	"lireddit/internal/cache"
	"lireddit/internal/config"
	"lireddit/internal/database"
	"lireddit/internal/graph"
	"lireddit/internal/handler"
	"lireddit/internal/logger"
	"lireddit/internal/mail"
	"lireddit/internal/queue"
	"lireddit/internal/redis"
	"lireddit/internal/repository"
	"lireddit/internal/service"
	"lireddit/internal/session"
	"lireddit/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Run wires every component together and serves until SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Logging
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	// 2. Database + schema
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// 3. Redis: sessions, reset tokens, mail stream
	rdb, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	if err := rdb.Ping(ctx); err != nil {
		return err
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	// 5. Services
	hasher := auth.NewArgon2idHasher(auth.DefaultParams)
	publisher := queue.NewPublisher(rdb.Client)
	resetTokens := cache.NewResetTokenStore(rdb.Client)

	userService := service.NewUserService(userRepo, hasher)
	passwordService := service.NewPasswordService(userRepo, resetTokens, publisher, hasher, cfg.FrontendURL)
	postService := service.NewPostService(postRepo)
	voteService := service.NewVoteService(voteRepo)

	// 6. Mail workers
	mailer := mail.New(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	workerCfg := worker.DefaultManagerConfig()
	workerCfg.WorkerCount = cfg.WorkerCount
	workers := worker.NewManager(queue.NewConsumer(rdb.Client), worker.NewHandler(mailer), workerCfg)
	if err := workers.Start(ctx); err != nil {
		return fmt.Errorf("start mail workers: %w", err)
	}
	defer workers.Stop()

	// 7. GraphQL + HTTP
	schema, err := graph.NewSchema(&graph.Resolver{
		Users:     userService,
		Passwords: passwordService,
		Posts:     postService,
		Votes:     voteService,
	})
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}

	sessions := session.NewManager(
		session.NewRedisStore(rdb.Client, time.Duration(cfg.SessionMaxAge)*time.Second),
		session.NewCodec(cfg.SessionSecret),
		session.CookieConfig{MaxAge: cfg.SessionMaxAge, Secure: cfg.IsProduction()},
	)

	router := NewRouter(RouterConfig{
		GraphQLHandler: handler.NewGraphQLHandler(schema),
		Sessions:       sessions,
		CORSOrigin:     cfg.CORSOrigin,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Migrate applies pending schema migrations and exits.
func Migrate(cfg *config.Config) error {
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Migrate(context.Background(), db)
}
