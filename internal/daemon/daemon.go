package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/api"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/credit"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/notify"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/reward"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/season"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/streak"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/health"
	_ "github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/infra/metrics" // Register Prometheus metrics
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/infra/sqlite"
)

// Daemon is the core Echo runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Server *api.Server
	cancel context.CancelFunc

	Streaks       *streak.Service
	Credits       *credit.Service
	Seasons       *season.Engine
	Sweeper       *season.Sweeper
	Notifications *notify.Service
	Health        *health.Checker
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	configureLogging(cfg.Logging)

	dataDir := cfg.App.DataDir
	if dataDir == "" {
		dataDir = echoHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	clock := domain.SystemClock{}

	// Notification surface; deliveries land here for clients to poll.
	notifications := notify.NewService(db, clock)

	// Reward ledger and its evaluators.
	credits := credit.NewService(db, notifications, clock)
	milestones := reward.NewMilestoneEvaluator(credits, reward.DefaultMilestones())
	consistency := reward.NewConsistencyEvaluator(credits)
	seasons := season.NewEngine(db, credits)

	// Streak engine fanning out to the evaluators.
	streaks := streak.NewService(db, milestones, consistency, seasons, clock)

	batch := cfg.Seasons.SweepBatchSize
	sweeper := season.NewSweeper(db, db, notifications, clock, batch)

	srv := api.NewServer(streaks, credits, seasons, notifications, clock)
	srv.SetDefaultTimezone(cfg.App.DefaultTimezone)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, dataDir)
	srv.SetHealthChecker(checker)

	return &Daemon{
		Config:        cfg,
		DB:            db,
		Server:        srv,
		Streaks:       streaks,
		Credits:       credits,
		Seasons:       seasons,
		Sweeper:       sweeper,
		Notifications: notifications,
		Health:        checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Background services
	go d.Health.Run(ctx)

	interval := time.Duration(d.Config.Seasons.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	go d.Sweeper.Run(ctx, interval)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	logrus.WithField("addr", addr).Info("echo serving")
	if d.Config.Telemetry.Prometheus {
		logrus.WithField("url", fmt.Sprintf("http://%s/metrics", addr)).Info("metrics enabled")
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

func configureLogging(cfg LoggingConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
