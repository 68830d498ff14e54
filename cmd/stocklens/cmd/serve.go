package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/metrics"
	"StockLens/internal/notifier"
	"StockLens/internal/scheduler"
	"StockLens/internal/server"
	"StockLens/internal/session"
	"StockLens/internal/store"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, snapshot stream and scheduled jobs",
	Long: `Start the StockLens service.

The service exposes the market view under /api/v1, streams every state
change on /ws, serves Prometheus metrics on /metrics, refreshes the loaded
symbol on a cron schedule and sends RSI alerts to Telegram when configured.

Example:
  stocklens serve --config configs/config.yaml --load AAPL`,
	RunE: runServe,
}

var serveLoad string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveLoad, "load", os.Getenv("LOAD_ON_START"), "symbol to load on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockLens starting...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fetcher := newFetcher(cfg)
	m := metrics.New()
	st := store.New(cfg.Store.DefaultPeriod)

	rec := newRecorder(cfg)
	defer rec.Close()

	col := collector.NewCollector(fetcher, st, rec, m)
	n := newNotifier(cfg)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, n, rec, m)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.AlertCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn, ok := n.(*notifier.TelegramNotifier); ok {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	srv := server.New(col, newInsighter(cfg, fetcher), cfg.Chart, cfg.DataSource.Symbols, m)
	go srv.Hub.Run(ctx)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var sess *session.Manager
	if cfg.Store.SessionPath != "" {
		if sess, err = session.NewManager(cfg.Store.SessionPath); err != nil {
			log.Printf("[WARN] session persistence disabled: %v", err)
		}
	}
	go func() {
		// an explicit --load wins over the saved session
		switch {
		case serveLoad != "":
			log.Printf("[INFO] loading %s on start", serveLoad)
			if err := col.Load(ctx, serveLoad); err != nil {
				log.Printf("[WARN] initial load: %v", err)
			}
		case sess != nil:
			if err := sess.Restore(ctx, col); err != nil {
				log.Printf("[WARN] %v", err)
			}
		}
		if sess != nil {
			sess.Track(ctx, st)
		}
	}()

	log.Println("[INFO] StockLens is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		log.Printf("[ERROR] http server: %v", err)
		return fmt.Errorf("http server: %w", err)
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] StockLens stopped")
	return nil
}
