package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
	"StockLens/internal/store"
	"StockLens/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Store     *store.Store
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Ctx       context.Context

	mu         sync.Mutex
	lastStatus map[string]calculator.RSIStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n notifier.Notifier, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Store:      col.Store,
		Notifier:   n,
		Recorder:   rec,
		Metrics:    m,
		Ctx:        ctx,
		lastStatus: make(map[string]calculator.RSIStatus),
	}
}

// RegisterAll registers the refresh and alert tasks.
func (s *Scheduler) RegisterAll(refreshCron, alertCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(alertCron, s.CheckAlerts); err != nil {
		return fmt.Errorf("register alert task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately.
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	symbol := s.Store.Symbol()
	if symbol == "" {
		return
	}
	log.Printf("[INFO] refreshing %s", symbol)
	err := s.Collector.Refresh(s.Ctx)
	switch {
	case err == nil:
		s.CheckAlerts()
	case errors.Is(err, collector.ErrStale):
		// a user request superseded the refresh
	default:
		log.Printf("[ERROR] refresh %s: %v", symbol, err)
	}
}

// CheckAlerts notifies when the RSI status of the loaded symbol moves into
// overbought or oversold. Each status is reported once until it changes.
func (s *Scheduler) CheckAlerts() {
	snap := s.Store.Snapshot()
	if !snap.HasSymbol() || snap.Loading || snap.Error != "" {
		return
	}
	rsi, ok := calculator.LatestValue(snap.Indicators.RSI14)
	if !ok {
		return
	}
	latest, _ := snap.LatestPrice()
	status := calculator.ClassifyRSI(rsi)

	s.mu.Lock()
	prev := s.lastStatus[snap.Symbol]
	s.lastStatus[snap.Symbol] = status
	s.mu.Unlock()

	if status == prev || status == calculator.StatusNeutral {
		return
	}

	log.Printf("[INFO] RSI alert %s: %.1f %s", snap.Symbol, rsi, status)
	s.trySend(notifier.FormatAlert(snap.Symbol, status, rsi, latest.Close))
	if s.Metrics != nil {
		s.Metrics.AlertsTotal.WithLabelValues(string(status)).Inc()
	}
	if err := s.Recorder.RecordAlert(&recorder.AlertEvent{
		Symbol: snap.Symbol,
		Status: string(status),
		RSI:    rsi,
		Price:  latest.Close,
	}); err != nil {
		log.Printf("[ERROR] record alert: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch strings.ToLower(fields[0]) {
	case "/load":
		if arg == "" {
			return "Usage: /load SYMBOL"
		}
		if err := s.Collector.Load(ctx, arg); err != nil && !errors.Is(err, collector.ErrStale) {
			if msg := s.Store.Error(); msg != "" {
				return msg
			}
			return fmt.Sprintf("Load failed: %v", err)
		}
		return s.report()
	case "/period":
		period, err := model.ParsePeriod(arg)
		if err != nil {
			return fmt.Sprintf("%v\n\n%s", err, notifier.FormatHelp())
		}
		if err := s.Collector.ChangePeriod(ctx, period); err != nil && !errors.Is(err, collector.ErrStale) {
			if msg := s.Store.Error(); msg != "" {
				return msg
			}
			return fmt.Sprintf("Period change failed: %v", err)
		}
		return s.report()
	case "/toggle":
		key, err := model.ParseIndicatorKey(arg)
		if err != nil {
			return fmt.Sprintf("%v\n\n%s", err, notifier.FormatHelp())
		}
		if err := s.Store.ToggleIndicator(key); err != nil {
			return err.Error()
		}
		return notifier.FormatSettings(s.Store.Settings())
	case "/status":
		return s.report()
	case "/reset":
		s.Collector.Reset()
		return "Cleared."
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) report() string {
	snap := s.Store.Snapshot()
	var ev *strategy.Evaluation
	if len(snap.Prices) > 0 && snap.Error == "" {
		ev = strategy.EvaluateBars(snap.Prices, snap.Indicators)
	}
	return notifier.FormatReport(snap, ev)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
