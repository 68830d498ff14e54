package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"StockLens/internal/collector"
	"StockLens/internal/store"
)

// Manager keeps the persisted session in step with a Store.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading state from disk when present.
func NewManager(filePath string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Manager{state: state, filePath: filePath}, nil
}

// GetState returns a copy of the current session.
func (m *Manager) GetState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// Observe records snap when it is settled (not loading, no error) and differs
// from the saved session. It reports whether the file was written.
func (m *Manager) Observe(snap *store.MarketState) (bool, error) {
	if snap.Loading || snap.Error != "" {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Symbol == snap.Symbol && m.state.Period == snap.Period && m.state.Settings == snap.Settings {
		return false, nil
	}
	next := &State{Symbol: snap.Symbol, Period: snap.Period, Settings: snap.Settings}
	if err := SaveState(m.filePath, next); err != nil {
		return false, err
	}
	m.state = next
	return true, nil
}

// Track saves every settled change of s until ctx is done. The subscription
// is in place when Track returns; the returned channel closes when it stops.
func (m *Manager) Track(ctx context.Context, s *store.Store) <-chan struct{} {
	updates, cancel := s.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-updates:
				if !ok {
					return
				}
				if _, err := m.Observe(snap); err != nil {
					log.Printf("[ERROR] failed to save session: %v", err)
				}
			}
		}
	}()
	return done
}

// Restore applies the saved period and settings to the collector's store and
// reloads the saved symbol. An empty session is a no-op.
func (m *Manager) Restore(ctx context.Context, col *collector.Collector) error {
	state := m.GetState()
	if state.Period == "" && state.Symbol == "" {
		return nil
	}

	if state.Period != "" {
		if err := col.Store.SetPeriod(state.Period); err != nil {
			log.Printf("[WARN] ignoring saved period %q: %v", state.Period, err)
		}
	}
	col.Store.Update(func(next *store.MarketState) { next.Settings = state.Settings })

	if state.Symbol == "" {
		return nil
	}
	log.Printf("[INFO] restoring session: %s %s", state.Symbol, col.Store.Period())
	if err := col.Load(ctx, state.Symbol); err != nil {
		return fmt.Errorf("restore %s: %w", state.Symbol, err)
	}
	return nil
}
