package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger probes a single dependency.
type Pinger func(ctx context.Context) error

// Monitor periodically pings the primary store and the cache backend and
// keeps the last observed status for the health endpoint.
type Monitor struct {
	store Pinger
	redis Pinger

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

// New builds a monitor. redis may be nil when the in-memory cache is used;
// it is then reported as healthy.
func New(store, redis Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		store:    store,
		redis:    redis,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

// IsOnline reports whether the authoritative store is reachable. The cache
// is best-effort and never gates availability.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Store
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	storeOK := m.check(ctx, m.store, "store")
	redisOK := true
	if m.redis != nil {
		redisOK = m.check(ctx, m.redis, "redis")
	}

	m.mu.Lock()
	m.status = Status{
		Store:     storeOK,
		Redis:     redisOK,
		LastCheck: time.Now().UTC(),
	}
	m.mu.Unlock()
}

func (m *Monitor) check(ctx context.Context, ping Pinger, name string) bool {
	if ping == nil {
		return false
	}
	if err := ping(ctx); err != nil {
		m.logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
		return false
	}
	return true
}
