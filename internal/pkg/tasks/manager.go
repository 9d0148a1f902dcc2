package tasks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge/internal/pkg/cache"
	"github.com/coursebridge/coursebridge/internal/pkg/env"
	"github.com/coursebridge/coursebridge/internal/pkg/wpsync"
)

const (
	overdueLockKey = "tasks:overdue:lock"
	syncLockKey    = "tasks:sync:lock"
)

// Manager runs the periodic background tasks: the overdue-enrolment sweep
// and the scheduled WordPress sync. Runs are guarded by a Redis lock so
// only one instance executes a task at a time.
type Manager struct {
	sweeper *Sweeper
	syncer  *wpsync.Syncer

	overdueTicker *time.Ticker
	syncTicker    *time.Ticker
	stopCh        chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
	running       bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global task manager (singleton).
func GetManager(db *gorm.DB) *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{
			sweeper: NewSweeperFromDB(db),
			syncer:  wpsync.NewSyncerFromDB(db),
		}
	})
	return globalManager
}

// Start starts the background tasks.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Tasks] Starting background tasks")

	overdueInterval := intervalFromEnv("TASK_OVERDUE_INTERVAL", 60)
	if overdueInterval > 0 {
		m.overdueTicker = time.NewTicker(overdueInterval)
		m.wg.Add(1)
		go m.overdueWorker(overdueInterval)
	}

	syncInterval := intervalFromEnv("TASK_SYNC_INTERVAL", 0)
	if syncInterval > 0 {
		m.syncTicker = time.NewTicker(syncInterval)
		m.wg.Add(1)
		go m.syncWorker(syncInterval)
	}

	log.Info("[Tasks] Started successfully")
}

// Stop stops the background tasks and waits for running workers.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Tasks] Stopping background tasks...")

	if m.overdueTicker != nil {
		m.overdueTicker.Stop()
	}
	if m.syncTicker != nil {
		m.syncTicker.Stop()
	}

	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	m.wg.Wait()
	log.Info("[Tasks] Stopped successfully")
}

// IsRunning returns whether the manager is currently running.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// RunOverdueSweepOnce exposes a manual trigger for a single sweep.
func (m *Manager) RunOverdueSweepOnce() (*SweepResult, error) {
	return m.sweeper.SweepOverdue()
}

func (m *Manager) overdueWorker(interval time.Duration) {
	defer m.wg.Done()
	log.Infof("[Tasks] Started overdue worker (interval: %s)", interval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[Tasks] Overdue worker stopping")
			return
		case <-m.overdueTicker.C:
			if !acquireLock(overdueLockKey, interval/2) {
				continue
			}
			if _, err := m.sweeper.SweepOverdue(); err != nil {
				log.Errorf("[Tasks] Overdue sweep error: %v", err)
			}
			releaseLock(overdueLockKey)
		}
	}
}

func (m *Manager) syncWorker(interval time.Duration) {
	defer m.wg.Done()
	log.Infof("[Tasks] Started sync worker (interval: %s)", interval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[Tasks] Sync worker stopping")
			return
		case <-m.syncTicker.C:
			if !acquireLock(syncLockKey, interval/2) {
				continue
			}
			ctx := context.Background()
			if _, err := m.syncer.SyncAllCategories(ctx, false); err != nil {
				log.Errorf("[Tasks] Category sync error: %v", err)
			}
			if _, err := m.syncer.SyncAllCourses(ctx, false); err != nil {
				log.Errorf("[Tasks] Course sync error: %v", err)
			}
			releaseLock(syncLockKey)
		}
	}
}

func acquireLock(key string, ttl time.Duration) bool {
	ok, err := cache.SetNX(key, time.Now().Unix(), ttl)
	if err != nil {
		log.Warnf("[Tasks] lock %s unavailable: %v", key, err)
		return false
	}
	return ok
}

func releaseLock(key string) {
	if err := cache.Delete(key); err != nil {
		log.Warnf("[Tasks] could not release lock %s: %v", key, err)
	}
}

// intervalFromEnv reads a minute interval from the environment; 0 disables
// the task.
func intervalFromEnv(key string, defMinutes int) time.Duration {
	raw := env.GetEnv(key, strconv.Itoa(defMinutes))
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		minutes = defMinutes
	}
	return time.Duration(minutes) * time.Minute
}
