package syncstate

import (
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"chatsync/internal/services"
	"chatsync/internal/structures"
	"chatsync/internal/syncstate/interfaces"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

// Scheduler owns the state lifecycle: restore at startup, a periodic
// best-effort snapshot while running, and a final persist on shutdown.
// Per-mutation writes in the services are the primary path; the periodic
// snapshot is the safety net.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	settings services.SettingsServiceInterface
	dedup    services.DedupServiceInterface
	queue    *models.OfflineQueue
	state    interfaces.StateManagerInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func NewScheduler(config *structures.Config, logger providers.Logger, settings services.SettingsServiceInterface, dedup services.DedupServiceInterface, queue *models.OfflineQueue, state interfaces.StateManagerInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		settings: settings,
		dedup:    dedup,
		queue:    queue,
		state:    state,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval*time.Second), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.persistAll(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Persisted sync state to %s", s.config.Persistence.StateDir)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	s.settings.Restore()
	s.dedup.Restore()

	var items []models.SyncPayload
	if s.state.LoadRecord(interfaces.RecordQueue, &items) {
		s.queue.SetMax(s.settings.Get().MaxBufferSize)
		s.queue.Replace(items)
		s.logger.Infof(providers.TypeQueue, "Restored offline queue with %d payload(s)", s.queue.Len())
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting sync state...")
	if err := s.persistAll(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) persistAll() error {
	if err := s.state.SaveRecord(interfaces.RecordSettings, s.settings.Get()); err != nil {
		return err
	}
	if err := s.dedup.Persist(); err != nil {
		return err
	}
	return s.state.SaveRecord(interfaces.RecordQueue, s.queue.Items())
}
