package ledger

import (
	"sync"
	"time"
	"topfived/internal/ledger/interfaces"
	"topfived/internal/providers"
	"topfived/internal/structures"

	"github.com/roylee0704/gron"
)

// Scheduler flushes the identity ledger to disk on an interval and on
// shutdown.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	store       *KVStore
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Identity.SaveInterval), func() {
		if !s.store.Dirty() {
			return
		}
		if err := s.flush(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting identity ledger: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Persisted identity ledger to %s", s.config.Identity.FilePath)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Identity.FilePath)
}

func (s *Scheduler) Persist() error {
	s.logger.Infof(providers.TypeApp, "Persisting identity ledger...")
	if err := s.flush(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting identity ledger: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) flush() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Identity.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

func NewScheduler(config *structures.Config, logger providers.Logger, store *KVStore, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		store:       store,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
