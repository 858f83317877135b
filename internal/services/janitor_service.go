package services

import (
	"Drivebox/internal/config"
	"Drivebox/internal/repository"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var ErrCleanInProgress = errors.New("cleaning is in progress")

// Janitor permanently deletes trash roots older than the configured retention.
type Janitor struct {
	itemRepository repository.ItemRepository
	trashService   TrashService
	configuration  *config.Configuration
	logService     LogService
	cleaning       bool
	mutex          sync.Mutex
	forced         sync.WaitGroup
	cron           *cron.Cron
	now            func() time.Time
}

func NewJanitorService(
	itemRepository repository.ItemRepository,
	trashService TrashService,
	logService LogService,
	configuration *config.Configuration,
) *Janitor {
	return &Janitor{
		itemRepository: itemRepository,
		trashService:   trashService,
		logService:     logService,
		configuration:  configuration,
		cron:           cron.New(),
		now:            time.Now,
	}
}

func (j *Janitor) ForceStartCleanCycle() error {
	if !j.tryBeginClean() {
		return ErrCleanInProgress
	}

	j.forced.Add(1)
	go func() {
		defer j.forced.Done()
		defer j.endClean()
		j.startClean(context.Background(), true)
	}()
	return nil
}

func (j *Janitor) StartCleanCycle() error {
	cronSchedule := j.configuration.Server.CleanConfig.Schedule
	j.logService.Log.WithField("cron", cronSchedule).Debug("starting cleaning job")

	_, err := j.cron.AddFunc(cronSchedule, func() {
		if !j.tryBeginClean() {
			return
		}
		defer j.endClean()
		j.startClean(context.Background(), false)
	})
	if err != nil {
		j.logService.Log.WithFields(logrus.Fields{
			"job":   "clean",
			"error": err.Error(),
		}).Error("Failed to start cleaning job")
		return err
	}
	j.cron.Start()
	return nil
}

// StopClean stops the schedule and waits for any running cycle, scheduled or forced.
func (j *Janitor) StopClean() {
	<-j.cron.Stop().Done()
	j.forced.Wait()
	j.logService.Log.WithFields(logrus.Fields{
		"job":    "clean",
		"status": "stopped",
	}).Info("Janitor clean stopped")
}

func (j *Janitor) IsCleaning() bool {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.cleaning
}

func (j *Janitor) tryBeginClean() bool {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	if j.cleaning {
		return false
	}
	j.cleaning = true
	return true
}

func (j *Janitor) endClean() {
	j.mutex.Lock()
	j.cleaning = false
	j.mutex.Unlock()
}

// startClean returns how many trash roots were purged.
func (j *Janitor) startClean(ctx context.Context, forced bool) int {
	cutoff := j.now().UTC().Add(-j.configuration.Server.CleanConfig.Retention)
	items, err := j.itemRepository.FindExpiredTrashRoots(ctx, cutoff)
	if err != nil {
		j.logService.Log.WithFields(logrus.Fields{
			"job":    "clean",
			"status": "error",
			"error":  err.Error(),
		}).Error("Failed to find expired trash")
		return 0
	}
	if len(items) == 0 {
		j.logService.Log.WithField("job", "clean").Debug("nothing to clean")
		return 0
	}

	logFields := logrus.Fields{"job": "clean", "status": "start", "cron": j.configuration.Server.CleanConfig.Schedule}
	if forced {
		logFields = logrus.Fields{"job": "clean", "status": "forced"}
	}
	j.logService.Log.WithFields(logFields).Infof("Found %d items to delete", len(items))

	var deletedCount int
	for i := range items {
		// A root nested in another expired root may already be gone.
		err := j.trashService.Delete(ctx, items[i].ID, items[i].OwnerID)
		if err != nil {
			j.logService.Log.WithFields(logrus.Fields{
				"job":    "clean",
				"status": "error",
				"item":   items[i].ID,
				"error":  err.Error(),
			}).Warn("Failed to delete item")
			continue
		}
		deletedCount++
	}
	j.logService.Log.WithFields(logrus.Fields{
		"job":    "clean",
		"status": "success",
		"count":  deletedCount,
	}).Info("cleaning job finished")
	return deletedCount
}
