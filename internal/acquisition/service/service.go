// Package service implements the acquisition engine: the disposition
// processor applied after every phone call, the blacklist cascade, the
// conversion handover to the ATS and the deduplicating bulk importer.
package service

import (
	"time"

	"akquise_backend/internal/acquisition/ports"
	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/internal/events"
	"akquise_backend/platform/logger"
)

const (
	// leadTTL is the sliding expiry window from the last sighting of an ad.
	leadTTL = 30 * 24 * time.Hour
	// stalenessWindow is how long an ad must be unseen before a re-import
	// re-enters it as a brand-new lead instead of refreshing it.
	stalenessWindow = 90 * 24 * time.Hour
	// softBlacklistSuppression is how long a no-need lead stays protected
	// from re-imports before it becomes eligible again.
	softBlacklistSuppression = 180 * 24 * time.Hour

	defaultImportBatchSize = 50
)

type Service struct {
	store     repository.Store
	log       *logger.Logger
	bus       events.Bus
	converter ports.ConversionService
	reminders ports.ReminderScheduler

	importBatchSize int

	now func() time.Time
}

// New wires the engine. converter and reminders are optional collaborators;
// nil disables the respective best-effort side effect.
func New(store repository.Store, log *logger.Logger, bus events.Bus, converter ports.ConversionService, reminders ports.ReminderScheduler, importBatchSize int) *Service {
	if importBatchSize <= 0 {
		importBatchSize = defaultImportBatchSize
	}
	return &Service{
		store:           store,
		log:             log,
		bus:             bus,
		converter:       converter,
		reminders:       reminders,
		importBatchSize: importBatchSize,
		now:             time.Now,
	}
}
