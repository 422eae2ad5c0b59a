// Package session owns the selected day and drives the engine: it builds the
// slot grid, overlays server records, applies edits and submits them.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/julianstephens/slotsheet/internal/autofill"
	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/models"
	"github.com/julianstephens/slotsheet/internal/motion"
	"github.com/julianstephens/slotsheet/internal/reconcile"
	"github.com/julianstephens/slotsheet/internal/scheduler"
	"github.com/julianstephens/slotsheet/internal/slotstate"
	"github.com/julianstephens/slotsheet/internal/submission"
)

// Remote is the timesheet service as seen by a session
type Remote interface {
	submission.Submitter
	slotstate.RecordDeleter
	FetchJobCatalog(ctx context.Context) (models.Catalog, error)
	FetchHistory(ctx context.Context, limit int) ([]models.RemoteRecord, error)
}

// CatalogCache keeps the last personal catalog for offline starts
type CatalogCache interface {
	SaveCatalog(models.Catalog) error
	GetCatalog() (models.Catalog, error)
}

// Notifier shows the outcome of a submission outside the terminal
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// CatalogSource says where the session's catalog came from
type CatalogSource string

const (
	CatalogPersonal CatalogSource = "personal"
	CatalogCached   CatalogSource = "cached"
	CatalogBuiltin  CatalogSource = "builtin"
)

// Config wires a Session. Remote and Window are required; the rest is optional.
type Config struct {
	Remote       Remote
	Credentials  models.Credentials
	Window       scheduler.DayWindow
	HistoryLimit int
	// Fallback is used when the personal catalog is empty or unavailable
	Fallback  models.Catalog
	Cache     CatalogCache
	Journal   submission.Journal
	Notifier  Notifier
	Confirmer slotstate.Confirmer
	Rand      autofill.RandSource
}

type Session struct {
	remote       Remote
	creds        models.Credentials
	window       scheduler.DayWindow
	historyLimit int
	fallback     models.Catalog
	cache        CatalogCache
	notifier     Notifier

	scheduler   *scheduler.Scheduler
	machine     *slotstate.Machine
	filler      *autofill.Policy
	coordinator *submission.Coordinator

	mu            sync.Mutex
	day           models.Day
	catalog       models.Catalog
	catalogSource CatalogSource
}

func New(cfg Config) *Session {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}

	var opts []submission.Option
	if cfg.Journal != nil {
		opts = append(opts, submission.WithJournal(cfg.Journal))
	}

	return &Session{
		remote:       cfg.Remote,
		creds:        cfg.Credentials,
		window:       cfg.Window,
		historyLimit: limit,
		fallback:     cfg.Fallback,
		cache:        cfg.Cache,
		notifier:     cfg.Notifier,
		scheduler:    scheduler.New(),
		machine:      slotstate.NewMachine(cfg.Confirmer, cfg.Remote),
		filler:       autofill.New(rng),
		coordinator:  submission.New(cfg.Remote, opts...),
	}
}

// Credentials returns the signed-in identity
func (s *Session) Credentials() models.Credentials {
	return s.creds
}

// Window returns the day window slots are generated from
func (s *Session) Window() scheduler.DayWindow {
	return s.window
}

// Date returns the selected date, empty before SelectDate
func (s *Session) Date() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day.Date
}

// Slots returns a copy of the selected day's slots
func (s *Session) Slots() []models.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneSlots(s.day.Slots)
}

// Catalog returns the jobs available to the user
func (s *Session) Catalog() models.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// CatalogSource reports where the current catalog came from
func (s *Session) CatalogSource() CatalogSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogSource
}

// PendingCount returns the number of slots the next Submit would send
func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CountPending(s.day.Slots)
}

// LoadCatalog fetches the personal catalog. An empty personal catalog falls
// back to the built-in list; a failed fetch falls back to the cached copy and
// then to the built-in list. It only fails when every source is empty.
func (s *Session) LoadCatalog(ctx context.Context) (models.Catalog, error) {
	catalog, source := s.resolveCatalog(ctx)

	s.mu.Lock()
	s.catalog = catalog
	s.catalogSource = source
	s.mu.Unlock()

	logger.Info("Job catalog loaded", "source", source, "jobs", len(catalog))
	if len(catalog) == 0 {
		return catalog, fmt.Errorf("no jobs available")
	}
	return catalog, nil
}

func (s *Session) resolveCatalog(ctx context.Context) (models.Catalog, CatalogSource) {
	personal, err := s.remote.FetchJobCatalog(ctx)
	if err == nil {
		if len(personal) == 0 {
			return s.fallback, CatalogBuiltin
		}
		if s.cache != nil {
			if err := s.cache.SaveCatalog(personal); err != nil {
				logger.Warn("Failed to cache job catalog", "error", err)
			}
		}
		return personal, CatalogPersonal
	}

	logger.Warn("Failed to fetch job catalog", "error", err)
	if s.cache != nil {
		cached, cerr := s.cache.GetCatalog()
		if cerr != nil {
			logger.Warn("Failed to read cached job catalog", "error", cerr)
		} else if len(cached) > 0 {
			return cached, CatalogCached
		}
	}
	return s.fallback, CatalogBuiltin
}

// SelectDate discards the current day and loads date from the service. If
// the history cannot be fetched the empty grid is kept and the error returned.
func (s *Session) SelectDate(ctx context.Context, date string) (reconcile.Report, error) {
	day, err := s.scheduler.GenerateDay(date, s.window)
	if err != nil {
		return reconcile.Report{}, err
	}

	s.mu.Lock()
	s.day = day
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// ShiftDate moves the selection by days relative to the current date
func (s *Session) ShiftDate(ctx context.Context, days int) (reconcile.Report, error) {
	current, err := time.Parse(constants.DateFormat, s.Date())
	if err != nil {
		return reconcile.Report{}, fmt.Errorf("no date selected: %w", err)
	}
	return s.SelectDate(ctx, current.AddDate(0, 0, days).Format(constants.DateFormat))
}

// Refresh regenerates the selected day and overlays the service's records.
// Unsubmitted edits are discarded.
func (s *Session) Refresh(ctx context.Context) (reconcile.Report, error) {
	date := s.Date()
	day, err := s.scheduler.GenerateDay(date, s.window)
	if err != nil {
		return reconcile.Report{}, err
	}

	records, err := s.remote.FetchHistory(ctx, s.historyLimit)
	if err != nil {
		logger.Warn("Failed to fetch history", "date", date, "error", err)
		s.setSlots(date, day.Slots)
		return reconcile.Report{}, fmt.Errorf("failed to load saved records: %w", err)
	}

	merged, report := reconcile.Merge(day.Slots, records, date)
	s.setSlots(date, merged)

	logger.Debug("Day refreshed", "date", date, "matched", report.Matched, "dropped", report.Dropped)
	return report, nil
}

func (s *Session) setSlots(date string, slots []models.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.day.Date != date {
		// The selection moved while this refresh was in flight
		return
	}
	s.day.Slots = slots
}

// AssignJob assigns jobID to the slot at index
func (s *Session) AssignJob(ctx context.Context, index int, jobID int64) error {
	return s.mutate(func(slots []models.Slot, catalog models.Catalog) ([]models.Slot, error) {
		return s.machine.AssignJob(ctx, slots, index, jobID, catalog)
	})
}

// AssignPlanned marks the slot at index as planned work for jobID
func (s *Session) AssignPlanned(ctx context.Context, index int, jobID int64) error {
	return s.mutate(func(slots []models.Slot, catalog models.Catalog) ([]models.Slot, error) {
		return s.machine.AssignPlanned(ctx, slots, index, jobID, catalog)
	})
}

// MarkDayOff marks the slot at index as leave
func (s *Session) MarkDayOff(ctx context.Context, index int) error {
	return s.mutate(func(slots []models.Slot, _ models.Catalog) ([]models.Slot, error) {
		return s.machine.MarkDayOff(ctx, slots, index)
	})
}

// Clear empties the slot at index, deleting its saved record first if it has one
func (s *Session) Clear(ctx context.Context, index int) error {
	return s.mutate(func(slots []models.Slot, _ models.Catalog) ([]models.Slot, error) {
		return s.machine.Clear(ctx, slots, index)
	})
}

// IndexOf returns the index of the slot starting at start
func (s *Session) IndexOf(start string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, slot := range s.day.Slots {
		if slot.StartTime == start {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no slot starts at %s", slotstate.ErrSlotIndex, start)
}

// mutate runs op on a copy of the slots without holding the lock, since op
// may wait on a confirmer or the service. Only the slots op changed are
// written back, and nothing is written if the selection moved meanwhile.
func (s *Session) mutate(op func([]models.Slot, models.Catalog) ([]models.Slot, error)) error {
	s.mu.Lock()
	date := s.day.Date
	before := models.CloneSlots(s.day.Slots)
	catalog := s.catalog
	s.mu.Unlock()

	updated, err := op(models.CloneSlots(before), catalog)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.day.Date != date || len(s.day.Slots) != len(before) || len(updated) != len(before) {
		logger.Warn("Day changed during edit, discarding result", "date", date)
		return nil
	}
	for i := range updated {
		if updated[i] != before[i] {
			s.day.Slots[i] = updated[i]
		}
	}
	return nil
}

// AutoFill assigns random jobs to a random share of the empty slots
func (s *Session) AutoFill() (autofill.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, result, err := s.filler.Fill(s.day.Slots, s.catalog)
	if err != nil {
		return result, err
	}
	s.day.Slots = updated
	return result, nil
}

// ShakeFill waits for the shake quota on src and auto-fills once it is
// reached. Cancelling ctx ends the wait and leaves the slots untouched.
func (s *Session) ShakeFill(ctx context.Context, src motion.Source, onShake func(count int)) (motion.Outcome, autofill.Result, error) {
	ms := motion.NewSession(src)
	ms.OnShake = onShake

	outcome, err := ms.Run(ctx)
	if err != nil {
		return outcome, autofill.Result{}, err
	}
	if outcome != motion.OutcomeFired {
		logger.Info("Shake fill ended without firing", "outcome", outcome)
		return outcome, autofill.Result{}, nil
	}

	result, err := s.AutoFill()
	return outcome, result, err
}

// Submit sends every pending slot. After a batch without failures the day is
// reloaded from the service; otherwise the edits stay so they can be retried.
func (s *Session) Submit(ctx context.Context) (submission.Result, error) {
	s.mu.Lock()
	date := s.day.Date
	slots := models.CloneSlots(s.day.Slots)
	catalog := s.catalog
	s.mu.Unlock()

	result := s.coordinator.Submit(ctx, slots, catalog, date)
	if result.NothingToSubmit {
		return result, nil
	}

	s.notify(ctx, date, result)

	if result.FailureCount > 0 {
		return result, nil
	}
	if _, err := s.Refresh(ctx); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Session) notify(ctx context.Context, date string, result submission.Result) {
	if s.notifier == nil {
		return
	}
	text := fmt.Sprintf("%s %s: %s", constants.AppName, date, result.Summary())
	if err := s.notifier.Notify(ctx, text); err != nil {
		logger.Debug("Notification not delivered", "error", err)
	}
}
