package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/slotsheet/internal/autofill"
	apperrors "github.com/julianstephens/slotsheet/internal/errors"
	"github.com/julianstephens/slotsheet/internal/models"
	"github.com/julianstephens/slotsheet/internal/motion"
	"github.com/julianstephens/slotsheet/internal/scheduler"
	"github.com/julianstephens/slotsheet/internal/slotstate"
	"github.com/julianstephens/slotsheet/internal/submission"
)

const testDate = "2024-01-10"

var (
	personalCatalog = models.Catalog{{ID: 108411, Name: "Linux Sunucu Kurulumu"}}
	builtinCatalog  = models.Catalog{{ID: 108415, Name: "Yedekleme Kontrolleri"}}
)

type fakeRemote struct {
	mu         sync.Mutex
	catalog    models.Catalog
	catalogErr error
	historyErr error
	submitErr  error
	records    []models.RemoteRecord
	nextID     int64
	fetches    int
	deleted    []int64
}

func (f *fakeRemote) FetchJobCatalog(context.Context) (models.Catalog, error) {
	return f.catalog, f.catalogErr
}

func (f *fakeRemote) FetchHistory(context.Context, int) ([]models.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return append([]models.RemoteRecord(nil), f.records...), nil
}

func (f *fakeRemote) save(start string, kind models.StatusKind, jobID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.nextID++
	f.records = append(f.records, models.RemoteRecord{
		ID:             1000 + f.nextID,
		StartTimestamp: start,
		StatusKind:     kind,
		JobID:          jobID,
	})
	return nil
}

func (f *fakeRemote) SubmitJob(_ context.Context, job submission.JobSubmission) error {
	return f.save(job.Start+"Z", models.StatusOrdinary, job.JobID)
}

func (f *fakeRemote) SubmitPlanning(_ context.Context, date, start, _ string, jobID int64) error {
	return f.save(date+"T"+start+":00Z", models.StatusPlanned, jobID)
}

func (f *fakeRemote) SubmitDayOff(_ context.Context, date, start, _ string) error {
	return f.save(date+"T"+start+":00Z", models.StatusDayOff, 0)
}

func (f *fakeRemote) DeleteRecord(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type memCache struct {
	catalog models.Catalog
	err     error
	saved   int
}

func (c *memCache) SaveCatalog(catalog models.Catalog) error {
	c.saved++
	c.catalog = catalog
	return nil
}

func (c *memCache) GetCatalog() (models.Catalog, error) {
	return c.catalog, c.err
}

type recordingNotifier struct {
	texts []string
}

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.texts = append(n.texts, text)
	return nil
}

// lastRand always picks the highest value and never shuffles
type lastRand struct{}

func (lastRand) Intn(n int) int              { return n - 1 }
func (lastRand) Shuffle(int, func(i, j int)) {}

func newTestSession(remote *fakeRemote, mutators ...func(*Config)) *Session {
	cfg := Config{
		Remote:    remote,
		Window:    scheduler.DefaultWindow(),
		Fallback:  builtinCatalog,
		Confirmer: slotstate.AlwaysConfirm,
		Rand:      lastRand{},
	}
	for _, m := range mutators {
		m(&cfg)
	}
	return New(cfg)
}

func TestLoadCatalog_FallbackChain(t *testing.T) {
	tests := []struct {
		name       string
		remote     *fakeRemote
		cache      *memCache
		wantSource CatalogSource
		wantFirst  int64
		wantSaved  int
	}{
		{
			name:       "personal catalog",
			remote:     &fakeRemote{catalog: personalCatalog},
			cache:      &memCache{},
			wantSource: CatalogPersonal,
			wantFirst:  108411,
			wantSaved:  1,
		},
		{
			name:       "empty personal catalog uses built-in list",
			remote:     &fakeRemote{},
			cache:      &memCache{catalog: personalCatalog},
			wantSource: CatalogBuiltin,
			wantFirst:  108415,
		},
		{
			name:       "fetch failure uses cache",
			remote:     &fakeRemote{catalogErr: apperrors.ErrTransport},
			cache:      &memCache{catalog: personalCatalog},
			wantSource: CatalogCached,
			wantFirst:  108411,
		},
		{
			name:       "fetch failure with empty cache uses built-in list",
			remote:     &fakeRemote{catalogErr: apperrors.ErrTransport},
			cache:      &memCache{},
			wantSource: CatalogBuiltin,
			wantFirst:  108415,
		},
		{
			name:       "unreadable cache uses built-in list",
			remote:     &fakeRemote{catalogErr: apperrors.ErrTransport},
			cache:      &memCache{err: errors.New("disk gone")},
			wantSource: CatalogBuiltin,
			wantFirst:  108415,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(tt.remote, func(c *Config) { c.Cache = tt.cache })
			catalog, err := s.LoadCatalog(context.Background())
			if err != nil {
				t.Fatalf("LoadCatalog failed: %v", err)
			}
			if s.CatalogSource() != tt.wantSource {
				t.Errorf("source = %s, want %s", s.CatalogSource(), tt.wantSource)
			}
			if catalog[0].ID != tt.wantFirst {
				t.Errorf("first job = %d, want %d", catalog[0].ID, tt.wantFirst)
			}
			if tt.cache.saved != tt.wantSaved {
				t.Errorf("cache saved %d times, want %d", tt.cache.saved, tt.wantSaved)
			}
		})
	}
}

func TestLoadCatalog_NothingAvailable(t *testing.T) {
	s := newTestSession(&fakeRemote{catalogErr: apperrors.ErrTransport}, func(c *Config) { c.Fallback = nil })
	if _, err := s.LoadCatalog(context.Background()); err == nil {
		t.Error("expected an error when no catalog is available")
	}
}

func TestSelectDate_MergesHistory(t *testing.T) {
	remote := &fakeRemote{records: []models.RemoteRecord{
		{ID: 7, StartTimestamp: testDate + "T09:00:00Z", StatusKind: models.StatusOrdinary, JobID: 108411},
		{ID: 8, StartTimestamp: "2024-01-11T09:00:00Z", StatusKind: models.StatusDayOff},
	}}
	s := newTestSession(remote)

	report, err := s.SelectDate(context.Background(), testDate)
	if err != nil {
		t.Fatalf("SelectDate failed: %v", err)
	}
	if report.Matched != 1 {
		t.Errorf("Matched = %d, want 1", report.Matched)
	}

	slots := s.Slots()
	if len(slots) != 16 {
		t.Fatalf("got %d slots, want 16", len(slots))
	}
	if slots[1].ExistingRecordID != 7 || slots[1].JobID != 108411 {
		t.Errorf("09:00 slot = %+v, want record 7 with job 108411", slots[1])
	}
	if s.PendingCount() != 0 {
		t.Errorf("PendingCount = %d, want 0", s.PendingCount())
	}
}

func TestSelectDate_HistoryFailureKeepsGrid(t *testing.T) {
	s := newTestSession(&fakeRemote{historyErr: apperrors.ErrTransport})

	_, err := s.SelectDate(context.Background(), testDate)
	if !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if s.Date() != testDate {
		t.Errorf("Date = %q, want %q", s.Date(), testDate)
	}
	slots := s.Slots()
	if len(slots) != 16 {
		t.Fatalf("got %d slots, want 16", len(slots))
	}
	for _, slot := range slots {
		if !slot.IsEmpty() {
			t.Errorf("slot %s not empty: %+v", slot.StartTime, slot)
		}
	}
}

func TestSelectDate_InvalidDate(t *testing.T) {
	s := newTestSession(&fakeRemote{})
	if _, err := s.SelectDate(context.Background(), "10/01/2024"); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestShiftDate(t *testing.T) {
	s := newTestSession(&fakeRemote{})
	if _, err := s.ShiftDate(context.Background(), 1); err == nil {
		t.Error("expected an error before a date is selected")
	}

	if _, err := s.SelectDate(context.Background(), "2024-01-31"); err != nil {
		t.Fatalf("SelectDate failed: %v", err)
	}
	if _, err := s.ShiftDate(context.Background(), 1); err != nil {
		t.Fatalf("ShiftDate failed: %v", err)
	}
	if s.Date() != "2024-02-01" {
		t.Errorf("Date = %q, want 2024-02-01", s.Date())
	}
}

func TestEdits(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{
		catalog: personalCatalog,
		records: []models.RemoteRecord{{ID: 7, StartTimestamp: testDate + "T09:00:00Z", JobID: 108411}},
	}
	s := newTestSession(remote)
	if _, err := s.LoadCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDate(ctx, testDate); err != nil {
		t.Fatal(err)
	}

	if err := s.AssignJob(ctx, 0, 108411); err != nil {
		t.Fatalf("AssignJob failed: %v", err)
	}
	if err := s.AssignPlanned(ctx, 2, 108411); err != nil {
		t.Fatalf("AssignPlanned failed: %v", err)
	}
	idx, err := s.IndexOf("10:00")
	if err != nil {
		t.Fatalf("IndexOf failed: %v", err)
	}
	if err := s.MarkDayOff(ctx, idx); err != nil {
		t.Fatalf("MarkDayOff failed: %v", err)
	}
	if s.PendingCount() != 3 {
		t.Errorf("PendingCount = %d, want 3", s.PendingCount())
	}

	if err := s.Clear(ctx, 1); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(remote.deleted) != 1 || remote.deleted[0] != 7 {
		t.Errorf("deleted = %v, want [7]", remote.deleted)
	}
	if !s.Slots()[1].IsEmpty() {
		t.Errorf("cleared slot not empty: %+v", s.Slots()[1])
	}

	if err := s.AssignJob(ctx, 99, 108411); !errors.Is(err, slotstate.ErrSlotIndex) {
		t.Errorf("err = %v, want ErrSlotIndex", err)
	}
	if _, err := s.IndexOf("12:45"); !errors.Is(err, slotstate.ErrSlotIndex) {
		t.Errorf("IndexOf err = %v, want ErrSlotIndex", err)
	}
}

// slowDeleter holds DeleteRecord until release is closed
type slowDeleter struct {
	*fakeRemote
	entered chan struct{}
	release chan struct{}
}

func (d *slowDeleter) DeleteRecord(ctx context.Context, id int64) error {
	close(d.entered)
	<-d.release
	return d.fakeRemote.DeleteRecord(ctx, id)
}

func TestClear_SessionUsableWhileDeleting(t *testing.T) {
	ctx := context.Background()
	remote := &slowDeleter{
		fakeRemote: &fakeRemote{
			catalog: personalCatalog,
			records: []models.RemoteRecord{{ID: 7, StartTimestamp: testDate + "T09:00:00Z", JobID: 108411}},
		},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := New(Config{
		Remote:    remote,
		Window:    scheduler.DefaultWindow(),
		Fallback:  builtinCatalog,
		Confirmer: slotstate.AlwaysConfirm,
		Rand:      lastRand{},
	})
	if _, err := s.LoadCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDate(ctx, testDate); err != nil {
		t.Fatal(err)
	}

	cleared := make(chan error, 1)
	go func() { cleared <- s.Clear(ctx, 1) }()
	<-remote.entered

	reads := make(chan int, 1)
	go func() {
		_ = s.Slots()
		if err := s.AssignJob(ctx, 0, 108411); err != nil {
			t.Errorf("AssignJob failed: %v", err)
		}
		reads <- s.PendingCount()
	}()
	select {
	case pending := <-reads:
		if pending != 1 {
			t.Errorf("PendingCount = %d, want 1", pending)
		}
	case <-time.After(time.Second):
		close(remote.release)
		t.Fatal("session blocked while a record was being deleted")
	}

	close(remote.release)
	if err := <-cleared; err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	slots := s.Slots()
	if !slots[1].IsEmpty() {
		t.Errorf("cleared slot not empty: %+v", slots[1])
	}
	if slots[0].JobID != 108411 {
		t.Errorf("edit made during delete lost: %+v", slots[0])
	}
}

func TestClear_DiscardedWhenDateChanges(t *testing.T) {
	ctx := context.Background()
	remote := &slowDeleter{
		fakeRemote: &fakeRemote{
			catalog: personalCatalog,
			records: []models.RemoteRecord{{ID: 7, StartTimestamp: testDate + "T09:00:00Z", JobID: 108411}},
		},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := New(Config{
		Remote:    remote,
		Window:    scheduler.DefaultWindow(),
		Fallback:  builtinCatalog,
		Confirmer: slotstate.AlwaysConfirm,
		Rand:      lastRand{},
	})
	if _, err := s.LoadCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDate(ctx, testDate); err != nil {
		t.Fatal(err)
	}

	cleared := make(chan error, 1)
	go func() { cleared <- s.Clear(ctx, 1) }()
	<-remote.entered

	if _, err := s.SelectDate(ctx, "2024-01-11"); err != nil {
		t.Fatal(err)
	}
	if err := s.AssignJob(ctx, 1, 108411); err != nil {
		t.Fatal(err)
	}
	close(remote.release)
	if err := <-cleared; err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if got := s.Slots()[1].JobID; got != 108411 {
		t.Errorf("slot on the new day = %d, want 108411", got)
	}
}

func TestSubmit_SuccessRefreshesDay(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{catalog: personalCatalog}
	notes := &recordingNotifier{}
	s := newTestSession(remote, func(c *Config) { c.Notifier = notes })
	if _, err := s.LoadCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDate(ctx, testDate); err != nil {
		t.Fatal(err)
	}
	_ = s.AssignJob(ctx, 0, 108411)
	_ = s.MarkDayOff(ctx, 1)

	fetchesBefore := remote.fetches
	result, err := s.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.SuccessCount != 2 || result.FailureCount != 0 {
		t.Errorf("result = %d/%d, want 2/0", result.SuccessCount, result.FailureCount)
	}
	if remote.fetches != fetchesBefore+1 {
		t.Errorf("history fetched %d times after submit, want 1", remote.fetches-fetchesBefore)
	}
	if s.PendingCount() != 0 {
		t.Errorf("PendingCount after refresh = %d, want 0", s.PendingCount())
	}
	slots := s.Slots()
	if !slots[0].IsPersisted() || !slots[1].IsDayOff || !slots[1].IsPersisted() {
		t.Errorf("submitted slots not reloaded as persisted: %+v %+v", slots[0], slots[1])
	}
	if len(notes.texts) != 1 || notes.texts[0] != fmt.Sprintf("slotsheet %s: 2 submitted", testDate) {
		t.Errorf("notifications = %v", notes.texts)
	}
}

func TestSubmit_FailureKeepsEdits(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{catalog: personalCatalog}
	s := newTestSession(remote)
	if _, err := s.LoadCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDate(ctx, testDate); err != nil {
		t.Fatal(err)
	}
	_ = s.AssignJob(ctx, 0, 108411)
	_ = s.AssignJob(ctx, 1, 108411)
	remote.submitErr = fmt.Errorf("%w: duplicate", apperrors.ErrRemoteRejected)

	fetchesBefore := remote.fetches
	result, err := s.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.FailureCount != 2 {
		t.Errorf("FailureCount = %d, want 2", result.FailureCount)
	}
	if remote.fetches != fetchesBefore {
		t.Error("day was refreshed after a failed batch")
	}
	if s.PendingCount() != 2 {
		t.Errorf("PendingCount = %d, want 2", s.PendingCount())
	}
}

func TestSubmit_NothingPending(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	notes := &recordingNotifier{}
	s := newTestSession(remote, func(c *Config) { c.Notifier = notes })
	if _, err := s.SelectDate(ctx, testDate); err != nil {
		t.Fatal(err)
	}

	result, err := s.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !result.NothingToSubmit {
		t.Error("expected NothingToSubmit")
	}
	if len(notes.texts) != 0 {
		t.Errorf("unexpected notification %v", notes.texts)
	}
}

func TestAutoFill(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(&fakeRemote{catalog: personalCatalog})
	if _, err := s.SelectDate(ctx, testDate); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AutoFill(); !errors.Is(err, autofill.ErrEmptyCatalog) {
		t.Errorf("err = %v, want ErrEmptyCatalog before the catalog is loaded", err)
	}

	if _, err := s.LoadCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	result, err := s.AutoFill()
	if err != nil {
		t.Fatalf("AutoFill failed: %v", err)
	}
	if result.Filled != 13 {
		t.Errorf("Filled = %d, want 13", result.Filled)
	}
	if s.PendingCount() != 13 {
		t.Errorf("PendingCount = %d, want 13", s.PendingCount())
	}
}

func TestShakeFill(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(&fakeRemote{catalog: personalCatalog})
	if _, err := s.LoadCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDate(ctx, testDate); err != nil {
		t.Fatal(err)
	}

	t0 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	src := motion.NewChannelSource(4)
	src.Push(motion.Sample{X: 3, At: t0})
	src.Push(motion.Sample{X: 3, At: t0.Add(2 * time.Second)})

	var shakes []int
	outcome, result, err := s.ShakeFill(ctx, src, func(n int) { shakes = append(shakes, n) })
	if err != nil {
		t.Fatalf("ShakeFill failed: %v", err)
	}
	if outcome != motion.OutcomeFired {
		t.Errorf("outcome = %s, want fired", outcome)
	}
	if len(shakes) != 2 {
		t.Errorf("shakes = %v, want two callbacks", shakes)
	}
	if result.Filled == 0 || s.PendingCount() != result.Filled {
		t.Errorf("Filled = %d, PendingCount = %d", result.Filled, s.PendingCount())
	}
}

func TestShakeFill_CancelledLeavesSlots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newTestSession(&fakeRemote{catalog: personalCatalog})
	if _, err := s.LoadCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDate(ctx, testDate); err != nil {
		t.Fatal(err)
	}

	cancel()
	outcome, result, err := s.ShakeFill(ctx, motion.NewChannelSource(1), nil)
	if err != nil {
		t.Fatalf("ShakeFill failed: %v", err)
	}
	if outcome != motion.OutcomeCancelled {
		t.Errorf("outcome = %s, want cancelled", outcome)
	}
	if result.Filled != 0 || s.PendingCount() != 0 {
		t.Errorf("slots changed after cancellation: filled %d, pending %d", result.Filled, s.PendingCount())
	}
}
