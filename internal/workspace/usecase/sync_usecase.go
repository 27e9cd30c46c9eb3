package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"worksync-backend/internal/workspace/domain"
	"worksync-backend/internal/workspace/repository"
	"worksync-backend/internal/workspace/transform"
)

// Options configures the sync orchestrator. Zero fields pick the default.
type Options struct {
	CacheTimeout     time.Duration // staleness gate, default 30m
	InitialWeeks     int           // weeks synced before GetData returns, default 2
	MaxWeeks         int           // backfill horizon, default 26 (~6 months)
	BackfillDelay    time.Duration // throttle between background weeks, default 500ms
	NotifyEveryWeeks int           // cache refresh cadence during backfill, default 3
	ContactLimit     int           // result cap for contact-like fetches, default 200
	BackgroundLoad   bool          // continue backfill past the initial window
}

func (o Options) withDefaults() Options {
	if o.CacheTimeout <= 0 {
		o.CacheTimeout = 30 * time.Minute
	}
	if o.InitialWeeks <= 0 {
		o.InitialWeeks = 2
	}
	if o.MaxWeeks <= 0 {
		o.MaxWeeks = 26
	}
	if o.BackfillDelay == 0 {
		o.BackfillDelay = 500 * time.Millisecond
	} else if o.BackfillDelay < 0 {
		// negative disables the throttle
		o.BackfillDelay = 0
	}
	if o.NotifyEveryWeeks <= 0 {
		o.NotifyEveryWeeks = 3
	}
	if o.ContactLimit <= 0 {
		o.ContactLimit = 200
	}
	return o
}

// workspaceUsecase implements WorkspaceUsecase, hosting one engine per
// initialized user.
type workspaceUsecase struct {
	repo     repository.WorkspaceRepository
	provider domain.WorkspaceProvider
	opts     Options

	mu      sync.Mutex
	engines map[string]*userEngine
}

// NewWorkspaceUsecase creates the sync engine host. A missing adapter or
// provider is a construction failure, not something to absorb later.
func NewWorkspaceUsecase(repo repository.WorkspaceRepository, provider domain.WorkspaceProvider, opts Options) (WorkspaceUsecase, error) {
	if repo == nil {
		return nil, fmt.Errorf("workspace usecase: storage adapter is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("workspace usecase: workspace provider is required")
	}
	return &workspaceUsecase{
		repo:     repo,
		provider: provider,
		opts:     opts.withDefaults(),
		engines:  make(map[string]*userEngine),
	}, nil
}

func (u *workspaceUsecase) Initialize(userID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.engines[userID]; ok {
		return nil
	}
	u.engines[userID] = newUserEngine(userID, u.repo, u.provider, u.opts)
	return nil
}

func (u *workspaceUsecase) engine(userID string) (*userEngine, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	e, ok := u.engines[userID]
	return e, ok
}

func (u *workspaceUsecase) GetData(ctx context.Context, userID string, forceRefresh bool) (domain.UnifiedSnapshot, error) {
	e, ok := u.engine(userID)
	if !ok {
		return domain.UnifiedSnapshot{}, ErrNotInitialized
	}
	return e.getData(ctx, forceRefresh), nil
}

func (u *workspaceUsecase) Subscribe(userID, subscriberID string, callback func(domain.UnifiedSnapshot)) (func(), error) {
	e, ok := u.engine(userID)
	if !ok {
		return nil, ErrNotInitialized
	}
	return e.subscribe(subscriberID, callback), nil
}

func (u *workspaceUsecase) LoadMoreWeeks(ctx context.Context, userID string, n int) error {
	e, ok := u.engine(userID)
	if !ok {
		return ErrNotInitialized
	}
	return e.loadMoreWeeks(ctx, n)
}

func (u *workspaceUsecase) ClearCache(ctx context.Context, userID string) error {
	e, ok := u.engine(userID)
	if !ok {
		return ErrNotInitialized
	}
	return e.clearCache(ctx)
}

func (u *workspaceUsecase) Close() {
	u.mu.Lock()
	engines := make([]*userEngine, 0, len(u.engines))
	for _, e := range u.engines {
		engines = append(engines, e)
	}
	u.mu.Unlock()

	for _, e := range engines {
		e.close()
	}
}

// userEngine is the sync orchestrator for one user session. The snapshot is
// the only shared mutable state; it is guarded by mu and replaced whole-field,
// never torn.
type userEngine struct {
	userID   string
	repo     repository.WorkspaceRepository
	provider domain.WorkspaceProvider
	opts     Options
	registry *subscriberRegistry

	mu         sync.Mutex
	snapshot   domain.UnifiedSnapshot
	inFlight   bool
	nextOffset int
	horizon    int

	bgCtx    context.Context
	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

func newUserEngine(userID string, repo repository.WorkspaceRepository, provider domain.WorkspaceProvider, opts Options) *userEngine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &userEngine{
		userID:   userID,
		repo:     repo,
		provider: provider,
		opts:     opts,
		registry: newSubscriberRegistry(),
		horizon:  opts.MaxWeeks,
		bgCtx:    ctx,
		bgCancel: cancel,
	}
	e.snapshot.Progress = domain.LoadingProgress{
		TotalWeeks:  opts.MaxWeeks,
		HasMoreData: true,
	}
	return e
}

func (e *userEngine) close() {
	e.bgCancel()
	e.bgWG.Wait()
}

// current returns an independent copy of the snapshot.
func (e *userEngine) current() domain.UnifiedSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot.Clone()
}

func (e *userEngine) mutate(fn func(*domain.UnifiedSnapshot)) {
	e.mu.Lock()
	fn(&e.snapshot)
	e.mu.Unlock()
}

func (e *userEngine) notify() {
	e.registry.notifyAll(e.current())
}

func (e *userEngine) subscribe(id string, callback func(domain.UnifiedSnapshot)) func() {
	unsubscribe := e.registry.subscribe(id, callback)
	// Replay once, synchronously, so a late subscriber is never blind until
	// the next sync cycle.
	invokeSubscriber(id, callback, e.current())
	return unsubscribe
}

// beginSync acquires the single-flight guard for this user.
func (e *userEngine) beginSync() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return false
	}
	e.inFlight = true
	return true
}

func (e *userEngine) endSync() {
	e.mu.Lock()
	e.inFlight = false
	e.mu.Unlock()
}

// getData serves the cached snapshot immediately and runs a sync cycle when
// the cache is stale. Sync failures degrade to "cache did not get fresher";
// they never propagate to the caller.
func (e *userEngine) getData(ctx context.Context, forceRefresh bool) domain.UnifiedSnapshot {
	e.mutate(func(s *domain.UnifiedSnapshot) { s.IsLoading = true })
	e.notify()

	// Previously cached data appears instantly, before any remote call.
	e.reloadCache(ctx)
	e.notify()

	status, err := e.repo.GetSyncStatus(ctx, e.userID)
	if err != nil {
		log.Printf("[Sync] reading sync status for user %s: %v", e.userID, err)
	}

	shouldSync := forceRefresh || status == nil || time.Since(status.MostRecentSync()) > e.opts.CacheTimeout
	if status != nil && !status.SyncEnabled {
		shouldSync = false
	}
	if !shouldSync {
		e.mutate(func(s *domain.UnifiedSnapshot) { s.IsLoading = false })
		e.notify()
		return e.current()
	}

	if !e.beginSync() {
		// A sync for this user is already underway; it owns the loading
		// flags, so serve the current snapshot untouched.
		return e.current()
	}

	e.runSync(ctx)
	return e.current()
}

// runSync executes one full sync cycle: static reference data, the initial
// progressive window, then optional background continuation. The single-flight
// guard is released here, or by the background goroutine when one is spawned.
func (e *userEngine) runSync(ctx context.Context) {
	backgrounded := false
	defer func() {
		if !backgrounded {
			e.endSync()
		}
	}()

	e.staticSync(ctx)

	e.mu.Lock()
	e.nextOffset = 0
	e.snapshot.Progress = domain.LoadingProgress{
		TotalWeeks:  e.horizon,
		HasMoreData: true,
	}
	initialWeeks := e.opts.InitialWeeks
	if initialWeeks > e.horizon {
		initialWeeks = e.horizon
	}
	e.mu.Unlock()

	for offset := 0; offset < initialWeeks; offset++ {
		e.syncWeek(ctx, offset)
		e.setNextOffset(offset + 1)
		// Reload and notify after every initial week; the first pass is the
		// first-paint guarantee.
		e.reloadCache(ctx)
		e.notify()
	}

	now := time.Now()
	update := repository.SyncStatusUpdate{
		LastEmailsSync:   &now,
		LastContactsSync: &now,
		LastMeetingsSync: &now,
		LastFoldersSync:  &now,
	}
	if err := e.repo.UpdateSyncStatus(ctx, e.userID, update); err != nil {
		log.Printf("[Sync] updating sync status for user %s: %v", e.userID, err)
	}

	e.mutate(func(s *domain.UnifiedSnapshot) {
		s.IsLoading = false
		if e.nextOffsetLocked() >= e.horizon {
			s.Progress.HasMoreData = false
		}
	})
	e.notify()

	if e.opts.BackgroundLoad && e.currentNextOffset() < e.currentHorizon() {
		backgrounded = true
		e.bgWG.Add(1)
		go func() {
			defer e.bgWG.Done()
			defer e.endSync()
			e.backfillLoop(e.bgCtx)
		}()
	}
}

// staticSync refreshes reference data: folders first, so email folder
// references are meaningful to consumers, then the three contact-like
// collections in parallel. Any one of them may fail without affecting the
// others; the cache keeps whatever it already had for that type.
func (e *userEngine) staticSync(ctx context.Context) {
	folders, err := e.provider.GetFolders(ctx)
	if err != nil {
		log.Printf("[Sync] folder fetch failed for user %s, skipping this round: %v", e.userID, err)
	} else if len(folders) > 0 {
		if err := e.repo.SaveFolders(ctx, e.userID, folders); err != nil {
			log.Printf("[Sync] persisting folders for user %s: %v", e.userID, err)
		}
	}

	fetches := []struct {
		name   string
		source string
		fetch  func(context.Context, int) ([]domain.RawRecord, error)
	}{
		{"contacts", domain.ContactSourceDirectory, e.provider.GetContacts},
		{"people", domain.ContactSourceSuggested, e.provider.GetPeople},
		{"users", domain.ContactSourceUser, e.provider.GetUsers},
	}

	var wg sync.WaitGroup
	for _, f := range fetches {
		wg.Add(1)
		go func(name, source string, fetch func(context.Context, int) ([]domain.RawRecord, error)) {
			defer wg.Done()
			records, err := fetch(ctx, e.opts.ContactLimit)
			if err != nil {
				log.Printf("[Sync] %s fetch failed for user %s, skipping this round: %v", name, e.userID, err)
				return
			}
			if len(records) == 0 {
				return
			}
			if err := e.repo.SaveContacts(ctx, e.userID, records, source); err != nil {
				log.Printf("[Sync] persisting %s for user %s: %v", name, e.userID, err)
			}
		}(f.name, f.source, f.fetch)
	}
	wg.Wait()

	e.reloadCache(ctx)
	e.notify()
}

// syncWeek fetches and persists one progressive window: emails and meetings
// for the week at offset, in parallel. A failed fetch counts as zero records
// for that week; progress always advances. Returns the number of records seen
// and whether any fetch failed, so callers can tell a failed week from a
// genuinely empty one.
func (e *userEngine) syncWeek(ctx context.Context, offset int) (int, bool) {
	start, end := weekRange(time.Now(), offset)
	label := weekLabel(start)

	e.mutate(func(s *domain.UnifiedSnapshot) {
		s.Progress.CurrentWeek = label
		s.Progress.IsLoadingWeek = true
	})

	var (
		wg          sync.WaitGroup
		emails      []domain.RawRecord
		meetings    []domain.RawRecord
		emailsErr   error
		meetingsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		records, err := e.provider.GetEmails(ctx, start, end)
		if err != nil {
			log.Printf("[Sync] email fetch for week %s failed for user %s: %v", label, e.userID, err)
			emailsErr = err
			return
		}
		emails = records
	}()
	go func() {
		defer wg.Done()
		records, err := e.provider.GetMeetings(ctx, start, end)
		if err != nil {
			log.Printf("[Sync] meeting fetch for week %s failed for user %s: %v", label, e.userID, err)
			meetingsErr = err
			return
		}
		meetings = records
	}()
	wg.Wait()

	if len(emails) > 0 {
		if err := e.repo.SaveEmails(ctx, e.userID, emails); err != nil {
			log.Printf("[Sync] persisting emails for week %s, user %s: %v", label, e.userID, err)
		}
	}
	if len(meetings) > 0 {
		if err := e.repo.SaveMeetings(ctx, e.userID, meetings); err != nil {
			log.Printf("[Sync] persisting meetings for week %s, user %s: %v", label, e.userID, err)
		}
	}

	e.mutate(func(s *domain.UnifiedSnapshot) {
		s.Progress.WeeksLoaded++
		s.Progress.IsLoadingWeek = false
	})
	return len(emails) + len(meetings), emailsErr != nil || meetingsErr != nil
}

// backfillLoop continues the week-windowed backfill from the initial window
// to the horizon, newest first, throttled between weeks. The subscriber-
// visible cache is refreshed every few weeks rather than after every one.
func (e *userEngine) backfillLoop(ctx context.Context) {
	sinceNotify := 0
	for {
		offset := e.currentNextOffset()
		if offset >= e.currentHorizon() {
			break
		}

		if e.opts.BackfillDelay > 0 {
			select {
			case <-ctx.Done():
				log.Printf("[Sync] background backfill cancelled for user %s at week offset %d", e.userID, offset)
				return
			case <-time.After(e.opts.BackfillDelay):
			}
		} else if ctx.Err() != nil {
			return
		}

		records, failed := e.syncWeek(ctx, offset)
		e.setNextOffset(offset + 1)

		sinceNotify++
		if sinceNotify >= e.opts.NotifyEveryWeeks {
			e.reloadCache(ctx)
			e.notify()
			sinceNotify = 0
		}

		if records == 0 && !failed {
			// The remote has nothing older; stop enlarging the window. A
			// failed week says nothing about older ones, so keep going.
			e.mutate(func(s *domain.UnifiedSnapshot) { s.Progress.HasMoreData = false })
			break
		}
	}

	e.mutate(func(s *domain.UnifiedSnapshot) {
		// A getData that bounced off the guard may have raised IsLoading;
		// nothing is loading once the backfill ends.
		s.IsLoading = false
		if e.nextOffsetLocked() >= e.horizon {
			s.Progress.HasMoreData = false
		}
	})
	e.reloadCache(ctx)
	e.notify()
}

// loadMoreWeeks extends the horizon by n weeks and backfills them with the
// same week-fetch primitive and notify discipline as the background loop.
func (e *userEngine) loadMoreWeeks(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	if !e.beginSync() {
		return ErrSyncInFlight
	}
	defer e.endSync()

	e.mu.Lock()
	from := e.nextOffset
	target := from + n
	if target > e.horizon {
		e.horizon = target
	}
	e.snapshot.Progress.TotalWeeks = e.horizon
	e.snapshot.Progress.HasMoreData = true
	e.snapshot.IsLoading = true
	e.mu.Unlock()
	e.notify()

	sinceNotify := 0
	for offset := from; offset < target; offset++ {
		if ctx.Err() != nil {
			break
		}
		if e.opts.BackfillDelay > 0 && offset > from {
			select {
			case <-ctx.Done():
			case <-time.After(e.opts.BackfillDelay):
			}
			if ctx.Err() != nil {
				break
			}
		}
		e.syncWeek(ctx, offset)
		e.setNextOffset(offset + 1)
		sinceNotify++
		if sinceNotify >= e.opts.NotifyEveryWeeks {
			e.reloadCache(ctx)
			e.notify()
			sinceNotify = 0
		}
	}

	e.mutate(func(s *domain.UnifiedSnapshot) {
		s.IsLoading = false
		if e.nextOffsetLocked() >= e.horizon {
			s.Progress.HasMoreData = false
		}
	})
	e.reloadCache(ctx)
	e.notify()
	return nil
}

// clearCache wipes the persisted collections and resets the in-memory
// snapshot to empty. Cached data is gone even if one of the table deletes
// failed; the error reports that the wipe was incomplete.
func (e *userEngine) clearCache(ctx context.Context) error {
	err := e.repo.ClearAll(ctx, e.userID)

	e.mu.Lock()
	e.horizon = e.opts.MaxWeeks
	e.nextOffset = 0
	e.snapshot = domain.UnifiedSnapshot{
		Progress: domain.LoadingProgress{
			TotalWeeks:  e.opts.MaxWeeks,
			HasMoreData: true,
		},
	}
	e.mu.Unlock()
	e.notify()
	return err
}

// reloadCache rebuilds the snapshot collections from the storage adapter.
// A failed load keeps the previously cached collection instead of wiping it.
func (e *userEngine) reloadCache(ctx context.Context) {
	now := time.Now()

	var (
		emailViews   []domain.EmailView
		contactViews []domain.ContactView
		meetingViews []domain.MeetingView
		folderViews  []domain.FolderView

		emailsOK, contactsOK, meetingsOK, foldersOK bool
	)

	if emails, err := e.repo.LoadEmails(ctx, e.userID); err != nil {
		log.Printf("[Sync] loading cached emails for user %s: %v", e.userID, err)
	} else {
		emailViews = make([]domain.EmailView, 0, len(emails))
		for _, email := range emails {
			emailViews = append(emailViews, transform.EmailToView(email, now))
		}
		emailsOK = true
	}

	if contacts, err := e.repo.LoadContacts(ctx, e.userID); err != nil {
		log.Printf("[Sync] loading cached contacts for user %s: %v", e.userID, err)
	} else {
		contactViews = make([]domain.ContactView, 0, len(contacts))
		for _, contact := range contacts {
			contactViews = append(contactViews, transform.ContactToView(contact))
		}
		contactsOK = true
	}

	if meetings, err := e.repo.LoadMeetings(ctx, e.userID); err != nil {
		log.Printf("[Sync] loading cached meetings for user %s: %v", e.userID, err)
	} else {
		meetingViews = make([]domain.MeetingView, 0, len(meetings))
		for _, meeting := range meetings {
			meetingViews = append(meetingViews, transform.MeetingToView(meeting, now))
		}
		meetingsOK = true
	}

	if folders, err := e.repo.LoadFolders(ctx, e.userID); err != nil {
		log.Printf("[Sync] loading cached folders for user %s: %v", e.userID, err)
	} else {
		folderViews = make([]domain.FolderView, 0, len(folders))
		for _, folder := range folders {
			folderViews = append(folderViews, transform.FolderToView(folder))
		}
		foldersOK = true
	}

	e.mutate(func(s *domain.UnifiedSnapshot) {
		if emailsOK {
			s.Emails = emailViews
		}
		if contactsOK {
			s.Contacts = contactViews
		}
		if meetingsOK {
			s.Meetings = meetingViews
		}
		if foldersOK {
			s.Folders = folderViews
		}
	})
}

func (e *userEngine) setNextOffset(offset int) {
	e.mu.Lock()
	if offset > e.nextOffset {
		e.nextOffset = offset
	}
	e.mu.Unlock()
}

func (e *userEngine) currentNextOffset() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextOffset
}

func (e *userEngine) currentHorizon() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.horizon
}

// nextOffsetLocked reads nextOffset while e.mu is already held by mutate.
func (e *userEngine) nextOffsetLocked() int {
	return e.nextOffset
}
