package notification

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

var (
	_ prefLister      = &fakePrefs{}
	_ tickHistory     = &fakeHistory{}
	_ entryReader     = &fakeEntries{}
	_ userReader      = &fakeUsers{}
	_ sender          = &fakeSender{}
	_ userLocker      = &fakeLocks{}
	_ insightAnalyzer = analyzerFunc(nil)
)

type fakePrefs struct {
	mu      sync.Mutex
	prefs   map[uuid.UUID]domain.NotificationPreference
	getErr  map[uuid.UUID]error
	listErr error
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{prefs: map[uuid.UUID]domain.NotificationPreference{}, getErr: map[uuid.UUID]error{}}
}

func (f *fakePrefs) put(p domain.NotificationPreference) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[p.UserID] = p
}

func (f *fakePrefs) ListUserIDs(_ context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]uuid.UUID, 0, len(f.prefs))
	for id := range f.prefs {
		if bytes.Compare(id[:], after[:]) > 0 {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (f *fakePrefs) Get(_ context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getErr[userID]; err != nil {
		return nil, err
	}
	p, ok := f.prefs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type fakeHistory struct {
	mu        sync.Mutex
	entries   []domain.NotificationHistoryEntry
	appendErr error
	lastErr   error
	appendCtx []context.Context
}

func (f *fakeHistory) Append(ctx context.Context, e domain.NotificationHistoryEntry) (*domain.NotificationHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCtx = append(f.appendCtx, ctx)
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	e.ID = uuid.New()
	f.entries = append(f.entries, e)
	return &e, nil
}

func (f *fakeHistory) LastSent(_ context.Context, userID uuid.UUID, ch domain.Channel) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	var last *time.Time
	for _, e := range f.entries {
		if e.UserID != userID || e.Channel != ch || e.Status != domain.DeliverySent {
			continue
		}
		if last == nil || e.SentAt.After(*last) {
			at := e.SentAt
			last = &at
		}
	}
	return last, nil
}

func (f *fakeHistory) byUser(userID uuid.UUID) []domain.NotificationHistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.NotificationHistoryEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeHistory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakeEntries struct {
	err    error
	onList func(userID uuid.UUID)
}

func (f *fakeEntries) ListRecent(_ context.Context, userID uuid.UUID, _ int) ([]domain.HealthEntry, error) {
	if f.onList != nil {
		f.onList(userID)
	}
	if f.err != nil {
		return nil, f.err
	}
	return []domain.HealthEntry{}, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[uuid.UUID]domain.User{}}
}

func (f *fakeUsers) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []domain.Delivery
	ctxs   []context.Context
	onSend func(ctx context.Context, d domain.Delivery) error
}

func (f *fakeSender) Send(ctx context.Context, d domain.Delivery) error {
	f.mu.Lock()
	f.sent = append(f.sent, d)
	f.ctxs = append(f.ctxs, ctx)
	hook := f.onSend
	f.mu.Unlock()
	if hook != nil {
		return hook(ctx, d)
	}
	return nil
}

func (f *fakeSender) deliveries() []domain.Delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sent)
}

// fakeLocks mimics per-user advisory locks held across ticks.
type fakeLocks struct {
	mu      sync.Mutex
	held    map[uuid.UUID]bool
	err     error
	granted int
}

func (f *fakeLocks) TryLock(_ context.Context, userID uuid.UUID) (func(), bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	if f.held == nil {
		f.held = map[uuid.UUID]bool{}
	}
	if f.held[userID] {
		return nil, false, nil
	}
	f.held[userID] = true
	f.granted++
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.held, userID)
	}, true, nil
}

func (f *fakeLocks) hold(userID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held == nil {
		f.held = map[uuid.UUID]bool{}
	}
	f.held[userID] = true
}

func (f *fakeLocks) heldCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.held)
}

type analyzerFunc func(entries []domain.HealthEntry, now time.Time) *domain.Insight

func (f analyzerFunc) Analyze(entries []domain.HealthEntry, now time.Time) *domain.Insight {
	return f(entries, now)
}

var errDeliveryRejected = errors.New("gateway rejected message")
