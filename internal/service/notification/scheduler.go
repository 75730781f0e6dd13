package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/observability"
)

const (
	defaultConcurrency   = 8
	defaultHistoryWindow = 14
	userPageSize         = 500
)

// prefLister lists and loads preference rows for the tick.
type prefLister interface {
	ListUserIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
	Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error)
}

// tickHistory reads the last send and records attempts.
type tickHistory interface {
	Append(ctx context.Context, e domain.NotificationHistoryEntry) (*domain.NotificationHistoryEntry, error)
	LastSent(ctx context.Context, userID uuid.UUID, ch domain.Channel) (*time.Time, error)
}

// entryReader reads recent health entries, most recent first.
type entryReader interface {
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HealthEntry, error)
}

// userReader resolves delivery addresses.
type userReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// insightAnalyzer derives at most one insight from entries.
type insightAnalyzer interface {
	Analyze(entries []domain.HealthEntry, now time.Time) *domain.Insight
}

// userLocker keeps overlapping ticks from processing the same user at once.
type userLocker interface {
	TryLock(ctx context.Context, userID uuid.UUID) (release func(), ok bool, err error)
}

// sender is the message-delivery provider.
type sender interface {
	Send(ctx context.Context, d domain.Delivery) error
}

// SchedulerConfig tunes the tick handler.
type SchedulerConfig struct {
	Concurrency   int
	TickBudget    time.Duration
	HistoryWindow int
}

// Skip records why a (user, channel) pair was not sent.
type Skip struct {
	UserID  uuid.UUID      `json:"user_id"`
	Channel domain.Channel `json:"channel,omitempty"`
	Reason  string         `json:"reason"`
}

// Summary aggregates one tick.
type Summary struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Users      int       `json:"users"`
	Processed  int       `json:"processed"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Errors     int       `json:"errors"`
	Unstarted  int       `json:"unstarted"`
	Skips      []Skip    `json:"skips"`
}

// Scheduler runs the per-tick decision loop over every user with preferences.
// It keeps no state between ticks.
type Scheduler struct {
	log      *slog.Logger
	prefs    prefLister
	history  tickHistory
	entries  entryReader
	users    userReader
	analyzer insightAnalyzer
	engine   *Engine
	sender   sender
	locks    userLocker
	cfg      SchedulerConfig
	clock    func() time.Time
}

// NewScheduler creates a Scheduler.
func NewScheduler(
	logger *slog.Logger,
	prefs prefLister,
	history tickHistory,
	entries entryReader,
	users userReader,
	analyzer insightAnalyzer,
	engine *Engine,
	sender sender,
	locks userLocker,
	cfg SchedulerConfig,
) *Scheduler {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = defaultHistoryWindow
	}
	return &Scheduler{
		log:      logger.With("service", "scheduler"),
		prefs:    prefs,
		history:  history,
		entries:  entries,
		users:    users,
		analyzer: analyzer,
		engine:   engine,
		sender:   sender,
		locks:    locks,
		cfg:      cfg,
		clock:    time.Now,
	}
}

// RunTick evaluates every user once for the instant now. Per-user failures
// are recorded in the summary; only a failure to list users is returned.
// Once the tick budget is spent or ctx is done no new users are started,
// while in-flight deliveries and their history writes still complete.
func (s *Scheduler) RunTick(ctx context.Context, now time.Time) (*Summary, error) {
	started := s.clock()
	sum := &Summary{StartedAt: started, Skips: []Skip{}}
	defer func() {
		observability.SchedulerTickDuration.Observe(s.clock().Sub(started).Seconds())
	}()

	userIDs, err := s.listUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("notification.RunTick: %w", err)
	}
	sum.Users = len(userIDs)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.Concurrency)

	for _, userID := range userIDs {
		g.Go(func() error {
			if s.budgetSpent(ctx, started) {
				mu.Lock()
				sum.Unstarted++
				mu.Unlock()
				observability.SchedulerUnstartedUsers.Inc()
				return nil
			}

			res := s.processUserSafe(ctx, userID, now)

			mu.Lock()
			sum.merge(res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sum.FinishedAt = s.clock()
	s.log.InfoContext(ctx, "scheduler tick finished",
		slog.Time("now", now),
		slog.Int("users", sum.Users),
		slog.Int("processed", sum.Processed),
		slog.Int("sent", sum.Sent),
		slog.Int("failed", sum.Failed),
		slog.Int("skipped", sum.Skipped),
		slog.Int("errors", sum.Errors),
		slog.Int("unstarted", sum.Unstarted),
		slog.Duration("duration", sum.FinishedAt.Sub(started)))

	return sum, nil
}

func (s *Scheduler) budgetSpent(ctx context.Context, started time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	return s.cfg.TickBudget > 0 && s.clock().Sub(started) >= s.cfg.TickBudget
}

func (s *Scheduler) listUsers(ctx context.Context) ([]uuid.UUID, error) {
	var (
		all   []uuid.UUID
		after = uuid.Nil
	)
	for {
		page, err := s.prefs.ListUserIDs(ctx, after, userPageSize)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		all = append(all, page...)
		if len(page) < userPageSize {
			return all, nil
		}
		after = page[len(page)-1]
	}
}

// userResult is the outcome of processing one user.
type userResult struct {
	sent, failed, errors int
	skips                []Skip
}

func (s *Summary) merge(r userResult) {
	s.Processed++
	s.Sent += r.sent
	s.Failed += r.failed
	s.Errors += r.errors
	s.Skipped += len(r.skips)
	s.Skips = append(s.Skips, r.skips...)
}

func (s *Scheduler) processUserSafe(ctx context.Context, userID uuid.UUID, now time.Time) (res userResult) {
	defer func() {
		if r := recover(); r != nil {
			observability.SchedulerUserPanics.Inc()
			s.log.ErrorContext(ctx, "panic while processing user",
				slog.String("user_id", userID.String()),
				slog.Any("panic", r))
			res.errors++
			res.skips = append(res.skips, Skip{UserID: userID, Reason: ReasonPanic})
		}
	}()
	s.processUser(ctx, userID, now, &res)
	return res
}

// userState lazily loads what a user's channels share.
type userState struct {
	id       uuid.UUID
	analyzed bool
	insight  *domain.Insight
	noData   bool
	user     *domain.User
}

// processUser records outcomes into res as it goes, so channels finished
// before a panic stay counted.
func (s *Scheduler) processUser(ctx context.Context, userID uuid.UUID, now time.Time, res *userResult) {
	skipUser := func(ch domain.Channel, reason string) {
		res.skips = append(res.skips, Skip{UserID: userID, Channel: ch, Reason: reason})
		observability.NotificationsSkipped.WithLabelValues(reason).Inc()
	}

	release, locked, err := s.locks.TryLock(ctx, userID)
	if err != nil {
		s.log.ErrorContext(ctx, "lock user",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		res.errors++
		skipUser("", ReasonLockError)
		return
	}
	if !locked {
		skipUser("", ReasonBusy)
		return
	}
	defer release()

	pref, err := s.prefs.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return
		}
		s.log.ErrorContext(ctx, "load preferences",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		res.errors++
		skipUser("", ReasonPreferenceError)
		return
	}

	st := &userState{id: userID}
	for _, ch := range domain.AllChannels {
		if d, ok := s.engine.ScheduleGate(*pref, ch, now); !ok {
			skipUser(ch, d.Reason)
			continue
		}

		last, err := s.history.LastSent(ctx, userID, ch)
		if err != nil {
			s.log.ErrorContext(ctx, "load last send",
				slog.String("user_id", userID.String()),
				slog.String("channel", ch.String()),
				slog.String("error", err.Error()))
			res.errors++
			skipUser(ch, ReasonHistoryError)
			continue
		}
		if d, ok := s.engine.FloorGate(last, now); !ok {
			skipUser(ch, d.Reason)
			continue
		}

		s.analyze(ctx, st, now)
		d := s.engine.Compose(*pref, ch, st.insight, st.noData)
		if !d.Send {
			skipUser(ch, d.Reason)
			continue
		}

		if st.user == nil {
			u, err := s.users.GetByID(ctx, userID)
			if err != nil {
				s.log.ErrorContext(ctx, "load user",
					slog.String("user_id", userID.String()),
					slog.String("error", err.Error()))
				res.errors++
				skipUser(ch, ReasonUserError)
				continue
			}
			st.user = u
		}
		recipient := st.user.Recipient(ch)
		if recipient == "" {
			skipUser(ch, ReasonNoRecipient)
			continue
		}

		status, herr := s.deliver(ctx, userID, ch, recipient, d.Message, now)
		if status == domain.DeliverySent {
			res.sent++
		} else {
			res.failed++
		}
		if herr != nil {
			res.errors++
		}
	}
}

func (s *Scheduler) analyze(ctx context.Context, st *userState, now time.Time) {
	if st.analyzed {
		return
	}
	st.analyzed = true

	entries, err := s.entries.ListRecent(ctx, st.id, s.cfg.HistoryWindow)
	if err != nil {
		s.log.WarnContext(ctx, "health entries unavailable",
			slog.String("user_id", st.id.String()),
			slog.String("error", err.Error()))
		st.noData = true
		return
	}
	st.insight = s.analyzer.Analyze(entries, now)
}

// deliver makes exactly one delivery attempt and writes exactly one history
// entry. Both run on a context that outlives tick cancellation.
func (s *Scheduler) deliver(
	ctx context.Context,
	userID uuid.UUID,
	ch domain.Channel,
	recipient string,
	msg *domain.Insight,
	now time.Time,
) (domain.DeliveryStatus, error) {
	dctx := context.WithoutCancel(ctx)

	status := domain.DeliverySent
	err := s.send(dctx, domain.Delivery{
		UserID:    userID,
		Channel:   ch,
		Recipient: recipient,
		Type:      msg.Type,
		Priority:  msg.Priority,
		Title:     msg.Title,
		Body:      msg.Message,
		ActionURL: msg.ActionURL,
	})
	if err != nil {
		status = domain.DeliveryFailed
		s.log.WarnContext(ctx, "notification delivery failed",
			slog.String("user_id", userID.String()),
			slog.String("channel", ch.String()),
			slog.String("error", err.Error()))
	}
	observability.NotificationsDelivered.WithLabelValues(ch.String(), string(status)).Inc()

	_, herr := s.history.Append(dctx, domain.NotificationHistoryEntry{
		UserID:  userID,
		Channel: ch,
		Type:    msg.Type,
		Title:   msg.Title,
		Message: msg.Message,
		Status:  status,
		SentAt:  now,
	})
	if herr != nil {
		s.log.ErrorContext(ctx, "write notification history",
			slog.String("user_id", userID.String()),
			slog.String("channel", ch.String()),
			slog.String("status", string(status)),
			slog.String("error", herr.Error()))
	}

	return status, herr
}

// send calls the provider and turns a provider panic into a failed attempt.
func (s *Scheduler) send(ctx context.Context, d domain.Delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panic: %v", r)
		}
	}()
	return s.sender.Send(ctx, d)
}
