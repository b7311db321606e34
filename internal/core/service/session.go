package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
	"github.com/Mesbahzade/tdesktop/internal/reactive"
	"github.com/Mesbahzade/tdesktop/internal/storage"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/logger"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/metric"
)

// DefaultSaveDelay is the debounce delay used by SaveSettingsDelayed when
// no delay is configured.
const DefaultSaveDelay = time.Second

// PrivacySaver pushes privacy rules to the server. Sessions call it when
// migrating a retired local setting into a server-side rule.
type PrivacySaver interface {
	SavePhoneP2PDisallowAll(ctx context.Context) error
}

// SessionConfig holds the collaborators of a Session.
type SessionConfig struct {
	// UserID identifies the account. Required.
	UserID string

	// Store persists the settings blob. Required.
	Store storage.SettingsStore

	// Executor runs settings writes. When nil the session starts and owns
	// a Loop.
	Executor Executor

	Logger  logger.Logger
	Metrics *metric.Registry

	// SaveDelay is the default debounce delay. Default: DefaultSaveDelay.
	SaveDelay time.Duration

	// Limiter spaces consecutive writes. Nil means no spacing.
	Limiter *rate.Limiter

	// Privacy receives legacy privacy migrations. Optional.
	Privacy PrivacySaver

	// DisableAutoSave stops setters from scheduling saves on their own.
	DisableAutoSave bool
}

// EventKind classifies session events.
type EventKind int

const (
	// EventLoaded fires after Start hydrated the settings.
	EventLoaded EventKind = iota
	// EventChanged fires for every field changed through a setter.
	EventChanged
	// EventMoved fires after MoveSettingsFrom.
	EventMoved
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventChanged:
		return "changed"
	case EventMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Event is delivered to Subscribe observers.
type Event struct {
	Kind  EventKind
	Field string // set for EventChanged
}

// Session owns the live settings of one account together with their
// persistence.
type Session struct {
	id     string
	userID string
	store  storage.SettingsStore
	log    logger.Logger

	exec     Executor
	ownsExec *Loop

	settings  *settings.Settings
	scheduler *SaveScheduler
	privacy   PrivacySaver
	metrics   *metric.Registry
	autoSave  bool
	saveDelay atomic.Int64

	events   *reactive.EventStream[Event]
	lifetime reactive.Lifetime
	untrack  func()

	startOnce sync.Once
	closed    atomic.Bool
}

// NewSession wires a session. Call Start to load persisted settings.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.UserID == "" {
		return nil, domain.ErrMissingArgument.WithDetails("user id is required")
	}
	if cfg.Store == nil {
		return nil, domain.ErrMissingArgument.WithDetails("settings store is required")
	}

	id := ulid.Make().String()
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With("session_id", id, "account", cfg.UserID)

	s := &Session{
		id:       id,
		userID:   cfg.UserID,
		store:    cfg.Store,
		log:      log,
		exec:     cfg.Executor,
		privacy:  cfg.Privacy,
		metrics:  cfg.Metrics,
		autoSave: !cfg.DisableAutoSave,
		events:   reactive.NewEventStream[Event](),
	}
	if s.exec == nil {
		loop := NewLoop()
		loop.Start()
		s.exec, s.ownsExec = loop, loop
	}

	delay := cfg.SaveDelay
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	s.saveDelay.Store(int64(delay))

	s.settings = settings.New(settings.Options{
		Logger: log,
		OnDecode: func(report settings.DecodeReport, err error) {
			s.metrics.RecordDecode(report.Result(err))
		},
	})

	scheduler, err := NewSaveScheduler(SchedulerConfig{
		Executor:  s.exec,
		Serialize: s.settings.Serialize,
		Write: func(ctx context.Context, blob []byte) error {
			return s.store.WriteSettings(ctx, s.userID, blob)
		},
		Limiter: cfg.Limiter,
		Logger:  log,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		s.stopExecutor()
		return nil, err
	}
	s.scheduler = scheduler
	return s, nil
}

// ID returns the session instance id used for log correlation.
func (s *Session) ID() string { return s.id }

// UserID returns the account id.
func (s *Session) UserID() string { return s.userID }

// Settings returns the live settings store. Mutate it only through Do
// when the session runs on a Loop.
func (s *Session) Settings() *settings.Settings { return s.settings }

// Start loads the persisted blob into the settings. A missing blob keeps
// the defaults; a malformed one is logged and also keeps them. Start is
// effective once.
func (s *Session) Start(ctx context.Context) error {
	var startErr error
	s.startOnce.Do(func() {
		startErr = s.start(ctx)
	})
	return startErr
}

func (s *Session) start(ctx context.Context) error {
	ctx = logger.WithAccount(logger.WithSessionID(ctx, s.id), s.userID)

	blob, err := s.store.ReadSettings(ctx, s.userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.log.Info("no stored settings, using defaults")
	case err != nil:
		return domain.ErrStorageError.WithDetails("read settings").WithCause(err)
	}

	err = Run(ctx, s.exec, func() {
		if blob != nil {
			s.settings.ConstructFromSerialized(blob)
			s.scheduler.Remember(blob)
		}
		s.lifetime.Add(s.settings.Changed().Events(s.onChanged))
	})
	if err != nil {
		return err
	}

	s.untrack = s.metrics.TrackSession(s)
	s.events.Fire(Event{Kind: EventLoaded})
	s.log.Debug("session started", "bytes", len(blob))
	return nil
}

func (s *Session) onChanged(field string) {
	if s.autoSave {
		s.SaveSettingsDelayed(0)
	}
	s.events.Fire(Event{Kind: EventChanged, Field: field})
}

// Do runs fn on the session executor and waits for it. fn may read and
// mutate Settings. Do must not be called from within fn or from an event
// observer.
func (s *Session) Do(ctx context.Context, fn func(*settings.Settings)) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return Run(ctx, s.exec, func() { fn(s.settings) })
}

// SaveSettingsDelayed schedules a debounced save. A non-positive delay
// uses the configured default.
func (s *Session) SaveSettingsDelayed(delay time.Duration) {
	if delay <= 0 {
		delay = s.SaveDelay()
	}
	s.scheduler.Schedule(delay)
}

// SaveSettings schedules a save with the default delay.
func (s *Session) SaveSettings() {
	s.SaveSettingsDelayed(0)
}

// SaveSettingsNow cancels any pending save and writes immediately.
func (s *Session) SaveSettingsNow(ctx context.Context) error {
	return s.scheduler.SaveNow(ctx)
}

// SaveDelay returns the default debounce delay.
func (s *Session) SaveDelay() time.Duration {
	return time.Duration(s.saveDelay.Load())
}

// SetSaveDelay changes the default debounce delay for later schedules.
func (s *Session) SetSaveDelay(d time.Duration) {
	if d <= 0 {
		d = DefaultSaveDelay
	}
	s.saveDelay.Store(int64(d))
}

// MoveSettingsFrom adopts settings built before the session existed. If
// they carried the retired "calls peer-to-peer: nobody" value, the rule
// is pushed to the server and a save is scheduled so the retired value
// is dropped from disk.
func (s *Session) MoveSettingsFrom(ctx context.Context, other *settings.Settings) error {
	var migrate bool
	err := Run(ctx, s.exec, func() {
		s.settings.MoveFrom(other)
		migrate = s.settings.HadLegacyCallsPeerToPeerNobody()
	})
	if err != nil {
		return err
	}
	s.events.Fire(Event{Kind: EventMoved})

	if !migrate {
		return nil
	}
	if s.privacy != nil {
		if err := s.privacy.SavePhoneP2PDisallowAll(ctx); err != nil {
			s.log.Warn("legacy calls privacy migration failed", "error", err)
		}
	}
	s.SaveSettingsDelayed(0)
	return nil
}

// Subscribe registers fn for session events. Events are delivered on the
// goroutine that caused them.
func (s *Session) Subscribe(fn func(Event)) *reactive.Subscription {
	return s.events.Events(fn)
}

// SessionStats implements metric.SessionSource.
func (s *Session) SessionStats() metric.SessionStats {
	var last int64
	if t := s.scheduler.LastWrite(); !t.IsZero() {
		last = t.Unix()
	}
	return metric.SessionStats{
		Account:     s.userID,
		PendingSave: s.scheduler.Pending(),
		LastWrite:   last,
	}
}

// Close flushes a pending save, stops the scheduler and detaches
// observers. The store is not closed. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.lifetime.Destroy()
	err := s.scheduler.Flush(ctx)
	s.scheduler.Close()
	if s.untrack != nil {
		s.untrack()
	}
	s.stopExecutor()

	if err != nil {
		return domain.ErrStorageError.WithDetails("flush settings").WithCause(err)
	}
	s.log.Debug("session closed")
	return nil
}

func (s *Session) stopExecutor() {
	if s.ownsExec != nil {
		s.ownsExec.Stop()
	}
}

// ErrSessionClosed is returned by Do after Close.
var ErrSessionClosed = errors.New("service: session closed")

// AssertSession reports an internal error for a session that was never
// created, for call sites that receive one through an interface or field.
func AssertSession(s *Session) error {
	if s == nil || s.settings == nil {
		return domain.ErrInternal.WithDetails("session is not initialized")
	}
	return nil
}
