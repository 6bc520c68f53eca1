package session

import (
	"context"
	"fmt"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"
	"listing-web/internal/core/view"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// CookieName - cookie с идентификатором сессии посетителя
const CookieName = "listing_sid"

// Session - состояние одного посетителя: смонтированная сетка и детальная страница.
type Session struct {
	ID      string
	Listing *view.ListingView
	Detail  *view.DetailView

	lastSeen time.Time // под мьютексом Store
}

func (s *Session) unmount() {
	s.Listing.Unmount()
	s.Detail.Unmount()
}

// Config - параметры хранилища сессий
type Config struct {
	IdleTimeout time.Duration
	Listing     view.ListingConfig
}

// Store хранит сессии в памяти процесса и вытесняет простаивающие.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool

	cfg     Config
	fetcher usecases_port.GetPropertyDetailsUseCasePort
	now     func() time.Time

	cron *cron.Cron
}

func NewStore(cfg Config, fetcher usecases_port.GetPropertyDetailsUseCasePort) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		fetcher:  fetcher,
		now:      time.Now,
	}
}

// Get возвращает сессию по id и отмечает активность. Пустой или неизвестный id - новая сессия.
// created == true, если сессия создана этим вызовом.
func (s *Store) Get(id string) (sess *Session, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, fmt.Errorf("session store is closed")
	}

	if existing, ok := s.sessions[id]; ok && id != "" {
		existing.lastSeen = s.now()
		return existing, false, nil
	}

	sess = &Session{
		ID:       uuid.NewString(),
		Listing:  view.NewListingView(s.cfg.Listing),
		Detail:   view.NewDetailView(s.fetcher),
		lastSeen: s.now(),
	}
	s.sessions[sess.ID] = sess
	return sess, true, nil
}

// Touch продлевает жизнь сессии. false, если сессии уже нет.
func (s *Store) Touch(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return ok
}

// Len - количество живых сессий
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep удаляет сессии, простаивающие дольше IdleTimeout, и размонтирует их представления.
// Возвращает количество вытесненных сессий.
func (s *Store) Sweep() int {
	s.mu.Lock()
	if s.cfg.IdleTimeout <= 0 {
		s.mu.Unlock()
		return 0
	}
	deadline := s.now().Add(-s.cfg.IdleTimeout)
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(deadline) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	// Unmount ждет фоновые загрузки, поэтому вызывается вне блокировки
	for _, sess := range expired {
		sess.unmount()
	}
	return len(expired)
}

// StartSweeper регистрирует периодическую очистку по расписанию cron ("@every 1m" и т.п.).
func (s *Store) StartSweeper(schedule string, logger port.LoggerPort) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("session store is closed")
	}
	if s.cron != nil {
		return fmt.Errorf("session sweeper already started")
	}

	sweeperLogger := logger.WithFields(port.Fields{"component": "SessionSweeper"})
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if evicted := s.Sweep(); evicted > 0 {
			sweeperLogger.Info("Idle sessions evicted", port.Fields{"evicted": evicted, "remaining": s.Len()})
		}
	}); err != nil {
		return fmt.Errorf("invalid session sweep schedule %q: %w", schedule, err)
	}

	s.cron = c
	c.Start()
	sweeperLogger.Info("Session sweeper started", port.Fields{"schedule": schedule})
	return nil
}

// Close останавливает очистку и размонтирует все сессии. Повторный вызов ничего не делает.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	c := s.cron
	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	if c != nil {
		// Stop возвращает контекст, который завершается после выполнения текущих задач
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
			return fmt.Errorf("session sweeper did not stop: %w", ctx.Err())
		}
	}

	for _, sess := range all {
		sess.unmount()
	}
	return nil
}
