package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adyen/productpage/internal/config"
	"github.com/adyen/productpage/internal/interaction"
)

// ErrPageNotFound is returned for page ids that were never opened, were
// closed, or expired
var ErrPageNotFound = errors.New("page not found")

// PageSession is one mounted product page and its interaction state
type PageSession struct {
	ID      string
	Machine *interaction.Machine
}

// PageService manages page sessions
type PageService interface {
	Open(ctx context.Context) (*PageSession, error)
	Get(id string) (*PageSession, error)
	Close(id string) error
}

type pageEntry struct {
	session  *PageSession
	lastSeen time.Time
}

// PageServiceImpl keeps page sessions in memory. A page lives from the render
// that opened it until it is closed or left idle past the configured timeout.
type PageServiceImpl struct {
	catalog CatalogService
	cfg     config.InteractionConfig
	clock   interaction.Clock
	logger  *zap.Logger

	mu    sync.Mutex
	pages map[string]*pageEntry
}

// NewPageService creates a page service on the wall clock
func NewPageService(catalog CatalogService, cfg config.InteractionConfig, logger *zap.Logger) *PageServiceImpl {
	return NewPageServiceWithClock(catalog, cfg, logger, interaction.RealClock{})
}

// NewPageServiceWithClock creates a page service whose sessions and expiry
// run on clock
func NewPageServiceWithClock(catalog CatalogService, cfg config.InteractionConfig, logger *zap.Logger, clock interaction.Clock) *PageServiceImpl {
	return &PageServiceImpl{
		catalog: catalog,
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		pages:   make(map[string]*pageEntry),
	}
}

// Open mounts a new page with default selections
func (s *PageServiceImpl) Open(ctx context.Context) (*PageSession, error) {
	product, err := s.catalog.Product(ctx)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	machine, err := interaction.New(product,
		interaction.WithClock(s.clock),
		interaction.WithTimings(s.cfg.AddToCartDelay, s.cfg.SuccessBannerDuration),
		interaction.WithLogger(s.logger.With(zap.String("page_id", id))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mount page: %w", err)
	}

	session := &PageSession{ID: id, Machine: machine}

	s.mu.Lock()
	s.pages[id] = &pageEntry{session: session, lastSeen: s.clock.Now()}
	open := len(s.pages)
	s.mu.Unlock()

	s.logger.Debug("page opened", zap.String("page_id", id), zap.Int("open_pages", open))
	return session, nil
}

// Get returns an open page and marks it as active
func (s *PageServiceImpl) Get(id string) (*PageSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pages[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	entry.lastSeen = s.clock.Now()
	return entry.session, nil
}

// Close unmounts a page, cancelling its pending cart transitions
func (s *PageServiceImpl) Close(id string) error {
	s.mu.Lock()
	entry, ok := s.pages[id]
	delete(s.pages, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}

	entry.session.Machine.Close()
	s.logger.Debug("page closed", zap.String("page_id", id))
	return nil
}

// Sweep closes pages not seen since now minus the idle timeout and returns
// how many were closed
func (s *PageServiceImpl) Sweep(now time.Time) int {
	cutoff := now.Add(-s.cfg.SessionIdleTimeout)

	var expired []*PageSession
	s.mu.Lock()
	for id, entry := range s.pages {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry.session)
			delete(s.pages, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.Machine.Close()
	}

	if len(expired) > 0 {
		s.logger.Info("expired idle pages", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// CloseAll unmounts every page. Open event streams end.
func (s *PageServiceImpl) CloseAll() {
	s.mu.Lock()
	pages := s.pages
	s.pages = make(map[string]*pageEntry)
	s.mu.Unlock()

	for _, entry := range pages {
		entry.session.Machine.Close()
	}
}

// Len returns the number of open pages
func (s *PageServiceImpl) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Run sweeps idle pages until ctx is done
func (s *PageServiceImpl) Run(ctx context.Context) {
	interval := s.cfg.SessionIdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.clock.Now())
		}
	}
}
