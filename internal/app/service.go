// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/matchboard/internal/adapters/feed"
	repository "github.com/okian/matchboard/internal/adapters/repository"
	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/scoring"
	"github.com/okian/matchboard/internal/domain/types"
	"github.com/okian/matchboard/pkg/logger"
	"github.com/okian/matchboard/pkg/metrics"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultMaxMatches    = 6
	defaultMaxAdvantages = 3
	projectIDLength      = 10
)

// Service implements the board workflows on top of a key-value store.
// Every operation holds mu for its whole read-modify-write cycle, so
// concurrent callers observe the serial order a single user would.
type Service struct {
	mu sync.Mutex

	store   repository.Store
	catalog *repository.Catalog
	engine  *scoring.Engine
	feeds   *feed.Renderer

	maxMatches    int
	maxAdvantages int
	seedDemo      bool

	now   func() time.Time
	newID func() (string, error)

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing store. The service owns it and closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine sets the scoring engine.
func WithEngine(e *scoring.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithFeedRenderer sets the feed renderer.
func WithFeedRenderer(r *feed.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.feeds = r
		}
	}
}

// WithMaxMatches sets how many ranked matches are returned.
func WithMaxMatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxMatches = n
		}
	}
}

// WithMaxAdvantages sets the advantage tag limit for project submissions.
func WithMaxAdvantages(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAdvantages = n
		}
	}
}

// WithSeedDemo seeds demo data on Start when the board is empty.
func WithSeedDemo(seed bool) Option {
	return func(s *Service) {
		s.seedDemo = seed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides project id generation.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a new Service with default configuration: an in-memory
// store, the default scoring engine and feed renderer.
func New(opts ...Option) *Service {
	s := &Service{
		engine:        scoring.NewEngine(),
		feeds:         feed.New(),
		maxMatches:    defaultMaxMatches,
		maxAdvantages: defaultMaxAdvantages,
		now:           time.Now,
		newID:         newProjectID,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.catalog = repository.NewCatalog(s.store, repository.WithLogger(s.logger))
	return s
}

func newProjectID() (string, error) {
	id, err := gonanoid.New(projectIDLength)
	if err != nil {
		return "", fmt.Errorf("generating project id: %w", err)
	}
	return "p_" + id, nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Discard()
	}
	return s.logger
}

// Start prepares the service and seeds demo data when configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("board")
		s.catalog = repository.NewCatalog(s.store, repository.WithLogger(s.logger))
	}

	s.logger.Info(ctx, "starting board service...",
		logger.String("store", s.store.Driver()),
		logger.Int("maxMatches", s.maxMatches),
	)

	if s.seedDemo {
		ps, err := s.catalog.Projects(ctx)
		if err != nil {
			return err
		}
		if len(ps) == 0 {
			if err := s.seedLocked(ctx); err != nil {
				return fmt.Errorf("seeding demo data: %w", err)
			}
			s.logger.Info(ctx, "demo data seeded")
		}
	}

	s.started = true
	s.logger.Info(ctx, "board service started")
	return nil
}

// Stop closes the store. The service must not be used afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Close(); err != nil {
		s.log().Warn(context.Background(), "closing store", logger.Error(err))
	}
	if s.started {
		s.log().Info(context.Background(), "board service stopped")
	}
	s.started = false
}

// Engine returns the scoring engine.
func (s *Service) Engine() *scoring.Engine { return s.engine }

// MaxAdvantages returns the submission advantage limit.
func (s *Service) MaxAdvantages() int { return s.maxAdvantages }

// GetStats returns board statistics for monitoring and refreshes the
// board gauges.
func (s *Service) GetStats(ctx context.Context) (types.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.catalog.Projects(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	pf, err := s.catalog.Profile(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	cs, _, err := s.catalog.Courses(ctx)
	if err != nil {
		return types.Stats{}, err
	}

	st := types.Stats{
		Projects:   len(ps),
		Courses:    len(cs),
		HasProfile: pf != nil,
		Store:      s.store.Driver(),
	}
	for _, p := range ps {
		if p.Favorite {
			st.Favorites++
		}
		st.Joiners += len(p.Joiners)
	}
	metrics.UpdateBoardTotals(st.Projects, st.Favorites, st.Joiners, st.Courses, st.HasProfile)
	return st, nil
}

// record tracks the outcome of a board operation.
func record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordOperation(op, outcome)
}

func findProject(ps []model.Project, id string) int {
	for i := range ps {
		if ps[i].ID == id {
			return i
		}
	}
	return -1
}
