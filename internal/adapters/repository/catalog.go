package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/pkg/logger"
)

// Catalog provides typed access to the board's documents on top of a Store.
// Corrupt documents are treated as absent and logged, so a damaged key
// degrades to its default instead of blocking the board.
type Catalog struct {
	store Store
	log   logger.Logger
}

// NewCatalog wraps store.
func NewCatalog(store Store, opts ...Option) *Catalog {
	s := newSettings(opts)
	return &Catalog{store: store, log: s.logger}
}

// Store returns the underlying store.
func (c *Catalog) Store() Store { return c.store }

func (c *Catalog) read(ctx context.Context, key Key, dst any) (bool, error) {
	found, err := c.store.Read(ctx, key, dst)
	if errors.Is(err, ErrCorrupt) {
		c.log.Warn(ctx, "ignoring corrupt document", logger.String("key", string(key)), logger.Error(err))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	return found, nil
}

// Projects returns the stored projects, newest first. Missing means empty.
func (c *Catalog) Projects(ctx context.Context) ([]model.Project, error) {
	var ps []model.Project
	found, err := c.read(ctx, KeyProjects, &ps)
	if err != nil {
		return nil, err
	}
	if !found || ps == nil {
		return []model.Project{}, nil
	}
	return ps, nil
}

// SaveProjects replaces the project list.
func (c *Catalog) SaveProjects(ctx context.Context, ps []model.Project) error {
	if ps == nil {
		ps = []model.Project{}
	}
	return c.store.Write(ctx, KeyProjects, ps)
}

// Profile returns the stored profile or nil when none is saved.
func (c *Catalog) Profile(ctx context.Context) (*model.Profile, error) {
	var pf *model.Profile
	found, err := c.read(ctx, KeyProfile, &pf)
	if err != nil || !found {
		return nil, err
	}
	return pf, nil
}

// SaveProfile overwrites the profile. A nil profile removes it.
func (c *Catalog) SaveProfile(ctx context.Context, pf *model.Profile) error {
	if pf == nil {
		return c.store.Remove(ctx, KeyProfile)
	}
	return c.store.Write(ctx, KeyProfile, pf)
}

// Courses returns the stored courses. found is false when the key was never
// written, letting callers seed the catalog.
func (c *Catalog) Courses(ctx context.Context) (courses []model.Course, found bool, err error) {
	found, err = c.read(ctx, KeyCourses, &courses)
	if err != nil {
		return nil, false, err
	}
	if !found || courses == nil {
		courses = []model.Course{}
	}
	return courses, found, nil
}

// SaveCourses replaces the course list.
func (c *Catalog) SaveCourses(ctx context.Context, cs []model.Course) error {
	if cs == nil {
		cs = []model.Course{}
	}
	return c.store.Write(ctx, KeyCourses, cs)
}

// Filters returns the persisted filter state, or the zero state.
func (c *Catalog) Filters(ctx context.Context) (model.FilterState, error) {
	var f model.FilterState
	found, err := c.read(ctx, KeyFilters, &f)
	if err != nil {
		return model.FilterState{}, err
	}
	if !found {
		f = model.FilterState{}
	}
	if f.Advantages == nil {
		f.Advantages = []string{}
	}
	f.AdvMatchMode = f.Mode()
	return f, nil
}

// SaveFilters persists the filter state.
func (c *Catalog) SaveFilters(ctx context.Context, f model.FilterState) error {
	return c.store.Write(ctx, KeyFilters, f)
}

// Open returns a store for driver. path is ignored by the memory driver.
func Open(ctx context.Context, driver, path string, opts ...Option) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(opts...), nil
	case DriverSQLite:
		return OpenSQLite(ctx, path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
