package project

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/xianli123/rhoai-project-permission/pkg/observability"
	"github.com/xianli123/rhoai-project-permission/pkg/rbac"
)

const (
	defaultCapacity = 128
	defaultTTL      = 30 * time.Minute
)

// Registry hands out one Session per project. Sessions idle longer than
// the TTL, or pushed out by newer ones, are dropped and start over from the
// fixtures on next use.
type Registry struct {
	mu       sync.Mutex
	source   Source
	sessions *lru.LRU[string, *Session]
	prefs    *rbac.Preferences
	metrics  *observability.Metrics
	logger   logrus.FieldLogger
	clock    func() time.Time
}

type registryOptions struct {
	capacity int
	ttl      time.Duration
	prefs    *rbac.Preferences
	metrics  *observability.Metrics
	logger   logrus.FieldLogger
	clock    func() time.Time
}

// Option customizes a Registry
type Option func(*registryOptions)

// WithCapacity bounds the number of live sessions and their idle lifetime
func WithCapacity(size int, ttl time.Duration) Option {
	return func(o *registryOptions) {
		o.capacity = size
		o.ttl = ttl
	}
}

// WithMetrics records session and grant metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(o *registryOptions) {
		o.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

// WithClock sets the clock used to date new bindings
func WithClock(now func() time.Time) Option {
	return func(o *registryOptions) {
		o.clock = now
	}
}

// WithPreferences shares display preferences across sessions
func WithPreferences(p *rbac.Preferences) Option {
	return func(o *registryOptions) {
		o.prefs = p
	}
}

// NewRegistry creates a registry seeding sessions from source
func NewRegistry(source Source, opts ...Option) *Registry {
	o := registryOptions{
		capacity: defaultCapacity,
		ttl:      defaultTTL,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.prefs == nil {
		o.prefs = rbac.NewPreferences()
	}
	if o.metrics == nil {
		o.metrics = observability.NewMetrics(prometheus.NewRegistry())
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}

	r := &Registry{
		source:  source,
		prefs:   o.prefs,
		metrics: o.metrics,
		logger:  o.logger.WithField("component", "sessions"),
		clock:   o.clock,
	}
	r.sessions = lru.NewLRU[string, *Session](o.capacity, r.onEvict, o.ttl)
	return r
}

// onEvict runs inside the cache lock and must not call back into it
func (r *Registry) onEvict(projectID string, _ *Session) {
	r.metrics.SessionsEvictedTotal.Inc()
	r.logger.WithField("project_id", projectID).Debug("session dropped")
}

// Session returns the live session for projectID, creating it from the
// current source on first use
func (r *Registry) Session(projectID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions.Get(projectID); ok {
		return s, nil
	}

	p, ok := r.source.Project(projectID)
	if !ok {
		r.metrics.ProjectLookupsNotFound.Inc()
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}

	catalog := r.source.Catalog()
	store, err := r.source.NewStore(catalog)
	if err != nil {
		return nil, fmt.Errorf("seeding project %s: %w", projectID, err)
	}

	s := newSession(p, catalog, store, r.prefs, r.clock, r.metrics, r.logger)
	r.sessions.Add(projectID, s)
	r.metrics.SessionsCreatedTotal.Inc()
	r.metrics.SessionsActive.Set(float64(r.sessions.Len()))
	r.logger.WithField("project_id", projectID).Info("session created")
	return s, nil
}

// Projects lists the projects of the current source
func (r *Registry) Projects() []Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source.Projects()
}

// Reload swaps the source used for new sessions. Live sessions keep the
// catalog and principals they started with.
func (r *Registry) Reload(source Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = source
	r.logger.Info("session source reloaded")
}

// Preferences returns the process-wide display preferences
func (r *Registry) Preferences() *rbac.Preferences {
	return r.prefs
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Report refreshes the active session gauge
func (r *Registry) Report() {
	n := r.sessions.Len()
	r.metrics.SessionsActive.Set(float64(n))
	r.logger.WithField("active_sessions", n).Debug("session report")
}

// Ready reports an error when the source has no projects
func (r *Registry) Ready() error {
	if len(r.Projects()) == 0 {
		return fmt.Errorf("no projects loaded")
	}
	return nil
}
