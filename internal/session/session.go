// Package session owns the mutable simulation state. All mutation goes
// through the Session's named transitions; callers elsewhere only ever see
// snapshots.
package session

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sitescout/sitesim/internal/model"
)

// ErrSiteBuilt is returned when selecting a site that already carries an
// installation.
var ErrSiteBuilt = eris.New("session: site already has an installation")

// Config holds the simulation tunables.
type Config struct {
	StartingBudget int
	BuildDuration  int // simulated days consumed per build
	HistorySize    int // recently-viewed bound
}

// DefaultConfig returns the standard simulation parameters.
func DefaultConfig() Config {
	return Config{
		StartingBudget: 10_000_000,
		BuildDuration:  30,
		HistorySize:    3,
	}
}

// Session is a single simulation run. Completion callbacks from concurrent
// resolutions funnel through the mutex, so every transition is observed
// whole or not at all.
type Session struct {
	mu  sync.Mutex
	cfg Config

	budget  int
	day     int
	score   float64
	envCost float64

	installations []model.Installation
	builtSiteIDs  map[string]bool

	selected *model.EnrichedSite
	recent   []model.EnrichedSite
	note     *model.Notification

	// generation sequences selection requests so that overlapping
	// resolutions resolve deterministically: only the latest issued
	// generation may apply its result.
	generation int64

	lastInstallID int64
}

// New creates a Session with the configured starting state.
func New(cfg Config) *Session {
	if cfg.StartingBudget <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.BuildDuration <= 0 {
		cfg.BuildDuration = 30
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 3
	}
	return &Session{
		cfg:          cfg,
		budget:       cfg.StartingBudget,
		day:          1,
		builtSiteIDs: make(map[string]bool),
	}
}

// Snapshot returns a copy of the current state. Slices are copied so the
// caller cannot reach back into session internals.
func (s *Session) Snapshot() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := model.SessionState{
		Budget:                      s.budget,
		Day:                         s.day,
		CumulativeScore:             s.score,
		CumulativeEnvironmentalCost: s.envCost,
		Installations:               make([]model.Installation, len(s.installations)),
		RecentlyViewed:              make([]model.EnrichedSite, len(s.recent)),
	}
	copy(state.Installations, s.installations)
	copy(state.RecentlyViewed, s.recent)

	if s.selected != nil {
		sel := *s.selected
		state.SelectedSite = &sel
	}
	if s.note != nil {
		n := *s.note
		state.Notification = &n
	}
	return state
}

// BeginSelection registers intent to select the given site and returns the
// generation token the eventual resolution must present. Sites that already
// carry an installation are not selectable.
func (s *Session) BeginSelection(siteID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.builtSiteIDs[siteID] {
		return 0, ErrSiteBuilt
	}
	s.generation++
	return s.generation, nil
}

// ApplyResolution installs a resolved site as the current selection. Stale
// generations are dropped: if a newer selection was issued while this
// resolution was in flight, the newer one wins regardless of completion
// order. Results for sites built in the meantime are dropped too.
// Returns whether the result was applied.
func (s *Session) ApplyResolution(generation int64, site model.EnrichedSite, degraded bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return false
	}
	if s.builtSiteIDs[site.ID] {
		// A build landed while this resolution was in flight; built sites
		// are not selectable, so the result is dropped.
		return false
	}

	if s.selected != nil && s.selected.ID != site.ID {
		s.pushRecent(*s.selected)
	}
	s.dropFromRecent(site.ID)

	sel := site
	s.selected = &sel

	if degraded {
		s.note = &model.Notification{
			Type:    model.NotificationError,
			Message: "Site details are unavailable right now. Showing estimated values.",
		}
	} else {
		s.note = nil
	}
	return true
}

// ClearSelection drops the current selection, if any.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Notify replaces the live notification.
func (s *Session) Notify(kind model.NotificationType, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.note = &model.Notification{Type: kind, Message: message}
}

// DismissNotification clears the live notification, if any.
func (s *Session) DismissNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.note = nil
}

// nextInstallationID returns a monotonic millisecond timestamp. Two builds
// in the same millisecond still get distinct, increasing ids.
func (s *Session) nextInstallationID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastInstallID {
		id = s.lastInstallID + 1
	}
	s.lastInstallID = id
	return id
}
