package session

import "github.com/sitescout/sitesim/internal/model"

// pushRecent prepends a site to the recently-viewed list, de-duplicated by
// id and truncated to the configured bound. Caller holds the mutex.
func (s *Session) pushRecent(site model.EnrichedSite) {
	out := make([]model.EnrichedSite, 0, s.cfg.HistorySize)
	out = append(out, site)
	for _, r := range s.recent {
		if r.ID == site.ID {
			continue
		}
		out = append(out, r)
		if len(out) == s.cfg.HistorySize {
			break
		}
	}
	s.recent = out
}

// dropFromRecent removes the given site id from the recently-viewed list so
// the current selection never shadows itself in history. Caller holds the
// mutex.
func (s *Session) dropFromRecent(siteID string) {
	out := s.recent[:0]
	for _, r := range s.recent {
		if r.ID != siteID {
			out = append(out, r)
		}
	}
	s.recent = out
}
